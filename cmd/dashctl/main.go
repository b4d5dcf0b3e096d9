package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type cli struct {
	LogLevel string `name:"log-level" env:"DASHCTL_LOG_LEVEL" help:"Log level (debug, info, warn, error). Overrides the config file."`

	Serve    serveCmd    `cmd:"" help:"Serve the dashboard shell over HTTP and WebSocket."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a widget kind to a manifest file."`
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("dashctl"),
		kong.Description("Run and extend the Covid dashboard shell."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&app)
	ctx.FatalIfErrorf(err)
}

func newLogger(cfg LogConfig) (*zap.Logger, error) {
	if cfg.Level == "off" {
		return zap.NewNop(), nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("dashctl: invalid log level %q: %w", cfg.Level, err)
	}
	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "console"
	}
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if encoding == "console" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("dashctl: build logger: %w", err)
	}
	return logger, nil
}
