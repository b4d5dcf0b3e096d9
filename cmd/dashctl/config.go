package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the dashctl serve configuration file.
type Config struct {
	Addr               string        `yaml:"addr"`
	BasePath           string        `yaml:"base_path"`
	PreferredLanguages []string      `yaml:"preferred_languages"`
	LocalesDir         string        `yaml:"locales_dir"`
	PlayInterval       time.Duration `yaml:"play_interval"`
	SeedWidgets        bool          `yaml:"seed_widgets"`
	Manifests          []string      `yaml:"manifests"`
	Log                LogConfig     `yaml:"log"`
	Redis              RedisConfig   `yaml:"redis"`
	Dataset            DatasetConfig `yaml:"dataset"`
	Charts             ChartsConfig  `yaml:"charts"`
}

// LogConfig selects the zap level and encoding.
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// RedisConfig enables the Redis preference store when URL is set.
type RedisConfig struct {
	URL       string        `yaml:"url"`
	Namespace string        `yaml:"namespace"`
	TTL       time.Duration `yaml:"ttl"`
}

// DatasetConfig enables the remote dataset when URL is set.
type DatasetConfig struct {
	URL      string        `yaml:"url"`
	Path     string        `yaml:"path"`
	APIKey   string        `yaml:"api_key"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ChartsConfig tunes chart rendering.
type ChartsConfig struct {
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	AssetsHost string        `yaml:"assets_host"`
}

func defaultConfig() Config {
	return Config{
		Addr:         ":9876",
		BasePath:     "/covid",
		PlayInterval: time.Second,
		SeedWidgets:  true,
		Log:          LogConfig{Level: "info", Encoding: "console"},
		Redis:        RedisConfig{Namespace: "covid"},
		Dataset:      DatasetConfig{CacheTTL: 5 * time.Minute},
		Charts:       ChartsConfig{CacheTTL: 10 * time.Minute},
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return cfg, fmt.Errorf("dashctl: open config %s: %w", path, err)
	}
	defer f.Close()
	if err := decodeConfig(f, &cfg); err != nil {
		return cfg, fmt.Errorf("dashctl: decode config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.validate()
}

func (c Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.PlayInterval <= 0 {
		return errors.New("play_interval must be positive")
	}
	if c.Redis.TTL < 0 {
		return errors.New("redis.ttl must not be negative")
	}
	return nil
}
