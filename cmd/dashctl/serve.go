package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
	"github.com/goliatone/go-dashboard-shell/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-shell/components/dashboard/gorouter"
	"github.com/goliatone/go-dashboard-shell/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-shell/components/dashboard/queries"
	"github.com/goliatone/go-dashboard-shell/pkg/covidapi"
)

type serveCmd struct {
	Config          string   `short:"c" type:"path" env:"DASHCTL_CONFIG" help:"Path to the YAML config file."`
	Addr            string   `help:"Listen address. Overrides the config file."`
	RedisURL        string   `name:"redis-url" env:"DASHCTL_REDIS_URL" help:"Persist preferences in Redis."`
	DatasetURL      string   `name:"dataset-url" env:"DASHCTL_DATASET_URL" help:"Fetch the daily series from this API instead of the bundled dataset."`
	Lang            []string `help:"Preferred languages, most preferred first."`
	AnnounceVersion string   `name:"announce-version" help:"Announce a waiting application update with this version after startup."`
}

func (cmd *serveCmd) Run(app *cli) error {
	cfg, err := loadConfig(cmd.Config)
	if err != nil {
		return err
	}
	cmd.apply(&cfg, app)

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shell, err := buildShell(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer shell.Close()

	go func() {
		if err := shell.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("shell loop stopped", zap.Error(err))
		}
	}()
	if err := shell.runtime.Mount(ctx); err != nil {
		return fmt.Errorf("dashctl: mount shell: %w", err)
	}
	if cmd.AnnounceVersion != "" {
		signalUpdate := commands.NewSignalUpdateCommand(shell.runtime, shell.telemetry)
		if err := signalUpdate.Execute(ctx, commands.SignalUpdateInput{ScriptURL: "/sw.js", Version: cmd.AnnounceVersion}); err != nil {
			logger.Warn("announce update failed", zap.Error(err))
		}
	}

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("dashctl: template renderer: %w", err)
	}
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router: server.Router(),
		Controller: dashboard.NewController(dashboard.ControllerOptions{
			Source:   shell.runtime,
			Renderer: renderer,
		}),
		API:       httpapi.NewCommandExecutor(shell.runtime, shell.telemetry),
		Broadcast: shell.broadcast,
		Events:    shell.stream.Stream(),
		State:     queries.NewStateQuery(shell.runtime),
		Widgets:   queries.NewWidgetsQuery(shell.service),
		BasePath:  cfg.BasePath,
	}); err != nil {
		return fmt.Errorf("dashctl: register routes: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard shell listening",
			zap.String("addr", cfg.Addr),
			zap.String("page", cfg.BasePath+"/dashboard"),
			zap.String("events", cfg.BasePath+"/dashboard/ws"),
		)
		errCh <- server.Serve(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shell.runtime.Unmount(shutdownCtx); err != nil && !errors.Is(err, dashboard.ErrLoopClosed) {
		logger.Warn("unmount shell", zap.Error(err))
	}
	return server.Shutdown(shutdownCtx)
}

func (cmd *serveCmd) apply(cfg *Config, app *cli) {
	if cmd.Addr != "" {
		cfg.Addr = cmd.Addr
	}
	if cmd.RedisURL != "" {
		cfg.Redis.URL = cmd.RedisURL
	}
	if cmd.DatasetURL != "" {
		cfg.Dataset.URL = cmd.DatasetURL
	}
	if len(cmd.Lang) > 0 {
		cfg.PreferredLanguages = cmd.Lang
	}
	if app != nil && app.LogLevel != "" {
		cfg.Log.Level = app.LogLevel
	}
}

// shellApp is the wired shell and the collaborators the server needs.
type shellApp struct {
	loop      *dashboard.Loop
	runtime   *dashboard.Runtime
	service   *dashboard.Service
	broadcast *dashboard.BroadcastHook
	stream    *dashboard.StreamHook
	telemetry dashboard.Telemetry
	closers   []func() error
}

// Close stops the loop and releases stores.
func (a *shellApp) Close() {
	a.loop.Close()
	for _, closer := range a.closers {
		_ = closer()
	}
}

func buildShell(ctx context.Context, cfg Config, logger *zap.Logger) (*shellApp, error) {
	app := &shellApp{
		loop:      dashboard.NewLoop(logger),
		broadcast: dashboard.NewBroadcastHook(),
		stream:    dashboard.NewStreamHook(),
		telemetry: dashboard.NewZapTelemetry(logger),
	}
	events := dashboard.MultiHook{app.broadcast, app.stream, dashboard.LogHook{Logger: logger}}

	chartOpts := []dashboard.ChartViewOption{dashboard.WithChartCache(dashboard.NewChartCache(cfg.Charts.CacheTTL))}
	if cfg.Charts.AssetsHost != "" {
		chartOpts = append(chartOpts, dashboard.WithChartAssetsHost(cfg.Charts.AssetsHost))
	}

	registry, err := dashboard.NewRegistry()
	if err != nil {
		return nil, err
	}
	service := dashboard.NewService(dashboard.Options{
		WidgetStore: dashboard.NewMemoryWidgetStore(),
		Kinds:       registry,
		EventHook:   events,
		Telemetry:   app.telemetry,
		Logger:      logger,
	})
	app.service = service
	seed := commands.NewSeedDashboardCommand(registry, service, app.telemetry, chartOpts...)
	if err := seed.Execute(ctx, commands.SeedDashboardInput{SeedWidgets: cfg.SeedWidgets}); err != nil {
		return nil, fmt.Errorf("dashctl: seed dashboard: %w", err)
	}
	views := dashboard.DefaultViews(chartOpts...)
	for _, path := range cfg.Manifests {
		if _, err := registry.LoadManifestFile(path, views); err != nil {
			return nil, err
		}
	}

	store, err := openStore(ctx, cfg.Redis, app)
	if err != nil {
		return nil, err
	}
	catalogs, err := openCatalogs(cfg.LocalesDir)
	if err != nil {
		return nil, err
	}
	source, err := openSource(cfg.Dataset)
	if err != nil {
		return nil, err
	}

	dash, err := dashboard.NewDashboard(dashboard.DashboardOptions{
		Loop:         app.loop,
		Service:      service,
		Source:       source,
		PlayInterval: cfg.PlayInterval,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	shell, err := dashboard.NewShell(dashboard.ShellOptions{
		Loop:               app.loop,
		Persister:          dashboard.NewPersister(store, dashboard.WithPersisterLogger(logger)),
		Updates:            dashboard.NewUpdateBus(),
		Installer:          updateInstaller(logger),
		Catalogs:           catalogs,
		PreferredLanguages: cfg.PreferredLanguages,
		Dashboard:          dash,
		EventHook:          events,
		Telemetry:          app.telemetry,
		Logger:             logger,
	})
	if err != nil {
		return nil, err
	}
	app.runtime = dashboard.NewRuntime(app.loop, shell)
	return app, nil
}

func openStore(ctx context.Context, cfg RedisConfig, app *shellApp) (dashboard.KVStore, error) {
	if cfg.URL == "" {
		return dashboard.NewMemoryStore(), nil
	}
	store, err := dashboard.OpenRedisStore(ctx, cfg.URL,
		dashboard.WithRedisNamespace(cfg.Namespace),
		dashboard.WithRedisTTL(cfg.TTL),
	)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store.Close)
	return store, nil
}

func openCatalogs(dir string) (*dashboard.CatalogSet, error) {
	if dir == "" {
		return dashboard.DefaultCatalogs()
	}
	return dashboard.LoadCatalogs(os.DirFS(dir), ".", dashboard.DefaultLanguage)
}

func openSource(cfg DatasetConfig) (dashboard.DataSource, error) {
	if cfg.URL == "" {
		return dashboard.StaticDataSource{Data: dashboard.DefaultDataset()}, nil
	}
	client, err := covidapi.NewHTTPClient(covidapi.HTTPConfig{
		BaseURL: cfg.URL,
		Path:    cfg.Path,
		APIKey:  cfg.APIKey,
	})
	if err != nil {
		return nil, err
	}
	return covidapi.NewCachedSource(client, cfg.CacheTTL), nil
}

// updateInstaller logs accepted updates; clients reload on the "update" event.
func updateInstaller(logger *zap.Logger) dashboard.Installer {
	return dashboard.InstallerFunc(func(_ context.Context, reg dashboard.Registration) error {
		logger.Info("application update accepted",
			zap.String("script_url", reg.ScriptURL),
			zap.String("version", reg.Version),
		)
		return nil
	})
}
