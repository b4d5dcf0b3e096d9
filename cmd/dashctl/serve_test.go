package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

func TestBuildShellMountsSeededDashboard(t *testing.T) {
	cfg := defaultConfig()
	cfg.PreferredLanguages = []string{"en-GB"}
	cfg.Manifests = []string{"../../docs/manifests/covid-extra.yaml"}
	app := startShell(t, cfg)

	view := waitReady(t, app.runtime)
	assert.Equal(t, "en", view.Language)
	assert.Len(t, view.Dashboard.Widgets.Items, len(dashboard.DefaultSeedWidgets()))

	widget, err := app.runtime.AddWidget(context.Background(), dashboard.AddWidgetRequest{Kind: "covid.recovered"})
	require.NoError(t, err)
	assert.NotEmpty(t, widget.ID)
}

func TestBuildShellPersistsToRedis(t *testing.T) {
	server := miniredis.RunT(t)
	cfg := defaultConfig()
	cfg.SeedWidgets = false
	cfg.Redis.URL = "redis://" + server.Addr()
	app := startShell(t, cfg)
	waitReady(t, app.runtime)

	require.NoError(t, app.runtime.ChangeLanguage(context.Background(), "es-es"))
	stored, err := server.Get("covid:Applanguage")
	require.NoError(t, err)
	assert.Equal(t, `"es-es"`, stored)
}

func TestOpenSourceUsesRemoteDataset(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"days":[{"date":"2020-03-01","values":{"confirmed":7}}]}`))
	}))
	t.Cleanup(api.Close)

	source, err := openSource(DatasetConfig{URL: api.URL, CacheTTL: time.Minute})
	require.NoError(t, err)
	data, err := source.Dataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, data.Series["confirmed"])

	static, err := openSource(DatasetConfig{})
	require.NoError(t, err)
	data, err = static.Dataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dashboard.DefaultDataset().Len(), data.Len())
}

func startShell(t *testing.T, cfg Config) *shellApp {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	app, err := buildShell(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = app.loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		app.Close()
	})
	require.NoError(t, app.runtime.Mount(ctx))
	return app
}

func waitReady(t *testing.T, runtime *dashboard.Runtime) dashboard.ShellView {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		view, err := runtime.View(context.Background())
		require.NoError(t, err)
		if view.Dashboard != nil && view.Dashboard.Index.Max > 0 {
			return view
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("shell never became ready")
	return dashboard.ShellView{}
}
