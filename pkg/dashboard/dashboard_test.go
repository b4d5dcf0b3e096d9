package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	core "github.com/goliatone/go-dashboard-shell/components/dashboard"
)

func TestNewBuildsMountableRuntime(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := NewLoop(nil)
	go func() { _ = loop.Run(ctx) }()

	runtime, err := New(loop, ShellOptions{})
	require.NoError(t, err)
	require.NoError(t, runtime.Mount(ctx))

	require.Eventually(t, func() bool {
		state, err := runtime.State(ctx)
		return err == nil && !state.Initializing
	}, time.Second, 5*time.Millisecond)

	view, err := runtime.View(ctx)
	require.NoError(t, err)
	require.Equal(t, core.DefaultLanguage, view.Language)
}
