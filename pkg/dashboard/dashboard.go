// Package dashboard re-exports the shell entry points for applications that
// embed the dashboard without importing components/.
package dashboard

import (
	"go.uber.org/zap"

	core "github.com/goliatone/go-dashboard-shell/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Shell is the application state machine.
type Shell = core.Shell

// ShellOptions configures a Shell.
type ShellOptions = core.ShellOptions

// Runtime is the goroutine-safe facade over a mounted shell.
type Runtime = core.Runtime

// Loop is the single goroutine that owns shell state.
type Loop = core.Loop

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewLoop proxies to the internal constructor.
func NewLoop(logger *zap.Logger) *Loop {
	return core.NewLoop(logger)
}

// New builds a shell on loop and returns its runtime. The caller runs the
// loop and mounts the runtime.
func New(loop *Loop, opts ShellOptions) (*Runtime, error) {
	opts.Loop = loop
	shell, err := core.NewShell(opts)
	if err != nil {
		return nil, err
	}
	return core.NewRuntime(loop, shell), nil
}
