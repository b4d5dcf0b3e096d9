package dashboard

import (
	"context"
	"errors"
)

// Runtime is the goroutine-safe entry point to a shell. Every call is executed
// on the shell loop and waits for it to finish.
type Runtime struct {
	loop  *Loop
	shell *Shell
}

// NewRuntime wraps a shell. The caller runs the loop.
func NewRuntime(loop *Loop, shell *Shell) *Runtime {
	return &Runtime{loop: loop, shell: shell}
}

// Loop returns the loop the runtime posts to.
func (r *Runtime) Loop() *Loop { return r.loop }

// Updates returns the update bus of the shell.
func (r *Runtime) Updates() *UpdateBus { return r.shell.Updates() }

func (r *Runtime) do(ctx context.Context, fn func() error) error {
	var err error
	if doErr := r.loop.Do(ctx, func() { err = fn() }); doErr != nil {
		return doErr
	}
	return err
}

// Mount mounts the shell. Hydration outlives ctx.
func (r *Runtime) Mount(ctx context.Context) error {
	return r.do(ctx, func() error {
		return r.shell.Mount(context.WithoutCancel(ctx))
	})
}

// Unmount unmounts the shell.
func (r *Runtime) Unmount(ctx context.Context) error {
	return r.do(ctx, func() error {
		r.shell.Unmount()
		return nil
	})
}

// View renders the shell.
func (r *Runtime) View(ctx context.Context) (ShellView, error) {
	var view ShellView
	err := r.do(ctx, func() error {
		view = r.shell.Render(ctx)
		return nil
	})
	return view, err
}

// State returns the app state.
func (r *Runtime) State(ctx context.Context) (AppState, error) {
	var state AppState
	err := r.do(ctx, func() error {
		state = r.shell.State()
		return nil
	})
	return state, err
}

// ChangeLanguage switches the language.
func (r *Runtime) ChangeLanguage(ctx context.Context, lang string) error {
	return r.do(ctx, func() error {
		r.shell.ChangeLanguage(ctx, lang)
		return nil
	})
}

// ChangeTheme switches the theme. An empty theme toggles it.
func (r *Runtime) ChangeTheme(ctx context.Context, theme string) error {
	return r.do(ctx, func() error {
		if theme == "" {
			r.shell.ToggleTheme(ctx)
			return nil
		}
		r.shell.ChangeTheme(ctx, theme)
		return nil
	})
}

// SignalUpdate publishes an update registration to the shell.
func (r *Runtime) SignalUpdate(reg Registration) int {
	return r.shell.Updates().Publish(reg)
}

// AcceptUpdate accepts the pending update.
func (r *Runtime) AcceptUpdate(ctx context.Context) error {
	return r.do(ctx, func() error {
		return r.shell.AcceptUpdate(ctx)
	})
}

// IndexCommand selects an index control operation.
type IndexCommand string

const (
	IndexPlay   IndexCommand = "play"
	IndexPause  IndexCommand = "pause"
	IndexToggle IndexCommand = "toggle"
	IndexSet    IndexCommand = "set"
)

var errUnknownIndexCommand = errors.New("dashboard: unknown index command")

// ControlIndex drives the index control and returns its new state.
func (r *Runtime) ControlIndex(ctx context.Context, cmd IndexCommand, value int) (IndexState, error) {
	var state IndexState
	err := r.do(ctx, func() error {
		d, err := r.readyDashboard()
		if err != nil {
			return err
		}
		switch cmd {
		case IndexPlay:
			d.Play()
		case IndexPause:
			d.Pause()
		case IndexToggle:
			d.Toggle()
		case IndexSet:
			d.SetIndex(value)
		default:
			return errUnknownIndexCommand
		}
		state = d.Index().State()
		return nil
	})
	return state, err
}

// AddWidget places a widget.
func (r *Runtime) AddWidget(ctx context.Context, req AddWidgetRequest) (WidgetInstance, error) {
	var instance WidgetInstance
	err := r.do(ctx, func() error {
		d, err := r.readyDashboard()
		if err != nil {
			return err
		}
		instance, err = d.Widgets().Add(ctx, req)
		return err
	})
	return instance, err
}

// RemoveWidget removes a widget without confirmation.
func (r *Runtime) RemoveWidget(ctx context.Context, id string) error {
	return r.do(ctx, func() error {
		d, err := r.readyDashboard()
		if err != nil {
			return err
		}
		return d.Widgets().Remove(ctx, id)
	})
}

// ReorderWidgets changes the widget order.
func (r *Runtime) ReorderWidgets(ctx context.Context, ids []string) error {
	return r.do(ctx, func() error {
		d, err := r.readyDashboard()
		if err != nil {
			return err
		}
		return d.Widgets().Reorder(ctx, ids)
	})
}

// OpenAction opens an action confirmation on a widget.
func (r *Runtime) OpenAction(ctx context.Context, id, key string) error {
	return r.do(ctx, func() error {
		d, err := r.readyDashboard()
		if err != nil {
			return err
		}
		return d.Widgets().OpenAction(id, key)
	})
}

// CancelAction closes a widget's confirmation.
func (r *Runtime) CancelAction(ctx context.Context, id string) error {
	return r.do(ctx, func() error {
		d, err := r.readyDashboard()
		if err != nil {
			return err
		}
		return d.Widgets().CancelAction(id)
	})
}

// ConfirmAction confirms the open action of a widget.
func (r *Runtime) ConfirmAction(ctx context.Context, id, key string) error {
	return r.do(ctx, func() error {
		d, err := r.readyDashboard()
		if err != nil {
			return err
		}
		state := r.shell.State()
		env := RenderEnv{
			Language:   state.Language,
			Theme:      state.Theme,
			Translator: r.shell.Translator(),
		}
		return d.Widgets().ConfirmAction(ctx, id, key, env)
	})
}

func (r *Runtime) readyDashboard() (*Dashboard, error) {
	if r.shell.Phase() != PhaseReady || !r.shell.Dashboard().Mounted() {
		return nil, ErrNotReady
	}
	return r.shell.Dashboard(), nil
}
