package httpapi

import (
	"context"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
	"github.com/goliatone/go-dashboard-shell/components/dashboard/commands"
)

// Executor abstracts the command surface used by transports.
type Executor interface {
	AddWidget(ctx context.Context, input commands.AddWidgetInput) error
	RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error
	ReorderWidgets(ctx context.Context, input commands.ReorderWidgetsInput) error
	ChangeLanguage(ctx context.Context, input commands.ChangeLanguageInput) error
	ChangeTheme(ctx context.Context, input commands.ChangeThemeInput) error
	AcceptUpdate(ctx context.Context, input commands.AcceptUpdateInput) error
	ControlIndex(ctx context.Context, input commands.ControlIndexInput) error
	WidgetAction(ctx context.Context, input commands.WidgetActionInput) error
}

// CommandExecutor adapts go-command commanders to Executor.
type CommandExecutor struct {
	Add      gocommand.Commander[commands.AddWidgetInput]
	Remove   gocommand.Commander[commands.RemoveWidgetInput]
	Reorder  gocommand.Commander[commands.ReorderWidgetsInput]
	Language gocommand.Commander[commands.ChangeLanguageInput]
	Theme    gocommand.Commander[commands.ChangeThemeInput]
	Accept   gocommand.Commander[commands.AcceptUpdateInput]
	Index    gocommand.Commander[commands.ControlIndexInput]
	Action   gocommand.Commander[commands.WidgetActionInput]
}

var _ Executor = (*CommandExecutor)(nil)

// ErrCommandUnavailable reports a route whose commander was not wired.
var ErrCommandUnavailable = errors.New("httpapi: command not configured")

// NewCommandExecutor wires the standard commands against a runtime.
func NewCommandExecutor(runtime *dashboard.Runtime, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		Add:      commands.NewAddWidgetCommand(runtime, telemetry),
		Remove:   commands.NewRemoveWidgetCommand(runtime, telemetry),
		Reorder:  commands.NewReorderWidgetsCommand(runtime, telemetry),
		Language: commands.NewChangeLanguageCommand(runtime, telemetry),
		Theme:    commands.NewChangeThemeCommand(runtime, telemetry),
		Accept:   commands.NewAcceptUpdateCommand(runtime, telemetry),
		Index:    commands.NewControlIndexCommand(runtime, telemetry),
		Action:   commands.NewWidgetActionCommand(runtime, telemetry),
	}
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return ErrCommandUnavailable
	}
	return cmd.Execute(ctx, msg)
}

func (e *CommandExecutor) AddWidget(ctx context.Context, input commands.AddWidgetInput) error {
	return execute(ctx, e.Add, input)
}

func (e *CommandExecutor) RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error {
	return execute(ctx, e.Remove, input)
}

func (e *CommandExecutor) ReorderWidgets(ctx context.Context, input commands.ReorderWidgetsInput) error {
	return execute(ctx, e.Reorder, input)
}

func (e *CommandExecutor) ChangeLanguage(ctx context.Context, input commands.ChangeLanguageInput) error {
	return execute(ctx, e.Language, input)
}

func (e *CommandExecutor) ChangeTheme(ctx context.Context, input commands.ChangeThemeInput) error {
	return execute(ctx, e.Theme, input)
}

func (e *CommandExecutor) AcceptUpdate(ctx context.Context, input commands.AcceptUpdateInput) error {
	return execute(ctx, e.Accept, input)
}

func (e *CommandExecutor) ControlIndex(ctx context.Context, input commands.ControlIndexInput) error {
	return execute(ctx, e.Index, input)
}

func (e *CommandExecutor) WidgetAction(ctx context.Context, input commands.WidgetActionInput) error {
	return execute(ctx, e.Action, input)
}

// StatusFor maps dashboard errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, dashboard.ErrWidgetNotFound), errors.Is(err, dashboard.ErrNoPendingUpdate):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrActionNotOpen):
		return http.StatusConflict
	case errors.Is(err, ErrCommandUnavailable):
		return http.StatusNotImplemented
	case errors.Is(err, dashboard.ErrLoopClosed):
		return http.StatusServiceUnavailable
	default:
		var cfgErr *dashboard.ConfigurationError
		if errors.As(err, &cfgErr) {
			return http.StatusBadRequest
		}
		return http.StatusUnprocessableEntity
	}
}
