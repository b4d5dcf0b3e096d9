package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

type addService interface {
	AddWidget(ctx context.Context, req dashboard.AddWidgetRequest) (dashboard.WidgetInstance, error)
}

// AddWidgetInput places a widget. Result receives the created instance when set.
type AddWidgetInput struct {
	dashboard.AddWidgetRequest
	Result *dashboard.WidgetInstance `json:"-"`
}

// AddWidgetCommand places widgets through the runtime so transports never
// touch the shell loop directly.
type AddWidgetCommand struct {
	service   addService
	telemetry Telemetry
}

// NewAddWidgetCommand creates a command instance.
func NewAddWidgetCommand(service addService, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute delegates to the runtime.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	if c.service == nil {
		return errors.New("add command requires service")
	}
	instance, err := c.service.AddWidget(ctx, msg.AddWidgetRequest)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = instance
	}
	c.telemetry.Record(ctx, "dashboard.command.add", map[string]any{
		"kind":      msg.Kind,
		"widget_id": instance.ID,
	})
	return nil
}
