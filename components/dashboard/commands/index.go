package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

// ControlIndexInput drives the index control. Value is used by "set".
// Result receives the resulting state when set.
type ControlIndexInput struct {
	Command dashboard.IndexCommand `json:"command"`
	Value   int                    `json:"value"`
	Result  *dashboard.IndexState  `json:"-"`
}

type indexService interface {
	ControlIndex(ctx context.Context, cmd dashboard.IndexCommand, value int) (dashboard.IndexState, error)
}

// ControlIndexCommand plays, pauses, toggles or sets the shared index.
type ControlIndexCommand struct {
	service   indexService
	telemetry Telemetry
}

// NewControlIndexCommand creates the command.
func NewControlIndexCommand(service indexService, telemetry Telemetry) *ControlIndexCommand {
	return &ControlIndexCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ControlIndexInput] = (*ControlIndexCommand)(nil)

// Execute applies the index command.
func (c *ControlIndexCommand) Execute(ctx context.Context, msg ControlIndexInput) error {
	if c.service == nil {
		return errors.New("index command requires service")
	}
	state, err := c.service.ControlIndex(ctx, msg.Command, msg.Value)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = state
	}
	c.telemetry.Record(ctx, "dashboard.command.index", map[string]any{
		"command": string(msg.Command),
		"value":   state.Value,
		"playing": state.IsPlaying,
	})
	return nil
}
