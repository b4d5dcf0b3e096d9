package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

// SignalUpdateInput announces a waiting application update.
type SignalUpdateInput struct {
	ScriptURL string `json:"script_url"`
	Version   string `json:"version"`
}

// AcceptUpdateInput accepts the pending update.
type AcceptUpdateInput struct{}

type updateService interface {
	SignalUpdate(reg dashboard.Registration) int
	AcceptUpdate(ctx context.Context) error
}

// SignalUpdateCommand publishes an update registration to the shell.
type SignalUpdateCommand struct {
	service   updateService
	telemetry Telemetry
}

// NewSignalUpdateCommand creates the command.
func NewSignalUpdateCommand(service updateService, telemetry Telemetry) *SignalUpdateCommand {
	return &SignalUpdateCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SignalUpdateInput] = (*SignalUpdateCommand)(nil)

// Execute publishes the registration.
func (c *SignalUpdateCommand) Execute(ctx context.Context, msg SignalUpdateInput) error {
	if c.service == nil {
		return errors.New("signal update command requires service")
	}
	if msg.ScriptURL == "" {
		return errors.New("signal update command requires a script url")
	}
	delivered := c.service.SignalUpdate(dashboard.Registration{ScriptURL: msg.ScriptURL, Version: msg.Version})
	c.telemetry.Record(ctx, "dashboard.command.update_signal", map[string]any{
		"version":   msg.Version,
		"delivered": delivered,
	})
	return nil
}

// AcceptUpdateCommand hands the pending registration to the installer.
type AcceptUpdateCommand struct {
	service   updateService
	telemetry Telemetry
}

// NewAcceptUpdateCommand creates the command.
func NewAcceptUpdateCommand(service updateService, telemetry Telemetry) *AcceptUpdateCommand {
	return &AcceptUpdateCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AcceptUpdateInput] = (*AcceptUpdateCommand)(nil)

// Execute accepts the update.
func (c *AcceptUpdateCommand) Execute(ctx context.Context, _ AcceptUpdateInput) error {
	if c.service == nil {
		return errors.New("accept update command requires service")
	}
	if err := c.service.AcceptUpdate(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.update_accept", nil)
	return nil
}
