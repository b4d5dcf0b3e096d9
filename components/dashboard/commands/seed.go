package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

// SeedDashboardInput controls bootstrap behavior.
type SeedDashboardInput struct {
	SeedWidgets bool
}

// SeedDashboardCommand registers the built-in kinds and optionally places the
// starter widgets.
type SeedDashboardCommand struct {
	registry  dashboard.KindRegistry
	service   *dashboard.Service
	options   []dashboard.ChartViewOption
	telemetry Telemetry
}

// NewSeedDashboardCommand wires dependencies.
func NewSeedDashboardCommand(registry dashboard.KindRegistry, service *dashboard.Service, telemetry Telemetry, opts ...dashboard.ChartViewOption) *SeedDashboardCommand {
	return &SeedDashboardCommand{
		registry:  registry,
		service:   service,
		options:   opts,
		telemetry: normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[SeedDashboardInput] = (*SeedDashboardCommand)(nil)

// Execute runs the bootstrap pipeline.
func (c *SeedDashboardCommand) Execute(ctx context.Context, msg SeedDashboardInput) error {
	if c.registry == nil {
		return errors.New("seed command requires kind registry")
	}
	if err := dashboard.RegisterKinds(c.registry, c.options...); err != nil {
		return err
	}
	if msg.SeedWidgets && c.service != nil {
		if err := dashboard.SeedDashboard(ctx, c.service); err != nil {
			return err
		}
	}
	c.telemetry.Record(ctx, "dashboard.seed", map[string]any{"seed_widgets": msg.SeedWidgets})
	return nil
}
