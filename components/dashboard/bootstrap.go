package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// RegisterKinds registers the built-in widget kinds.
func RegisterKinds(registry KindRegistry, opts ...ChartViewOption) error {
	if registry == nil {
		return errors.New("dashboard: kind registry is required")
	}
	for _, kind := range DefaultKinds(opts...) {
		if err := registry.RegisterKind(kind.Definition, kind.Widget); err != nil {
			return fmt.Errorf("register kind %s: %w", kind.Definition.Code, err)
		}
	}
	return nil
}

// SeedDashboard places the starter widgets when the dashboard is empty.
func SeedDashboard(ctx context.Context, service *Service) error {
	if service == nil {
		return errors.New("dashboard: service is required to seed widgets")
	}
	existing, err := service.Widgets(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	var seedErr error
	for _, req := range DefaultSeedWidgets() {
		if _, err := service.AddWidget(ctx, req); err != nil {
			seedErr = errors.Join(seedErr, err)
		}
	}
	return seedErr
}
