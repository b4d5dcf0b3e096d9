package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	WidgetStore     WidgetStore
	Kinds           KindRegistry
	ConfigValidator ConfigValidator
	EventHook       EventHook
	Telemetry       Telemetry
	Logger          *zap.Logger
}

// Service manages the widget instances placed on the dashboard.
type Service struct {
	opts Options
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.EventHook == nil {
		opts.EventHook = noopEventHook{}
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Logger = normalizeLogger(opts.Logger)
	return &Service{opts: opts}
}

// AddWidgetRequest captures the data required to place a widget.
type AddWidgetRequest struct {
	Kind          string         `json:"kind"`
	Name          string         `json:"name,omitempty"`
	Subtitle      string         `json:"subtitle,omitempty"`
	Configuration map[string]any `json:"configuration,omitempty"`
	Position      *int           `json:"position,omitempty"`
}

// AddWidget validates the request against the kind and creates an instance.
func (s *Service) AddWidget(ctx context.Context, req AddWidgetRequest) (WidgetInstance, error) {
	store, err := s.widgetStore()
	if err != nil {
		return WidgetInstance{}, err
	}
	if req.Kind == "" {
		return WidgetInstance{}, errInvalidKind
	}
	if s.opts.Kinds != nil {
		kind, ok := s.opts.Kinds.Kind(req.Kind)
		if !ok {
			return WidgetInstance{}, fmt.Errorf("dashboard: unknown widget kind %s", req.Kind)
		}
		if err := s.opts.ConfigValidator.Validate(kind.Definition, req.Configuration); err != nil {
			return WidgetInstance{}, err
		}
	}
	instance, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{
		Kind:          req.Kind,
		Name:          req.Name,
		Subtitle:      req.Subtitle,
		Configuration: req.Configuration,
		Position:      req.Position,
	})
	if err != nil {
		return WidgetInstance{}, err
	}
	s.notify(ctx, Event{Reason: "add", WidgetID: instance.ID, Kind: instance.Kind})
	s.recordTelemetry(ctx, "dashboard.widget.add", map[string]any{
		"kind":      req.Kind,
		"widget_id": instance.ID,
	})
	return instance, nil
}

// RemoveWidget deletes the widget instance.
func (s *Service) RemoveWidget(ctx context.Context, widgetID string) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if widgetID == "" {
		return errInvalidWidgetID
	}
	if err := store.DeleteInstance(ctx, widgetID); err != nil {
		return err
	}
	s.notify(ctx, Event{Reason: "remove", WidgetID: widgetID})
	s.recordTelemetry(ctx, "dashboard.widget.remove", map[string]any{"widget_id": widgetID})
	return nil
}

// ReorderWidgets changes widget ordering.
func (s *Service) ReorderWidgets(ctx context.Context, widgetIDs []string) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if err := store.ReorderInstances(ctx, widgetIDs); err != nil {
		return err
	}
	s.notify(ctx, Event{Reason: "reorder"})
	s.recordTelemetry(ctx, "dashboard.widget.reorder", map[string]any{"count": len(widgetIDs)})
	return nil
}

// Widgets lists the placed instances in display order.
func (s *Service) Widgets(ctx context.Context) ([]WidgetInstance, error) {
	store, err := s.widgetStore()
	if err != nil {
		return nil, err
	}
	return store.ListInstances(ctx)
}

// Kind resolves a widget kind.
func (s *Service) Kind(code string) (WidgetKind, bool) {
	if s.opts.Kinds == nil {
		return WidgetKind{}, false
	}
	return s.opts.Kinds.Kind(code)
}

// Kinds lists the available widget kinds.
func (s *Service) Kinds() []WidgetKind {
	if s.opts.Kinds == nil {
		return nil
	}
	return s.opts.Kinds.Kinds()
}

// Notify exposes event hook invocation for the shell and transports.
func (s *Service) Notify(ctx context.Context, event Event) {
	s.notify(ctx, event)
}

func (s *Service) notify(ctx context.Context, event Event) {
	if err := s.opts.EventHook.Notify(ctx, event); err != nil {
		s.opts.Logger.Warn("event hook failed", zap.String("reason", event.Reason), zap.Error(err))
	}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) widgetStore() (WidgetStore, error) {
	if s.opts.WidgetStore == nil {
		return nil, errMissingWidgetStore
	}
	return s.opts.WidgetStore, nil
}

type noopEventHook struct{}

func (noopEventHook) Notify(context.Context, Event) error { return nil }
