package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

type stubRuntime struct {
	added      []dashboard.AddWidgetRequest
	removed    []string
	reordered  [][]string
	language   string
	theme      *string
	signals    []dashboard.Registration
	accepted   int
	index      []dashboard.IndexCommand
	actions    []string
	err        error
	indexState dashboard.IndexState
}

func (s *stubRuntime) AddWidget(_ context.Context, req dashboard.AddWidgetRequest) (dashboard.WidgetInstance, error) {
	s.added = append(s.added, req)
	return dashboard.WidgetInstance{ID: "w-new", Kind: req.Kind}, s.err
}

func (s *stubRuntime) RemoveWidget(_ context.Context, id string) error {
	s.removed = append(s.removed, id)
	return s.err
}

func (s *stubRuntime) ReorderWidgets(_ context.Context, ids []string) error {
	s.reordered = append(s.reordered, ids)
	return s.err
}

func (s *stubRuntime) ChangeLanguage(_ context.Context, lang string) error {
	s.language = lang
	return s.err
}

func (s *stubRuntime) ChangeTheme(_ context.Context, theme string) error {
	s.theme = &theme
	return s.err
}

func (s *stubRuntime) SignalUpdate(reg dashboard.Registration) int {
	s.signals = append(s.signals, reg)
	return 1
}

func (s *stubRuntime) AcceptUpdate(context.Context) error {
	s.accepted++
	return s.err
}

func (s *stubRuntime) ControlIndex(_ context.Context, cmd dashboard.IndexCommand, value int) (dashboard.IndexState, error) {
	s.index = append(s.index, cmd)
	if cmd == dashboard.IndexSet {
		s.indexState.Value = value
	}
	return s.indexState, s.err
}

func (s *stubRuntime) OpenAction(_ context.Context, id, key string) error {
	s.actions = append(s.actions, "open:"+id+":"+key)
	return s.err
}

func (s *stubRuntime) CancelAction(_ context.Context, id string) error {
	s.actions = append(s.actions, "cancel:"+id)
	return s.err
}

func (s *stubRuntime) ConfirmAction(_ context.Context, id, key string) error {
	s.actions = append(s.actions, "confirm:"+id+":"+key)
	return s.err
}

func TestAddWidgetCommandReturnsInstance(t *testing.T) {
	runtime := &stubRuntime{}
	telemetry := &stubTelemetry{}
	cmd := NewAddWidgetCommand(runtime, telemetry)

	var created dashboard.WidgetInstance
	err := cmd.Execute(context.Background(), AddWidgetInput{
		AddWidgetRequest: dashboard.AddWidgetRequest{Kind: dashboard.KindValues},
		Result:           &created,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if created.ID != "w-new" || len(runtime.added) != 1 {
		t.Fatalf("expected created instance, got %#v", created)
	}
	if len(telemetry.events) != 1 || telemetry.events[0] != "dashboard.command.add" {
		t.Fatalf("unexpected telemetry %v", telemetry.events)
	}
}

func TestAddWidgetCommandSkipsTelemetryOnError(t *testing.T) {
	runtime := &stubRuntime{err: dashboard.ErrNotReady}
	telemetry := &stubTelemetry{}
	err := NewAddWidgetCommand(runtime, telemetry).Execute(context.Background(), AddWidgetInput{})
	if !errors.Is(err, dashboard.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if len(telemetry.events) != 0 {
		t.Fatalf("expected no telemetry, got %v", telemetry.events)
	}
	if err := NewAddWidgetCommand(nil, nil).Execute(context.Background(), AddWidgetInput{}); err == nil {
		t.Fatalf("expected missing service error")
	}
}

func TestRemoveWidgetCommand(t *testing.T) {
	runtime := &stubRuntime{}
	cmd := NewRemoveWidgetCommand(runtime, nil)
	if err := cmd.Execute(context.Background(), RemoveWidgetInput{WidgetID: "widget-1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(runtime.removed) != 1 || runtime.removed[0] != "widget-1" {
		t.Fatalf("expected remove call, got %v", runtime.removed)
	}
	if err := cmd.Execute(context.Background(), RemoveWidgetInput{}); err == nil {
		t.Fatalf("expected missing id error")
	}
}

func TestReorderWidgetsCommand(t *testing.T) {
	runtime := &stubRuntime{}
	cmd := NewReorderWidgetsCommand(runtime, nil)
	if err := cmd.Execute(context.Background(), ReorderWidgetsInput{WidgetIDs: []string{"b", "a"}}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(runtime.reordered) != 1 || runtime.reordered[0][0] != "b" {
		t.Fatalf("expected reorder call, got %v", runtime.reordered)
	}
	if err := cmd.Execute(context.Background(), ReorderWidgetsInput{}); err == nil {
		t.Fatalf("expected missing ids error")
	}
}

func TestPreferenceCommands(t *testing.T) {
	runtime := &stubRuntime{}
	if err := NewChangeLanguageCommand(runtime, nil).Execute(context.Background(), ChangeLanguageInput{Language: " es-es "}); err != nil {
		t.Fatalf("language returned error: %v", err)
	}
	if runtime.language != "es-es" {
		t.Fatalf("expected trimmed language, got %q", runtime.language)
	}
	if err := NewChangeLanguageCommand(runtime, nil).Execute(context.Background(), ChangeLanguageInput{}); err == nil {
		t.Fatalf("expected empty language error")
	}
	if err := NewChangeThemeCommand(runtime, nil).Execute(context.Background(), ChangeThemeInput{}); err != nil {
		t.Fatalf("theme returned error: %v", err)
	}
	if runtime.theme == nil || *runtime.theme != "" {
		t.Fatalf("expected empty theme to reach the runtime as a toggle")
	}
}

func TestUpdateCommands(t *testing.T) {
	runtime := &stubRuntime{}
	telemetry := &stubTelemetry{}
	if err := NewSignalUpdateCommand(runtime, telemetry).Execute(context.Background(), SignalUpdateInput{ScriptURL: "/sw.js", Version: "2"}); err != nil {
		t.Fatalf("signal returned error: %v", err)
	}
	if len(runtime.signals) != 1 || runtime.signals[0].Version != "2" {
		t.Fatalf("expected registration, got %v", runtime.signals)
	}
	if err := NewSignalUpdateCommand(runtime, nil).Execute(context.Background(), SignalUpdateInput{}); err == nil {
		t.Fatalf("expected missing script url error")
	}
	if err := NewAcceptUpdateCommand(runtime, telemetry).Execute(context.Background(), AcceptUpdateInput{}); err != nil {
		t.Fatalf("accept returned error: %v", err)
	}
	if runtime.accepted != 1 || len(telemetry.events) != 2 {
		t.Fatalf("expected accept and two events, got %d %v", runtime.accepted, telemetry.events)
	}
}

func TestControlIndexCommand(t *testing.T) {
	runtime := &stubRuntime{indexState: dashboard.IndexState{Max: 10}}
	var state dashboard.IndexState
	err := NewControlIndexCommand(runtime, nil).Execute(context.Background(), ControlIndexInput{
		Command: dashboard.IndexSet,
		Value:   4,
		Result:  &state,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if state.Value != 4 || state.Max != 10 {
		t.Fatalf("unexpected state %#v", state)
	}
}

func TestWidgetActionCommand(t *testing.T) {
	runtime := &stubRuntime{}
	cmd := NewWidgetActionCommand(runtime, nil)
	ctx := context.Background()
	for _, op := range []ActionOp{ActionOpen, ActionCancel, ActionConfirm} {
		if err := cmd.Execute(ctx, WidgetActionInput{WidgetID: "w1", Key: "remove", Op: op}); err != nil {
			t.Fatalf("%s returned error: %v", op, err)
		}
	}
	want := []string{"open:w1:remove", "cancel:w1", "confirm:w1:remove"}
	for i, got := range runtime.actions {
		if got != want[i] {
			t.Fatalf("action %d: expected %s, got %s", i, want[i], got)
		}
	}
	if err := cmd.Execute(ctx, WidgetActionInput{WidgetID: "w1", Op: "explode"}); err == nil {
		t.Fatalf("expected unknown op error")
	}
	if err := cmd.Execute(ctx, WidgetActionInput{Op: ActionOpen}); err == nil {
		t.Fatalf("expected missing widget id error")
	}
}

func TestSeedDashboardCommand(t *testing.T) {
	registry, err := dashboard.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}
	service := dashboard.NewService(dashboard.Options{
		WidgetStore: dashboard.NewMemoryWidgetStore(),
		Kinds:       registry,
	})
	telemetry := &stubTelemetry{}
	cmd := NewSeedDashboardCommand(registry, service, telemetry)
	if err := cmd.Execute(context.Background(), SeedDashboardInput{SeedWidgets: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got := len(registry.Kinds()); got != len(dashboard.DefaultKinds()) {
		t.Fatalf("expected %d kinds, got %d", len(dashboard.DefaultKinds()), got)
	}
	widgets, err := service.Widgets(context.Background())
	if err != nil {
		t.Fatalf("Widgets returned error: %v", err)
	}
	if len(widgets) != len(dashboard.DefaultSeedWidgets()) {
		t.Fatalf("expected %d seeded widgets, got %d", len(dashboard.DefaultSeedWidgets()), len(widgets))
	}
	if len(telemetry.events) != 1 {
		t.Fatalf("expected seed telemetry, got %v", telemetry.events)
	}
	if err := NewSeedDashboardCommand(nil, nil, nil).Execute(context.Background(), SeedDashboardInput{}); err == nil {
		t.Fatalf("expected missing registry error")
	}
}
