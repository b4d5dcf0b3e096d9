package dashboard

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts ...func(*Options)) *Service {
	t.Helper()
	registry, err := NewDefaultRegistry()
	require.NoError(t, err)
	options := Options{WidgetStore: NewMemoryWidgetStore(), Kinds: registry}
	for _, opt := range opts {
		opt(&options)
	}
	return NewService(options)
}

type recordingHook struct {
	mu     sync.Mutex
	events []Event
}

func (h *recordingHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHook) reasons() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.Reason)
	}
	return out
}

func TestServiceAddWidgetValidatesKindAndConfiguration(t *testing.T) {
	hook := &recordingHook{}
	service := newTestService(t, func(o *Options) { o.EventHook = hook })
	ctx := context.Background()

	_, err := service.AddWidget(ctx, AddWidgetRequest{})
	assert.ErrorIs(t, err, errInvalidKind)

	_, err = service.AddWidget(ctx, AddWidgetRequest{Kind: "covid.unknown"})
	assert.ErrorContains(t, err, "unknown widget kind")

	_, err = service.AddWidget(ctx, AddWidgetRequest{
		Kind:          KindEvolution,
		Configuration: map[string]any{"series": []string{"hospitalized"}},
	})
	assert.ErrorContains(t, err, "failed validation")

	instance, err := service.AddWidget(ctx, AddWidgetRequest{
		Kind:          KindEvolution,
		Configuration: map[string]any{"series": []string{"deaths"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, instance.ID)
	assert.Empty(t, instance.Name)
	assert.Equal(t, []string{"add"}, hook.reasons())
}

func TestServiceRequiresWidgetStore(t *testing.T) {
	service := NewService(Options{})
	_, err := service.AddWidget(context.Background(), AddWidgetRequest{Kind: KindValues})
	assert.ErrorIs(t, err, errMissingWidgetStore)
	_, err = service.Widgets(context.Background())
	assert.ErrorIs(t, err, errMissingWidgetStore)
}

func TestServiceRemoveAndReorder(t *testing.T) {
	hook := &recordingHook{}
	service := newTestService(t, func(o *Options) { o.EventHook = hook })
	ctx := context.Background()

	var ids []string
	for _, req := range DefaultSeedWidgets() {
		instance, err := service.AddWidget(ctx, req)
		require.NoError(t, err)
		ids = append(ids, instance.ID)
	}

	require.NoError(t, service.ReorderWidgets(ctx, []string{ids[2], "missing", ids[0]}))
	widgets, err := service.Widgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[0], ids[1]}, instanceIDs(widgets))

	assert.ErrorIs(t, service.RemoveWidget(ctx, ""), errInvalidWidgetID)
	require.NoError(t, service.RemoveWidget(ctx, ids[0]))
	assert.ErrorIs(t, service.RemoveWidget(ctx, ids[0]), ErrWidgetNotFound)

	widgets, err = service.Widgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[1]}, instanceIDs(widgets))
	assert.Equal(t, []string{"add", "add", "add", "reorder", "remove"}, hook.reasons())
}

func TestMemoryWidgetStoreInsertsAtPosition(t *testing.T) {
	store := NewMemoryWidgetStore()
	ctx := context.Background()
	first, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{Kind: KindValues})
	require.NoError(t, err)
	second, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{Kind: KindValues})
	require.NoError(t, err)
	zero := 0
	head, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{Kind: KindDaily, Position: &zero})
	require.NoError(t, err)

	widgets, err := store.ListInstances(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{head.ID, first.ID, second.ID}, instanceIDs(widgets))
}

func TestApplyOrderOverride(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, applyOrderOverride([]string{"a", "b"}, nil))
	assert.Equal(t, []string{"c", "a", "b"}, applyOrderOverride([]string{"a", "b", "c"}, []string{"c", "c", "x"}))
}

func TestSeedDashboardOnlySeedsEmptyDashboards(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	require.NoError(t, SeedDashboard(ctx, service))
	require.NoError(t, SeedDashboard(ctx, service))

	widgets, err := service.Widgets(ctx)
	require.NoError(t, err)
	require.Len(t, widgets, len(DefaultSeedWidgets()))
	assert.Equal(t, KindEvolution, widgets[0].Kind)
}

func instanceIDs(instances []WidgetInstance) []string {
	out := make([]string, 0, len(instances))
	for _, instance := range instances {
		out = append(out, instance.ID)
	}
	return out
}
