package covidapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

func TestCachedSourceServesWithinTTL(t *testing.T) {
	mock := NewMockClient(dashboard.Dataset{
		Labels: []string{"2020-03-01"},
		Series: map[string][]float64{"confirmed": {1}},
	})
	now := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	source := NewCachedSource(mock, time.Minute).(*cachedSource)
	source.now = func() time.Time { return now }

	first, err := source.Dataset(context.Background())
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	first.Series["confirmed"][0] = 99
	second, _ := source.Dataset(context.Background())
	if mock.Calls() != 1 {
		t.Fatalf("expected a single upstream call, got %d", mock.Calls())
	}
	if second.Series["confirmed"][0] != 1 {
		t.Fatalf("expected callers to receive copies")
	}

	now = now.Add(2 * time.Minute)
	mock.SetError(errors.New("offline"))
	stale, err := source.Dataset(context.Background())
	if err != nil || stale.Len() != 1 {
		t.Fatalf("expected stale dataset on upstream failure, got %v %v", stale, err)
	}
	if mock.Calls() != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", mock.Calls())
	}
}

func TestCachedSourcePropagatesFirstFailure(t *testing.T) {
	mock := NewMockClient(dashboard.Dataset{})
	mock.SetError(errors.New("offline"))
	if _, err := NewCachedSource(mock, time.Minute).Dataset(context.Background()); err == nil {
		t.Fatalf("expected error without a cached copy")
	}
}
