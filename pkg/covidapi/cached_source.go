package covidapi

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

// NewCachedSource keeps the last successful dataset for ttl so dashboard
// remounts do not refetch. A failed fetch serves the stale copy when one exists.
func NewCachedSource(source dashboard.DataSource, ttl time.Duration) dashboard.DataSource {
	return &cachedSource{source: source, ttl: ttl, now: time.Now}
}

type cachedSource struct {
	source dashboard.DataSource
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	data    dashboard.Dataset
	fetched time.Time
	ok      bool
}

func (s *cachedSource) Dataset(ctx context.Context) (dashboard.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ok && s.now().Sub(s.fetched) < s.ttl {
		return cloneDataset(s.data), nil
	}
	data, err := s.source.Dataset(ctx)
	if err != nil {
		if s.ok {
			return cloneDataset(s.data), nil
		}
		return dashboard.Dataset{}, err
	}
	s.data = data
	s.fetched = s.now()
	s.ok = true
	return cloneDataset(data), nil
}
