package covidapi

import (
	"context"
	"sync"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

// MockClient serves an in-memory dataset for tests and local demos.
type MockClient struct {
	mu    sync.RWMutex
	data  dashboard.Dataset
	err   error
	calls int
}

// NewMockClient builds a mock from the provided fixture.
func NewMockClient(data dashboard.Dataset) *MockClient {
	return &MockClient{data: data}
}

// Dataset returns a copy of the configured dataset or the configured error.
func (c *MockClient) Dataset(context.Context) (dashboard.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return dashboard.Dataset{}, c.err
	}
	return cloneDataset(c.data), nil
}

// SetDataset replaces the fixture.
func (c *MockClient) SetDataset(data dashboard.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
}

// SetError makes subsequent calls fail.
func (c *MockClient) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Calls reports how many times Dataset was invoked.
func (c *MockClient) Calls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls
}

func cloneDataset(data dashboard.Dataset) dashboard.Dataset {
	out := dashboard.Dataset{
		Labels: append([]string(nil), data.Labels...),
		Series: make(map[string][]float64, len(data.Series)),
	}
	for name, values := range data.Series {
		out.Series[name] = append([]float64(nil), values...)
	}
	return out
}
