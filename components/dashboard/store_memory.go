package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryWidgetStore keeps widget instances in process.
type MemoryWidgetStore struct {
	mu        sync.Mutex
	instances map[string]WidgetInstance
	order     []string
	now       func() time.Time
}

// NewMemoryWidgetStore creates an empty store.
func NewMemoryWidgetStore() *MemoryWidgetStore {
	return &MemoryWidgetStore{
		instances: map[string]WidgetInstance{},
		now:       time.Now,
	}
}

// CreateInstance stores a new instance with a random id.
func (s *MemoryWidgetStore) CreateInstance(_ context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	instance := WidgetInstance{
		ID:            uuid.NewString(),
		Kind:          input.Kind,
		Name:          input.Name,
		Subtitle:      input.Subtitle,
		Configuration: input.Configuration,
		CreatedAt:     s.now().UTC(),
	}
	s.instances[instance.ID] = instance
	if input.Position != nil && *input.Position >= 0 && *input.Position <= len(s.order) {
		idx := *input.Position
		s.order = append(s.order[:idx], append([]string{instance.ID}, s.order[idx:]...)...)
	} else {
		s.order = append(s.order, instance.ID)
	}
	return instance, nil
}

// DeleteInstance removes an instance. Unknown ids report ErrWidgetNotFound.
func (s *MemoryWidgetStore) DeleteInstance(_ context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[instanceID]; !ok {
		return ErrWidgetNotFound
	}
	delete(s.instances, instanceID)
	s.order = filterIDs(s.order, instanceID)
	return nil
}

// ListInstances returns instances in display order.
func (s *MemoryWidgetStore) ListInstances(context.Context) ([]WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WidgetInstance, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.instances[id])
	}
	return out, nil
}

// ReorderInstances moves the listed ids first, keeping the rest in place order.
func (s *MemoryWidgetStore) ReorderInstances(_ context.Context, instanceIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = applyOrderOverride(s.order, instanceIDs)
	return nil
}

func filterIDs(ids []string, drop string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
