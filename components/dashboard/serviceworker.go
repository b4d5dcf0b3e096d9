package dashboard

import (
	"context"
	"sync"
	"time"
)

// Registration identifies a waiting application update.
type Registration struct {
	ScriptURL string    `json:"script_url"`
	Version   string    `json:"version,omitempty"`
	Detected  time.Time `json:"detected"`
}

// Installer activates an accepted update.
type Installer interface {
	Install(ctx context.Context, reg Registration) error
}

// InstallerFunc adapts a func to Installer.
type InstallerFunc func(ctx context.Context, reg Registration) error

// Install calls f.
func (f InstallerFunc) Install(ctx context.Context, reg Registration) error {
	return f(ctx, reg)
}

// UpdateBus carries "new version available" signals to subscribers. Each
// published registration is delivered once to every current subscriber.
type UpdateBus struct {
	mu   sync.RWMutex
	subs map[int]func(Registration)
	next int
}

// NewUpdateBus creates an empty bus.
func NewUpdateBus() *UpdateBus {
	return &UpdateBus{subs: make(map[int]func(Registration))}
}

// Subscribe registers fn and returns its cancel func.
func (b *UpdateBus) Subscribe(fn func(Registration)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
}

// Publish delivers reg and reports how many subscribers received it.
func (b *UpdateBus) Publish(reg Registration) int {
	if reg.Detected.IsZero() {
		reg.Detected = time.Now().UTC()
	}
	b.mu.RLock()
	subs := make([]func(Registration), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(reg)
	}
	return len(subs)
}

// Subscribers reports the number of active subscriptions.
func (b *UpdateBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
