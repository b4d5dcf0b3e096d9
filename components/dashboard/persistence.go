package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// KVStore is the flat key-value backend behind persisted UI state.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is a concurrency-safe in-process KVStore.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get returns the stored value or ErrKeyNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set stores value under key.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// DefaultPersistPrefix namespaces the shell's persisted fields.
const DefaultPersistPrefix = "App"

// DefaultPersistBlacklist lists session-only fields that are never persisted.
var DefaultPersistBlacklist = []string{"newServiceWorkerDetected", "initializing"}

var errMissingStore = errors.New("dashboard: persister has no store")

// PersisterOption customizes a Persister.
type PersisterOption func(*Persister)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) PersisterOption {
	return func(p *Persister) {
		p.prefix = prefix
	}
}

// WithBlacklist replaces the list of fields that are never persisted.
func WithBlacklist(fields ...string) PersisterOption {
	return func(p *Persister) {
		p.blacklist = make(map[string]struct{}, len(fields))
		for _, f := range fields {
			p.blacklist[f] = struct{}{}
		}
	}
}

// WithPersisterLogger sets the logger used for transient IO failures.
func WithPersisterLogger(logger *zap.Logger) PersisterOption {
	return func(p *Persister) {
		p.logger = normalizeLogger(logger)
	}
}

// Persister maps the JSON fields of a state struct onto prefixed keys.
// Reads and writes that fail are logged and the in-memory values win.
type Persister struct {
	store     KVStore
	prefix    string
	blacklist map[string]struct{}
	logger    *zap.Logger

	// written mirrors what the store holds; only touched on the owner goroutine.
	written map[string]string
}

// NewPersister builds a persister over store.
func NewPersister(store KVStore, opts ...PersisterOption) *Persister {
	p := &Persister{
		store:   store,
		prefix:  DefaultPersistPrefix,
		logger:  zap.NewNop(),
		written: map[string]string{},
	}
	WithBlacklist(DefaultPersistBlacklist...)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key returns the storage key of field.
func (p *Persister) Key(field string) string {
	return p.prefix + field
}

// Hydrate reads the persisted fields of target without blocking the caller.
// The values are applied to target and onHydrated is invoked from a func
// handed to post, so both run on the owner's goroutine. post may drop the
// func when the owner is gone.
func (p *Persister) Hydrate(ctx context.Context, target any, post func(func()), onHydrated func()) error {
	fields, err := p.fields(target)
	if err != nil {
		return err
	}
	go func() {
		loaded := p.read(ctx, fields)
		post(func() {
			if err := p.apply(target, loaded); err != nil {
				p.logger.Warn("persisted state ignored", zap.String("prefix", p.prefix), zap.Error(err))
			}
			if onHydrated != nil {
				onHydrated()
			}
		})
	}()
	return nil
}

// Load is the blocking variant of Hydrate.
func (p *Persister) Load(ctx context.Context, target any) error {
	fields, err := p.fields(target)
	if err != nil {
		return err
	}
	return p.apply(target, p.read(ctx, fields))
}

// Save writes every non-blacklisted field whose encoded value changed since
// the last read or write. Failures are logged and returned joined.
func (p *Persister) Save(ctx context.Context, source any) error {
	if p.store == nil {
		return errMissingStore
	}
	encoded, err := encodeFields(source)
	if err != nil {
		return err
	}
	var saveErr error
	for _, field := range sortedKeys(encoded) {
		if p.blacklisted(field) {
			continue
		}
		key := p.Key(field)
		value := string(encoded[field])
		if prev, ok := p.written[key]; ok && prev == value {
			continue
		}
		if err := p.store.Set(ctx, key, value); err != nil {
			p.logger.Warn("persist field failed", zap.String("key", key), zap.Error(err))
			saveErr = errors.Join(saveErr, fmt.Errorf("dashboard: persist %s: %w", key, err))
			continue
		}
		p.written[key] = value
	}
	return saveErr
}

func (p *Persister) fields(target any) ([]string, error) {
	if p.store == nil {
		return nil, errMissingStore
	}
	encoded, err := encodeFields(target)
	if err != nil {
		return nil, err
	}
	fields := make([]string, 0, len(encoded))
	for _, field := range sortedKeys(encoded) {
		if !p.blacklisted(field) {
			fields = append(fields, field)
		}
	}
	return fields, nil
}

func (p *Persister) read(ctx context.Context, fields []string) map[string]string {
	loaded := make(map[string]string, len(fields))
	for _, field := range fields {
		key := p.Key(field)
		value, err := p.store.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, ErrKeyNotFound) {
				p.logger.Warn("read persisted field failed", zap.String("key", key), zap.Error(err))
			}
			continue
		}
		loaded[field] = value
	}
	return loaded
}

func (p *Persister) apply(target any, loaded map[string]string) error {
	if len(loaded) == 0 {
		return nil
	}
	current, err := encodeFields(target)
	if err != nil {
		return err
	}
	for field, value := range loaded {
		if !json.Valid([]byte(value)) {
			p.logger.Warn("persisted field is not valid JSON", zap.String("key", p.Key(field)))
			continue
		}
		current[field] = json.RawMessage(value)
		p.written[p.Key(field)] = value
	}
	data, err := json.Marshal(current)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func (p *Persister) blacklisted(field string) bool {
	_, ok := p.blacklist[field]
	return ok
}

func encodeFields(v any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("dashboard: encode state: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("dashboard: state must encode to an object: %w", err)
	}
	return fields, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
