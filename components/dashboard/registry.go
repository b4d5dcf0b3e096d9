package dashboard

import (
	"fmt"
	"sort"
	"sync"
)

// KindHook lets packages register widget kinds during init().
type KindHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []KindHook
)

// RegisterKindHook registers a hook executed against new registries.
func RegisterKindHook(h KindHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry implements KindRegistry with hook + manifest support.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]WidgetKind
	meta  map[string]ManifestWidget
}

// NewRegistry builds an empty registry and applies global hooks.
func NewRegistry() (*Registry, error) {
	reg := &Registry{
		kinds: map[string]WidgetKind{},
		meta:  map[string]ManifestWidget{},
	}
	if err := reg.ApplyHooks(); err != nil {
		return nil, err
	}
	return reg, nil
}

// NewDefaultRegistry builds a registry preloaded with the built-in kinds.
func NewDefaultRegistry() (*Registry, error) {
	reg, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, kind := range DefaultKinds() {
		if err := reg.RegisterKind(kind.Definition, kind.Widget); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// ApplyHooks executes registered kind hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterKind stores a widget kind.
func (r *Registry) RegisterKind(def WidgetDefinition, widget *Widget) error {
	if def.Code == "" {
		return &ConfigurationError{Err: fmt.Errorf("widget definition code is required")}
	}
	if widget == nil {
		return &ConfigurationError{Widget: def.Code, Err: ErrMissingView}
	}
	def.normalizeLocalizedFields()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[def.Code] = WidgetKind{Definition: def, Widget: widget}
	return nil
}

// Kind fetches a widget kind by code.
func (r *Registry) Kind(code string) (WidgetKind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kind, ok := r.kinds[code]
	return kind, ok
}

// Definition fetches a widget definition by code.
func (r *Registry) Definition(code string) (WidgetDefinition, bool) {
	kind, ok := r.Kind(code)
	return kind.Definition, ok
}

// Kinds returns all registered kinds ordered by code.
func (r *Registry) Kinds() []WidgetKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]WidgetKind, 0, len(r.kinds))
	for _, kind := range r.kinds {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i].Definition.Code < kinds[j].Definition.Code
	})
	return kinds
}

// ManifestMetadata returns the manifest entry a kind was loaded from.
func (r *Registry) ManifestMetadata(code string) (ManifestWidget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.meta[code]
	return meta, ok
}

func (r *Registry) recordManifest(code string, entry ManifestWidget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meta[code] = entry
}
