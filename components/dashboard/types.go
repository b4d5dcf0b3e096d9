package dashboard

import (
	"context"
	"time"
)

// WidgetStore persists the widget instances shown on the dashboard.
// Implementations ensure thread safety.
type WidgetStore interface {
	CreateInstance(ctx context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error)
	DeleteInstance(ctx context.Context, instanceID string) error
	ListInstances(ctx context.Context) ([]WidgetInstance, error)
	ReorderInstances(ctx context.Context, instanceIDs []string) error
}

// KindRegistry stores composed widget kinds discoverable via hooks or manifests.
type KindRegistry interface {
	RegisterKind(def WidgetDefinition, widget *Widget) error
	Kind(code string) (WidgetKind, bool)
	Kinds() []WidgetKind
}

// EventHook notifies transports (REST/WebSocket) about dashboard changes.
type EventHook interface {
	Notify(ctx context.Context, event Event) error
}

// WidgetDefinition describes a widget kind.
type WidgetDefinition struct {
	Code                 string            `json:"code" yaml:"code"`
	Name                 string            `json:"name" yaml:"name"`
	NameLocalized        map[string]string `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Schema               map[string]any    `json:"schema,omitempty" yaml:"schema,omitempty"`
	Category             string            `json:"category,omitempty" yaml:"category,omitempty"`
}

// NameForLocale returns the display name for the requested locale with graceful fallback to the default name.
func (def WidgetDefinition) NameForLocale(locale string) string {
	return ResolveLocalizedValue(def.NameLocalized, locale, def.Name)
}

// DescriptionForLocale returns the localized description if available.
func (def WidgetDefinition) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(def.DescriptionLocalized, locale, def.Description)
}

func (def *WidgetDefinition) normalizeLocalizedFields() {
	def.NameLocalized = normalizeLocaleMap(def.NameLocalized)
	def.DescriptionLocalized = normalizeLocaleMap(def.DescriptionLocalized)
}

// WidgetKind pairs a definition with its composed widget.
type WidgetKind struct {
	Definition WidgetDefinition
	Widget     *Widget
}

// WidgetInstance is a widget placed on the dashboard.
type WidgetInstance struct {
	ID            string         `json:"id"`
	Kind          string         `json:"kind"`
	Name          string         `json:"name,omitempty"`
	Subtitle      string         `json:"subtitle,omitempty"`
	Configuration map[string]any `json:"configuration,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// CreateWidgetInstanceInput configures new instances.
type CreateWidgetInstanceInput struct {
	Kind          string
	Name          string
	Subtitle      string
	Configuration map[string]any
	Position      *int
}

// Event describes changes that transports might care about.
type Event struct {
	Reason          string      `json:"reason"`
	WidgetID        string      `json:"widget_id,omitempty"`
	Kind            string      `json:"kind,omitempty"`
	Index           *IndexState `json:"index,omitempty"`
	Language        string      `json:"language,omitempty"`
	Theme           string      `json:"theme,omitempty"`
	UpdateAvailable bool        `json:"update_available,omitempty"`
}
