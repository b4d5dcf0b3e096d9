package dashboard

import (
	"fmt"
	"io"
	"os"

	"github.com/a-h/templ"
	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// WidgetManifestDocument models a YAML/JSON manifest describing widget kinds.
type WidgetManifestDocument struct {
	Version string           `json:"version" yaml:"version"`
	Name    string           `json:"name,omitempty" yaml:"name,omitempty"`
	Widgets []ManifestWidget `json:"widgets" yaml:"widgets"`
	Source  string           `json:"-" yaml:"-"`
}

// ManifestWidget describes a single widget kind: its definition, the named
// view it renders and its static secondary sections.
type ManifestWidget struct {
	Definition  WidgetDefinition  `json:"definition" yaml:"definition"`
	View        string            `json:"view" yaml:"view"`
	Actions     []ManifestSection `json:"actions,omitempty" yaml:"actions,omitempty"`
	Maintainers []string          `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestSection is a secondary section with a static confirmation body.
type ManifestSection struct {
	Key   string `json:"key" yaml:"key"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Label string `json:"label" yaml:"label"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Body  string `json:"body,omitempty" yaml:"body,omitempty"`
}

// ViewFactory builds the view section of a kind.
type ViewFactory func(def WidgetDefinition) Section

// ViewCatalog maps manifest view names to factories.
type ViewCatalog map[string]ViewFactory

// LoadManifestFile reads a manifest from disk, registers it against the registry, and returns the document.
func (r *Registry) LoadManifestFile(path string, views ViewCatalog) (*WidgetManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc, views); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument composes and registers every kind of a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *WidgetManifestDocument, views ViewCatalog) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	for _, entry := range doc.Widgets {
		widget, err := entry.Compose(views)
		if err != nil {
			return fmt.Errorf("dashboard: compose widget %s from %s: %w", entry.Definition.Code, doc.Source, err)
		}
		if err := r.RegisterKind(entry.Definition, widget); err != nil {
			return fmt.Errorf("dashboard: register widget %s from %s: %w", entry.Definition.Code, doc.Source, err)
		}
		r.recordManifest(entry.Definition.Code, entry)
	}
	return nil
}

// Compose builds the widget described by the entry.
func (entry ManifestWidget) Compose(views ViewCatalog) (*Widget, error) {
	factory, ok := views[entry.View]
	if !ok || factory == nil {
		return nil, &ConfigurationError{Widget: entry.Definition.Code, Section: SectionView, Err: fmt.Errorf("%w: unknown view %q", ErrMissingView, entry.View)}
	}
	sections := []Section{factory(entry.Definition)}
	for _, action := range entry.Actions {
		sections = append(sections, action.section())
	}
	return NewWidget(sections, WithWidgetName(entry.Definition.Code))
}

func (s ManifestSection) section() Section {
	title := s.Title
	if title == "" {
		title = s.Label
	}
	body := s.Body
	return Section{
		Key:    s.Key,
		Icon:   s.Icon,
		Label:  s.Label,
		Title:  func(WidgetProps) string { return title },
		Render: func(WidgetProps) templ.Component { return Text(body) },
	}
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*WidgetManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*WidgetManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc WidgetManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *WidgetManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Widgets))
	for idx, widget := range doc.Widgets {
		code := widget.Definition.Code
		if code == "" {
			return fmt.Errorf("dashboard: manifest widget at index %d is missing definition.code", idx)
		}
		if widget.Definition.Name == "" {
			return fmt.Errorf("dashboard: manifest widget %s missing definition.name", code)
		}
		if widget.View == "" {
			return &ConfigurationError{Widget: code, Section: SectionView, Err: ErrMissingView}
		}
		if _, exists := seen[code]; exists {
			return fmt.Errorf("dashboard: manifest duplicates widget code %s", code)
		}
		seen[code] = struct{}{}
	}
	return nil
}
