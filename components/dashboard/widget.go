package dashboard

import (
	"context"
	"strings"

	"github.com/a-h/templ"
)

const (
	// SectionView is the key of the primary section rendered in the card body.
	SectionView = "view"
	// SectionRemove is reserved for the injected confirm-to-remove action.
	SectionRemove = "remove"

	removeIcon         = "trash"
	removeLabel        = "Elimina"
	removeTitle        = "Eliminar?"
	removeConfirmLabel = "Confirma l'eliminació"
)

// Section is a named capability of a widget: its primary view or a secondary
// action shown in the actions menu.
type Section struct {
	Key   string
	Icon  string
	Label string
	// Title produces the confirmation title for actions. Defaults to Label.
	Title func(props WidgetProps) string
	// Render produces the fragment for the view body or the confirmation surface.
	Render func(props WidgetProps) templ.Component
	// Action runs when the confirmation surface is confirmed.
	Action func(ctx context.Context, props WidgetProps) error
}

func (s Section) title(props WidgetProps) string {
	if s.Title != nil {
		return s.Title(props)
	}
	return s.Label
}

// IndexValues is the slice of data selected by the shared index.
type IndexValues struct {
	Index  int
	Label  string
	Values map[string]float64
}

// WidgetProps are the inputs of a single widget render.
type WidgetProps struct {
	ID          string
	Name        string
	Subtitle    string
	IndexValues IndexValues
	Dataset     Dataset
	Data        WidgetData
	Language    string
	Theme       string
	Translator  Translator
	OnRemove    func(ctx context.Context, id string) error
}

// T translates key within namespace, returning key without a translator.
func (p WidgetProps) T(namespace, key string) string {
	if p.Translator == nil {
		return key
	}
	return p.Translator.T(namespace, key)
}

// withoutIndexValues drops the index-only data so the actions menu ignores it.
func (p WidgetProps) withoutIndexValues() WidgetProps {
	p.IndexValues = IndexValues{}
	return p
}

// Widget is a composed widget kind: ordered sections with a mandatory view and
// the reserved remove action always last.
type Widget struct {
	name     string
	view     Section
	sections []Section
}

// WidgetOption customizes widget composition.
type WidgetOption func(*Widget)

// WithWidgetName labels the widget in configuration errors and logs.
func WithWidgetName(name string) WidgetOption {
	return func(w *Widget) {
		w.name = name
	}
}

// NewWidget validates the sections and builds a widget. A caller-supplied
// remove section is discarded in favour of the injected one.
func NewWidget(sections []Section, opts ...WidgetOption) (*Widget, error) {
	w := &Widget{}
	for _, opt := range opts {
		opt(w)
	}
	seen := make(map[string]struct{}, len(sections)+1)
	hasView := false
	for _, section := range sections {
		key := strings.TrimSpace(section.Key)
		if key == "" {
			return nil, &ConfigurationError{Widget: w.name, Err: ErrUnknownSection}
		}
		if key == SectionRemove {
			continue
		}
		if _, dup := seen[key]; dup {
			return nil, &ConfigurationError{Widget: w.name, Section: key, Err: errDuplicateSection}
		}
		if section.Render == nil {
			return nil, &ConfigurationError{Widget: w.name, Section: key, Err: ErrMissingRender}
		}
		seen[key] = struct{}{}
		section.Key = key
		if key == SectionView {
			w.view = section
			hasView = true
			continue
		}
		w.sections = append(w.sections, section)
	}
	if !hasView {
		return nil, &ConfigurationError{Widget: w.name, Section: SectionView, Err: ErrMissingView}
	}
	w.sections = append(w.sections, removeSection())
	return w, nil
}

// MustWidget is NewWidget for package-level declarations; it panics on
// configuration errors.
func MustWidget(sections []Section, opts ...WidgetOption) *Widget {
	w, err := NewWidget(sections, opts...)
	if err != nil {
		panic(err)
	}
	return w
}

// Name returns the optional widget label.
func (w *Widget) Name() string { return w.name }

// View returns the primary section.
func (w *Widget) View() Section { return w.view }

// Actions returns the non-view sections in menu order.
func (w *Widget) Actions() []Section {
	return append([]Section(nil), w.sections...)
}

// Section looks up a non-view section by key.
func (w *Widget) Section(key string) (Section, bool) {
	for _, section := range w.sections {
		if section.Key == key {
			return section, true
		}
	}
	return Section{}, false
}

// Mount creates a card: a per-instance render target with its own actions menu state.
func (w *Widget) Mount(id string) *Card {
	return &Card{
		id:     id,
		widget: w,
		menu:   newActionsMenu(w.sections),
	}
}

func removeSection() Section {
	return Section{
		Key:   SectionRemove,
		Icon:  removeIcon,
		Label: removeLabel,
		Title: func(WidgetProps) string { return removeTitle },
		Render: func(props WidgetProps) templ.Component {
			return removeConfirmButton(props.ID)
		},
		Action: func(ctx context.Context, props WidgetProps) error {
			if props.OnRemove == nil {
				return nil
			}
			return props.OnRemove(ctx, props.ID)
		},
	}
}

// RenderedWidget is the output of a card render.
type RenderedWidget struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Menu     MenuView `json:"menu"`
	Body     string   `json:"body"`
	Fault    string   `json:"fault,omitempty"`
	HTML     string   `json:"html"`
}

// Card is a mounted widget instance.
type Card struct {
	id          string
	widget      *Widget
	menu        *ActionsMenu
	viewRenders int
}

// ID returns the instance id the card was mounted with.
func (c *Card) ID() string { return c.id }

// Menu exposes the card's actions menu.
func (c *Card) Menu() *ActionsMenu { return c.menu }

// ViewRenders counts view renders.
func (c *Card) ViewRenders() int { return c.viewRenders }

// Render produces the card: header with name, subtitle and actions menu, body
// with the view fragment. The view receives the full props.
func (c *Card) Render(ctx context.Context, props WidgetProps) (RenderedWidget, error) {
	if props.ID == "" {
		props.ID = c.id
	}
	menu, err := c.menu.Render(ctx, props.withoutIndexValues())
	if err != nil {
		return RenderedWidget{}, err
	}
	view := c.widget.view
	if view.Render == nil {
		return RenderedWidget{}, &ConfigurationError{Widget: c.widget.name, Section: SectionView, Err: ErrMissingRender}
	}
	body, err := renderFragment(ctx, view.Render(props))
	if err != nil {
		return RenderedWidget{}, err
	}
	c.viewRenders++
	out := RenderedWidget{
		ID:       props.ID,
		Title:    props.Name,
		Subtitle: props.Subtitle,
		Menu:     menu,
		Body:     body,
	}
	out.HTML, err = renderFragment(ctx, cardComponent(out))
	return out, err
}

// Confirm runs the open action with the props the menu sees.
func (c *Card) Confirm(ctx context.Context, key string, props WidgetProps) error {
	if props.ID == "" {
		props.ID = c.id
	}
	return c.menu.Confirm(ctx, key, props.withoutIndexValues())
}
