package dashboard

import (
	"context"
	"errors"
)

var errDuplicateSection = errors.New("duplicate section key")

// MenuItem is one icon of the actions menu.
type MenuItem struct {
	Key   string `json:"key"`
	Icon  string `json:"icon,omitempty"`
	Label string `json:"label"`
}

// Confirmation is the open confirmation surface of an action.
type Confirmation struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// MenuView is the rendered actions menu.
type MenuView struct {
	Items        []MenuItem    `json:"items"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
	HTML         string        `json:"-"`
}

// ActionsMenu renders the secondary sections of a card and tracks which
// confirmation is open. At most one confirmation is open at a time.
type ActionsMenu struct {
	sections []Section
	open     string

	dirty   bool
	lastKey string
	cached  MenuView
	renders int
}

func newActionsMenu(sections []Section) *ActionsMenu {
	return &ActionsMenu{sections: sections, dirty: true}
}

// Items lists the menu entries in order.
func (m *ActionsMenu) Items() []MenuItem {
	items := make([]MenuItem, 0, len(m.sections))
	for _, s := range m.sections {
		items = append(items, MenuItem{Key: s.Key, Icon: s.Icon, Label: s.Label})
	}
	return items
}

// OpenKey returns the key of the open confirmation, if any.
func (m *ActionsMenu) OpenKey() string { return m.open }

// Renders counts actual (non-memoized) renders.
func (m *ActionsMenu) Renders() int { return m.renders }

// Open shows the confirmation for key, closing any other one.
func (m *ActionsMenu) Open(key string) error {
	if _, ok := m.section(key); !ok {
		return ErrUnknownSection
	}
	if m.open != key {
		m.open = key
		m.dirty = true
	}
	return nil
}

// Cancel closes the open confirmation without side effects.
func (m *ActionsMenu) Cancel() {
	if m.open != "" {
		m.open = ""
		m.dirty = true
	}
}

// Confirm runs the action of the open confirmation and closes it.
func (m *ActionsMenu) Confirm(ctx context.Context, key string, props WidgetProps) error {
	if m.open == "" || m.open != key {
		return ErrActionNotOpen
	}
	section, ok := m.section(key)
	if !ok {
		return ErrUnknownSection
	}
	m.open = ""
	m.dirty = true
	if section.Action == nil {
		return nil
	}
	return section.Action(ctx, props)
}

// Render returns the menu for props. Renders are skipped while neither props
// nor the open state changed.
func (m *ActionsMenu) Render(ctx context.Context, props WidgetProps) (MenuView, error) {
	key, comparable := propsKey(props)
	if !m.dirty && comparable && key == m.lastKey {
		return m.cached, nil
	}
	view := MenuView{Items: m.Items()}
	if m.open != "" {
		section, ok := m.section(m.open)
		if !ok {
			return MenuView{}, ErrUnknownSection
		}
		if section.Render == nil {
			return MenuView{}, &ConfigurationError{Section: section.Key, Err: ErrMissingRender}
		}
		body, err := renderFragment(ctx, section.Render(props))
		if err != nil {
			return MenuView{}, err
		}
		view.Confirmation = &Confirmation{
			Key:   section.Key,
			Title: section.title(props),
			Body:  body,
		}
	}
	html, err := renderFragment(ctx, menuComponent(props.ID, view))
	if err != nil {
		return MenuView{}, err
	}
	view.HTML = html
	m.cached = view
	m.lastKey = key
	m.dirty = false
	m.renders++
	return view, nil
}

func (m *ActionsMenu) section(key string) (Section, bool) {
	for _, s := range m.sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// propsKey hashes the comparable part of the props. Callbacks, the translator
// and index values are ignored; the dataset contributes its shape only.
func propsKey(props WidgetProps) (string, bool) {
	key := configHash(map[string]any{
		"id":       props.ID,
		"name":     props.Name,
		"subtitle": props.Subtitle,
		"language": props.Language,
		"theme":    props.Theme,
		"dataset":  []int{props.Dataset.Len(), len(props.Dataset.Series)},
		"data":     map[string]any(props.Data),
	})
	return key, key != "invalid"
}
