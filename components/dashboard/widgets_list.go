package dashboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// RenderEnv carries the shell-level inputs every widget receives.
type RenderEnv struct {
	Language   string
	Theme      string
	Translator Translator
}

// KindOption is an entry of the "add widget" picker.
type KindOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// WidgetsListView is the rendered list of cards.
type WidgetsListView struct {
	Items []RenderedWidget `json:"items"`
	Kinds []KindOption     `json:"kinds"`
	Empty string           `json:"empty,omitempty"`
}

// WidgetsList renders one card per placed widget instance. Each card renders
// inside its own Boundary so a failing widget never takes the list down.
type WidgetsList struct {
	service *Service
	cell    *IndexCell
	logger  *zap.Logger

	dataset   Dataset
	instances []WidgetInstance
	cards     map[string]*Card
}

// NewWidgetsList builds a list bound to the shared index cell.
func NewWidgetsList(service *Service, cell *IndexCell, logger *zap.Logger) *WidgetsList {
	return &WidgetsList{
		service: service,
		cell:    cell,
		logger:  normalizeLogger(logger),
		cards:   map[string]*Card{},
	}
}

// SetDataset replaces the dataset rendered by the widgets.
func (l *WidgetsList) SetDataset(dataset Dataset) {
	l.dataset = dataset
}

// Dataset returns the current dataset.
func (l *WidgetsList) Dataset() Dataset { return l.dataset }

// Reload fetches the placed instances and drops cards of removed ones.
func (l *WidgetsList) Reload(ctx context.Context) error {
	instances, err := l.service.Widgets(ctx)
	if err != nil {
		return err
	}
	l.instances = instances
	live := make(map[string]struct{}, len(instances))
	for _, instance := range instances {
		live[instance.ID] = struct{}{}
	}
	for id, card := range l.cards {
		if _, ok := live[id]; !ok {
			card.Menu().Cancel()
			delete(l.cards, id)
		}
	}
	return nil
}

// Instances returns the placed instances in display order.
func (l *WidgetsList) Instances() []WidgetInstance {
	return append([]WidgetInstance(nil), l.instances...)
}

// Card returns the mounted card of an instance.
func (l *WidgetsList) Card(id string) (*Card, bool) {
	card, ok := l.cards[id]
	return card, ok
}

// Add places a new widget and reloads the list.
func (l *WidgetsList) Add(ctx context.Context, req AddWidgetRequest) (WidgetInstance, error) {
	instance, err := l.service.AddWidget(ctx, req)
	if err != nil {
		return WidgetInstance{}, err
	}
	return instance, l.Reload(ctx)
}

// Remove deletes a widget and reloads the list.
func (l *WidgetsList) Remove(ctx context.Context, id string) error {
	if err := l.service.RemoveWidget(ctx, id); err != nil {
		return err
	}
	return l.Reload(ctx)
}

// Reorder changes the display order and reloads the list.
func (l *WidgetsList) Reorder(ctx context.Context, ids []string) error {
	if err := l.service.ReorderWidgets(ctx, ids); err != nil {
		return err
	}
	return l.Reload(ctx)
}

// OpenAction opens the confirmation of an action on a card.
func (l *WidgetsList) OpenAction(id, key string) error {
	card, _, err := l.mounted(id)
	if err != nil {
		return err
	}
	return card.Menu().Open(key)
}

// CancelAction closes the open confirmation of a card.
func (l *WidgetsList) CancelAction(id string) error {
	card, _, err := l.mounted(id)
	if err != nil {
		return err
	}
	card.Menu().Cancel()
	return nil
}

// ConfirmAction runs the open action of a card.
func (l *WidgetsList) ConfirmAction(ctx context.Context, id, key string, env RenderEnv) error {
	card, instance, err := l.mounted(id)
	if err != nil {
		return err
	}
	return card.Confirm(ctx, key, l.props(instance, env))
}

// Render renders every card. Faulted cards are replaced by a fallback card.
func (l *WidgetsList) Render(ctx context.Context, env RenderEnv) WidgetsListView {
	view := WidgetsListView{
		Items: make([]RenderedWidget, 0, len(l.instances)),
		Kinds: l.kindOptions(env.Language),
	}
	for _, instance := range l.instances {
		view.Items = append(view.Items, l.renderCard(ctx, instance, env))
	}
	if len(view.Items) == 0 {
		view.Empty = translate(env.Translator, "WidgetsList", "No widgets")
	}
	return view
}

func (l *WidgetsList) renderCard(ctx context.Context, instance WidgetInstance, env RenderEnv) RenderedWidget {
	var rendered RenderedWidget
	boundary := NewBoundary("widget:"+instance.ID, l.logger)
	err := boundary.Guard(func() error {
		card, err := l.mount(instance)
		if err != nil {
			return err
		}
		rendered, err = card.Render(ctx, l.props(instance, env))
		return err
	})
	if err == nil {
		return rendered
	}
	fallback := RenderedWidget{
		ID:    instance.ID,
		Title: instance.Name,
		Fault: translate(env.Translator, "Dashboard", "Something went wrong"),
	}
	if body, rerr := renderFragment(ctx, faultMessage(fallback.Fault)); rerr == nil {
		fallback.Body = body
	}
	if markup, rerr := renderFragment(ctx, cardComponent(fallback)); rerr == nil {
		fallback.HTML = markup
	}
	return fallback
}

func (l *WidgetsList) mount(instance WidgetInstance) (*Card, error) {
	if card, ok := l.cards[instance.ID]; ok {
		return card, nil
	}
	kind, ok := l.service.Kind(instance.Kind)
	if !ok {
		return nil, fmt.Errorf("dashboard: unknown widget kind %s", instance.Kind)
	}
	card := kind.Widget.Mount(instance.ID)
	l.cards[instance.ID] = card
	return card, nil
}

func (l *WidgetsList) mounted(id string) (*Card, WidgetInstance, error) {
	for _, instance := range l.instances {
		if instance.ID != id {
			continue
		}
		card, err := l.mount(instance)
		if err != nil {
			return nil, WidgetInstance{}, err
		}
		return card, instance, nil
	}
	return nil, WidgetInstance{}, ErrWidgetNotFound
}

func (l *WidgetsList) props(instance WidgetInstance, env RenderEnv) WidgetProps {
	name := instance.Name
	if kind, ok := l.service.Kind(instance.Kind); ok && name == "" {
		name = kind.Definition.NameForLocale(env.Language)
	}
	return WidgetProps{
		ID:          instance.ID,
		Name:        name,
		Subtitle:    instance.Subtitle,
		IndexValues: l.dataset.At(l.cell.Value()),
		Dataset:     l.dataset,
		Data:        WidgetData(instance.Configuration),
		Language:    env.Language,
		Theme:       env.Theme,
		Translator:  env.Translator,
		OnRemove: func(ctx context.Context, id string) error {
			err := l.Remove(ctx, id)
			if errors.Is(err, ErrWidgetNotFound) {
				l.logger.Warn("widget already removed", zap.String("widget_id", id))
				return l.Reload(ctx)
			}
			return err
		},
	}
}

func (l *WidgetsList) kindOptions(locale string) []KindOption {
	kinds := l.service.Kinds()
	out := make([]KindOption, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, KindOption{
			Code: kind.Definition.Code,
			Name: kind.Definition.NameForLocale(locale),
		})
	}
	return out
}

func translate(t Translator, namespace, key string) string {
	if t == nil {
		return key
	}
	return t.T(namespace, key)
}
