package dashboard

import (
	"context"
	"errors"
	"io"

	"github.com/ettle/strcase"
)

// ViewSource produces the rendered shell view.
type ViewSource interface {
	View(ctx context.Context) (ShellView, error)
}

// ControllerOptions configures the HTML controller.
type ControllerOptions struct {
	Source   ViewSource
	Renderer Renderer
	Template string
}

// Controller renders the shell page through the template renderer.
type Controller struct {
	source   ViewSource
	renderer Renderer
	template string
}

// NewController wires the view source and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	template := opts.Template
	if template == "" {
		template = "dashboard"
	}
	return &Controller{
		source:   opts.Source,
		renderer: opts.Renderer,
		template: template,
	}
}

// View returns the current shell view.
func (c *Controller) View(ctx context.Context) (ShellView, error) {
	if c.source == nil {
		return ShellView{}, errors.New("dashboard: controller requires a view source")
	}
	return c.source.View(ctx)
}

// RenderTemplate renders the page into out.
func (c *Controller) RenderTemplate(ctx context.Context, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("dashboard: controller requires a renderer")
	}
	view, err := c.View(ctx)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, LayoutPayload(view), out)
	return err
}

// LayoutPayload converts the view into the template payload.
func LayoutPayload(view ShellView) map[string]any {
	payload := map[string]any{
		"phase":            view.Phase,
		"title":            view.Title,
		"language":         view.Language,
		"languages":        view.Languages,
		"theme":            view.Theme,
		"theme_style":      view.ThemeStyle,
		"update_available": view.UpdateAvailable,
		"labels":           templateLabels(view.Labels),
		"fault":            view.Fault,
		"ready":            view.Dashboard != nil,
	}
	if view.Dashboard == nil {
		return payload
	}
	widgets := make([]map[string]any, 0, len(view.Dashboard.Widgets.Items))
	for _, item := range view.Dashboard.Widgets.Items {
		widgets = append(widgets, map[string]any{
			"id":    item.ID,
			"title": item.Title,
			"html":  item.HTML,
			"fault": item.Fault,
		})
	}
	payload["index"] = view.Dashboard.Index
	payload["index_label"] = view.Dashboard.IndexLabel
	payload["index_last"] = view.Dashboard.Index.Max - 1
	payload["widgets"] = widgets
	payload["kinds"] = view.Dashboard.Widgets.Kinds
	payload["empty"] = view.Dashboard.Widgets.Empty
	payload["dashboard_fault"] = view.Dashboard.Fault
	return payload
}

// templateLabels re-keys labels as snake case identifiers usable in templates.
func templateLabels(labels map[string]string) map[string]string {
	out := make(map[string]string, len(labels))
	for key, value := range labels {
		out[strcase.ToSnake(key)] = value
	}
	return out
}
