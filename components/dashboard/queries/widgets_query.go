package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

// WidgetsInput filters the placed widgets. An empty Kind lists all of them.
type WidgetsInput struct {
	Kind string
}

type widgetLister interface {
	Widgets(ctx context.Context) ([]dashboard.WidgetInstance, error)
}

// WidgetsQuery lists the placed widget instances in display order.
type WidgetsQuery struct {
	service widgetLister
}

// NewWidgetsQuery builds the query.
func NewWidgetsQuery(service widgetLister) *WidgetsQuery {
	return &WidgetsQuery{service: service}
}

var _ gocommand.Querier[WidgetsInput, []dashboard.WidgetInstance] = (*WidgetsQuery)(nil)

// Query lists the instances.
func (q *WidgetsQuery) Query(ctx context.Context, input WidgetsInput) ([]dashboard.WidgetInstance, error) {
	widgets, err := q.service.Widgets(ctx)
	if err != nil || input.Kind == "" {
		return widgets, err
	}
	out := make([]dashboard.WidgetInstance, 0, len(widgets))
	for _, w := range widgets {
		if w.Kind == input.Kind {
			out = append(out, w)
		}
	}
	return out, nil
}
