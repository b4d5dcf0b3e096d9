package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

// StateInput requests the current app state.
type StateInput struct{}

type stateService interface {
	State(ctx context.Context) (dashboard.AppState, error)
}

// StateQuery reads the shell state: language, theme and the update flag.
type StateQuery struct {
	service stateService
}

// NewStateQuery builds the query.
func NewStateQuery(service stateService) *StateQuery {
	return &StateQuery{service: service}
}

var _ gocommand.Querier[StateInput, dashboard.AppState] = (*StateQuery)(nil)

// Query returns a copy of the state.
func (q *StateQuery) Query(ctx context.Context, _ StateInput) (dashboard.AppState, error) {
	return q.service.State(ctx)
}
