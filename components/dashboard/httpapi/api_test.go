package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
	"github.com/goliatone/go-dashboard-shell/components/dashboard/commands"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type addCommander struct {
	stubCommander[commands.AddWidgetInput]
}

func (a *addCommander) Execute(ctx context.Context, msg commands.AddWidgetInput) error {
	if msg.Result != nil {
		*msg.Result = dashboard.WidgetInstance{ID: "w-new", Kind: msg.Kind}
	}
	return a.stubCommander.Execute(ctx, msg)
}

type indexCommander struct {
	stubCommander[commands.ControlIndexInput]
}

func (i *indexCommander) Execute(ctx context.Context, msg commands.ControlIndexInput) error {
	if msg.Result != nil {
		*msg.Result = dashboard.IndexState{Value: msg.Value, Max: 60}
	}
	return i.stubCommander.Execute(ctx, msg)
}

func TestHandleAddWidget(t *testing.T) {
	add := &addCommander{}
	api := &Handlers{API: &CommandExecutor{Add: add}}
	buf, _ := json.Marshal(map[string]any{"kind": dashboard.KindValues, "name": "Valors"})
	req := httptest.NewRequest(http.MethodPost, "/widgets", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleAddWidget(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if add.calls != 1 || add.last.Kind != dashboard.KindValues || add.last.Name != "Valors" {
		t.Fatalf("expected add to execute with decoded request, got %#v", add.last)
	}
	var created dashboard.WidgetInstance
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.ID != "w-new" {
		t.Fatalf("expected created instance in body, got %s", rec.Body.String())
	}
}

func TestHandleAddWidgetRejectsMalformedBody(t *testing.T) {
	add := &addCommander{}
	api := &Handlers{API: &CommandExecutor{Add: add}}
	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	api.HandleAddWidget(rec, req)
	if rec.Code != http.StatusBadRequest || add.calls != 0 {
		t.Fatalf("expected 400 without execution, got %d", rec.Code)
	}
}

func TestHandleRemoveWidget(t *testing.T) {
	remove := &stubCommander[commands.RemoveWidgetInput]{}
	api := &Handlers{API: &CommandExecutor{Remove: remove}}
	req := httptest.NewRequest(http.MethodDelete, "/widgets/w1", nil)
	rec := httptest.NewRecorder()
	api.HandleRemoveWidget(rec, req, "w1")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if remove.last.WidgetID != "w1" {
		t.Fatalf("expected widget id propagation")
	}
}

func TestHandleRemoveWidgetNotFound(t *testing.T) {
	remove := &stubCommander[commands.RemoveWidgetInput]{err: fmt.Errorf("remove: %w", dashboard.ErrWidgetNotFound)}
	api := &Handlers{API: &CommandExecutor{Remove: remove}}
	rec := httptest.NewRecorder()
	api.HandleRemoveWidget(rec, httptest.NewRequest(http.MethodDelete, "/widgets/w9", nil), "w9")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleReorderWidgets(t *testing.T) {
	reorder := &stubCommander[commands.ReorderWidgetsInput]{}
	api := &Handlers{API: &CommandExecutor{Reorder: reorder}}
	buf, _ := json.Marshal(commands.ReorderWidgetsInput{WidgetIDs: []string{"w1", "w2"}})
	req := httptest.NewRequest(http.MethodPost, "/widgets/reorder", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleReorderWidgets(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(reorder.last.WidgetIDs) != 2 {
		t.Fatalf("expected ids to decode, got %#v", reorder.last)
	}
}

func TestHandlePreferences(t *testing.T) {
	language := &stubCommander[commands.ChangeLanguageInput]{}
	theme := &stubCommander[commands.ChangeThemeInput]{}
	api := &Handlers{API: &CommandExecutor{Language: language, Theme: theme}}

	rec := httptest.NewRecorder()
	api.HandleChangeLanguage(rec, httptest.NewRequest(http.MethodPost, "/language", strings.NewReader(`{"language":"en"}`)))
	if rec.Code != http.StatusOK || language.last.Language != "en" {
		t.Fatalf("expected language change, got %d %#v", rec.Code, language.last)
	}

	rec = httptest.NewRecorder()
	api.HandleChangeTheme(rec, httptest.NewRequest(http.MethodPost, "/theme", nil))
	if rec.Code != http.StatusOK || theme.calls != 1 || theme.last.Theme != "" {
		t.Fatalf("expected empty body to toggle the theme, got %d %#v", rec.Code, theme.last)
	}
}

func TestHandleAcceptUpdate(t *testing.T) {
	accept := &stubCommander[commands.AcceptUpdateInput]{}
	api := &Handlers{API: &CommandExecutor{Accept: accept}}
	rec := httptest.NewRecorder()
	api.HandleAcceptUpdate(rec, httptest.NewRequest(http.MethodPost, "/update/accept", nil))
	if rec.Code != http.StatusAccepted || accept.calls != 1 {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	accept.err = dashboard.ErrNoPendingUpdate
	rec = httptest.NewRecorder()
	api.HandleAcceptUpdate(rec, httptest.NewRequest(http.MethodPost, "/update/accept", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a pending update, got %d", rec.Code)
	}
}

func TestHandleControlIndex(t *testing.T) {
	index := &indexCommander{}
	api := &Handlers{API: &CommandExecutor{Index: index}}
	rec := httptest.NewRecorder()
	api.HandleControlIndex(rec, httptest.NewRequest(http.MethodPost, "/index", strings.NewReader(`{"command":"set","value":7}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var state dashboard.IndexState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil || state.Value != 7 || state.Max != 60 {
		t.Fatalf("unexpected index state %s", rec.Body.String())
	}
	if index.last.Command != dashboard.IndexSet {
		t.Fatalf("expected set command, got %q", index.last.Command)
	}
}

func TestHandleWidgetAction(t *testing.T) {
	action := &stubCommander[commands.WidgetActionInput]{}
	api := &Handlers{API: &CommandExecutor{Action: action}}
	rec := httptest.NewRecorder()
	api.HandleWidgetAction(rec, httptest.NewRequest(http.MethodPost, "/widgets/w1/actions/open", strings.NewReader(`{"key":"remove"}`)), "w1", commands.ActionOpen)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if action.last.WidgetID != "w1" || action.last.Key != "remove" || action.last.Op != commands.ActionOpen {
		t.Fatalf("unexpected action input %#v", action.last)
	}

	action.err = dashboard.ErrActionNotOpen
	rec = httptest.NewRecorder()
	api.HandleWidgetAction(rec, httptest.NewRequest(http.MethodPost, "/widgets/w1/actions/confirm", nil), "w1", commands.ActionConfirm)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCommandExecutorReportsMissingCommands(t *testing.T) {
	err := (&CommandExecutor{}).AcceptUpdate(context.Background(), commands.AcceptUpdateInput{})
	if !errors.Is(err, ErrCommandUnavailable) {
		t.Fatalf("expected ErrCommandUnavailable, got %v", err)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{dashboard.ErrNotReady, http.StatusServiceUnavailable},
		{dashboard.ErrLoopClosed, http.StatusServiceUnavailable},
		{fmt.Errorf("wrap: %w", dashboard.ErrWidgetNotFound), http.StatusNotFound},
		{dashboard.ErrActionNotOpen, http.StatusConflict},
		{&dashboard.ConfigurationError{Err: dashboard.ErrMissingView}, http.StatusBadRequest},
		{errors.New("invalid configuration"), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.err); got != tc.want {
			t.Fatalf("StatusFor(%v): expected %d, got %d", tc.err, tc.want, got)
		}
	}
}
