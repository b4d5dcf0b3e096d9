package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"
	"github.com/goliatone/go-router/eventstream"
	"github.com/goliatone/go-router/ssefiber"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
	"github.com/goliatone/go-dashboard-shell/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-shell/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-shell/components/dashboard/queries"
)

// Config wires go-router with the shell controller, command API and event stream.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *dashboard.Controller
	API        httpapi.Executor
	Broadcast  *dashboard.BroadcastHook
	Events     eventstream.Stream
	State      gocommand.Querier[queries.StateInput, dashboard.AppState]
	Widgets    gocommand.Querier[queries.WidgetsInput, []dashboard.WidgetInstance]
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for shell endpoints.
type RouteConfig struct {
	HTML      string
	View      string
	State     string
	Language  string
	Theme     string
	Update    string
	Index     string
	Widgets   string
	WidgetID  string
	Reorder   string
	Action    string
	WebSocket string
	Events    string
}

// Register mounts the shell routes (HTML, JSON, REST, WebSocket, SSE) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/covid"
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
		view, err := cfg.Controller.View(ctx.Context())
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, dashboard.LayoutPayload(view))
	}))

	if cfg.State != nil {
		group.Get(routes.State, router.WrapHandler(func(ctx router.Context) error {
			state, err := cfg.State.Query(ctx.Context(), queries.StateInput{})
			if err != nil {
				return respondCommandError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, state)
		}))
	}

	if cfg.Widgets != nil {
		group.Get(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
			widgets, err := cfg.Widgets.Query(ctx.Context(), queries.WidgetsInput{Kind: ctx.Query("kind")})
			if err != nil {
				return respondCommandError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, widgets)
		}))
	}

	if cfg.API != nil {
		registerAPI(group, cfg.API, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	if cfg.Events != nil {
		group.Get(routes.Events, ssefiber.Handler(
			ssefiber.WithPath(routes.Events),
			ssefiber.WithStream(cfg.Events),
			ssefiber.WithScopeResolver(func(router.Context) (eventstream.Scope, error) {
				return dashboard.ShellEventScope(), nil
			}),
		))
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Post(routes.Language, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ChangeLanguageInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.ChangeLanguage(ctx.Context(), payload); err != nil {
			return respondCommandError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"language": payload.Language})
	}))

	r.Post(routes.Theme, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ChangeThemeInput
		if err := decodeOptional(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.ChangeTheme(ctx.Context(), payload); err != nil {
			return respondCommandError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "applied"})
	}))

	r.Post(routes.Update, router.WrapHandler(func(ctx router.Context) error {
		if err := api.AcceptUpdate(ctx.Context(), commands.AcceptUpdateInput{}); err != nil {
			return respondCommandError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "installing"})
	}))

	r.Post(routes.Index, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ControlIndexInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var state dashboard.IndexState
		payload.Result = &state
		if err := api.ControlIndex(ctx.Context(), payload); err != nil {
			return respondCommandError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, state)
	}))

	r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.AddWidgetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var created dashboard.WidgetInstance
		payload.Result = &created
		if err := api.AddWidget(ctx.Context(), payload); err != nil {
			return respondCommandError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, created)
	}))

	r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		if err := api.RemoveWidget(ctx.Context(), commands.RemoveWidgetInput{WidgetID: id}); err != nil {
			return respondCommandError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Post(routes.Reorder, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ReorderWidgetsInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.ReorderWidgets(ctx.Context(), payload); err != nil {
			return respondCommandError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "reordered"})
	}))

	r.Post(routes.Action, router.WrapHandler(func(ctx router.Context) error {
		op := commands.ActionOp(ctx.Param("op"))
		switch op {
		case commands.ActionOpen, commands.ActionCancel, commands.ActionConfirm:
		default:
			return respondError(ctx, http.StatusNotFound, fmt.Errorf("unknown action op %q", op))
		}
		var payload commands.WidgetActionInput
		if err := decodeOptional(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.WidgetID = ctx.Param("id")
		payload.Op = op
		if err := api.WidgetAction(ctx.Context(), payload); err != nil {
			return respondCommandError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": string(op)})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func decodeOptional(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func respondCommandError(ctx router.Context, err error) error {
	return respondError(ctx, httpapi.StatusFor(err), err)
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.View == "" {
		routes.View = "/dashboard/_view"
	}
	if routes.State == "" {
		routes.State = "/dashboard/_state"
	}
	if routes.Language == "" {
		routes.Language = "/dashboard/language"
	}
	if routes.Theme == "" {
		routes.Theme = "/dashboard/theme"
	}
	if routes.Update == "" {
		routes.Update = "/dashboard/update/accept"
	}
	if routes.Index == "" {
		routes.Index = "/dashboard/index"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/dashboard/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/dashboard/widgets/:id"
	}
	if routes.Reorder == "" {
		routes.Reorder = "/dashboard/widgets/reorder"
	}
	if routes.Action == "" {
		routes.Action = "/dashboard/widgets/:id/actions/:op"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	if routes.Events == "" {
		routes.Events = "/dashboard/events"
	}
	return routes
}
