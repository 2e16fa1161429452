package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-board/components/board"
	"github.com/goliatone/go-board/components/board/commands"
	"github.com/goliatone/go-board/components/board/httpapi"
	"github.com/goliatone/go-board/components/board/queries"
)

// Config wires go-router with the board controller, API and broadcast hook.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *board.Controller
	API        httpapi.Executor
	Broadcast  *board.BroadcastHook
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for board endpoints.
type RouteConfig struct {
	HTML       string
	Snapshot   string
	Cells      string
	Components string
	Component  string
	Move       string
	Resize     string
	Redraw     string
	Reflow     string
	Export     string
	Import     string
	WebSocket  string
}

// Register mounts board routes (HTML, JSON, REST, WebSocket) on a go-router router.
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
		base = "/admin"
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

	if cfg.API != nil {
		registerAPI(group, cfg.API, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Get(routes.Snapshot, router.WrapHandler(func(ctx router.Context) error {
		snapshot, err := api.Snapshot(ctx.Context())
		if err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusOK, snapshot)
	}))

	r.Get(routes.Cells, router.WrapHandler(func(ctx router.Context) error {
		cells, err := api.Cells(ctx.Context(), queries.CellsInput{Cell: ctx.Query("cell")})
		if err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusOK, cells)
	}))

	r.Get(routes.Components, router.WrapHandler(func(ctx router.Context) error {
		comps, err := api.Components(ctx.Context(), queries.ComponentsInput{Type: ctx.Query("type")})
		if err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusOK, comps)
	}))

	r.Post(routes.Components, router.WrapHandler(func(ctx router.Context) error {
		var payload board.ComponentOptions
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.AddComponent(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Delete(routes.Component, router.WrapHandler(func(ctx router.Context) error {
		cell := ctx.Param("cell")
		if cell == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("cell is required"))
		}
		if err := api.RemoveComponent(ctx.Context(), commands.RemoveComponentInput{Cell: cell}); err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusNoContent, map[string]string{"status": "removed"})
	}))

	r.Post(routes.Move, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.MoveComponentInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.MoveComponent(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "moved"})
	}))

	r.Post(routes.Resize, router.WrapHandler(func(ctx router.Context) error {
		var payload board.SizeRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Resize(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "resized"})
	}))

	r.Post(routes.Redraw, router.WrapHandler(func(ctx router.Context) error {
		input := commands.RedrawInput{Cell: ctx.Param("cell")}
		if err := api.Redraw(ctx.Context(), input); err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))

	r.Post(routes.Reflow, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Reflow(ctx.Context()); err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))

	r.Post(routes.Export, router.WrapHandler(func(ctx router.Context) error {
		if err := api.PersistLayouts(ctx.Context(), commands.LayoutsInput{}); err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "exported"})
	}))

	r.Post(routes.Import, router.WrapHandler(func(ctx router.Context) error {
		if err := api.PersistLayouts(ctx.Context(), commands.LayoutsInput{Import: true}); err != nil {
			return respondError(ctx, httpapi.StatusCode(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "imported"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *board.BroadcastHook, path string) {
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

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/board"
	}
	if routes.Snapshot == "" {
		routes.Snapshot = "/board/_snapshot"
	}
	if routes.Cells == "" {
		routes.Cells = "/board/cells"
	}
	if routes.Components == "" {
		routes.Components = "/board/components"
	}
	if routes.Component == "" {
		routes.Component = "/board/components/:cell"
	}
	if routes.Move == "" {
		routes.Move = "/board/components/move"
	}
	if routes.Resize == "" {
		routes.Resize = "/board/resize"
	}
	if routes.Redraw == "" {
		routes.Redraw = "/board/cells/:cell/redraw"
	}
	if routes.Reflow == "" {
		routes.Reflow = "/board/reflow"
	}
	if routes.Export == "" {
		routes.Export = "/board/layouts/export"
	}
	if routes.Import == "" {
		routes.Import = "/board/layouts/import"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/board/ws"
	}
	return routes
}
