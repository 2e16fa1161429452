package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-board/components/board"
	"github.com/goliatone/go-board/components/board/commands"
	"github.com/goliatone/go-board/components/board/queries"
)

// Executor is the transport-neutral surface adapters call into.
type Executor interface {
	AddComponent(ctx context.Context, opts board.ComponentOptions) error
	RemoveComponent(ctx context.Context, input commands.RemoveComponentInput) error
	MoveComponent(ctx context.Context, input commands.MoveComponentInput) error
	Resize(ctx context.Context, req board.SizeRequest) error
	Redraw(ctx context.Context, input commands.RedrawInput) error
	Reflow(ctx context.Context) error
	PersistLayouts(ctx context.Context, input commands.LayoutsInput) error
	Snapshot(ctx context.Context) (board.BoardJSON, error)
	Cells(ctx context.Context, input queries.CellsInput) ([]board.CellSnapshot, error)
	Components(ctx context.Context, input queries.ComponentsInput) ([]board.ComponentSnapshot, error)
}

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Add             gocommand.Commander[board.ComponentOptions]
	Remove          gocommand.Commander[commands.RemoveComponentInput]
	Move            gocommand.Commander[commands.MoveComponentInput]
	Resizer         gocommand.Commander[board.SizeRequest]
	Redrawer        gocommand.Commander[commands.RedrawInput]
	Reflower        gocommand.Commander[commands.ReflowInput]
	Layouts         gocommand.Commander[commands.LayoutsInput]
	SnapshotQuery   gocommand.Querier[queries.SnapshotInput, board.BoardJSON]
	CellsQuery      gocommand.Querier[queries.CellsInput, []board.CellSnapshot]
	ComponentsQuery gocommand.Querier[queries.ComponentsInput, []board.ComponentSnapshot]
}

// NewHandlers wires every command and query to one board service.
func NewHandlers(svc *board.Service, telemetry commands.Telemetry) *Handlers {
	return &Handlers{
		Add:             commands.NewAddComponentCommand(svc, telemetry),
		Remove:          commands.NewRemoveComponentCommand(svc, telemetry),
		Move:            commands.NewMoveComponentCommand(svc, telemetry),
		Resizer:         commands.NewResizeCommand(svc, telemetry),
		Redrawer:        commands.NewRedrawCommand(svc, telemetry),
		Reflower:        commands.NewReflowCommand(svc, telemetry),
		Layouts:         commands.NewPersistLayoutsCommand(svc, telemetry),
		SnapshotQuery:   queries.NewSnapshotQuery(svc),
		CellsQuery:      queries.NewCellsQuery(svc),
		ComponentsQuery: queries.NewComponentsQuery(svc),
	}
}

var _ Executor = (*Handlers)(nil)

var errNotConfigured = errors.New("httpapi: handler not configured")

func (h *Handlers) AddComponent(ctx context.Context, opts board.ComponentOptions) error {
	if h.Add == nil {
		return errNotConfigured
	}
	return h.Add.Execute(ctx, opts)
}

func (h *Handlers) RemoveComponent(ctx context.Context, input commands.RemoveComponentInput) error {
	if h.Remove == nil {
		return errNotConfigured
	}
	return h.Remove.Execute(ctx, input)
}

func (h *Handlers) MoveComponent(ctx context.Context, input commands.MoveComponentInput) error {
	if h.Move == nil {
		return errNotConfigured
	}
	return h.Move.Execute(ctx, input)
}

func (h *Handlers) Resize(ctx context.Context, req board.SizeRequest) error {
	if h.Resizer == nil {
		return errNotConfigured
	}
	return h.Resizer.Execute(ctx, req)
}

func (h *Handlers) Redraw(ctx context.Context, input commands.RedrawInput) error {
	if h.Redrawer == nil {
		return errNotConfigured
	}
	return h.Redrawer.Execute(ctx, input)
}

func (h *Handlers) Reflow(ctx context.Context) error {
	if h.Reflower == nil {
		return errNotConfigured
	}
	return h.Reflower.Execute(ctx, commands.ReflowInput{})
}

func (h *Handlers) PersistLayouts(ctx context.Context, input commands.LayoutsInput) error {
	if h.Layouts == nil {
		return errNotConfigured
	}
	return h.Layouts.Execute(ctx, input)
}

func (h *Handlers) Snapshot(ctx context.Context) (board.BoardJSON, error) {
	if h.SnapshotQuery == nil {
		return board.BoardJSON{}, errNotConfigured
	}
	return h.SnapshotQuery.Query(ctx, queries.SnapshotInput{})
}

func (h *Handlers) Cells(ctx context.Context, input queries.CellsInput) ([]board.CellSnapshot, error) {
	if h.CellsQuery == nil {
		return nil, errNotConfigured
	}
	return h.CellsQuery.Query(ctx, input)
}

func (h *Handlers) Components(ctx context.Context, input queries.ComponentsInput) ([]board.ComponentSnapshot, error) {
	if h.ComponentsQuery == nil {
		return nil, errNotConfigured
	}
	return h.ComponentsQuery.Query(ctx, input)
}

// StatusCode maps board errors onto HTTP statuses.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, board.ErrCellNotFound), errors.Is(err, board.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrCellOccupied), errors.Is(err, board.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, board.ErrUnknownComponentType), errors.Is(err, board.ErrInvalidOptions),
		errors.Is(err, board.ErrNotResizable), errors.Is(err, board.ErrInvalidClass):
		return http.StatusUnprocessableEntity
	case errors.Is(err, board.ErrComponentNotMounted), errors.Is(err, board.ErrComponentDestroyed),
		errors.Is(err, board.ErrEditModeDisabled):
		return http.StatusConflict
	case errors.Is(err, board.ErrBoardDestroyed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), StatusCode(err))
}

func (h *Handlers) HandleAddComponent(w http.ResponseWriter, r *http.Request) {
	var payload board.ComponentOptions
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.AddComponent(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleRemoveComponent(w http.ResponseWriter, r *http.Request, cellID string) {
	if err := h.RemoveComponent(r.Context(), commands.RemoveComponentInput{Cell: cellID}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleMoveComponent(w http.ResponseWriter, r *http.Request) {
	var payload commands.MoveComponentInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.MoveComponent(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleResize(w http.ResponseWriter, r *http.Request) {
	var payload board.SizeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Resize(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleRedraw(w http.ResponseWriter, r *http.Request, cellID string) {
	if err := h.Redraw(r.Context(), commands.RedrawInput{Cell: cellID}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleReflow(w http.ResponseWriter, r *http.Request) {
	if err := h.Reflow(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleExportLayouts(w http.ResponseWriter, r *http.Request) {
	if err := h.PersistLayouts(r.Context(), commands.LayoutsInput{}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleImportLayouts(w http.ResponseWriter, r *http.Request) {
	if err := h.PersistLayouts(r.Context(), commands.LayoutsInput{Import: true}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) HandleCells(w http.ResponseWriter, r *http.Request) {
	cells, err := h.Cells(r.Context(), queries.CellsInput{Cell: r.URL.Query().Get("cell")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cells)
}

func (h *Handlers) HandleComponents(w http.ResponseWriter, r *http.Request) {
	comps, err := h.Components(r.Context(), queries.ComponentsInput{Type: r.URL.Query().Get("type")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comps)
}
