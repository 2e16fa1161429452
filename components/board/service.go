package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Service serializes access to a Board for callers on many goroutines, such
// as HTTP handlers, and drives its frames.
type Service struct {
	mu    sync.Mutex
	board *Board
}

// NewService wraps a board.
func NewService(b *Board) *Service {
	return &Service{board: b}
}

// Do runs fn with exclusive access to the board.
func (s *Service) Do(fn func(b *Board) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.board)
}

// SizeRequest targets any node by id; an empty target means the board.
// Absent dimensions keep their setting and null releases it.
type SizeRequest struct {
	Target    string    `json:"target,omitempty"`
	Width     Dimension `json:"width,omitzero"`
	Height    Dimension `json:"height,omitzero"`
	Animation Animation `json:"animation"`
}

// SizeResult reports the outcome of a size request.
type SizeResult struct {
	Target  string `json:"target"`
	Kind    string `json:"kind"`
	Changed bool   `json:"changed"`
	Size    Size   `json:"size"`
}

// ComponentSnapshot is the transport view of a bound component.
type ComponentSnapshot struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Cell     string           `json:"cell"`
	State    string           `json:"state"`
	Size     Size             `json:"size"`
	Rendered Size             `json:"rendered"`
	Redraws  int              `json:"redraws"`
	Options  ComponentOptions `json:"options"`
}

// CellSnapshot is the transport view of a cell.
type CellSnapshot struct {
	ID        string             `json:"id"`
	Row       string             `json:"row"`
	Size      Size               `json:"size"`
	Nested    string             `json:"nested,omitempty"`
	Component *ComponentSnapshot `json:"component,omitempty"`
}

func snapshotComponent(inst *Instance) *ComponentSnapshot {
	if inst == nil {
		return nil
	}
	out := &ComponentSnapshot{
		ID:       inst.id,
		Type:     inst.Type(),
		State:    inst.state.String(),
		Size:     inst.effective,
		Rendered: inst.rendered,
		Redraws:  inst.redraws,
		Options:  inst.Options(),
	}
	if inst.cell != nil {
		out.Cell = inst.cell.id
	}
	return out
}

func snapshotCell(c *Cell) CellSnapshot {
	out := CellSnapshot{ID: c.id, Size: c.effective, Component: snapshotComponent(c.mounted)}
	if c.row != nil {
		out.Row = c.row.id
	}
	if c.nested != nil {
		out.Nested = c.nested.id
	}
	return out
}

// AddComponent binds a component.
func (s *Service) AddComponent(ctx context.Context, opts ComponentOptions) (*ComponentSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, err := s.board.AddComponent(ctx, opts)
	if err != nil {
		return nil, err
	}
	return snapshotComponent(inst), nil
}

// RemoveComponent tears down the component bound to cellID.
func (s *Service) RemoveComponent(_ context.Context, cellID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.bindings.RemoveComponent(cellID)
}

// MoveComponent rebinds a component into an empty cell.
func (s *Service) MoveComponent(_ context.Context, from, to string) (*ComponentSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, err := s.board.bindings.MoveComponent(from, to)
	if err != nil {
		return nil, err
	}
	return snapshotComponent(inst), nil
}

// SetSize resizes the target node.
func (s *Service) SetSize(_ context.Context, req SizeRequest) (SizeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board.destroyed {
		return SizeResult{}, ErrBoardDestroyed
	}
	node, ok := s.board.Node(req.Target)
	if !ok {
		return SizeResult{}, fmt.Errorf("%w: %q", ErrNodeNotFound, req.Target)
	}
	changed, err := node.SetSize(req.Width, req.Height, req.Animation)
	if err != nil {
		return SizeResult{}, err
	}
	return SizeResult{Target: node.ID(), Kind: string(node.Kind()), Changed: changed, Size: node.Size()}, nil
}

// Redraw forces the component in cellID to recompute its output.
func (s *Service) Redraw(_ context.Context, cellID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cell := s.board.Cell(cellID)
	if cell == nil {
		return &CellNotFoundError{CellID: cellID}
	}
	if cell.mounted == nil {
		return ErrComponentNotMounted
	}
	return cell.mounted.Redraw()
}

// Reflow re-measures the board container.
func (s *Service) Reflow(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Reflow()
}

// Snapshot returns the board JSON.
func (s *Service) Snapshot(context.Context) BoardJSON {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.ToJSON()
}

// Cells returns every cell in tree order.
func (s *Service) Cells(context.Context) []CellSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cells := s.board.Cells()
	out := make([]CellSnapshot, 0, len(cells))
	for _, c := range cells {
		out = append(out, snapshotCell(c))
	}
	return out
}

// Cell returns a single cell.
func (s *Service) Cell(_ context.Context, id string) (CellSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.board.Cell(id)
	if c == nil {
		return CellSnapshot{}, &CellNotFoundError{CellID: id}
	}
	return snapshotCell(c), nil
}

// Components returns every bound component in binding order.
func (s *Service) Components(context.Context) []ComponentSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ComponentSnapshot, 0, s.board.bindings.Len())
	for _, binding := range s.board.bindings.list {
		out = append(out, *snapshotComponent(binding.Component))
	}
	return out
}

// ExportLocal stores every layout.
func (s *Service) ExportLocal(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.ExportLocal(ctx)
}

// ImportLocal restores every stored layout.
func (s *Service) ImportLocal(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.ImportLocal(ctx)
}

// HTML serializes the board markup.
func (s *Service) HTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.HTML()
}

// Tick advances frames once.
func (s *Service) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Tick()
}

// Settle runs every pending frame and async load to completion.
func (s *Service) Settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Settle()
}

// Run ticks the board every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Destroy tears the board down.
func (s *Service) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Destroy()
}
