package board

import (
	"context"
	"fmt"
)

// EditMode is the effect surface of the board editor: the pointer plumbing
// lives in the client, these are the operations it ends in.
type EditMode struct {
	board   *Board
	enabled bool
	sidebar []string
}

func newEditMode(b *Board, opts EditModeOptions) *EditMode {
	return &EditMode{
		board:   b,
		enabled: opts.Enabled,
		sidebar: append([]string(nil), opts.Sidebar...),
	}
}

func (e *EditMode) Enabled() bool { return e.enabled }

func (e *EditMode) Activate() { e.enabled = true }

func (e *EditMode) Deactivate() { e.enabled = false }

// SidebarComponents lists the component types offered for dropping. When
// none were configured every registered type is offered.
func (e *EditMode) SidebarComponents() []string {
	if len(e.sidebar) > 0 {
		return append([]string(nil), e.sidebar...)
	}
	return e.board.opts.Registry.Types()
}

// OptionsOnDrop asks a throwaway widget of typeName for its drop defaults.
// Definition drop defaults fill keys the widget leaves unset.
func (e *EditMode) OptionsOnDrop(typeName, cellID string) (ComponentOptions, error) {
	registry := e.board.opts.Registry
	factory, err := registry.Resolve(typeName)
	if err != nil {
		return ComponentOptions{}, err
	}
	proto, err := buildWidget(factory, ComponentOptions{Type: typeName, Cell: cellID})
	if err != nil {
		return ComponentOptions{}, err
	}
	opts := proto.OptionsOnDrop(SidebarContext{Cell: cellID, Available: e.SidebarComponents()})
	opts.Type = typeName
	opts.Cell = cellID
	if def, ok := registry.Definition(typeName); ok && len(def.DropDefaults) > 0 {
		opts = opts.WithDefaults(ComponentOptions{Settings: def.DropDefaults})
	}
	return opts, nil
}

// DropComponent inserts a component of typeName into an empty cell using its drop defaults.
func (e *EditMode) DropComponent(ctx context.Context, typeName, cellID string) (*Instance, error) {
	if !e.enabled {
		return nil, ErrEditModeDisabled
	}
	opts, err := e.OptionsOnDrop(typeName, cellID)
	if err != nil {
		return nil, err
	}
	return e.board.bindings.AddComponent(ctx, opts)
}

// MoveComponent drags a component from one cell into an empty one.
func (e *EditMode) MoveComponent(from, to string) (*Instance, error) {
	if !e.enabled {
		return nil, ErrEditModeDisabled
	}
	return e.board.bindings.MoveComponent(from, to)
}

// ResizeCell applies an editor drag to a cell. A cell holding a component
// that is not resizable rejects the change.
func (e *EditMode) ResizeCell(cellID string, width, height Dimension) (bool, error) {
	if !e.enabled {
		return false, ErrEditModeDisabled
	}
	cell := e.board.Cell(cellID)
	if cell == nil {
		return false, &CellNotFoundError{CellID: cellID}
	}
	if cell.mounted != nil && !cell.mounted.options.IsResizable() {
		return false, fmt.Errorf("%w: %s", ErrNotResizable, cell.mounted.id)
	}
	return cell.SetSize(width, height, NoAnimation)
}

// AddRow appends a row to a layout.
func (e *EditMode) AddRow(layoutID string, opts RowOptions) (*Row, error) {
	if !e.enabled {
		return nil, ErrEditModeDisabled
	}
	l := e.board.Layout(layoutID)
	if l == nil {
		return nil, fmt.Errorf("%w: layout %q", ErrNodeNotFound, layoutID)
	}
	return l.AddRow(opts)
}

// AddCell appends a cell to a row.
func (e *EditMode) AddCell(rowID string, opts CellOptions) (*Cell, error) {
	if !e.enabled {
		return nil, ErrEditModeDisabled
	}
	r := e.board.Row(rowID)
	if r == nil {
		return nil, fmt.Errorf("%w: row %q", ErrNodeNotFound, rowID)
	}
	return r.AddCell(opts)
}

// RemoveCell deletes a cell, tearing down its binding first.
func (e *EditMode) RemoveCell(cellID string) error {
	if !e.enabled {
		return ErrEditModeDisabled
	}
	cell := e.board.Cell(cellID)
	if cell == nil {
		return &CellNotFoundError{CellID: cellID}
	}
	return cell.row.RemoveCell(cellID)
}
