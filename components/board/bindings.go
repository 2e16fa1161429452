package board

import (
	"context"
	"fmt"
)

// MountedComponent is the durable record tying a component's options to its
// live instance and host cell.
type MountedComponent struct {
	Options   ComponentOptions
	Component *Instance
	Cell      *Cell
}

// Bindings attaches components to cells. It is the only path that changes
// which component a cell holds.
type Bindings struct {
	board *Board
	list  []*MountedComponent
}

func newBindings(b *Board) *Bindings {
	return &Bindings{board: b}
}

// Cell looks a cell up by id across the whole tree, nested layouts
// included. It returns nil when no cell has that id.
func (b *Bindings) Cell(id string) *Cell {
	if id == "" {
		return nil
	}
	return b.board.rt.index.cells[id]
}

// AddComponent resolves the type and target cell, builds the component with
// merged options, records the binding and loads the component. A failure
// leaves the board as it was.
func (b *Bindings) AddComponent(ctx context.Context, opts ComponentOptions) (*Instance, error) {
	if b.board.destroyed {
		return nil, ErrBoardDestroyed
	}
	registry := b.board.opts.Registry
	factory, err := registry.Resolve(opts.Type)
	if err != nil {
		return nil, err
	}
	cellID := opts.CellID()
	cell := b.Cell(cellID)
	if cell == nil {
		return nil, &CellNotFoundError{CellID: cellID}
	}
	if cell.mounted != nil {
		return nil, &CellOccupiedError{CellID: cellID, ComponentID: cell.mounted.id}
	}
	merged := opts.WithDefaults(b.board.opts.ComponentOptions)
	if def, ok := registry.Definition(opts.Type); ok {
		if err := b.board.opts.Validator.Validate(def, merged.Map()); err != nil {
			return nil, err
		}
	}
	widget, err := buildWidget(factory, merged)
	if err != nil {
		return nil, err
	}
	inst := newInstance(b.board.rt, merged, widget, cell)
	binding := &MountedComponent{Options: opts.Clone(), Component: inst, Cell: cell}
	b.list = append(b.list, binding)
	cell.mounted = inst
	inst.release = b.release
	setAutoSize(inst, cell.effective, NoAnimation)
	if err := inst.Load(ctx); err != nil {
		inst.Destroy()
		return nil, err
	}
	b.board.opts.Logger.Debug("component bound", "component", inst.id, "type", opts.Type, "cell", cellID)
	return inst, nil
}

func buildWidget(factory Factory, opts ComponentOptions) (w Widget, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("board: factory for %q panicked: %v", opts.Type, r)
		}
	}()
	w, err = factory(opts)
	if err != nil {
		return nil, fmt.Errorf("board: build %q: %w", opts.Type, err)
	}
	if w == nil {
		return nil, fmt.Errorf("board: factory for %q returned no widget", opts.Type)
	}
	return w, nil
}

// release drops the binding of a destroyed instance.
func (b *Bindings) release(inst *Instance) {
	for i, binding := range b.list {
		if binding.Component != inst {
			continue
		}
		b.list = append(b.list[:i:i], b.list[i+1:]...)
		if binding.Cell != nil && binding.Cell.mounted == inst {
			binding.Cell.mounted = nil
		}
		return
	}
}

// RemoveComponent destroys the component mounted in cellID.
func (b *Bindings) RemoveComponent(cellID string) error {
	if b.board.destroyed {
		return ErrBoardDestroyed
	}
	cell := b.Cell(cellID)
	if cell == nil {
		return &CellNotFoundError{CellID: cellID}
	}
	if cell.mounted == nil {
		return fmt.Errorf("%w: cell %q is empty", ErrComponentNotMounted, cellID)
	}
	cell.mounted.Destroy()
	return nil
}

// MoveComponent rebinds the component in from to the empty cell to.
func (b *Bindings) MoveComponent(from, to string) (*Instance, error) {
	if b.board.destroyed {
		return nil, ErrBoardDestroyed
	}
	src := b.Cell(from)
	if src == nil {
		return nil, &CellNotFoundError{CellID: from}
	}
	dst := b.Cell(to)
	if dst == nil {
		return nil, &CellNotFoundError{CellID: to}
	}
	inst := src.mounted
	if inst == nil {
		return nil, fmt.Errorf("%w: cell %q is empty", ErrComponentNotMounted, from)
	}
	if src == dst {
		return inst, nil
	}
	if dst.mounted != nil {
		return nil, &CellOccupiedError{CellID: to, ComponentID: dst.mounted.id}
	}
	binding := b.binding(inst)
	src.mounted = nil
	dst.mounted = inst
	inst.cell = dst
	inst.host = dst.element
	if inst.root != nil {
		dst.element.AppendChild(inst.root)
	}
	if binding != nil {
		binding.Cell = dst
		binding.Options.Cell = to
		binding.Options.RenderTo = ""
	}
	inst.options.Cell = to
	inst.options.RenderTo = ""
	setAutoSize(inst, dst.effective, NoAnimation)
	return inst, nil
}

func (b *Bindings) binding(inst *Instance) *MountedComponent {
	for _, binding := range b.list {
		if binding.Component == inst {
			return binding
		}
	}
	return nil
}

// Mounted returns a copy of the binding list in creation order.
func (b *Bindings) Mounted() []MountedComponent {
	out := make([]MountedComponent, 0, len(b.list))
	for _, binding := range b.list {
		out = append(out, *binding)
	}
	return out
}

// Len reports how many bindings exist.
func (b *Bindings) Len() int { return len(b.list) }

// options returns the bound options in binding order.
func (b *Bindings) options() []ComponentOptions {
	out := make([]ComponentOptions, 0, len(b.list))
	for _, binding := range b.list {
		out = append(out, binding.Options.Clone())
	}
	return out
}
