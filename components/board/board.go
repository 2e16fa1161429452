package board

import (
	"context"
	"errors"
	"fmt"
)

// Board owns the layout tree, the component bindings and the board-wide options.
type Board struct {
	Sizer

	opts      Options
	rt        *runtime
	container *Element
	layouts   []*Layout
	bindings  *Bindings
	editMode  *EditMode
	destroyed bool
}

// NewBoard builds a board inside container. Layout errors abort construction.
// Component errors do not: each entry is bound independently, and failures
// come back joined alongside the usable board.
func NewBoard(ctx context.Context, container *Element, opts Options) (*Board, error) {
	if container == nil {
		return nil, &MissingContainerError{}
	}
	opts = opts.normalize()
	b := &Board{
		opts:      opts,
		container: container,
	}
	b.rt = &runtime{
		ctx:    context.WithoutCancel(ctx),
		doc:    container.Document(),
		sched:  opts.Scheduler,
		logger: opts.Logger,
		events: newEmitter(opts.EventHook, opts.Telemetry, opts.Logger),
		ids:    opts.IDGenerator,
		index:  newNodeIndex(),
	}
	b.bindings = newBindings(b)
	b.editMode = newEditMode(b, opts.EditMode)
	container.AddClass("board")

	if opts.GUI.IsEnabled() {
		if err := b.SetLayouts(opts.GUI.Layouts); err != nil {
			b.Destroy()
			return nil, err
		}
	}
	if len(opts.Layouts) > 0 {
		if err := b.SetLayoutsFromJSON(opts.Layouts); err != nil {
			b.Destroy()
			return nil, err
		}
	}
	b.Reflow()
	err := b.SetComponents(ctx, opts.Components)
	return b, err
}

// Mount resolves the container by id and builds a board inside it.
func Mount(ctx context.Context, doc *Document, containerID string, opts Options) (*Board, error) {
	if doc == nil {
		return nil, &MissingContainerError{ContainerID: containerID}
	}
	container := doc.GetElementByID(containerID)
	if container == nil {
		return nil, &MissingContainerError{ContainerID: containerID}
	}
	return NewBoard(ctx, container, opts)
}

func (b *Board) ID() string { return b.container.ID() }

func (b *Board) Kind() NodeKind { return KindBoard }

func (b *Board) sizer() *Sizer { return &b.Sizer }

// Container returns the mount element.
func (b *Board) Container() *Element { return b.container }

// Document returns the document the board renders into.
func (b *Board) Document() *Document { return b.rt.doc }

// Options returns the normalized options the board was built with.
func (b *Board) Options() Options { return b.opts }

// Registry returns the component registry used for binding.
func (b *Board) Registry() *ComponentRegistry { return b.opts.Registry }

// Bindings exposes component binding and cell lookup.
func (b *Board) Bindings() *Bindings { return b.bindings }

// EditMode returns the editing surface.
func (b *Board) EditMode() *EditMode { return b.editMode }

// Destroyed reports whether Destroy ran.
func (b *Board) Destroyed() bool { return b.destroyed }

// Layouts returns the top-level layouts in order.
func (b *Board) Layouts() []*Layout {
	return append([]*Layout(nil), b.layouts...)
}

// Layout finds a layout anywhere in the tree.
func (b *Board) Layout(id string) *Layout { return b.rt.index.layouts[id] }

// Row finds a row anywhere in the tree.
func (b *Board) Row(id string) *Row { return b.rt.index.rows[id] }

// Cell finds a cell anywhere in the tree.
func (b *Board) Cell(id string) *Cell { return b.bindings.Cell(id) }

// Node finds any sizable node by id: the board itself, a layout, row, cell
// or a component instance.
func (b *Board) Node(id string) (Node, bool) {
	if id == "" || id == b.ID() {
		return b, true
	}
	if n, ok := b.rt.index.node(id); ok {
		return n, true
	}
	for _, binding := range b.bindings.list {
		if binding.Component.id == id {
			return binding.Component, true
		}
	}
	return nil, false
}

// Cells returns every cell in tree order.
func (b *Board) Cells() []*Cell {
	var out []*Cell
	for _, l := range b.layouts {
		out = append(out, l.Cells()...)
	}
	return out
}

// Mounted returns the binding records.
func (b *Board) Mounted() []MountedComponent { return b.bindings.Mounted() }

// On subscribes fn to events of typ, or every event when typ is empty.
func (b *Board) On(typ EventType, fn func(Event)) func() {
	return b.rt.events.on(typ, fn)
}

// SetLayouts builds layouts from declarative options and appends them.
func (b *Board) SetLayouts(layouts []LayoutOptions) error {
	if b.destroyed {
		return ErrBoardDestroyed
	}
	for _, opts := range layouts {
		if _, err := b.appendLayout(opts); err != nil {
			return err
		}
	}
	b.distribute(NoAnimation)
	return nil
}

// SetLayoutsFromJSON builds layouts from their persisted form and appends them.
func (b *Board) SetLayoutsFromJSON(layouts []LayoutJSON) error {
	if b.destroyed {
		return ErrBoardDestroyed
	}
	for _, doc := range layouts {
		opts, err := doc.LayoutOptions()
		if err != nil {
			return err
		}
		if _, err := b.appendLayout(opts); err != nil {
			return err
		}
	}
	b.distribute(NoAnimation)
	return nil
}

func (b *Board) appendLayout(opts LayoutOptions) (*Layout, error) {
	l, err := b.buildLayout(opts)
	if err != nil {
		return nil, err
	}
	b.layouts = append(b.layouts, l)
	b.container.AppendChild(l.element)
	return l, nil
}

func (b *Board) buildLayout(opts LayoutOptions) (*Layout, error) {
	tb := newTreeBuilder(b.rt)
	l, err := tb.layout(opts, b.opts.GUI.LayoutOptions, b, nil)
	if err != nil {
		return nil, fmt.Errorf("board: build layout: %w", err)
	}
	tb.commit()
	return l, nil
}

// RemoveLayout destroys a top-level layout and the components in its cells.
func (b *Board) RemoveLayout(id string) error {
	if b.destroyed {
		return ErrBoardDestroyed
	}
	for i, l := range b.layouts {
		if l.id != id {
			continue
		}
		l.Destroy()
		b.layouts = append(b.layouts[:i:i], b.layouts[i+1:]...)
		b.distribute(NoAnimation)
		return nil
	}
	return fmt.Errorf("%w: layout %q", ErrNodeNotFound, id)
}

// SetComponents binds every entry independently. Failed entries are
// reported as ComponentError values joined together; the rest stay bound.
func (b *Board) SetComponents(ctx context.Context, components []ComponentOptions) error {
	if b.destroyed {
		return ErrBoardDestroyed
	}
	var errs []error
	for idx, opts := range components {
		if _, err := b.bindings.AddComponent(ctx, opts); err != nil {
			b.opts.Logger.Warn("component binding failed", "index", idx, "type", opts.Type, "cell", opts.CellID(), "error", err)
			errs = append(errs, &ComponentError{Index: idx, CellID: opts.CellID(), Type: opts.Type, Err: err})
		}
	}
	return errors.Join(errs...)
}

// AddComponent binds a single component.
func (b *Board) AddComponent(ctx context.Context, opts ComponentOptions) (*Instance, error) {
	return b.bindings.AddComponent(ctx, opts)
}

// SetSize pins or releases the board extents. It reports whether the
// effective size changed; an unchanged size does nothing at all.
func (b *Board) SetSize(width, height Dimension, anim Animation) (bool, error) {
	if b.destroyed {
		return false, ErrBoardDestroyed
	}
	return setSize(b, width, height, anim), nil
}

// Reflow re-measures the container and resizes if its extents changed.
func (b *Board) Reflow() bool {
	return b.ReflowAnimated(NoAnimation)
}

// ReflowAnimated is Reflow with an animation directive.
func (b *Board) ReflowAnimated(anim Animation) bool {
	if b.destroyed {
		return false
	}
	return reflow(b, anim)
}

func (b *Board) measure() (Size, bool) {
	s, ok := b.container.Measure()
	if !ok {
		return Size{Width: DefaultWidth, Height: DefaultHeight}, true
	}
	return s, true
}

func (b *Board) applyGeometry(prev, next Size, anim Animation) {
	b.container.setStyleSize(next)
	b.rt.emitResize(KindBoard, b.ID(), prev, next)
	b.distribute(anim)
}

// distribute gives every top-level layout the board width and splits the
// height between them, honouring pinned layout heights.
func (b *Board) distribute(anim Animation) {
	if len(b.layouts) == 0 {
		return
	}
	slots := make([]slot, len(b.layouts))
	for i, l := range b.layouts {
		if h, ok := l.pinnedHeight(); ok {
			slots[i] = slot{pinned: true, value: h}
		}
	}
	heights := splitExtent(b.effective.Height, slots)
	for i, l := range b.layouts {
		layout, size := l, Size{Width: b.effective.Width, Height: heights[i]}
		b.rt.guard(KindLayout, layout.id, func() {
			setAutoSize(layout, size, anim)
		})
	}
}

// Tick applies finished async loads and advances animations to the current time.
func (b *Board) Tick() {
	b.rt.sched.Step()
}

// Settle waits for async loads and runs every animation to its final frame.
func (b *Board) Settle() {
	b.rt.sched.Settle()
}

// Pending reports outstanding animation frames and async loads.
func (b *Board) Pending() int {
	return b.rt.sched.Pending()
}

// Destroy tears down every component, then every layout, then the
// container decoration. Later calls on the board are rejected.
func (b *Board) Destroy() {
	if b.destroyed {
		return
	}
	for _, binding := range b.bindings.Mounted() {
		binding.Component.Destroy()
	}
	for _, l := range b.layouts {
		l.Destroy()
	}
	b.layouts = nil
	b.task.Cancel()
	b.task = nil
	b.container.RemoveAttr("style")
	b.container.RemoveClass("board")
	b.destroyed = true
	b.opts.Logger.Debug("board destroyed", "container", b.ID())
	b.rt.emit(Event{Type: EventDestroy, Kind: KindBoard, Target: b.ID()})
	b.rt.index = newNodeIndex()
}

// HTML serializes the board container.
func (b *Board) HTML() (string, error) {
	return b.container.OuterHTML()
}

// ExportLocal stores every top-level layout in tree order.
func (b *Board) ExportLocal(ctx context.Context) error {
	if b.destroyed {
		return ErrBoardDestroyed
	}
	for _, l := range b.layouts {
		if err := l.ExportLayout(ctx, b.opts.Store); err != nil {
			return err
		}
	}
	return nil
}

// ImportLocal reloads every top-level layout from the store in tree order.
// A layout with a stored snapshot is rebuilt and the components whose cells
// still exist are bound again. It reports how many layouts were replaced.
func (b *Board) ImportLocal(ctx context.Context) (int, error) {
	if b.destroyed {
		return 0, ErrBoardDestroyed
	}
	replaced := 0
	var errs []error
	for idx := 0; idx < len(b.layouts); idx++ {
		doc, ok, err := b.layouts[idx].ImportLayout(ctx, b.opts.Store)
		if err != nil {
			return replaced, err
		}
		if !ok {
			continue
		}
		if len(b.layouts) <= idx {
			break
		}
		if err := b.replaceLayout(ctx, idx, doc); err != nil {
			errs = append(errs, err)
			continue
		}
		replaced++
	}
	return replaced, errors.Join(errs...)
}

func (b *Board) replaceLayout(ctx context.Context, idx int, doc LayoutJSON) error {
	opts, err := doc.LayoutOptions()
	if err != nil {
		return err
	}
	old := b.layouts[idx]
	previous := old.Options()
	var rebind []ComponentOptions
	for _, cell := range old.Cells() {
		if cell.mounted == nil {
			continue
		}
		if binding := b.bindings.binding(cell.mounted); binding != nil {
			rebind = append(rebind, binding.Options.Clone())
		}
	}
	old.Destroy()
	l, buildErr := b.buildLayout(opts)
	if buildErr != nil {
		// the stored snapshot is unusable; restore what was there
		l, err = b.buildLayout(previous)
		if err != nil {
			b.layouts = append(b.layouts[:idx:idx], b.layouts[idx+1:]...)
			return errors.Join(buildErr, err)
		}
	}
	b.layouts[idx] = l
	b.reorderLayoutElements()
	b.distribute(NoAnimation)
	errs := []error{buildErr}
	for _, co := range rebind {
		if b.bindings.Cell(co.CellID()) == nil {
			b.opts.Logger.Info("dropping component without cell after import", "cell", co.CellID(), "type", co.Type)
			continue
		}
		if _, err := b.bindings.AddComponent(ctx, co); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Board) reorderLayoutElements() {
	for _, l := range b.layouts {
		b.container.AppendChild(l.element)
	}
}
