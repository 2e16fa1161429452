package board

import (
	"context"
	"fmt"
)

// Layout is an ordered set of rows with its own mount element. A layout sits
// directly under a board or inside a cell.
type Layout struct {
	Sizer

	id            string
	rowClassName  string
	cellClassName string
	board         *Board
	parent        *Cell
	element       *Element
	rows          []*Row
	rt            *runtime
	destroyed     bool
}

func (l *Layout) ID() string        { return l.id }
func (l *Layout) Kind() NodeKind    { return KindLayout }
func (l *Layout) Element() *Element { return l.element }
func (l *Layout) sizer() *Sizer     { return &l.Sizer }

// Parent returns the cell hosting a nested layout, nil at the top level.
func (l *Layout) Parent() *Cell { return l.parent }

// Rows returns the rows in stacking order.
func (l *Layout) Rows() []*Row {
	return append([]*Row(nil), l.rows...)
}

// SetSize pins or releases the layout extents. Top-level layouts let the
// board redistribute the remaining height.
func (l *Layout) SetSize(width, height Dimension, anim Animation) (bool, error) {
	if l.destroyed {
		return false, ErrNodeDestroyed
	}
	before := l.effective
	setSize(l, width, height, anim)
	if l.parent == nil && l.board != nil {
		l.board.distribute(anim)
	}
	return l.effective != before, nil
}

// Reflow re-measures the layout element.
func (l *Layout) Reflow() bool {
	if l.destroyed {
		return false
	}
	return reflow(l, NoAnimation)
}

func (l *Layout) measure() (Size, bool) {
	return l.element.Measure()
}

func (l *Layout) applyGeometry(prev, next Size, anim Animation) {
	l.element.setStyleSize(next)
	l.rt.emitResize(KindLayout, l.id, prev, next)
	l.distribute(anim)
}

// distribute gives pinned rows their height and shares the rest.
func (l *Layout) distribute(anim Animation) {
	if len(l.rows) == 0 {
		return
	}
	slots := make([]slot, len(l.rows))
	for i, r := range l.rows {
		if h, ok := r.pinnedHeight(); ok {
			slots[i] = slot{pinned: true, value: h}
		}
	}
	heights := splitExtent(l.effective.Height, slots)
	for i, r := range l.rows {
		row, size := r, Size{Width: l.effective.Width, Height: heights[i]}
		l.rt.guard(KindRow, row.id, func() {
			setAutoSize(row, size, anim)
		})
	}
}

// AddRow appends a row built from opts.
func (l *Layout) AddRow(opts RowOptions) (*Row, error) {
	if l.destroyed {
		return nil, ErrNodeDestroyed
	}
	b := newTreeBuilder(l.rt)
	row, err := b.row(l, opts)
	if err != nil {
		return nil, err
	}
	b.commit()
	l.rows = append(l.rows, row)
	l.element.AppendChild(row.element)
	l.distribute(NoAnimation)
	return row, nil
}

// Destroy tears down every row bottom-up, then releases the layout element.
func (l *Layout) Destroy() {
	if l.destroyed {
		return
	}
	for _, r := range l.rows {
		r.Destroy()
	}
	l.rows = nil
	l.element.Remove()
	l.rt.index.remove(l.id)
	l.destroyed = true
	l.rt.emit(Event{Type: EventDestroy, Kind: KindLayout, Target: l.id})
}

// Cells returns every cell of the layout in tree order, nested layouts included.
func (l *Layout) Cells() []*Cell {
	var out []*Cell
	for _, r := range l.rows {
		for _, c := range r.cells {
			out = append(out, c)
			if c.nested != nil {
				out = append(out, c.nested.Cells()...)
			}
		}
	}
	return out
}

// Options returns the declarative form of the layout.
func (l *Layout) Options() LayoutOptions {
	out := LayoutOptions{
		ID:            l.id,
		RowClassName:  l.rowClassName,
		CellClassName: l.cellClassName,
		Rows:          make([]RowOptions, 0, len(l.rows)),
	}
	if h, ok := l.pinnedHeight(); ok {
		out.Height = Px(h)
	}
	for _, r := range l.rows {
		out.Rows = append(out.Rows, r.Options())
	}
	return out
}

// StorageKey is the key used by ExportLayout and ImportLayout.
func (l *Layout) StorageKey() string {
	return layoutStorageKey(l.id)
}

// ExportLayout persists the layout JSON under its storage key.
func (l *Layout) ExportLayout(ctx context.Context, store LayoutStore) error {
	if l.destroyed {
		return ErrNodeDestroyed
	}
	if err := store.SaveLayout(ctx, l.StorageKey(), l.ToJSON()); err != nil {
		return fmt.Errorf("board: export layout %s: %w", l.id, err)
	}
	return nil
}

// ImportLayout reads the stored JSON for this layout. The board applies it.
func (l *Layout) ImportLayout(ctx context.Context, store LayoutStore) (LayoutJSON, bool, error) {
	doc, ok, err := store.LoadLayout(ctx, l.StorageKey())
	if err != nil {
		return LayoutJSON{}, false, fmt.Errorf("board: import layout %s: %w", l.id, err)
	}
	return doc, ok, nil
}

// treeBuilder builds layout subtrees, staging ids until the build succeeds
// so a failed build leaves the board index untouched.
type treeBuilder struct {
	rt      *runtime
	staged  map[string]struct{}
	layouts []*Layout
	rows    []*Row
	cells   []*Cell
}

func newTreeBuilder(rt *runtime) *treeBuilder {
	return &treeBuilder{rt: rt, staged: map[string]struct{}{}}
}

func (b *treeBuilder) claim(id string) error {
	if _, ok := b.staged[id]; ok || b.rt.index.has(id) {
		return &DuplicateIDError{ID: id}
	}
	b.staged[id] = struct{}{}
	return nil
}

func (b *treeBuilder) commit() {
	for _, l := range b.layouts {
		b.rt.index.addLayout(l)
	}
	for _, r := range b.rows {
		b.rt.index.addRow(r)
	}
	for _, c := range b.cells {
		b.rt.index.addCell(c)
	}
}

func (b *treeBuilder) layout(opts LayoutOptions, defaults LayoutDefaults, board *Board, parent *Cell) (*Layout, error) {
	id := opts.ID
	if id == "" {
		id = b.rt.newID("layout")
	}
	if err := b.claim(id); err != nil {
		return nil, err
	}
	l := &Layout{
		id:            id,
		rowClassName:  firstNonEmpty(opts.RowClassName, defaults.RowClassName),
		cellClassName: firstNonEmpty(opts.CellClassName, defaults.CellClassName),
		board:         board,
		parent:        parent,
		rt:            b.rt,
	}
	l.apply(Keep, opts.Height)
	l.element = b.rt.doc.CreateElement("div")
	l.element.SetID(id)
	l.element.AddClass("board-layout")
	b.layouts = append(b.layouts, l)
	for _, ro := range opts.Rows {
		row, err := b.row(l, ro)
		if err != nil {
			return nil, err
		}
		l.rows = append(l.rows, row)
		l.element.AppendChild(row.element)
	}
	return l, nil
}

func (b *treeBuilder) row(l *Layout, opts RowOptions) (*Row, error) {
	id := opts.ID
	if id == "" {
		id = b.rt.newID("row")
	}
	if err := b.claim(id); err != nil {
		return nil, err
	}
	r := &Row{
		id:        id,
		className: opts.ClassName,
		layout:    l,
		rt:        b.rt,
	}
	r.apply(Keep, opts.Height)
	r.element = b.rt.doc.CreateElement("div")
	r.element.SetID(id)
	r.element.AddClass("board-row", l.rowClassName, opts.ClassName)
	b.rows = append(b.rows, r)
	for _, co := range opts.Cells {
		cell, err := b.cell(r, co)
		if err != nil {
			return nil, err
		}
		r.cells = append(r.cells, cell)
		r.element.AppendChild(cell.element)
	}
	return r, nil
}

func (b *treeBuilder) cell(r *Row, opts CellOptions) (*Cell, error) {
	id := opts.ID
	if id == "" {
		id = b.rt.newID("cell")
	}
	if err := b.claim(id); err != nil {
		return nil, err
	}
	width, ok := parseExtent(opts.Width)
	if !ok {
		return nil, fmt.Errorf("board: cell %s: invalid width %q", id, opts.Width)
	}
	c := &Cell{
		id:        id,
		className: opts.ClassName,
		width:     width,
		rawWidth:  opts.Width,
		row:       r,
		rt:        b.rt,
	}
	if width.kind == extentPixels {
		c.apply(Px(width.value), Keep)
	}
	c.apply(Keep, opts.Height)
	c.element = b.rt.doc.CreateElement("div")
	c.element.SetID(id)
	c.element.AddClass("board-cell", r.layout.cellClassName, opts.ClassName)
	b.cells = append(b.cells, c)
	if opts.Layout != nil {
		defaults := LayoutDefaults{RowClassName: r.layout.rowClassName, CellClassName: r.layout.cellClassName}
		nested, err := b.layout(*opts.Layout, defaults, r.layout.board, c)
		if err != nil {
			return nil, err
		}
		c.nested = nested
		c.element.AppendChild(nested.element)
	}
	return c, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
