package board

// Row is an ordered set of cells sharing the row width.
type Row struct {
	Sizer

	id        string
	className string
	layout    *Layout
	element   *Element
	cells     []*Cell
	rt        *runtime
	destroyed bool
}

func (r *Row) ID() string        { return r.id }
func (r *Row) Kind() NodeKind    { return KindRow }
func (r *Row) Layout() *Layout   { return r.layout }
func (r *Row) Element() *Element { return r.element }
func (r *Row) sizer() *Sizer     { return &r.Sizer }

// Cells returns the cells in visual order.
func (r *Row) Cells() []*Cell {
	return append([]*Cell(nil), r.cells...)
}

// SetSize pins or releases the row extents and lets the layout redistribute.
func (r *Row) SetSize(width, height Dimension, anim Animation) (bool, error) {
	if r.destroyed {
		return false, ErrNodeDestroyed
	}
	before := r.effective
	setSize(r, width, height, anim)
	if r.layout != nil {
		r.layout.distribute(anim)
	}
	return r.effective != before, nil
}

// Reflow re-measures the row element.
func (r *Row) Reflow() bool {
	if r.destroyed {
		return false
	}
	return reflow(r, NoAnimation)
}

func (r *Row) measure() (Size, bool) {
	return r.element.Measure()
}

func (r *Row) applyGeometry(prev, next Size, anim Animation) {
	r.element.setStyleSize(next)
	r.rt.emitResize(KindRow, r.id, prev, next)
	r.distribute(anim)
}

// distribute divides the row width across its cells: pixel pins first,
// fractional widths next, equal shares for the rest.
func (r *Row) distribute(anim Animation) {
	if len(r.cells) == 0 {
		return
	}
	slots := make([]slot, len(r.cells))
	for i, c := range r.cells {
		if w, ok := c.pinnedWidth(); ok {
			slots[i] = slot{pinned: true, value: w}
			continue
		}
		if c.width.kind == extentFraction {
			slots[i] = slot{fraction: c.width.value}
		}
	}
	widths := splitExtent(r.effective.Width, slots)
	for i, c := range r.cells {
		cell, size := c, Size{Width: widths[i], Height: r.effective.Height}
		r.rt.guard(KindCell, cell.id, func() {
			setAutoSize(cell, size, anim)
		})
	}
}

// AddCell appends a cell built from opts and redistributes the row.
func (r *Row) AddCell(opts CellOptions) (*Cell, error) {
	if r.destroyed {
		return nil, ErrNodeDestroyed
	}
	b := newTreeBuilder(r.rt)
	cell, err := b.cell(r, opts)
	if err != nil {
		return nil, err
	}
	b.commit()
	r.cells = append(r.cells, cell)
	r.element.AppendChild(cell.element)
	r.distribute(NoAnimation)
	return cell, nil
}

// RemoveCell destroys a cell, its component included, and redistributes.
func (r *Row) RemoveCell(id string) error {
	if r.destroyed {
		return ErrNodeDestroyed
	}
	for i, c := range r.cells {
		if c.id != id {
			continue
		}
		c.Destroy()
		r.cells = append(r.cells[:i:i], r.cells[i+1:]...)
		r.distribute(NoAnimation)
		return nil
	}
	return &CellNotFoundError{CellID: id}
}

// Destroy tears down every cell, then the row element.
func (r *Row) Destroy() {
	if r.destroyed {
		return
	}
	for _, c := range r.cells {
		c.Destroy()
	}
	r.cells = nil
	r.element.Remove()
	r.rt.index.remove(r.id)
	r.destroyed = true
	r.rt.emit(Event{Type: EventDestroy, Kind: KindRow, Target: r.id})
}

// Options returns the declarative form of the row.
func (r *Row) Options() RowOptions {
	out := RowOptions{ID: r.id, ClassName: r.className}
	if h, ok := r.pinnedHeight(); ok {
		out.Height = Px(h)
	}
	out.Cells = make([]CellOptions, 0, len(r.cells))
	for _, c := range r.cells {
		out.Cells = append(out.Cells, c.Options())
	}
	return out
}
