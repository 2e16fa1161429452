package board

import "fmt"

// Cell is a single mount slot. It holds at most one component and may host
// a nested layout.
type Cell struct {
	Sizer

	id        string
	className string
	width     extent
	rawWidth  string
	row       *Row
	element   *Element
	nested    *Layout
	mounted   *Instance
	rt        *runtime
	destroyed bool
}

func (c *Cell) ID() string        { return c.id }
func (c *Cell) Kind() NodeKind    { return KindCell }
func (c *Cell) Row() *Row         { return c.row }
func (c *Cell) Element() *Element { return c.element }
func (c *Cell) Layout() *Layout   { return c.nested }
func (c *Cell) Destroyed() bool   { return c.destroyed }
func (c *Cell) sizer() *Sizer     { return &c.Sizer }

// Component returns the mounted component, or nil for an empty cell.
func (c *Cell) Component() *Instance { return c.mounted }

// Empty reports whether no component occupies the cell.
func (c *Cell) Empty() bool { return c.mounted == nil }

// SetSize pins or releases the cell extents and lets the row redistribute
// its siblings. It reports whether this cell's effective size changed.
func (c *Cell) SetSize(width, height Dimension, anim Animation) (bool, error) {
	if c.destroyed {
		return false, ErrNodeDestroyed
	}
	before := c.effective
	if width.IsAuto() && c.width.kind == extentPixels {
		c.width, c.rawWidth = extent{kind: extentShare}, ""
	}
	setSize(c, width, height, anim)
	if c.row != nil {
		c.row.distribute(anim)
	}
	return c.effective != before, nil
}

// Reflow re-measures the cell element.
func (c *Cell) Reflow() bool {
	if c.destroyed {
		return false
	}
	return reflow(c, NoAnimation)
}

func (c *Cell) measure() (Size, bool) {
	return c.element.Measure()
}

func (c *Cell) applyGeometry(prev, next Size, anim Animation) {
	c.element.setStyleSize(next)
	c.rt.emitResize(KindCell, c.id, prev, next)
	if c.nested != nil {
		c.rt.guard(KindLayout, c.nested.id, func() {
			setAutoSize(c.nested, next, anim)
		})
	}
	if c.mounted != nil {
		inst := c.mounted
		c.rt.guard(KindComponent, inst.id, func() {
			setAutoSize(inst, next, anim)
		})
	}
}

// Destroy tears down the mounted component and nested layout, then the cell element.
func (c *Cell) Destroy() {
	if c.destroyed {
		return
	}
	if c.mounted != nil {
		c.mounted.Destroy()
	}
	if c.nested != nil {
		c.nested.Destroy()
		c.nested = nil
	}
	c.element.Remove()
	c.rt.index.remove(c.id)
	c.destroyed = true
	c.rt.emit(Event{Type: EventDestroy, Kind: KindCell, Target: c.id})
}

// widthOption renders the width setting, reflecting a runtime pin.
func (c *Cell) widthOption() string {
	if w, ok := c.pinnedWidth(); ok {
		return formatPx(w) + "px"
	}
	if c.width.kind == extentPixels {
		return ""
	}
	return c.rawWidth
}

func (c *Cell) heightOption() Dimension {
	if h, ok := c.pinnedHeight(); ok {
		return Px(h)
	}
	return Keep
}

// Options returns the declarative form of the cell, nested layout included.
func (c *Cell) Options() CellOptions {
	out := CellOptions{
		ID:        c.id,
		ClassName: c.className,
		Width:     c.widthOption(),
		Height:    c.heightOption(),
	}
	if c.nested != nil {
		nested := c.nested.Options()
		out.Layout = &nested
	}
	return out
}

func (c *Cell) String() string {
	return fmt.Sprintf("cell(%s)", c.id)
}
