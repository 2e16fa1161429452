package board

import (
	"context"
	"fmt"
	"log/slog"
)

// Node is the sizing surface shared by boards, layouts, rows, cells and components.
type Node interface {
	ID() string
	Kind() NodeKind
	Size() Size
	SetSize(width, height Dimension, anim Animation) (bool, error)
	Reflow() bool
}

// runtime is shared by every node of one board.
type runtime struct {
	ctx    context.Context
	doc    *Document
	sched  *Scheduler
	logger *slog.Logger
	events *emitter
	ids    IDGenerator
	index  *nodeIndex
}

func (rt *runtime) emit(event Event) {
	rt.events.emit(rt.ctx, event)
}

func (rt *runtime) emitResize(kind NodeKind, id string, prev, next Size) {
	rt.logger.Debug("board node resized", "kind", kind, "id", id, "from", prev.String(), "to", next.String())
	rt.emit(Event{Type: EventResize, Kind: kind, Target: id, Size: next, Previous: prev})
}

func (rt *runtime) newID(prefix string) string {
	return prefix + "-" + rt.ids()
}

// guard runs fn and contains a panic so siblings still receive their share
// of a resize.
func (rt *runtime) guard(kind NodeKind, id string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("board: panic in %s %s: %v", kind, id, r)
			rt.logger.Error("board node failed", "kind", kind, "id", id, "error", err)
			rt.emit(Event{Type: EventError, Kind: kind, Target: id, Error: err.Error()})
		}
	}()
	fn()
}

// nodeIndex tracks every id in the tree of one board.
type nodeIndex struct {
	kinds   map[string]NodeKind
	layouts map[string]*Layout
	rows    map[string]*Row
	cells   map[string]*Cell
}

func newNodeIndex() *nodeIndex {
	return &nodeIndex{
		kinds:   map[string]NodeKind{},
		layouts: map[string]*Layout{},
		rows:    map[string]*Row{},
		cells:   map[string]*Cell{},
	}
}

func (ix *nodeIndex) has(id string) bool {
	_, ok := ix.kinds[id]
	return ok
}

func (ix *nodeIndex) addLayout(l *Layout) {
	ix.kinds[l.id] = KindLayout
	ix.layouts[l.id] = l
}

func (ix *nodeIndex) addRow(r *Row) {
	ix.kinds[r.id] = KindRow
	ix.rows[r.id] = r
}

func (ix *nodeIndex) addCell(c *Cell) {
	ix.kinds[c.id] = KindCell
	ix.cells[c.id] = c
}

func (ix *nodeIndex) remove(id string) {
	delete(ix.kinds, id)
	delete(ix.layouts, id)
	delete(ix.rows, id)
	delete(ix.cells, id)
}

func (ix *nodeIndex) node(id string) (Node, bool) {
	switch ix.kinds[id] {
	case KindLayout:
		return ix.layouts[id], true
	case KindRow:
		return ix.rows[id], true
	case KindCell:
		return ix.cells[id], true
	}
	return nil, false
}
