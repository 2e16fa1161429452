package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-board/components/board"
)

type boardReader interface {
	Snapshot(ctx context.Context) board.BoardJSON
	Cells(ctx context.Context) []board.CellSnapshot
	Cell(ctx context.Context, id string) (board.CellSnapshot, error)
	Components(ctx context.Context) []board.ComponentSnapshot
}

// SnapshotInput requests the serialized board.
type SnapshotInput struct{}

// SnapshotQuery returns the board JSON.
type SnapshotQuery struct {
	reader boardReader
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(reader boardReader) *SnapshotQuery {
	return &SnapshotQuery{reader: reader}
}

var _ gocommand.Querier[SnapshotInput, board.BoardJSON] = (*SnapshotQuery)(nil)

// Query returns the snapshot.
func (q *SnapshotQuery) Query(ctx context.Context, _ SnapshotInput) (board.BoardJSON, error) {
	if q.reader == nil {
		return board.BoardJSON{}, errors.New("snapshot query requires service")
	}
	return q.reader.Snapshot(ctx), nil
}

// CellsInput optionally narrows the query to one cell.
type CellsInput struct {
	Cell string `json:"cell,omitempty"`
}

// CellsQuery lists cells with their bound components.
type CellsQuery struct {
	reader boardReader
}

// NewCellsQuery builds the query.
func NewCellsQuery(reader boardReader) *CellsQuery {
	return &CellsQuery{reader: reader}
}

var _ gocommand.Querier[CellsInput, []board.CellSnapshot] = (*CellsQuery)(nil)

// Query returns all cells, or the single requested one.
func (q *CellsQuery) Query(ctx context.Context, msg CellsInput) ([]board.CellSnapshot, error) {
	if q.reader == nil {
		return nil, errors.New("cells query requires service")
	}
	if msg.Cell == "" {
		return q.reader.Cells(ctx), nil
	}
	cell, err := q.reader.Cell(ctx, msg.Cell)
	if err != nil {
		return nil, err
	}
	return []board.CellSnapshot{cell}, nil
}

// ComponentsInput optionally filters by component type.
type ComponentsInput struct {
	Type string `json:"type,omitempty"`
}

// ComponentsQuery lists bound components in binding order.
type ComponentsQuery struct {
	reader boardReader
}

// NewComponentsQuery builds the query.
func NewComponentsQuery(reader boardReader) *ComponentsQuery {
	return &ComponentsQuery{reader: reader}
}

var _ gocommand.Querier[ComponentsInput, []board.ComponentSnapshot] = (*ComponentsQuery)(nil)

// Query returns the bound components.
func (q *ComponentsQuery) Query(ctx context.Context, msg ComponentsInput) ([]board.ComponentSnapshot, error) {
	if q.reader == nil {
		return nil, errors.New("components query requires service")
	}
	all := q.reader.Components(ctx)
	if msg.Type == "" {
		return all, nil
	}
	out := make([]board.ComponentSnapshot, 0, len(all))
	for _, c := range all {
		if c.Type == msg.Type {
			out = append(out, c)
		}
	}
	return out, nil
}
