package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-board/components/board"
)

type stubReader struct {
	cells      []board.CellSnapshot
	components []board.ComponentSnapshot
	cellCalls  int
}

func (s *stubReader) Snapshot(context.Context) board.BoardJSON {
	return board.BoardJSON{Class: board.ClassBoard, Options: board.BoardJSONOptions{ContainerID: "container"}}
}

func (s *stubReader) Cells(context.Context) []board.CellSnapshot { return s.cells }

func (s *stubReader) Cell(_ context.Context, id string) (board.CellSnapshot, error) {
	s.cellCalls++
	for _, c := range s.cells {
		if c.ID == id {
			return c, nil
		}
	}
	return board.CellSnapshot{}, &board.CellNotFoundError{CellID: id}
}

func (s *stubReader) Components(context.Context) []board.ComponentSnapshot { return s.components }

func newStubReader() *stubReader {
	return &stubReader{
		cells: []board.CellSnapshot{{ID: "a", Row: "row-1"}, {ID: "b", Row: "row-1"}},
		components: []board.ComponentSnapshot{
			{ID: "c1", Type: "Chart", Cell: "a"},
			{ID: "c2", Type: "HTML", Cell: "b"},
		},
	}
}

func TestSnapshotQuery(t *testing.T) {
	out, err := NewSnapshotQuery(newStubReader()).Query(context.Background(), SnapshotInput{})
	require.NoError(t, err)
	assert.Equal(t, board.ClassBoard, out.Class)
	assert.Equal(t, "container", out.Options.ContainerID)

	_, err = NewSnapshotQuery(nil).Query(context.Background(), SnapshotInput{})
	assert.Error(t, err)
}

func TestCellsQuery(t *testing.T) {
	reader := newStubReader()
	q := NewCellsQuery(reader)

	all, err := q.Query(context.Background(), CellsInput{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Zero(t, reader.cellCalls)

	one, err := q.Query(context.Background(), CellsInput{Cell: "b"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "b", one[0].ID)

	_, err = q.Query(context.Background(), CellsInput{Cell: "missing"})
	assert.ErrorIs(t, err, board.ErrCellNotFound)
}

func TestComponentsQueryFiltersByType(t *testing.T) {
	q := NewComponentsQuery(newStubReader())

	all, err := q.Query(context.Background(), ComponentsInput{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	charts, err := q.Query(context.Background(), ComponentsInput{Type: "Chart"})
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, "c1", charts[0].ID)
}
