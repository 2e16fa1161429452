package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Table is a column-oriented snapshot shared by charts and grids.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Source produces tables. Implementations must be safe to call off the
// board goroutine.
type Source interface {
	Name() string
	Load(ctx context.Context) (Table, error)
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// ColumnIndex finds a column by name, -1 when absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of a column.
func (t Table) Column(name string) ([]any, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("datasource: column %q not found", name)
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, nil
}

// Floats returns a numeric column; cells that are not numbers become 0.
func (t Table) Floats(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, cell := range cells {
		out[i] = toFloat(cell)
	}
	return out, nil
}

// Strings returns a column rendered as text.
func (t Table) Strings(name string) ([]string, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = CellText(cell)
	}
	return out, nil
}

// Slice returns rows [from, to) clamped to the table.
func (t Table) Slice(from, to int) Table {
	if from < 0 {
		from = 0
	}
	if to > len(t.Rows) {
		to = len(t.Rows)
	}
	if from > to {
		from = to
	}
	return Table{Columns: t.Columns, Rows: t.Rows[from:to]}
}

// CellText formats a cell for display.
func CellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func toFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}

// Static serves a fixed table.
type Static struct {
	name  string
	table Table
}

// NewStatic wraps a table.
func NewStatic(name string, table Table) *Static {
	return &Static{name: name, table: table}
}

func (s *Static) Name() string { return s.name }

func (s *Static) Load(context.Context) (Table, error) { return s.table, nil }
