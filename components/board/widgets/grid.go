package widgets

import (
	"context"
	"fmt"
	"math"

	"github.com/goliatone/go-board/components/board"
	"github.com/goliatone/go-board/pkg/datasource"
)

// DataGridType is the registry name of the grid component.
const DataGridType = "DataGrid"

const (
	gridHeaderHeight = 30.0
	gridRowHeight    = 24.0
)

// DataGrid renders a table, showing as many rows as fit the component height.
// Rows come from a named data source, inline CSV, or an inline table.
type DataGrid struct {
	source  string
	sources *datasource.Registry
	table   datasource.Table
	loaded  bool
	body    *board.Element
	visible int
	drawn   bool
}

// NewDataGrid builds a grid from component options.
func NewDataGrid(o board.ComponentOptions, cfg Config) (*DataGrid, error) {
	g := &DataGrid{
		source:  stringValue(o.Settings["dataSource"], ""),
		sources: cfg.Sources,
	}
	if g.source != "" {
		return g, nil
	}
	if text := stringValue(o.Settings["csv"], ""); text != "" {
		table, err := datasource.NewCSV("inline", text, datasource.CSVOptions{}).Load(context.Background())
		if err != nil {
			return nil, err
		}
		g.table, g.loaded = table, true
		return g, nil
	}
	if raw := mapValue(o.Settings["table"]); raw != nil {
		g.table.Columns = stringSliceValue(raw["columns"])
		if rows, ok := raw["rows"].([]any); ok {
			for _, r := range rows {
				if cells, ok := r.([]any); ok {
					g.table.Rows = append(g.table.Rows, cells)
				}
			}
		}
		g.loaded = true
	}
	return g, nil
}

func (g *DataGrid) Type() string { return DataGridType }

// Table returns the loaded rows.
func (g *DataGrid) Table() datasource.Table { return g.table }

// VisibleRows reports how many rows the last frame displayed.
func (g *DataGrid) VisibleRows() int { return g.visible }

func (g *DataGrid) NeedsFetch() bool { return g.source != "" }

// Fetch loads the bound data source off the board goroutine.
func (g *DataGrid) Fetch(ctx context.Context) error {
	if g.sources == nil {
		return fmt.Errorf("data source %q unavailable", g.source)
	}
	table, err := g.sources.Load(ctx, g.source)
	if err != nil {
		return err
	}
	g.table, g.loaded = table, true
	return nil
}

func (g *DataGrid) Load(_ context.Context, root *board.Element) error {
	if !g.loaded {
		return fmt.Errorf("data grid has no rows: set dataSource, csv or table")
	}
	g.body = root.Document().CreateElement("div")
	g.body.AddClass("board-grid")
	root.AppendChild(g.body)
	return nil
}

func (g *DataGrid) Render(_ *board.Element, frame board.Frame) error {
	if g.body == nil {
		return board.ErrComponentNotMounted
	}
	rows := min(visibleGridRows(frame.Size.Height), g.table.Len())
	if g.drawn && rows == g.visible && frame.Reason == board.ReasonResize {
		return nil
	}
	g.visible, g.drawn = rows, true
	g.body.SetAttr("data-visible-rows", fmt.Sprint(g.visible))
	return g.body.SetInnerHTML(gridMarkup(g.table.Slice(0, g.visible)))
}

func (g *DataGrid) Destroy() {
	g.body = nil
	g.drawn = false
}

func (g *DataGrid) OptionsOnDrop(sc board.SidebarContext) board.ComponentOptions {
	return board.ComponentOptions{
		Type: DataGridType,
		Cell: sc.Cell,
		Settings: map[string]any{
			"csv": "Name,Value\nA,1\nB,2\nC,3",
		},
	}
}

func visibleGridRows(height float64) int {
	if height <= gridHeaderHeight {
		return 0
	}
	return int(math.Floor((height - gridHeaderHeight) / gridRowHeight))
}

func gridMarkup(t datasource.Table) string {
	doc := board.NewDocument()
	table := doc.CreateElement("table")
	thead := doc.CreateElement("thead")
	head := doc.CreateElement("tr")
	for _, col := range t.Columns {
		th := doc.CreateElement("th")
		th.SetText(col)
		head.AppendChild(th)
	}
	thead.AppendChild(head)
	table.AppendChild(thead)
	tbody := doc.CreateElement("tbody")
	for _, row := range t.Rows {
		tr := doc.CreateElement("tr")
		for _, cell := range row {
			td := doc.CreateElement("td")
			td.SetText(datasource.CellText(cell))
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)
	markup, err := table.OuterHTML()
	if err != nil {
		return ""
	}
	return markup
}
