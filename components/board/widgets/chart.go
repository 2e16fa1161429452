package widgets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-board/components/board"
	"github.com/goliatone/go-board/pkg/datasource"
)

const (
	// ChartType is the registry name of the chart component.
	ChartType = "Chart"
	// HighchartsType is accepted as an alias so existing board configs bind.
	HighchartsType = "Highcharts"
)

var chartTypeAliases = map[string]string{
	"column": "bar",
	"spline": "line",
	"area":   "line",
}

var supportedChartTypes = map[string]bool{
	"bar":     true,
	"line":    true,
	"pie":     true,
	"scatter": true,
}

// Chart renders series with go-echarts and keeps a geometry pipeline in step
// with every resize frame. Markup is produced on final frames only.
type Chart struct {
	typeName   string
	id         string
	chartType  string
	title      string
	subtitle   string
	theme      string
	assetsHost string
	settings   map[string]any
	series     []ChartSeries
	categories []string
	source     string
	axisMap    map[string]string
	sources    *datasource.Registry
	cache      RenderCache
	table      *datasource.Table
	pipeline   *GeometryPipeline
	body       *board.Element
	html       string
}

// NewChart builds a chart from component options. Settings follow the
// chartOptions shape ({chart: {type}, title: {text}, series, xAxis:
// {categories}}) with flat fallbacks (chartType, series, xAxis).
func NewChart(o board.ComponentOptions, cfg Config) (*Chart, error) {
	settings := o.Settings
	chartOptions := mapValue(settings["chartOptions"])

	chartType := strings.ToLower(stringValue(nested(chartOptions, "chart", "type"), stringValue(settings["chartType"], "line")))
	if alias, ok := chartTypeAliases[chartType]; ok {
		chartType = alias
	}
	if !supportedChartTypes[chartType] {
		return nil, fmt.Errorf("unsupported chart type: %s", chartType)
	}

	series := parseChartSeries(chartOptions["series"])
	if len(series) == 0 {
		series = parseChartSeries(settings["series"])
	}
	categories := stringSliceValue(nested(chartOptions, "xAxis", "categories"))
	if len(categories) == 0 {
		categories = stringSliceValue(settings["xAxis"])
	}

	theme := stringValue(settings["theme"], cfg.Theme)
	if theme == "" {
		theme = types.ThemeWesteros
	}

	c := &Chart{
		typeName:   firstNonEmpty(o.Type, ChartType),
		id:         o.ID,
		chartType:  chartType,
		title:      stringValue(nested(chartOptions, "title", "text"), stringValue(settings["chartTitle"], "")),
		subtitle:   stringValue(nested(chartOptions, "subtitle", "text"), ""),
		theme:      theme,
		assetsHost: ensureTrailingSlash(firstNonEmpty(cfg.AssetsHost, DefaultAssetsHost())),
		settings:   settings,
		series:     series,
		categories: categories,
		source:     stringValue(settings["dataSource"], ""),
		sources:    cfg.Sources,
		cache:      cfg.Cache,
		pipeline:   NewGeometryPipeline(),
	}
	if raw := mapValue(settings["tableAxisMap"]); raw != nil {
		c.axisMap = make(map[string]string, len(raw))
		for column, role := range raw {
			c.axisMap[column] = stringValue(role, "")
		}
	}
	return c, nil
}

func (c *Chart) Type() string { return c.typeName }

// ChartKind returns the echarts series type (bar, line, pie, scatter).
func (c *Chart) ChartKind() string { return c.chartType }

// Series returns the plotted series.
func (c *Chart) Series() []ChartSeries { return c.series }

// Categories returns the x-axis labels.
func (c *Chart) Categories() []string { return c.categories }

// Geometry returns the geometry of the last rendered frame.
func (c *Chart) Geometry() Geometry { return c.pipeline.Geometry() }

// Pipeline exposes stage run counters.
func (c *Chart) Pipeline() *GeometryPipeline { return c.pipeline }

// HTML returns the last rendered chart markup.
func (c *Chart) HTML() string { return c.html }

func (c *Chart) NeedsFetch() bool { return c.source != "" }

// Fetch loads the bound data source. It runs off the board goroutine.
func (c *Chart) Fetch(ctx context.Context) error {
	if c.sources == nil {
		return fmt.Errorf("data source %q unavailable", c.source)
	}
	table, err := c.sources.Load(ctx, c.source)
	if err != nil {
		return err
	}
	c.table = &table
	return nil
}

func (c *Chart) Load(_ context.Context, root *board.Element) error {
	if c.id == "" {
		c.id = root.ID()
	}
	if c.table != nil {
		categories, series, err := seriesFromTable(*c.table, c.axisMap)
		if err != nil {
			return err
		}
		c.categories, c.series = categories, series
	}
	if len(c.series) == 0 {
		return fmt.Errorf("chart series is required")
	}
	if len(c.categories) == 0 {
		c.categories = inferredAxisLabels(c.series)
	}
	c.body = root.Document().CreateElement("div")
	c.body.AddClass("board-chart")
	c.body.SetAttr("data-chart-type", c.chartType)
	root.AppendChild(c.body)
	return nil
}

func (c *Chart) Render(_ *board.Element, frame board.Frame) error {
	if c.body == nil {
		return board.ErrComponentNotMounted
	}
	geom := c.pipeline.Update(GeometryInput{
		Size:   frame.Size,
		Title:  c.title,
		Pie:    c.chartType == "pie",
		Series: c.series,
	})
	c.body.SetAttr("data-plot", formatBox(geom.Plot))
	c.body.SetAttr("data-clip", formatBox(geom.Clip))
	if !frame.Final {
		return nil
	}
	html, err := c.renderMarkup(frame.Size)
	if err != nil {
		return err
	}
	c.html = html
	return c.body.SetInnerHTML(html)
}

// Invalidate drops memoized geometry so the next frame recomputes every stage.
func (c *Chart) Invalidate() { c.pipeline.Invalidate() }

func (c *Chart) Destroy() {
	if c.cache != nil {
		c.cache.Forget(c.id)
	}
	c.body = nil
	c.html = ""
}

func (c *Chart) OptionsOnDrop(sc board.SidebarContext) board.ComponentOptions {
	return board.ComponentOptions{
		Type: c.typeName,
		Cell: sc.Cell,
		Settings: map[string]any{
			"chartOptions": map[string]any{
				"series": []any{
					map[string]any{"data": []any{1.0, 2.0, 3.0}},
				},
			},
		},
	}
}

func (c *Chart) renderMarkup(size board.Size) (string, error) {
	render := func() (string, error) {
		return c.render(size)
	}
	if c.cache == nil {
		return render()
	}
	key := RenderKey{Component: c.id, Size: size, Digest: c.chartType + ":" + optionsDigest(c.settings, c.series)}
	return c.cache.GetOrRender(key, render)
}

func (c *Chart) render(size board.Size) (string, error) {
	switch c.chartType {
	case "bar":
		bar := charts.NewBar()
		bar.SetGlobalOptions(c.globalChartOptions(size)...)
		bar.SetXAxis(c.categories)
		for _, s := range c.series {
			bar.AddSeries(s.Name, toBarData(s.Points))
		}
		return renderChart(bar)
	case "line":
		line := charts.NewLine()
		line.SetGlobalOptions(c.globalChartOptions(size)...)
		line.SetXAxis(c.categories)
		for _, s := range c.series {
			line.AddSeries(s.Name, toLineData(s.Points))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	case "pie":
		pie := charts.NewPie()
		pie.SetGlobalOptions(c.globalChartOptions(size)...)
		for _, s := range c.series {
			pie.AddSeries(s.Name, toPieData(s.Points, c.categories))
		}
		return renderChart(pie)
	case "scatter":
		scatter := charts.NewScatter()
		scatter.SetGlobalOptions(c.globalChartOptions(size)...)
		for _, s := range c.series {
			scatter.AddSeries(s.Name, toScatterData(s.Points))
		}
		return renderChart(scatter)
	default:
		return "", fmt.Errorf("unsupported chart type: %s", c.chartType)
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (c *Chart) globalChartOptions(size board.Size) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		ChartID: c.id + "-chart",
		Theme:   c.theme,
		Width:   formatPx(size.Width),
		Height:  formatPx(size.Height),
	}
	if c.assetsHost != "" {
		initOpts.AssetsHost = c.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: c.title, Subtitle: c.subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toPieData(points []ChartPoint, categories []string) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" && i < len(categories) {
			name = categories[i]
		}
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: point.Value}
	}
	return data
}

func toScatterData(points []ChartPoint) []opts.ScatterData {
	data := make([]opts.ScatterData, len(points))
	for i, point := range points {
		value := []float64{float64(i + 1), point.Value}
		if len(point.Pair) >= 2 {
			value = point.Pair[:2]
		}
		data[i] = opts.ScatterData{Name: point.Label, Value: value}
	}
	return data
}

// seriesFromTable maps table columns to chart axes. Without a map the first
// column holds categories and every other column becomes a series. A map
// assigns "x" or "y" per column; columns mapped to anything else are skipped.
func seriesFromTable(t datasource.Table, axisMap map[string]string) ([]string, []ChartSeries, error) {
	var xColumn string
	var yColumns []string
	if axisMap == nil {
		if len(t.Columns) < 2 {
			return nil, nil, fmt.Errorf("table needs at least two columns")
		}
		xColumn, yColumns = t.Columns[0], t.Columns[1:]
	} else {
		for _, col := range t.Columns {
			switch axisMap[col] {
			case "x":
				xColumn = col
			case "y", "value":
				yColumns = append(yColumns, col)
			}
		}
	}
	if len(yColumns) == 0 {
		return nil, nil, fmt.Errorf("table axis map selects no value columns")
	}
	var categories []string
	if xColumn != "" {
		labels, err := t.Strings(xColumn)
		if err != nil {
			return nil, nil, err
		}
		categories = labels
	}
	series := make([]ChartSeries, 0, len(yColumns))
	for _, col := range yColumns {
		values, err := t.Floats(col)
		if err != nil {
			return nil, nil, err
		}
		points := make([]ChartPoint, len(values))
		for i, v := range values {
			points[i] = ChartPoint{Value: v}
			if i < len(categories) {
				points[i].Label = categories[i]
			}
		}
		series = append(series, ChartSeries{Name: col, Points: points})
	}
	return categories, series, nil
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func formatBox(b Box) string {
	return fmt.Sprintf("%g %g %g %g", b.X, b.Y, b.Width, b.Height)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
