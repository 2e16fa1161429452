package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/goliatone/go-board/components/board"
)

const (
	chartPadding    = 10.0
	titleCharWidth  = 7.0
	titleLineHeight = 18.0
	legendItemWidth = 80.0
	legendRowHeight = 20.0
	yAxisMargin     = 40.0
	xAxisMargin     = 30.0
	pieRadiusRatio  = 0.75
)

// Stage names a step of the geometry pipeline.
type Stage int

const (
	StageContainer Stage = iota
	StagePlot
	StageLayout
	StageItems
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageContainer:
		return "container"
	case StagePlot:
		return "plot"
	case StageLayout:
		return "layout"
	case StageItems:
		return "items"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Box is a rectangle in component coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a position in component coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Axis is the origin and length of a chart axis.
type Axis struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Length float64 `json:"length"`
}

// Geometry is the output of a pipeline run.
type Geometry struct {
	Container  Box       `json:"container"`
	Plot       Box       `json:"plot"`
	TitleLines int       `json:"titleLines"`
	LegendRows int       `json:"legendRows"`
	Legend     Box       `json:"legend"`
	XAxis      Axis      `json:"xAxis"`
	YAxis      Axis      `json:"yAxis"`
	Clip       Box       `json:"clip"`
	Points     [][]Point `json:"points,omitempty"`
	PieCenter  Point     `json:"pieCenter"`
	PieRadius  float64   `json:"pieRadius"`
}

// GeometryInput is everything the pipeline depends on.
type GeometryInput struct {
	Size   board.Size
	Title  string
	Pie    bool
	Series []ChartSeries
}

type plotKey struct {
	container Box
	title     string
	legend    string
	pie       bool
}

type layoutKey struct {
	plot       Box
	legendRows int
	pie        bool
}

type itemsKey struct {
	xAxis Axis
	yAxis Axis
	plot  Box
	pie   bool
	data  string
}

// GeometryPipeline recomputes chart geometry in four memoized stages:
// container, plot area, legend and axes, then points and clip box. A stage
// runs when its own inputs changed or any earlier stage ran.
type GeometryPipeline struct {
	geom      Geometry
	runs      [stageCount]int
	valid     bool
	container board.Size
	plot      plotKey
	layout    layoutKey
	items     itemsKey
}

// NewGeometryPipeline builds an empty pipeline.
func NewGeometryPipeline() *GeometryPipeline {
	return &GeometryPipeline{}
}

// Geometry returns the last computed geometry.
func (p *GeometryPipeline) Geometry() Geometry { return p.geom }

// Runs reports how many times a stage has executed.
func (p *GeometryPipeline) Runs(s Stage) int {
	if s < 0 || s >= stageCount {
		return 0
	}
	return p.runs[s]
}

// Invalidate forces every stage to run on the next Update.
func (p *GeometryPipeline) Invalidate() { p.valid = false }

// Update brings the geometry in line with in and returns it.
func (p *GeometryPipeline) Update(in GeometryInput) Geometry {
	dirty := !p.valid
	if dirty || in.Size != p.container {
		p.container = in.Size
		p.geom.Container = Box{Width: in.Size.Width, Height: in.Size.Height}
		p.runs[StageContainer]++
		dirty = true
	}

	pk := plotKey{container: p.geom.Container, title: in.Title, legend: legendKey(in.Series), pie: in.Pie}
	if dirty || pk != p.plot {
		p.plot = pk
		p.computePlot(in)
		p.runs[StagePlot]++
		dirty = true
	}

	lk := layoutKey{plot: p.geom.Plot, legendRows: p.geom.LegendRows, pie: in.Pie}
	if dirty || lk != p.layout {
		p.layout = lk
		p.computeLayout(in.Pie)
		p.runs[StageLayout]++
		dirty = true
	}

	ik := itemsKey{xAxis: p.geom.XAxis, yAxis: p.geom.YAxis, plot: p.geom.Plot, pie: in.Pie, data: dataKey(in.Series)}
	if dirty || ik != p.items {
		p.items = ik
		p.computeItems(in)
		p.runs[StageItems]++
	}
	p.valid = true
	return p.geom
}

func (p *GeometryPipeline) computePlot(in GeometryInput) {
	c := p.geom.Container
	inner := math.Max(0, c.Width-2*chartPadding)

	p.geom.TitleLines = 0
	if in.Title != "" {
		perLine := math.Floor(inner / titleCharWidth)
		if perLine < 1 {
			perLine = 1
		}
		p.geom.TitleLines = int(math.Ceil(float64(len([]rune(in.Title))) / perLine))
	}

	p.geom.LegendRows = 0
	if n := len(in.Series); n > 0 {
		perRow := math.Max(1, math.Floor(inner/legendItemWidth))
		p.geom.LegendRows = int(math.Ceil(float64(n) / perRow))
	}

	top := chartPadding + float64(p.geom.TitleLines)*titleLineHeight
	height := c.Height - top - chartPadding - float64(p.geom.LegendRows)*legendRowHeight
	p.geom.Plot = Box{X: chartPadding, Y: top, Width: inner, Height: math.Max(0, height)}
}

func (p *GeometryPipeline) computeLayout(pie bool) {
	plot := p.geom.Plot
	p.geom.Legend = Box{
		X:      plot.X,
		Y:      plot.Y + plot.Height,
		Width:  plot.Width,
		Height: float64(p.geom.LegendRows) * legendRowHeight,
	}
	if pie {
		p.geom.XAxis, p.geom.YAxis = Axis{}, Axis{}
		return
	}
	originX := plot.X + yAxisMargin
	baseline := plot.Y + math.Max(0, plot.Height-xAxisMargin)
	p.geom.XAxis = Axis{X: originX, Y: baseline, Length: math.Max(0, plot.Width-yAxisMargin)}
	p.geom.YAxis = Axis{X: originX, Y: plot.Y, Length: math.Max(0, plot.Height-xAxisMargin)}
}

func (p *GeometryPipeline) computeItems(in GeometryInput) {
	plot := p.geom.Plot
	if in.Pie {
		p.geom.Clip = plot
		p.geom.Points = nil
		p.geom.PieCenter = Point{X: plot.X + plot.Width/2, Y: plot.Y + plot.Height/2}
		p.geom.PieRadius = math.Min(plot.Width, plot.Height) / 2 * pieRadiusRatio
		return
	}
	x, y := p.geom.XAxis, p.geom.YAxis
	p.geom.PieCenter, p.geom.PieRadius = Point{}, 0
	p.geom.Clip = Box{X: x.X, Y: y.Y, Width: x.Length, Height: y.Length}

	longest := 0
	low, high := 0.0, 0.0
	for _, s := range in.Series {
		longest = max(longest, len(s.Points))
		for _, pt := range s.Points {
			low = math.Min(low, pt.Value)
			high = math.Max(high, pt.Value)
		}
	}
	span := high - low
	if span == 0 {
		span = 1
	}
	slot := 0.0
	if longest > 0 {
		slot = x.Length / float64(longest)
	}
	p.geom.Points = make([][]Point, len(in.Series))
	for si, s := range in.Series {
		pts := make([]Point, len(s.Points))
		for i, pt := range s.Points {
			pts[i] = Point{
				X: x.X + (float64(i)+0.5)*slot,
				Y: x.Y - (pt.Value-low)/span*y.Length,
			}
		}
		p.geom.Points[si] = pts
	}
}

func legendKey(series []ChartSeries) string {
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Name
	}
	return strings.Join(names, "\x00")
}

func dataKey(series []ChartSeries) string {
	var b strings.Builder
	for _, s := range series {
		b.WriteString(s.Name)
		for _, pt := range s.Points {
			fmt.Fprintf(&b, ",%g", pt.Value)
		}
		b.WriteByte(';')
	}
	return b.String()
}
