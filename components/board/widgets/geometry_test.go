package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-board/components/board"
)

func oneSeries(values ...float64) []ChartSeries {
	points := make([]ChartPoint, len(values))
	for i, v := range values {
		points[i] = ChartPoint{Value: v}
	}
	return []ChartSeries{{Name: "Series 1", Points: points}}
}

func TestGeometryPipelineLayout(t *testing.T) {
	p := NewGeometryPipeline()
	geom := p.Update(GeometryInput{Size: board.Size{Width: 600, Height: 400}, Series: oneSeries(1, 2, 3)})

	assert.Equal(t, Box{Width: 600, Height: 400}, geom.Container)
	assert.Equal(t, 0, geom.TitleLines)
	assert.Equal(t, 1, geom.LegendRows)
	assert.Equal(t, Box{X: 10, Y: 10, Width: 580, Height: 360}, geom.Plot)
	assert.Equal(t, Box{X: 10, Y: 370, Width: 580, Height: 20}, geom.Legend)
	assert.Equal(t, Axis{X: 50, Y: 340, Length: 540}, geom.XAxis)
	assert.Equal(t, geom.XAxis.Length, geom.Clip.Width)
	assert.Equal(t, geom.YAxis.Length, geom.Clip.Height)
	require.Len(t, geom.Points, 1)
	require.Len(t, geom.Points[0], 3)
	assert.Equal(t, 50+0.5*180.0, geom.Points[0][0].X)
	assert.Equal(t, 10.0, geom.Points[0][2].Y)
}

func TestGeometryPipelineMemoizesStages(t *testing.T) {
	p := NewGeometryPipeline()
	in := GeometryInput{Size: board.Size{Width: 600, Height: 400}, Title: "Sales", Series: oneSeries(1, 2)}
	p.Update(in)
	p.Update(in)
	for s := StageContainer; s < stageCount; s++ {
		assert.Equal(t, 1, p.Runs(s), s.String())
	}

	in.Series = oneSeries(5, 6)
	p.Update(in)
	assert.Equal(t, 1, p.Runs(StageContainer))
	assert.Equal(t, 1, p.Runs(StagePlot))
	assert.Equal(t, 1, p.Runs(StageLayout))
	assert.Equal(t, 2, p.Runs(StageItems))

	in.Title = "Quarterly sales"
	p.Update(in)
	assert.Equal(t, 1, p.Runs(StageContainer))
	assert.Equal(t, 2, p.Runs(StagePlot))
	assert.Equal(t, 2, p.Runs(StageLayout), "a plot rerun invalidates later stages")
	assert.Equal(t, 3, p.Runs(StageItems))

	in.Size = board.Size{Width: 300, Height: 400}
	p.Update(in)
	for s := StageContainer; s < stageCount; s++ {
		assert.Greater(t, p.Runs(s), 1, s.String())
	}

	p.Invalidate()
	before := p.Runs(StageItems)
	p.Update(in)
	assert.Equal(t, before+1, p.Runs(StageItems))
}

func TestGeometryTitleWrapsWithWidth(t *testing.T) {
	title := "Monthly revenue by product line"
	wide := NewGeometryPipeline().Update(GeometryInput{Size: board.Size{Width: 600, Height: 400}, Title: title})
	narrow := NewGeometryPipeline().Update(GeometryInput{Size: board.Size{Width: 120, Height: 400}, Title: title})

	assert.Equal(t, 1, wide.TitleLines)
	assert.Equal(t, 3, narrow.TitleLines)
	assert.Greater(t, narrow.Plot.Y, wide.Plot.Y)
}

func TestGeometryPieFollowsPlot(t *testing.T) {
	p := NewGeometryPipeline()
	geom := p.Update(GeometryInput{Size: board.Size{Width: 600, Height: 400}, Pie: true, Series: oneSeries(1, 2)})
	assert.Equal(t, Point{X: 300, Y: 190}, geom.PieCenter)
	assert.Equal(t, 135.0, geom.PieRadius)
	assert.Equal(t, Axis{}, geom.XAxis)

	geom = p.Update(GeometryInput{Size: board.Size{Width: 300, Height: 400}, Pie: true, Series: oneSeries(1, 2)})
	assert.Equal(t, 150.0, geom.PieCenter.X)
}
