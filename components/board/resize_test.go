package board

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentSetSizeKeepAndAuto(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	inst, _ := f.add(t, "cell-1")
	require.Equal(t, Size{Width: 600, Height: 400}, inst.Size())

	steps := []struct {
		name          string
		width, height Dimension
		changed       bool
		want          Size
	}{
		{"pin height", Keep, Px(300), true, Size{Width: 600, Height: 300}},
		{"keep both", Keep, Keep, false, Size{Width: 600, Height: 300}},
		{"release height", Keep, Auto, true, Size{Width: 600, Height: 400}},
		{"pin width", Px(300), Keep, true, Size{Width: 300, Height: 400}},
		{"keep pinned width", Keep, Keep, false, Size{Width: 300, Height: 400}},
		{"release both", Auto, Auto, true, Size{Width: 600, Height: 400}},
	}
	for _, step := range steps {
		changed, err := inst.SetSize(step.width, step.height, NoAnimation)
		require.NoError(t, err, step.name)
		assert.Equal(t, step.changed, changed, step.name)
		assert.Equal(t, step.want, inst.Size(), step.name)
		assert.Equal(t, step.want, inst.Rendered(), step.name)
	}
	assert.Equal(t, 4, inst.Redraws())
}

func TestSetSizeToCurrentSizeDoesNothing(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	inst, p := f.add(t, "cell-1")
	frames := len(p.frames)
	resizes := f.events.count(EventResize, KindBoard)

	changed, err := inst.SetSize(Px(600), Px(400), AnimateDefault())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, inst.Redraws())
	assert.Len(t, p.frames, frames)
	assert.False(t, inst.Animating())

	changed, err = f.board.SetSize(Px(600), Px(400), NoAnimation)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, resizes, f.events.count(EventResize, KindBoard))
	assert.Zero(t, inst.Redraws())
}

func TestBoardSetSizePropagatesToComponents(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	inst, p := f.add(t, "cell-1")

	changed, err := f.board.SetSize(Keep, Px(300), NoAnimation)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, Size{Width: 600, Height: 300}, f.board.Layout("layout-1").Size())
	assert.Equal(t, Size{Width: 600, Height: 300}, f.board.Cell("cell-1").Size())
	assert.Equal(t, Size{Width: 600, Height: 300}, inst.Size())
	assert.Equal(t, ReasonResize, p.lastFrame().Reason)
	assert.True(t, p.lastFrame().Final)

	style, ok := inst.Element().StyleSize()
	require.True(t, ok)
	assert.Equal(t, Size{Width: 600, Height: 300}, style)

	f.board.Container().SetExtents(700, 500)
	assert.True(t, f.board.Reflow())
	assert.Equal(t, Size{Width: 700, Height: 300}, f.board.Size())

	changed, err = f.board.SetSize(Keep, Auto, NoAnimation)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, Size{Width: 700, Height: 500}, inst.Size())
}

func TestReflowFollowsContainer(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	inst, _ := f.add(t, "cell-1")

	f.board.Container().SetExtents(700, 400)
	assert.True(t, f.board.Reflow())
	assert.Equal(t, Size{Width: 700, Height: 400}, f.board.Cell("cell-1").Size())
	assert.Equal(t, Size{Width: 700, Height: 400}, inst.Size())
	assert.Equal(t, 1, inst.Redraws())

	assert.False(t, f.board.Reflow())
	assert.Equal(t, 1, inst.Redraws())
}

func TestReflowDuringResizeIsIgnored(t *testing.T) {
	var f *fixture
	var nested []bool
	f = newFixture(t, Config{}, func(p *recorder) {
		p.onRender = func(frame Frame) {
			if frame.Reason == ReasonResize {
				nested = append(nested, f.board.Reflow())
			}
		}
	})
	inst, _ := f.add(t, "cell-1")

	f.board.Container().SetExtents(500, 400)
	assert.True(t, f.board.Reflow())
	assert.Equal(t, []bool{false}, nested)
	assert.Equal(t, Size{Width: 500, Height: 400}, inst.Size())
	assert.False(t, f.board.Resizing())
}

func TestBoardWithoutMeasuredContainerUsesDefaults(t *testing.T) {
	doc := NewDocument()
	container := doc.CreateElement("div")
	container.SetID("bare")
	doc.Body().AppendChild(container)

	b, err := Mount(t.Context(), doc, "bare", Options{Config: Config{GUI: GUIOptions{Layouts: singleCell()}}})
	require.NoError(t, err)
	defer b.Destroy()
	assert.Equal(t, Size{Width: DefaultWidth, Height: DefaultHeight}, b.Size())
}

func TestCellWidthsShareTheRow(t *testing.T) {
	cfg := Config{GUI: GUIOptions{Layouts: []LayoutOptions{{
		ID: "layout-1",
		Rows: []RowOptions{
			{ID: "row-1", Height: Px(100), Cells: []CellOptions{
				{ID: "third", Width: "1/3"},
				{ID: "pinned", Width: "250px"},
				{ID: "rest"},
			}},
			{ID: "row-2", Cells: []CellOptions{
				{ID: "half", Width: "50%"},
				{ID: "other"},
			}},
		},
	}}}}
	f := newFixture(t, cfg, nil)
	b := f.board

	assert.Equal(t, Size{Width: 600, Height: 100}, b.Row("row-1").Size())
	assert.Equal(t, Size{Width: 600, Height: 300}, b.Row("row-2").Size())
	assert.Equal(t, 200.0, b.Cell("third").Size().Width)
	assert.Equal(t, 250.0, b.Cell("pinned").Size().Width)
	assert.Equal(t, 150.0, b.Cell("rest").Size().Width)
	assert.Equal(t, 300.0, b.Cell("half").Size().Width)
	assert.Equal(t, 300.0, b.Cell("other").Size().Width)

	changed, err := b.Cell("pinned").SetSize(Px(100), Keep, NoAnimation)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 300.0, b.Cell("rest").Size().Width)
	assert.Equal(t, "100px", b.Cell("pinned").Options().Width)
}

func TestNestedLayoutFollowsHostCell(t *testing.T) {
	cfg := Config{GUI: GUIOptions{Layouts: []LayoutOptions{{
		ID: "outer",
		Rows: []RowOptions{{ID: "outer-row", Cells: []CellOptions{
			{ID: "host", Layout: &LayoutOptions{
				ID: "inner",
				Rows: []RowOptions{{ID: "inner-row", Cells: []CellOptions{
					{ID: "inner-a"},
					{ID: "inner-b"},
				}}},
			}},
		}}},
	}}}}
	f := newFixture(t, cfg, nil)
	b := f.board

	ids := make([]string, 0)
	for _, c := range b.Cells() {
		ids = append(ids, c.ID())
	}
	assert.Equal(t, []string{"host", "inner-a", "inner-b"}, ids)
	assert.Equal(t, Size{Width: 300, Height: 400}, b.Cell("inner-b").Size())
	assert.Same(t, b.Cell("host"), b.Layout("inner").Parent())

	inst, _ := f.add(t, "inner-b")
	b.Container().SetExtents(800, 400)
	require.True(t, b.Reflow())
	assert.Equal(t, Size{Width: 400, Height: 400}, inst.Size())
}

func TestSplitExtent(t *testing.T) {
	out := splitExtent(600, []slot{{pinned: true, value: 500}, {fraction: 0.5}, {}})
	assert.Equal(t, []float64{500, 300, 0}, out)

	out = splitExtent(300, []slot{{}, {}, {}})
	assert.Equal(t, []float64{100, 100, 100}, out)
}

func TestParseExtent(t *testing.T) {
	cases := []struct {
		raw  string
		want extent
		ok   bool
	}{
		{"", extent{kind: extentShare}, true},
		{"auto", extent{kind: extentShare}, true},
		{"1/4", extent{kind: extentFraction, value: 0.25}, true},
		{"25%", extent{kind: extentFraction, value: 0.25}, true},
		{"120px", extent{kind: extentPixels, value: 120}, true},
		{"120", extent{kind: extentPixels, value: 120}, true},
		{"1/0", extent{}, false},
		{"wide", extent{}, false},
		{"-5px", extent{}, false},
	}
	for _, tc := range cases {
		got, ok := parseExtent(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.raw)
		}
	}
}

func TestSizeRequestDecoding(t *testing.T) {
	var req SizeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"target":"cell-1","width":300,"height":null,"animation":{"duration":250}}`), &req))
	assert.Equal(t, "cell-1", req.Target)
	assert.Equal(t, Px(300), req.Width)
	assert.Equal(t, Auto, req.Height)
	assert.Equal(t, Animate(250*time.Millisecond), req.Animation)

	req = SizeRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"width":"250px","animation":true}`), &req))
	assert.Equal(t, Px(250), req.Width)
	assert.True(t, req.Height.IsKeep())
	assert.Equal(t, DefaultAnimationDuration, req.Animation.Duration)

	req = SizeRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"width":"auto","animation":false}`), &req))
	assert.True(t, req.Width.IsAuto())
	assert.False(t, req.Animation.Enabled)

	assert.Error(t, json.Unmarshal([]byte(`{"width":"wide"}`), &req))

	raw, err := json.Marshal(SizeRequest{Width: Px(12.5), Animation: Animate(200 * time.Millisecond)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":12.5,"animation":{"duration":200}}`, string(raw))
}

func TestParseDimension(t *testing.T) {
	for raw, want := range map[string]Dimension{
		"":      Keep,
		"keep":  Keep,
		"null":  Auto,
		"AUTO":  Auto,
		"320":   Px(320),
		"320px": Px(320),
	} {
		got, err := ParseDimension(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseDimension("tall")
	assert.Error(t, err)
	assert.Equal(t, Px(0), Px(-10))
	assert.Equal(t, "320px", Px(320).String())
}
