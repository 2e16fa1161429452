package board

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func TestMountRequiresContainer(t *testing.T) {
	doc := NewDocument()
	_, err := Mount(context.Background(), doc, "missing", Options{})
	assert.ErrorIs(t, err, ErrMissingContainer)

	_, err = Mount(context.Background(), nil, "missing", Options{})
	assert.ErrorIs(t, err, ErrMissingContainer)

	_, err = NewBoard(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, ErrMissingContainer)
}

func TestMountBuildsTree(t *testing.T) {
	f := newFixture(t, Config{GUI: GUIOptions{Layouts: twoCells()}}, nil)
	b := f.board

	assert.Equal(t, "container", b.ID())
	assert.True(t, b.Container().HasClass("board"))
	require.Len(t, b.Layouts(), 1)
	assert.Len(t, b.Layouts()[0].Rows(), 1)
	assert.Len(t, b.Cells(), 2)
	assert.Equal(t, Size{Width: 300, Height: 400}, b.Cell("cell-2").Size())

	found := f.doc.Find("#container > .board-layout > .board-row > .board-cell")
	assert.Len(t, found, 2)

	markup, err := b.HTML()
	require.NoError(t, err)
	assert.Contains(t, markup, `id="cell-1"`)
	assert.Contains(t, markup, "width:300px;height:400px")
}

func TestMountRejectsDuplicateIDs(t *testing.T) {
	f := newUnmountedFixture(t, nil)
	cfg := Config{GUI: GUIOptions{Layouts: []LayoutOptions{{
		ID: "layout-1",
		Rows: []RowOptions{{ID: "row-1", Cells: []CellOptions{
			{ID: "same"},
			{ID: "same"},
		}}},
	}}}}
	b, err := Mount(context.Background(), f.doc, "container", f.options(cfg))
	assert.Nil(t, b)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.False(t, f.doc.GetElementByID("container").HasClass("board"))
}

func TestMountGeneratesMissingIDs(t *testing.T) {
	f := newUnmountedFixture(t, nil)
	n := 0
	opts := f.options(Config{GUI: GUIOptions{Layouts: []LayoutOptions{{
		Rows: []RowOptions{{Cells: []CellOptions{{}, {}}}},
	}}}})
	opts.IDGenerator = func() string {
		n++
		return strings.Repeat("x", n)
	}
	b, err := Mount(context.Background(), f.doc, "container", opts)
	require.NoError(t, err)
	defer b.Destroy()

	assert.Equal(t, "layout-x", b.Layouts()[0].ID())
	assert.Equal(t, "cell-xxx", b.Cells()[0].ID())
	assert.Equal(t, "cell-xxxx", b.Cells()[1].ID())
}

func TestDestroyTearsDownInOrder(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	inst, p := f.add(t, "cell-1")
	b := f.board

	b.Destroy()
	b.Destroy()
	assert.True(t, b.Destroyed())
	assert.True(t, p.destroyed)
	assert.Equal(t, StateDestroyed, inst.State())
	assert.False(t, b.Container().HasClass("board"))
	assert.Empty(t, b.Container().Children())
	assert.Nil(t, b.Cell("cell-1"))

	last := f.events.events[len(f.events.events)-1]
	assert.Equal(t, Event{Type: EventDestroy, Kind: KindBoard, Target: "container"}, last)
	assert.Equal(t, 1, f.events.count(EventDestroy, KindLayout))
	assert.Equal(t, 1, f.events.count(EventDestroy, KindCell))

	_, err := b.SetSize(Px(10), Keep, NoAnimation)
	assert.ErrorIs(t, err, ErrBoardDestroyed)
	_, err = b.AddComponent(context.Background(), ComponentOptions{Cell: "cell-1", Type: recorderType})
	assert.ErrorIs(t, err, ErrBoardDestroyed)
	assert.ErrorIs(t, b.SetLayouts(singleCell()), ErrBoardDestroyed)
	assert.ErrorIs(t, b.ExportLocal(context.Background()), ErrBoardDestroyed)
	assert.False(t, b.Reflow())
}

func TestRemoveLayout(t *testing.T) {
	cfg := Config{GUI: GUIOptions{Layouts: []LayoutOptions{
		singleCell()[0],
		{ID: "layout-2", Rows: []RowOptions{{ID: "row-2", Cells: []CellOptions{{ID: "cell-2"}}}}},
	}}}
	f := newFixture(t, cfg, nil)
	b := f.board
	assert.Equal(t, 200.0, b.Layout("layout-2").Size().Height)

	_, p := f.add(t, "cell-1")
	require.NoError(t, b.RemoveLayout("layout-1"))
	assert.True(t, p.destroyed)
	assert.Nil(t, b.Cell("cell-1"))
	assert.Equal(t, 400.0, b.Layout("layout-2").Size().Height)
	assert.ErrorIs(t, b.RemoveLayout("layout-1"), ErrNodeNotFound)
}

func TestEventListenersAndTelemetry(t *testing.T) {
	f := newUnmountedFixture(t, nil)
	telemetry := &recordingTelemetry{}
	opts := f.options(Config{GUI: GUIOptions{Layouts: singleCell()}})
	opts.Telemetry = telemetry
	b, err := Mount(context.Background(), f.doc, "container", opts)
	require.NoError(t, err)
	defer b.Destroy()

	var all, resizes []Event
	offAll := b.On("", func(ev Event) { all = append(all, ev) })
	offResize := b.On(EventResize, func(ev Event) { resizes = append(resizes, ev) })

	_, err = b.AddComponent(context.Background(), ComponentOptions{Cell: "cell-1", Type: recorderType, ID: "p"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Empty(t, resizes)

	_, err = b.SetSize(Px(300), Keep, NoAnimation)
	require.NoError(t, err)
	require.NotEmpty(t, resizes)
	assert.Equal(t, KindBoard, resizes[0].Kind)
	assert.Equal(t, Size{Width: 600, Height: 400}, resizes[0].Previous)
	assert.Equal(t, Size{Width: 300, Height: 400}, resizes[0].Size)

	offAll()
	offResize()
	count := len(all)
	_, err = b.SetSize(Px(200), Keep, NoAnimation)
	require.NoError(t, err)
	assert.Len(t, all, count)

	assert.Contains(t, telemetry.events, "board.component.mount")
	assert.Contains(t, telemetry.events, "board.board.resize")
	assert.Contains(t, telemetry.events, "board.cell.resize")
}

func TestBoardJSONRoundTrip(t *testing.T) {
	cfg := Config{
		GUI: GUIOptions{
			LayoutOptions: LayoutDefaults{RowClassName: "r", CellClassName: "c"},
			Layouts: []LayoutOptions{{
				ID: "layout-1",
				Rows: []RowOptions{
					{ID: "row-1", Height: Px(100), Cells: []CellOptions{
						{ID: "cell-1", Width: "1/3"},
						{ID: "cell-2", Width: "250px", ClassName: "wide"},
					}},
					{ID: "row-2", Cells: []CellOptions{{ID: "cell-3", Layout: &LayoutOptions{
						ID:   "inner",
						Rows: []RowOptions{{ID: "inner-row", Cells: []CellOptions{{ID: "inner-cell"}}}},
					}}}},
				},
			}},
		},
		Components: []ComponentOptions{
			{Cell: "cell-1", Type: recorderType, ID: "one", Settings: map[string]any{"color": "red"}},
			{Cell: "inner-cell", Type: recorderType, ID: "two", Resizable: BoolPtr(false)},
		},
	}
	f := newFixture(t, cfg, nil)

	raw, err := json.Marshal(f.board)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"$class":"Dashboard"`)
	assert.Contains(t, string(raw), `"$class":"Dashboard.Cell"`)
	assert.Contains(t, string(raw), `"parentContainerId":"cell-3"`)

	snapshot, err := ParseBoardJSON(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, f.board.ToJSON(), snapshot)

	doc := NewDocument()
	doc.CreateContainer("container", 600, 400)
	opts := f.options(Config{})
	rebuilt, err := FromJSON(context.Background(), doc, snapshot, opts)
	require.NoError(t, err)
	defer rebuilt.Destroy()

	assert.Equal(t, snapshot, rebuilt.ToJSON())
	assert.Len(t, rebuilt.Mounted(), 2)
	assert.Equal(t, f.board.Cell("cell-1").Size(), rebuilt.Cell("cell-1").Size())
	assert.True(t, rebuilt.Cell("cell-2").Element().HasClass("wide"))
	assert.True(t, rebuilt.Cell("cell-2").Element().HasClass("c"))
}

// rebuild writes the board to JSON and builds a new board from it.
func rebuild(t *testing.T, f *fixture) *Board {
	t.Helper()
	raw, err := json.Marshal(f.board)
	require.NoError(t, err)
	snapshot, err := ParseBoardJSON(bytes.NewReader(raw))
	require.NoError(t, err)

	doc := NewDocument()
	doc.CreateContainer("container", 600, 400)
	rebuilt, err := FromJSON(context.Background(), doc, snapshot, f.options(Config{}))
	require.NoError(t, err)
	t.Cleanup(rebuilt.Destroy)
	return rebuilt
}

func TestBoardJSONRoundTripAfterReleasingPixelWidth(t *testing.T) {
	f := newFixture(t, Config{GUI: GUIOptions{Layouts: []LayoutOptions{{
		ID: "layout-1",
		Rows: []RowOptions{{ID: "row-1", Cells: []CellOptions{
			{ID: "cell-1", Width: "250px"},
			{ID: "cell-2"},
		}}},
	}}}}, nil)
	cell := f.board.Cell("cell-1")
	assert.Equal(t, 250.0, cell.Size().Width)

	_, err := cell.SetSize(Auto, Keep, NoAnimation)
	require.NoError(t, err)
	assert.Equal(t, 300.0, cell.Size().Width)
	assert.Empty(t, cell.Options().Width)

	rebuilt := rebuild(t, f)
	assert.Equal(t, 300.0, rebuilt.Cell("cell-1").Size().Width)
	assert.Equal(t, 300.0, rebuilt.Cell("cell-2").Size().Width)
	pinned, _ := rebuilt.Cell("cell-1").Pinned()
	assert.False(t, pinned)
}

func TestBoardJSONRoundTripKeepsRuntimePins(t *testing.T) {
	f := newFixture(t, Config{GUI: GUIOptions{Layouts: []LayoutOptions{
		{ID: "a", Rows: []RowOptions{{ID: "a-row", Cells: []CellOptions{{ID: "a-cell"}, {ID: "a-side"}}}}},
		{ID: "b", Rows: []RowOptions{{ID: "b-row", Cells: []CellOptions{{ID: "b-cell"}}}}},
	}}}, nil)

	_, err := f.board.Layout("a").SetSize(Keep, Px(100), NoAnimation)
	require.NoError(t, err)
	_, err = f.board.Cell("a-cell").SetSize(Px(120), Keep, NoAnimation)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 600, Height: 100}, f.board.Layout("a").Size())
	assert.Equal(t, Size{Width: 600, Height: 300}, f.board.Layout("b").Size())

	rebuilt := rebuild(t, f)
	assert.Equal(t, Size{Width: 600, Height: 100}, rebuilt.Layout("a").Size())
	assert.Equal(t, Size{Width: 600, Height: 300}, rebuilt.Layout("b").Size())
	assert.Equal(t, 120.0, rebuilt.Cell("a-cell").Size().Width)
	assert.Equal(t, 480.0, rebuilt.Cell("a-side").Size().Width)
	assert.Equal(t, f.board.ToJSON(), rebuilt.ToJSON())
}

func TestParseBoardJSONChecksClass(t *testing.T) {
	_, err := ParseBoardJSON(strings.NewReader(`{"$class":"Dashboard.Layout","options":{}}`))
	assert.ErrorIs(t, err, ErrInvalidClass)

	_, err = ParseBoardJSON(strings.NewReader(`{`))
	assert.Error(t, err)

	_, err = LayoutJSON{Class: ClassRow}.LayoutOptions()
	assert.ErrorIs(t, err, ErrInvalidClass)
}

func TestExportImportLocal(t *testing.T) {
	f := newUnmountedFixture(t, nil)
	store := NewMemoryLayoutStore()
	f.store = store
	f.mount(t, Config{
		GUI:      GUIOptions{Layouts: twoCells()},
		EditMode: EditModeOptions{Enabled: true},
	})
	b := f.board
	before, _ := f.add(t, "cell-1")

	require.NoError(t, b.ExportLocal(context.Background()))
	assert.Equal(t, []string{LayoutKeyPrefix + "layout-1"}, store.Keys())

	_, err := b.EditMode().AddCell("row-1", CellOptions{ID: "cell-3"})
	require.NoError(t, err)
	assert.Equal(t, 200.0, b.Cell("cell-1").Size().Width)

	n, err := b.ImportLocal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Nil(t, b.Cell("cell-3"))
	assert.Equal(t, 300.0, b.Cell("cell-1").Size().Width)

	after := b.Cell("cell-1").Component()
	require.NotNil(t, after)
	assert.NotSame(t, before, after)
	assert.True(t, after.Mounted())
	assert.Equal(t, StateDestroyed, before.State())
	assert.Len(t, b.Mounted(), 1)
}

func TestImportDropsComponentsWithoutCell(t *testing.T) {
	f := newUnmountedFixture(t, nil)
	f.store = NewMemoryLayoutStore()
	f.mount(t, Config{
		GUI:      GUIOptions{Layouts: twoCells()},
		EditMode: EditModeOptions{Enabled: true},
	})
	b := f.board
	require.NoError(t, b.ExportLocal(context.Background()))

	_, err := b.EditMode().AddCell("row-1", CellOptions{ID: "cell-3"})
	require.NoError(t, err)
	f.add(t, "cell-3")

	n, err := b.ImportLocal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, b.Mounted())
}

func TestImportWithoutSnapshotKeepsLayout(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	inst, _ := f.add(t, "cell-1")

	n, err := f.board.ImportLocal(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Same(t, inst, f.board.Cell("cell-1").Component())
}
