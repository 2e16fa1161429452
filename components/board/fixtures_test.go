package board

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const recorderType = "Recorder"

// recorder is a widget that records what the driver asks of it.
type recorder struct {
	opts      ComponentOptions
	loads     int
	frames    []Frame
	destroyed bool
	loadErr   error
	renderErr error
	fetch     func(ctx context.Context) error
	onRender  func(Frame)
}

func (p *recorder) Type() string { return recorderType }

func (p *recorder) Load(_ context.Context, root *Element) error {
	p.loads++
	if p.loadErr != nil {
		return p.loadErr
	}
	root.AddClass("recorder")
	return nil
}

func (p *recorder) Render(_ *Element, frame Frame) error {
	p.frames = append(p.frames, frame)
	if p.onRender != nil {
		p.onRender(frame)
	}
	return p.renderErr
}

func (p *recorder) Destroy() { p.destroyed = true }

func (p *recorder) OptionsOnDrop(sc SidebarContext) ComponentOptions {
	return ComponentOptions{
		Title:    "Dropped on " + sc.Cell,
		Settings: map[string]any{"color": "blue"},
	}
}

func (p *recorder) NeedsFetch() bool { return p.fetch != nil }

func (p *recorder) Fetch(ctx context.Context) error { return p.fetch(ctx) }

func (p *recorder) lastFrame() Frame {
	if len(p.frames) == 0 {
		return Frame{}
	}
	return p.frames[len(p.frames)-1]
}

func recorderFactory(configure func(*recorder)) Factory {
	return func(opts ComponentOptions) (Widget, error) {
		p := &recorder{opts: opts}
		if configure != nil {
			configure(p)
		}
		return p, nil
	}
}

// eventLog collects events delivered through the board hook.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) BoardEvent(_ context.Context, ev Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

func (l *eventLog) types(target string) []EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []EventType
	for _, ev := range l.events {
		if ev.Target == target {
			out = append(out, ev.Type)
		}
	}
	return out
}

func (l *eventLog) count(typ EventType, kind NodeKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Type == typ && ev.Kind == kind {
			n++
		}
	}
	return n
}

type fixture struct {
	board    *Board
	doc      *Document
	clock    *ManualClock
	events   *eventLog
	registry *ComponentRegistry
	store    LayoutStore
}

func singleCell() []LayoutOptions {
	return []LayoutOptions{{
		ID: "layout-1",
		Rows: []RowOptions{{
			ID:    "row-1",
			Cells: []CellOptions{{ID: "cell-1"}},
		}},
	}}
}

func twoCells() []LayoutOptions {
	return []LayoutOptions{{
		ID: "layout-1",
		Rows: []RowOptions{{
			ID:    "row-1",
			Cells: []CellOptions{{ID: "cell-1"}, {ID: "cell-2"}},
		}},
	}}
}

// newFixture mounts a 600x400 board. cfg.GUI.Layouts defaults to one cell.
func newFixture(t *testing.T, cfg Config, configure func(*recorder)) *fixture {
	t.Helper()
	f := newUnmountedFixture(t, configure)
	if len(cfg.GUI.Layouts) == 0 && len(cfg.Layouts) == 0 {
		cfg.GUI.Layouts = singleCell()
	}
	f.mount(t, cfg)
	return f
}

func newUnmountedFixture(t *testing.T, configure func(*recorder)) *fixture {
	t.Helper()
	reg := NewComponentRegistry()
	require.NoError(t, reg.RegisterComponent(recorderType, recorderFactory(configure)))
	doc := NewDocument()
	doc.CreateContainer("container", 600, 400)
	return &fixture{
		doc:      doc,
		clock:    NewManualClock(time.Unix(0, 0)),
		events:   &eventLog{},
		registry: reg,
	}
}

func (f *fixture) options(cfg Config) Options {
	return Options{
		Config:    cfg,
		Registry:  f.registry,
		Clock:     f.clock,
		EventHook: f.events,
		Store:     f.store,
	}
}

func (f *fixture) mount(t *testing.T, cfg Config) {
	t.Helper()
	b, err := Mount(context.Background(), f.doc, "container", f.options(cfg))
	require.NoError(t, err)
	f.board = b
	t.Cleanup(b.Destroy)
}

func (f *fixture) add(t *testing.T, cell string) (*Instance, *recorder) {
	t.Helper()
	inst, err := f.board.AddComponent(context.Background(), ComponentOptions{Cell: cell, Type: recorderType, ID: "recorder-" + cell})
	require.NoError(t, err)
	return inst, inst.Widget().(*recorder)
}
