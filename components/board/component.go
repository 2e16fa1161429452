package board

import (
	"context"
	"fmt"

	"github.com/ettle/strcase"
)

// FrameReason says why a widget is asked to render.
type FrameReason string

const (
	ReasonLoad   FrameReason = "load"
	ReasonResize FrameReason = "resize"
	ReasonRedraw FrameReason = "redraw"
	ReasonRender FrameReason = "render"
)

// Frame is one render pass. During an animated resize Size moves toward the
// target and Final is set only on the frame that applies it exactly.
type Frame struct {
	Size     Size
	Progress float64
	Final    bool
	Reason   FrameReason
}

// Widget is implemented by every pluggable component variant. The shared
// Instance driver owns lifecycle bookkeeping; a widget only supplies the
// variant-specific steps.
type Widget interface {
	Type() string
	// Load runs after the driver attached the component's root element.
	Load(ctx context.Context, root *Element) error
	Render(root *Element, frame Frame) error
	Destroy()
	OptionsOnDrop(sc SidebarContext) ComponentOptions
}

// Fetcher is implemented by widgets that load remote content before mounting.
// Fetch runs off the board goroutine; Load runs after it on the board goroutine.
type Fetcher interface {
	NeedsFetch() bool
	Fetch(ctx context.Context) error
}

// Invalidator is implemented by widgets with memoized geometry that a forced
// redraw must discard.
type Invalidator interface {
	Invalidate()
}

// ComponentState is the lifecycle position of an Instance.
type ComponentState uint8

const (
	StateCreated ComponentState = iota
	StateLoading
	StateMounted
	StateDestroyed
)

func (s ComponentState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateLoading:
		return "loading"
	case StateMounted:
		return "mounted"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Instance drives one widget through its lifecycle inside a cell.
type Instance struct {
	Sizer

	id      string
	options ComponentOptions
	widget  Widget
	rt      *runtime
	cell    *Cell
	host    *Element
	root    *Element
	state   ComponentState
	redraws int
	frames  int
	release func(*Instance)
}

func newInstance(rt *runtime, opts ComponentOptions, widget Widget, cell *Cell) *Instance {
	id := opts.ID
	if id == "" {
		id = rt.newID("component")
	}
	inst := &Instance{
		id:      id,
		options: opts,
		widget:  widget,
		rt:      rt,
		cell:    cell,
	}
	if cell != nil {
		inst.host = cell.element
	}
	return inst
}

func (i *Instance) ID() string                { return i.id }
func (i *Instance) Kind() NodeKind            { return KindComponent }
func (i *Instance) Type() string              { return i.widget.Type() }
func (i *Instance) Widget() Widget            { return i.widget }
func (i *Instance) State() ComponentState     { return i.state }
func (i *Instance) Options() ComponentOptions { return i.options.Clone() }

// Cell returns the host cell, nil once destroyed.
func (i *Instance) Cell() *Cell { return i.cell }

// Element returns the component root, nil before Load.
func (i *Instance) Element() *Element { return i.root }

// Redraws counts geometry changes and forced redraws applied while mounted.
func (i *Instance) Redraws() int { return i.redraws }

// Frames counts widget render calls.
func (i *Instance) Frames() int { return i.frames }

// Mounted reports whether the component is eligible for resize and redraw dispatch.
func (i *Instance) Mounted() bool { return i.state == StateMounted }

func (i *Instance) sizer() *Sizer { return &i.Sizer }

// Load attaches the component root under its cell and runs the widget's
// load step. Widgets that fetch first finish loading on a later Tick.
func (i *Instance) Load(ctx context.Context) error {
	switch i.state {
	case StateCreated:
	case StateDestroyed:
		return ErrComponentDestroyed
	default:
		return &DoubleLoadError{ComponentID: i.id}
	}
	if i.host == nil {
		return &CellNotFoundError{CellID: i.options.CellID()}
	}
	i.baseLoad()
	i.state = StateLoading
	i.rt.emit(i.event(EventLoad))
	if f, ok := i.widget.(Fetcher); ok && f.NeedsFetch() {
		// The fetch outlives the call that started it.
		fetchCtx := context.WithoutCancel(ctx)
		i.rt.sched.Go(func() error {
			return i.call(func() error { return f.Fetch(fetchCtx) })
		}, func(err error) {
			_ = i.finishLoad(fetchCtx, err)
		})
		return nil
	}
	return i.finishLoad(ctx, nil)
}

func (i *Instance) baseLoad() {
	doc := i.host.Document()
	i.root = doc.CreateElement("div")
	i.root.SetID(i.id)
	i.root.AddClass("board-component", "board-component-"+strcase.ToKebab(i.widget.Type()))
	i.root.SetAttr("data-component-type", i.widget.Type())
	if i.options.Title != "" {
		title := doc.CreateElement("h3")
		title.AddClass("board-component-title")
		title.SetText(i.options.Title)
		i.root.AppendChild(title)
	}
	i.host.AppendChild(i.root)
}

func (i *Instance) finishLoad(ctx context.Context, err error) error {
	if i.state != StateLoading {
		return nil
	}
	if err == nil {
		err = i.call(func() error { return i.widget.Load(ctx, i.root) })
	}
	if err != nil {
		err = fmt.Errorf("board: load component %s: %w", i.id, err)
		i.rt.logger.Error("component load failed", "component", i.id, "type", i.Type(), "error", err)
		ev := i.event(EventError)
		ev.Error = err.Error()
		i.rt.emit(ev)
		i.Destroy()
		return err
	}
	i.state = StateMounted
	i.settleNow()
	i.renderFrame(Frame{Size: i.rendered, Progress: 1, Final: true, Reason: ReasonLoad})
	i.rt.emit(i.event(EventMount))
	return nil
}

// Render reproduces output at the current rendered size.
func (i *Instance) Render() error {
	if err := i.dispatchable(); err != nil {
		return err
	}
	return i.renderFrame(Frame{Size: i.rendered, Progress: 1, Final: !i.Animating(), Reason: ReasonRender})
}

// Resize updates the component's target extents. Before mounting the extents
// are only stored.
func (i *Instance) Resize(width, height Dimension, anim Animation) (bool, error) {
	if i.state == StateDestroyed {
		return false, ErrComponentDestroyed
	}
	return setSize(i, width, height, anim), nil
}

// SetSize is Resize under the name shared by every Node.
func (i *Instance) SetSize(width, height Dimension, anim Animation) (bool, error) {
	return i.Resize(width, height, anim)
}

// Reflow re-measures the component root, falling back to the cell size.
func (i *Instance) Reflow() bool {
	if i.state == StateDestroyed {
		return false
	}
	return reflow(i, NoAnimation)
}

func (i *Instance) measure() (Size, bool) {
	if i.root != nil {
		if s, ok := i.root.Measure(); ok {
			return s, true
		}
	}
	if i.cell != nil {
		return i.cell.Size(), true
	}
	return Size{}, false
}

// Redraw cancels any pending animation and recomputes output at the
// effective size whether or not extents changed.
func (i *Instance) Redraw() error {
	if err := i.dispatchable(); err != nil {
		return err
	}
	i.settleNow()
	if inv, ok := i.widget.(Invalidator); ok {
		inv.Invalidate()
	}
	i.redraws++
	i.rt.emit(i.event(EventRedraw))
	return i.renderFrame(Frame{Size: i.rendered, Progress: 1, Final: true, Reason: ReasonRedraw})
}

func (i *Instance) dispatchable() error {
	switch i.state {
	case StateMounted:
		return nil
	case StateDestroyed:
		return ErrComponentDestroyed
	default:
		return ErrComponentNotMounted
	}
}

func (i *Instance) applyGeometry(prev, next Size, anim Animation) {
	if i.state != StateMounted {
		i.rendered = next
		return
	}
	i.redraws++
	ev := i.event(EventResize)
	ev.Size, ev.Previous = next, prev
	i.rt.emit(ev)
	i.rt.emit(i.event(EventRedraw))
	i.animateTo(i.rt.sched, next, anim, func(size Size, progress float64, final bool) {
		_ = i.renderFrame(Frame{Size: size, Progress: progress, Final: final, Reason: ReasonResize})
	})
}

func (i *Instance) renderFrame(frame Frame) error {
	i.frames++
	if i.root != nil {
		i.root.setStyleSize(frame.Size)
	}
	err := i.call(func() error { return i.widget.Render(i.root, frame) })
	if err != nil {
		i.rt.logger.Warn("component render failed", "component", i.id, "type", i.Type(), "error", err)
		ev := i.event(EventError)
		ev.Error = err.Error()
		i.rt.emit(ev)
	}
	return err
}

// call runs a widget hook, converting a panic into an error.
func (i *Instance) call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("board: component %s panicked: %v", i.id, r)
		}
	}()
	return fn()
}

// Destroy detaches the component and releases its binding. It is safe
// before Load and on an already destroyed instance.
func (i *Instance) Destroy() {
	if i.state == StateDestroyed {
		return
	}
	loaded := i.state != StateCreated
	if i.state == StateMounted {
		i.rt.emit(i.event(EventUnmount))
	}
	i.state = StateDestroyed
	i.task.Cancel()
	i.task = nil
	if loaded {
		_ = i.call(func() error {
			i.widget.Destroy()
			return nil
		})
	}
	if i.root != nil {
		i.root.Remove()
	}
	ev := i.event(EventDestroy)
	if i.release != nil {
		release := i.release
		i.release = nil
		release(i)
	}
	i.cell = nil
	i.host = nil
	i.rt.logger.Debug("component destroyed", "component", i.id)
	i.rt.emit(ev)
}

// OptionsOnDrop returns the defaults the editor uses when this type is dropped on a cell.
func (i *Instance) OptionsOnDrop(sc SidebarContext) ComponentOptions {
	return i.widget.OptionsOnDrop(sc)
}

func (i *Instance) event(typ EventType) Event {
	ev := Event{
		Type:          typ,
		Kind:          KindComponent,
		Target:        i.id,
		ComponentType: i.widget.Type(),
		Size:          i.effective,
	}
	if i.cell != nil {
		ev.Cell = i.cell.id
	}
	return ev
}
