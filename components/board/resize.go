package board

import (
	"math"
	"strconv"
	"strings"
)

// Sizer holds the size state shared by every resizable node: the pinned
// extents, the container-derived (auto) extents, the resolved effective
// size and the size currently applied to output, which trails the effective
// size while an animation runs.
type Sizer struct {
	explicit  Size
	hasWidth  bool
	hasHeight bool
	auto      Size
	effective Size
	rendered  Size
	resizing  bool
	task      *Task
}

// Size returns the effective size.
func (s *Sizer) Size() Size { return s.effective }

// Rendered returns the size applied by the last frame.
func (s *Sizer) Rendered() Size { return s.rendered }

// AutoSize returns the container-derived size.
func (s *Sizer) AutoSize() Size { return s.auto }

// Pinned reports which axes carry an explicit value.
func (s *Sizer) Pinned() (width, height bool) { return s.hasWidth, s.hasHeight }

// Resizing reports whether a size change is being applied.
func (s *Sizer) Resizing() bool { return s.resizing }

// Animating reports whether output frames are still pending.
func (s *Sizer) Animating() bool { return s.task.Active() }

func (s *Sizer) apply(width, height Dimension) {
	switch {
	case width.IsFixed():
		s.explicit.Width, s.hasWidth = width.Value(), true
	case width.IsAuto():
		s.explicit.Width, s.hasWidth = 0, false
	}
	switch {
	case height.IsFixed():
		s.explicit.Height, s.hasHeight = height.Value(), true
	case height.IsAuto():
		s.explicit.Height, s.hasHeight = 0, false
	}
}

func (s *Sizer) resolve() Size {
	out := s.auto
	if s.hasWidth {
		out.Width = s.explicit.Width
	}
	if s.hasHeight {
		out.Height = s.explicit.Height
	}
	return clampSize(out)
}

func (s *Sizer) pinnedWidth() (float64, bool)  { return s.explicit.Width, s.hasWidth }
func (s *Sizer) pinnedHeight() (float64, bool) { return s.explicit.Height, s.hasHeight }

// animateTo moves the rendered size to target, either at once or over the
// animation's duration. A running animation is cancelled and the new one
// starts from wherever the previous one stopped. frame always receives the
// exact target on the last call.
func (s *Sizer) animateTo(sched *Scheduler, target Size, anim Animation, frame func(size Size, progress float64, final bool)) {
	s.task.Cancel()
	s.task = nil
	if !anim.active() || sched == nil || s.rendered == target {
		s.rendered = target
		frame(target, 1, true)
		return
	}
	from := s.rendered
	s.task = sched.Animate(anim.Duration, anim.easing(), func(p float64) {
		s.rendered = lerpSize(from, target, p)
		frame(s.rendered, p, p >= 1)
	}, nil)
}

// settleNow cancels pending frames and snaps the rendered size to the effective size.
func (s *Sizer) settleNow() {
	s.task.Cancel()
	s.task = nil
	s.rendered = s.effective
}

type sizedNode interface {
	sizer() *Sizer
	applyGeometry(prev, next Size, anim Animation)
}

type measuredNode interface {
	sizedNode
	measure() (Size, bool)
}

// setSize is the single recomputation path for every node. It reports
// whether the effective size changed; when it did not, nothing downstream runs.
func setSize(n sizedNode, width, height Dimension, anim Animation) bool {
	s := n.sizer()
	prev := s.effective
	s.apply(width, height)
	next := s.resolve()
	if next == prev {
		return false
	}
	s.effective = next
	wasResizing := s.resizing
	s.resizing = true
	defer func() { s.resizing = wasResizing }()
	n.applyGeometry(prev, next, anim)
	return true
}

// setAutoSize records the extents a parent allotted and re-resolves.
func setAutoSize(n sizedNode, auto Size, anim Animation) bool {
	n.sizer().auto = clampSize(auto)
	return setSize(n, Keep, Keep, anim)
}

// reflow re-measures n and feeds the result through setSize. It does nothing
// while n is already applying a size change.
func reflow(n measuredNode, anim Animation) bool {
	s := n.sizer()
	if s.resizing {
		return false
	}
	s.resizing = true
	measured, ok := n.measure()
	s.resizing = false
	if ok {
		s.auto = clampSize(measured)
	}
	return setSize(n, Keep, Keep, anim)
}

type extentKind uint8

const (
	extentShare extentKind = iota
	extentFraction
	extentPixels
)

// extent is a cell width option: an equal share, a fraction of the row
// ("1/3", "50%") or a pixel pin ("250px").
type extent struct {
	kind  extentKind
	value float64
}

func parseExtent(raw string) (extent, bool) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	switch {
	case raw == "" || raw == "auto":
		return extent{kind: extentShare}, true
	case strings.HasSuffix(raw, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil || v < 0 {
			return extent{}, false
		}
		return extent{kind: extentFraction, value: v / 100}, true
	case strings.Contains(raw, "/"):
		num, den, _ := strings.Cut(raw, "/")
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d <= 0 || n < 0 {
			return extent{}, false
		}
		return extent{kind: extentFraction, value: n / d}, true
	default:
		v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "px"), 64)
		if err != nil || v < 0 {
			return extent{}, false
		}
		return extent{kind: extentPixels, value: v}, true
	}
}

// slot describes one child when dividing a parent extent.
type slot struct {
	pinned   bool
	value    float64
	fraction float64
}

// splitExtent divides total across slots. Pinned slots keep their value,
// fractional slots take their fraction of total, the rest share what is left.
func splitExtent(total float64, slots []slot) []float64 {
	out := make([]float64, len(slots))
	remaining := total
	free := 0
	for i, sl := range slots {
		switch {
		case sl.pinned:
			out[i] = sl.value
			remaining -= sl.value
		case sl.fraction > 0:
			out[i] = total * sl.fraction
			remaining -= out[i]
		default:
			free++
		}
	}
	if free == 0 {
		return out
	}
	share := math.Max(0, remaining) / float64(free)
	for i, sl := range slots {
		if !sl.pinned && sl.fraction <= 0 {
			out[i] = share
		}
	}
	return out
}
