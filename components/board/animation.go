package board

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"
)

// DefaultAnimationDuration matches the duration used when a caller asks for
// animation without naming one.
const DefaultAnimationDuration = 500 * time.Millisecond

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(float64) float64

// Linear is the identity easing.
func Linear(p float64) float64 { return p }

// EaseInOut is a sine ease-in-out curve.
func EaseInOut(p float64) float64 { return -(math.Cos(math.Pi*p) - 1) / 2 }

// Animation is the optional directive passed with a size request. The zero
// value applies geometry immediately.
type Animation struct {
	Enabled  bool
	Duration time.Duration
	Easing   Easing
}

// NoAnimation applies the change in a single frame.
var NoAnimation = Animation{}

// Animate schedules geometry updates over d.
func Animate(d time.Duration) Animation {
	return Animation{Enabled: true, Duration: d}
}

// AnimateDefault schedules geometry updates over DefaultAnimationDuration.
func AnimateDefault() Animation {
	return Animate(DefaultAnimationDuration)
}

func (a Animation) active() bool {
	return a.Enabled && a.Duration > 0
}

func (a Animation) easing() Easing {
	if a.Easing != nil {
		return a.Easing
	}
	return EaseInOut
}

type animationWire struct {
	Duration int `json:"duration"`
}

// MarshalJSON encodes false or {"duration": ms}.
func (a Animation) MarshalJSON() ([]byte, error) {
	if !a.Enabled {
		return []byte("false"), nil
	}
	return json.Marshal(animationWire{Duration: int(a.Duration / time.Millisecond)})
}

// UnmarshalJSON accepts a boolean or a {"duration": ms} record.
func (a *Animation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "false":
		*a = NoAnimation
		return nil
	case "true":
		*a = AnimateDefault()
		return nil
	}
	var wire animationWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*a = Animate(time.Duration(wire.Duration) * time.Millisecond)
	return nil
}

// Clock provides time for animations. Tests inject a manual clock.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Task is a scheduled animation or deferred callback.
type Task struct {
	start     time.Time
	duration  time.Duration
	easing    Easing
	step      func(progress float64)
	done      func()
	cancelled bool
	finished  bool
}

// Cancel stops further frames. The task's completion callback does not run.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// Active reports whether frames are still pending.
func (t *Task) Active() bool {
	return t != nil && !t.cancelled && !t.finished
}

// Scheduler is the cooperative frame loop of a board. It is not safe for
// concurrent use except for completions posted by Go.
type Scheduler struct {
	clock       Clock
	tasks       []*Task
	completions chan func()
	inflight    sync.WaitGroup
	pending     int
	mu          sync.Mutex
}

// NewScheduler builds a scheduler using clock, or wall time when nil.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = realClock{}
	}
	return &Scheduler{
		clock:       clock,
		completions: make(chan func(), 64),
	}
}

// Now returns the scheduler clock's time.
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// Animate registers a frame callback run with eased progress until duration elapses.
func (s *Scheduler) Animate(duration time.Duration, easing Easing, step func(float64), done func()) *Task {
	if easing == nil {
		easing = Linear
	}
	t := &Task{
		start:    s.clock.Now(),
		duration: duration,
		easing:   easing,
		step:     step,
		done:     done,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// After runs fn once d has elapsed on the scheduler clock.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	return s.Animate(d, Linear, nil, fn)
}

// Go runs work off the board thread and queues then(err) to run on the next
// Step. A panic in work reaches then as an error.
func (s *Scheduler) Go(work func() error, then func(error)) {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		err := runRecovered(work)
		s.completions <- func() { then(err) }
	}()
}

func runRecovered(work func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("board: async work panicked: %v", r)
		}
	}()
	return work()
}

// Pending reports scheduled frames plus outstanding async work.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.pending
	for _, t := range s.tasks {
		if t.Active() {
			n++
		}
	}
	return n
}

// Step drains finished async work and advances every active task to the current time.
func (s *Scheduler) Step() {
	s.drain(false)
	s.advance(false)
}

// Settle waits for async work and runs every task to completion.
func (s *Scheduler) Settle() {
	for {
		s.drain(true)
		if !s.advance(true) && s.outstanding() == 0 {
			return
		}
	}
}

func (s *Scheduler) outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Scheduler) drain(wait bool) {
	for {
		if wait && s.outstanding() > 0 {
			fn := <-s.completions
			s.complete(fn)
			continue
		}
		select {
		case fn := <-s.completions:
			s.complete(fn)
		default:
			return
		}
	}
}

func (s *Scheduler) complete(fn func()) {
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
	fn()
}

// advance runs one frame for each task; it reports whether any task ran.
func (s *Scheduler) advance(finish bool) bool {
	if len(s.tasks) == 0 {
		return false
	}
	now := s.clock.Now()
	tasks := s.tasks
	s.tasks = nil
	ran := false
	for _, t := range tasks {
		if !t.Active() {
			continue
		}
		ran = true
		progress := 1.0
		if !finish && t.duration > 0 {
			progress = math.Min(1, float64(now.Sub(t.start))/float64(t.duration))
		}
		if t.step != nil {
			eased := 1.0
			if progress < 1 {
				eased = t.easing(progress)
			}
			t.step(eased)
		}
		if t.cancelled {
			continue
		}
		if progress >= 1 {
			t.finished = true
			if t.done != nil {
				t.done()
			}
			continue
		}
		s.tasks = append(s.tasks, t)
	}
	return ran
}

// ManualClock is a Clock advanced explicitly, for deterministic tests and tooling.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock starts a manual clock at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
