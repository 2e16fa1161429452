package board

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linear(d time.Duration) Animation {
	return Animation{Enabled: true, Duration: d, Easing: Linear}
}

func TestAnimatedResizeConvergesOnTarget(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	inst, p := f.add(t, "cell-1")

	changed, err := inst.SetSize(Px(300), Keep, linear(100*time.Millisecond))
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, Size{Width: 300, Height: 400}, inst.Size())
	assert.Equal(t, Size{Width: 600, Height: 400}, inst.Rendered())
	assert.True(t, inst.Animating())
	assert.Equal(t, 1, f.board.Pending())

	f.clock.Advance(50 * time.Millisecond)
	f.board.Tick()
	assert.Equal(t, Size{Width: 450, Height: 400}, inst.Rendered())
	assert.False(t, p.lastFrame().Final)
	assert.InDelta(t, 0.5, p.lastFrame().Progress, 1e-9)

	f.clock.Advance(50 * time.Millisecond)
	f.board.Tick()
	assert.Equal(t, Size{Width: 300, Height: 400}, inst.Rendered())
	assert.True(t, p.lastFrame().Final)
	assert.Equal(t, Size{Width: 300, Height: 400}, p.lastFrame().Size)
	assert.False(t, inst.Animating())
	assert.Zero(t, f.board.Pending())

	style, ok := inst.Element().StyleSize()
	require.True(t, ok)
	assert.Equal(t, Size{Width: 300, Height: 400}, style)
}

func TestNewAnimationStartsFromCurrentFrame(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	inst, p := f.add(t, "cell-1")

	_, err := inst.SetSize(Px(300), Keep, linear(100*time.Millisecond))
	require.NoError(t, err)
	f.clock.Advance(50 * time.Millisecond)
	f.board.Tick()
	require.Equal(t, 450.0, inst.Rendered().Width)

	_, err = inst.SetSize(Px(500), Keep, linear(100*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 1, f.board.Pending())

	f.clock.Advance(50 * time.Millisecond)
	f.board.Tick()
	assert.Equal(t, 475.0, inst.Rendered().Width)

	f.clock.Advance(50 * time.Millisecond)
	f.board.Tick()
	assert.Equal(t, 500.0, inst.Rendered().Width)
	assert.True(t, p.lastFrame().Final)
}

func TestSettleFinishesAnimations(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	inst, p := f.add(t, "cell-1")

	_, err := f.board.SetSize(Px(400), Keep, AnimateDefault())
	require.NoError(t, err)
	assert.True(t, inst.Animating())

	f.board.Settle()
	assert.Equal(t, Size{Width: 400, Height: 400}, inst.Rendered())
	assert.True(t, p.lastFrame().Final)
	assert.Zero(t, f.board.Pending())
}

func TestRedrawCancelsAnimation(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	inst, p := f.add(t, "cell-1")

	_, err := inst.SetSize(Px(300), Keep, linear(time.Second))
	require.NoError(t, err)
	require.True(t, inst.Animating())

	require.NoError(t, inst.Redraw())
	assert.False(t, inst.Animating())
	assert.Equal(t, inst.Size(), inst.Rendered())
	assert.Equal(t, ReasonRedraw, p.lastFrame().Reason)
	assert.True(t, p.lastFrame().Final)

	frames := len(p.frames)
	f.clock.Advance(time.Second)
	f.board.Tick()
	assert.Len(t, p.frames, frames)
}

func TestDestroyCancelsAnimation(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	inst, p := f.add(t, "cell-1")

	_, err := inst.SetSize(Px(300), Keep, linear(time.Second))
	require.NoError(t, err)
	inst.Destroy()
	assert.Zero(t, f.board.Pending())

	frames := len(p.frames)
	f.board.Settle()
	assert.Len(t, p.frames, frames)
}

func TestSchedulerAfter(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	sched := NewScheduler(clock)
	fired := 0
	sched.After(100*time.Millisecond, func() { fired++ })

	sched.Step()
	assert.Zero(t, fired)
	clock.Advance(100 * time.Millisecond)
	sched.Step()
	assert.Equal(t, 1, fired)
	sched.Step()
	assert.Equal(t, 1, fired)
	assert.Zero(t, sched.Pending())
}

func TestSchedulerGoCompletesOnSettle(t *testing.T) {
	sched := NewScheduler(nil)
	release := make(chan struct{})
	var got error
	done := false
	sched.Go(func() error {
		<-release
		return assert.AnError
	}, func(err error) {
		got, done = err, true
	})

	assert.Equal(t, 1, sched.Pending())
	sched.Step()
	assert.False(t, done)

	close(release)
	sched.Settle()
	assert.True(t, done)
	assert.ErrorIs(t, got, assert.AnError)
	assert.Zero(t, sched.Pending())
}

func TestSchedulerGoRecoversPanics(t *testing.T) {
	sched := NewScheduler(nil)
	var got error
	sched.Go(func() error { panic("remote exploded") }, func(err error) { got = err })

	require.NotPanics(t, sched.Settle)
	require.Error(t, got)
	assert.Contains(t, got.Error(), "remote exploded")
	assert.Zero(t, sched.Pending())
}

func TestEasing(t *testing.T) {
	assert.InDelta(t, 0, EaseInOut(0), 1e-9)
	assert.InDelta(t, 0.5, EaseInOut(0.5), 1e-9)
	assert.InDelta(t, 1, EaseInOut(1), 1e-9)
	assert.Equal(t, 0.3, Linear(0.3))
}

func TestAnimationJSON(t *testing.T) {
	var a Animation
	require.NoError(t, json.Unmarshal([]byte(`true`), &a))
	assert.Equal(t, AnimateDefault(), a)
	require.NoError(t, json.Unmarshal([]byte(`{"duration":120}`), &a))
	assert.Equal(t, Animate(120*time.Millisecond), a)
	require.NoError(t, json.Unmarshal([]byte(`false`), &a))
	assert.Equal(t, NoAnimation, a)

	raw, err := json.Marshal(NoAnimation)
	require.NoError(t, err)
	assert.Equal(t, "false", string(raw))
}
