package animate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurves(t *testing.T) {
	assert.Equal(t, 0.0, Linear(0))
	assert.Equal(t, 0.5, Linear(0.5))
	assert.Equal(t, 1.0, Linear(1))

	assert.Equal(t, 0.0, EaseOutCubic(0))
	assert.Equal(t, 1.0, EaseOutCubic(1))
	assert.Greater(t, EaseOutCubic(0.5), Linear(0.5), "ease-out front-loads progress")
}

func TestStepProgression(t *testing.T) {
	s := NewScheduler()
	var value float64
	s.Animate(func(v float64) { value = v }, 0, 100, time.Second)

	s.Step(0.25)
	assert.InDelta(t, 25, value, 1e-9)
	assert.Equal(t, 1, s.Active())

	s.Step(0.25)
	assert.InDelta(t, 50, value, 1e-9)

	// Overshooting clamps at the end value and retires the animation.
	s.Step(10)
	assert.Equal(t, 100.0, value)
	assert.Equal(t, 0, s.Active())
}

func TestOnFinishFiresOnce(t *testing.T) {
	s := NewScheduler()
	finishes := 0
	var steps int
	s.Animate(func(float64) {}, 0, 1, 100*time.Millisecond,
		OnStep(func(float64) { steps++ }),
		OnFinish(func() { finishes++ }),
	)

	s.Step(0.05)
	s.Step(0.05)
	s.Step(0.05)
	s.Step(0.05)

	assert.Equal(t, 1, finishes)
	assert.Equal(t, 2, steps, "retired animations stop stepping")
}

func TestZeroDurationCompletesNextStep(t *testing.T) {
	s := NewScheduler()
	var value float64
	done := false
	s.Animate(func(v float64) { value = v }, 5, 9, 0, OnFinish(func() { done = true }))

	s.Step(0.001)
	assert.Equal(t, 9.0, value)
	assert.True(t, done)
	assert.Equal(t, 0, s.Active())
}

func TestCancel(t *testing.T) {
	s := NewScheduler()
	finished := false
	a := s.Animate(func(float64) {}, 0, 1, time.Second, OnFinish(func() { finished = true }))
	require.Equal(t, 1, s.Active())

	s.Cancel(a)
	assert.Equal(t, 0, s.Active())

	s.Step(10)
	assert.False(t, finished, "cancel skips the finish callback")
}

func TestFinishCallbackMaySchedule(t *testing.T) {
	s := NewScheduler()
	chained := false
	s.Animate(func(float64) {}, 0, 1, 0, OnFinish(func() {
		s.Animate(func(float64) { chained = true }, 0, 1, 0)
	}))

	s.Step(0.001)
	require.Equal(t, 1, s.Active())
	s.Step(0.001)
	assert.True(t, chained)
	assert.Equal(t, 0, s.Active())
}
