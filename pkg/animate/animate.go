// Package animate schedules duration-based attribute animations. The
// compositor's draw loop advances the scheduler once per frame; each
// active animation fires its setter exactly once per step. Targets are
// addressed through typed setter closures rather than attribute names.
package animate

import (
	"sync"
	"time"
)

// Curve maps normalized time [0,1] to normalized progress [0,1].
type Curve func(t float64) float64

// Linear progresses uniformly.
func Linear(t float64) float64 { return t }

// EaseOutCubic decelerates toward the end value.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// Animation is one scheduled attribute change.
type Animation struct {
	set      func(float64)
	start    float64
	end      float64
	duration float64 // seconds
	elapsed  float64
	curve    Curve
	onStep   func(value float64)
	onFinish func()
	done     bool
}

// Option customizes an animation.
type Option func(*Animation)

// WithCurve selects the interpolation curve; Linear by default.
func WithCurve(c Curve) Option {
	return func(a *Animation) { a.curve = c }
}

// OnStep registers a per-step callback fired after the setter.
func OnStep(fn func(value float64)) Option {
	return func(a *Animation) { a.onStep = fn }
}

// OnFinish registers a completion callback, fired exactly once.
func OnFinish(fn func()) Option {
	return func(a *Animation) { a.onFinish = fn }
}

// Scheduler advances a set of animations on an external clock.
type Scheduler struct {
	mu     sync.Mutex
	active []*Animation
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Animate schedules a value sweep from start to end over the duration,
// delivered through the setter. A non-positive duration completes on the
// next step.
func (s *Scheduler) Animate(set func(float64), start, end float64, d time.Duration, opts ...Option) *Animation {
	a := &Animation{
		set:      set,
		start:    start,
		end:      end,
		duration: d.Seconds(),
		curve:    Linear,
	}
	for _, opt := range opts {
		opt(a)
	}

	s.mu.Lock()
	s.active = append(s.active, a)
	s.mu.Unlock()
	return a
}

// Cancel removes an animation without firing its finish callback.
func (s *Scheduler) Cancel(target *Animation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.active {
		if a == target {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return
		}
	}
}

// Active returns the number of scheduled animations.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Step advances all animations by elapsed seconds. Finished animations
// snap to their end value, fire OnFinish once, and are removed.
// Callbacks run outside the scheduler lock so they may schedule new
// animations.
func (s *Scheduler) Step(elapsed float64) {
	s.mu.Lock()
	stepping := make([]*Animation, len(s.active))
	copy(stepping, s.active)
	s.mu.Unlock()

	var finished []*Animation
	for _, a := range stepping {
		if a.done {
			continue
		}
		a.elapsed += elapsed

		t := 1.0
		if a.duration > 0 {
			t = a.elapsed / a.duration
			if t > 1 {
				t = 1
			}
		}

		value := a.start + (a.end-a.start)*a.curve(t)
		a.set(value)
		if a.onStep != nil {
			a.onStep(value)
		}

		if t >= 1 {
			a.done = true
			finished = append(finished, a)
		}
	}

	if len(finished) == 0 {
		return
	}
	s.mu.Lock()
	remaining := s.active[:0]
	for _, a := range s.active {
		if !a.done {
			remaining = append(remaining, a)
		}
	}
	s.active = remaining
	s.mu.Unlock()

	for _, a := range finished {
		if a.onFinish != nil {
			a.onFinish()
		}
	}
}
