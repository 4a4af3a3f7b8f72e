// Package compositor renders the window stack into the terminal on an
// independent fixed-framerate clock. Each frame it collects lines from
// dirty or focused windows (others come from a per-window cache), walks
// the stack back to front into one escape stream, and writes only the
// difference against the previous frame.
package compositor

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/odvcencio/casement/pkg/animate"
	"github.com/odvcencio/casement/pkg/terminal"
	"github.com/odvcencio/casement/pkg/window"
)

// DefaultFramerate paces the draw loop when no option overrides it.
const DefaultFramerate = 60

// Source supplies the z-ordered window stack, index 0 topmost. The
// compositor borrows the slice for one frame and never mutates it.
type Source func() []*window.Window

// Option configures a Compositor.
type Option func(*Compositor)

// WithFramerate overrides the draw loop frequency.
func WithFramerate(fps int) Option {
	return func(c *Compositor) {
		if fps > 0 {
			c.framerate = fps
		}
	}
}

// Compositor owns the draw loop and the previous-frame baseline.
type Compositor struct {
	out       io.Writer
	source    Source
	animator  *animate.Scheduler
	framerate int

	mu      sync.Mutex
	cache   map[string][]string
	prev    string
	full    bool
	running bool
	stop    chan struct{}
}

// New creates a compositor writing to out. The animator is stepped once
// per frame by elapsed wall time; pass nil to run without animations.
func New(out io.Writer, source Source, animator *animate.Scheduler, opts ...Option) *Compositor {
	c := &Compositor{
		out:       out,
		source:    source,
		animator:  animator,
		framerate: DefaultFramerate,
		cache:     make(map[string][]string),
		full:      true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run starts the draw loop. Idempotent while running.
func (c *Compositor) Run() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	stop := c.stop
	c.mu.Unlock()

	go c.loop(stop)
}

// Stop flips the running flag; the draw goroutine exits on its next
// wake. Idempotent.
func (c *Compositor) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	close(c.stop)
}

// Running reports whether the draw loop is live.
func (c *Compositor) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// loop sleeps to each frame boundary, steps animations by real elapsed
// time, and draws. An overrunning frame starts the next one immediately;
// there is no catch-up queue.
func (c *Compositor) loop(stop <-chan struct{}) {
	interval := time.Second / time.Duration(c.framerate)
	last := time.Now()

	for {
		elapsed := time.Since(last)
		if wait := interval - elapsed; wait > 0 {
			select {
			case <-stop:
				return
			case <-time.After(wait):
			}
		} else {
			select {
			case <-stop:
				return
			default:
			}
		}

		now := time.Now()
		delta := now.Sub(last)
		last = now

		if c.animator != nil {
			c.animator.Step(delta.Seconds())
		}
		c.Draw()
	}
}

// Invalidate drops a window's cached lines so the next frame re-renders
// it.
func (c *Compositor) Invalidate(w *window.Window) {
	c.mu.Lock()
	delete(c.cache, w.ID())
	c.mu.Unlock()
	w.MarkDirty()
}

// Redraw forces the next Draw to emit a full frame; the resize path
// uses it because the old baseline no longer matches the screen.
func (c *Compositor) Redraw() {
	c.mu.Lock()
	c.full = true
	c.cache = make(map[string][]string)
	c.prev = ""
	c.mu.Unlock()
}

// Composite walks the stack back to front so the focused window (index
// 0) is drawn last and sits on top. The result is a full-frame escape
// stream: clear, then per window a cursor jump and its lines.
func (c *Compositor) Composite() string {
	windows := c.source()

	var sb strings.Builder
	sb.WriteString(terminal.ClearScreen)
	live := make(map[string]struct{}, len(windows))

	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		live[w.ID()] = struct{}{}
		pos := w.Position()
		for li, line := range c.linesFor(w) {
			sb.WriteString(terminal.CursorTo(pos.X, pos.Y+li))
			sb.WriteString(line)
		}
	}

	// Drop cache entries for windows no longer in the stack.
	c.mu.Lock()
	for id := range c.cache {
		if _, ok := live[id]; !ok {
			delete(c.cache, id)
		}
	}
	c.mu.Unlock()

	return sb.String()
}

// linesFor returns a window's lines, from cache when possible. Focused
// and NoBlur windows always render fresh. Blurred windows are rendered
// on dirt, re-tinted dim once, and cached until invalidated.
func (c *Compositor) linesFor(w *window.Window) []string {
	if w.HasFocus() || w.IsNoBlur() {
		w.ConsumeDirty()
		return w.GetLines()
	}

	dirty := w.ConsumeDirty()
	c.mu.Lock()
	cached, ok := c.cache[w.ID()]
	c.mu.Unlock()
	if ok && !dirty {
		return cached
	}

	lines := retintDim(w.GetLines())
	c.mu.Lock()
	c.cache[w.ID()] = lines
	c.mu.Unlock()
	return lines
}

// Draw composites a frame and writes the minimal update. Identical
// frames write nothing; the first frame after start or Redraw goes out
// whole; anything else goes through the cell diff.
func (c *Compositor) Draw() {
	frame := c.Composite()
	metricFramesComposited.Inc()

	c.mu.Lock()
	prev := c.prev
	full := c.full
	c.mu.Unlock()

	if frame == prev {
		metricFramesSkipped.Inc()
		return
	}

	out := frame
	if !full && prev != "" {
		out = diffStreams(prev, frame)
	}

	if out != "" {
		if n, err := io.WriteString(c.out, out); err == nil {
			metricBytesWritten.Add(float64(n))
		}
	}

	c.mu.Lock()
	c.prev = frame
	c.full = false
	c.mu.Unlock()
}
