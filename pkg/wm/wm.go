// Package wm owns the window stack, focus, keybindings, and the pointer
// drag state machine. The input loop runs here; the compositor draws on
// its own clock and reads the stack through a snapshot taken under the
// manager lock.
package wm

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/odvcencio/casement/internal/debuglog"
	"github.com/odvcencio/casement/pkg/animate"
	"github.com/odvcencio/casement/pkg/compositor"
	"github.com/odvcencio/casement/pkg/terminal"
	"github.com/odvcencio/casement/pkg/widget"
	"github.com/odvcencio/casement/pkg/window"
)

// Screen is the terminal surface the manager runs against. The real
// implementation is terminal.Session; tests substitute a fake.
type Screen interface {
	Start() error
	Stop() error
	Bounds() (width, height int)
	Events() <-chan terminal.Event
	Writer() io.Writer
}

// KeyHandler is a manager-global keybinding. Its return value reports
// whether the key was consumed.
type KeyHandler func(m *Manager, ev terminal.KeyEvent) bool

type chord struct {
	key terminal.Key
	r   rune
}

// growDuration paces the add/remove window animations.
const growDuration = 200 * time.Millisecond

// Option configures a Manager.
type Option func(*Manager)

// WithScreen substitutes the terminal surface; tests use this.
func WithScreen(s Screen) Option {
	return func(m *Manager) { m.screen = s }
}

// WithFramerate sets the compositor framerate.
func WithFramerate(fps int) Option {
	return func(m *Manager) { m.framerate = fps }
}

// WithAutostop controls whether removing the last window stops the
// manager. On by default.
func WithAutostop(v bool) Option {
	return func(m *Manager) { m.autostop = v }
}

// Manager owns the z-ordered window stack, index 0 focused and topmost.
type Manager struct {
	mu sync.Mutex

	screen    Screen
	comp      *compositor.Compositor
	animator  *animate.Scheduler
	framerate int
	autostop  bool

	windows  []*window.Window
	focused  *window.Window
	bindings map[chord]KeyHandler

	dragTarget *window.Window
	dragEdge   Edge
	grabOffset widget.Position

	running  bool
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a manager over the default terminal session.
func New(opts ...Option) *Manager {
	m := &Manager{
		framerate: compositor.DefaultFramerate,
		autostop:  true,
		bindings:  map[chord]KeyHandler{},
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.screen == nil {
		m.screen = terminal.NewSession(nil, nil)
	}
	m.animator = animate.NewScheduler()
	m.comp = compositor.New(m.screen.Writer(), m.Windows, m.animator,
		compositor.WithFramerate(m.framerate))
	return m
}

// Compositor exposes the draw pipeline, mainly for tests and hosts that
// need to force repaints.
func (m *Manager) Compositor() *compositor.Compositor { return m.comp }

// Animator exposes the shared animation scheduler.
func (m *Manager) Animator() *animate.Scheduler { return m.animator }

// Windows returns a snapshot of the stack, topmost first.
func (m *Manager) Windows() []*window.Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*window.Window(nil), m.windows...)
}

// Bounds reports the terminal size.
func (m *Manager) Bounds() (int, int) {
	return m.screen.Bounds()
}

// Focused returns the focus holder, nil on an empty stack.
func (m *Manager) Focused() *window.Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

// Bind registers a manager-global keybinding. Pass terminal.KeyRune and
// a rune for character bindings, a zero rune otherwise.
func (m *Manager) Bind(key terminal.Key, r rune, handler KeyHandler) {
	m.mu.Lock()
	m.bindings[chord{key: key, r: r}] = handler
	m.mu.Unlock()
}

// Add inserts the window at the top of the stack, attaches it to this
// manager, focuses it, and plays a width-grow animation from 70% of its
// resting width. Each animation step re-centers centered windows and
// invalidates the compositor cache, so the growth is visible.
func (m *Manager) Add(w *window.Window) {
	w.SetManager(m)

	m.mu.Lock()
	prev := m.focused
	m.windows = append([]*window.Window{w}, m.windows...)
	m.focused = w
	m.mu.Unlock()

	if prev != nil && prev != w {
		prev.Blur()
	}
	w.Focus()

	full := w.Width()
	m.animator.Animate(func(v float64) { w.SetWidth(int(v)) },
		float64(full)*0.7, float64(full), growDuration,
		animate.WithCurve(animate.EaseOutCubic),
		animate.OnStep(func(float64) {
			if w.Centered() {
				w.Center()
			}
			m.comp.Invalidate(w)
		}),
	)

	debuglog.Logger.Debug("window added", "id", w.ID(), "stack", len(m.Windows()))
}

// Remove plays a shrink-to-zero animation, then unlists the window. If
// that empties the stack and autostop is set, the manager stops.
func (m *Manager) Remove(w *window.Window) {
	start := w.Width()
	m.animator.Animate(func(v float64) { w.SetWidth(int(v)) },
		float64(start), 0, growDuration,
		animate.OnStep(func(float64) {
			if w.Centered() {
				w.Center()
			}
			m.comp.Invalidate(w)
		}),
		animate.OnFinish(func() { m.unlist(w) }),
	)
}

// unlist drops the window from the stack and repairs focus and drag
// state so neither refers to a window that is gone.
func (m *Manager) unlist(w *window.Window) {
	m.mu.Lock()
	for i, other := range m.windows {
		if other == w {
			m.windows = append(m.windows[:i], m.windows[i+1:]...)
			break
		}
	}
	if m.dragTarget == w {
		m.dragTarget = nil
		m.dragEdge = EdgeNone
	}
	var next *window.Window
	refocus := false
	if m.focused == w {
		m.focused = nil
		if len(m.windows) > 0 {
			next = m.windows[0]
			m.focused = next
			refocus = true
		}
	}
	empty := len(m.windows) == 0
	autostop := m.autostop
	m.mu.Unlock()

	w.SetManager(nil)
	if refocus {
		next.Focus()
	}
	m.comp.Invalidate(w)
	debuglog.Logger.Debug("window removed", "id", w.ID())

	if empty && autostop {
		m.Stop()
	}
}

// Focus blurs the previous holder, moves the window to the top of the
// stack, and focuses it. Exactly one window holds focus whenever the
// stack is non-empty.
func (m *Manager) Focus(w *window.Window) {
	m.mu.Lock()
	found := false
	for i, other := range m.windows {
		if other == w {
			m.windows = append(m.windows[:i], m.windows[i+1:]...)
			m.windows = append([]*window.Window{w}, m.windows...)
			found = true
			break
		}
	}
	if !found {
		m.mu.Unlock()
		return
	}
	prev := m.focused
	m.focused = w
	m.mu.Unlock()

	if prev != nil && prev != w {
		prev.Blur()
	}
	w.Focus()
}

// HandleKey routes a key: manager bindings first, then the focused
// window (its own bindings, then its widget tree). Unconsumed keys are
// dropped.
func (m *Manager) HandleKey(ev terminal.KeyEvent) bool {
	m.mu.Lock()
	c := chord{key: ev.Key}
	if ev.Key == terminal.KeyRune {
		c.r = ev.Rune
	}
	handler := m.bindings[c]
	focused := m.focused
	m.mu.Unlock()

	if handler != nil && handler(m, ev) {
		return true
	}
	if focused != nil {
		return focused.HandleKey(ev)
	}
	return false
}

// handleResize clamps every window into the new bounds and forces a
// full repaint against the resized screen.
func (m *Manager) handleResize(ev terminal.ResizeEvent) {
	for _, w := range m.Windows() {
		r := w.Rect()
		pos := clampPosition(widget.Position{X: r.Left, Y: r.Top}, r.Width(), r.Height(), ev.Width, ev.Height)
		if pos != (widget.Position{X: r.Left, Y: r.Top}) {
			w.SetPosition(pos)
		}
		if w.Centered() {
			w.Center()
		}
	}
	m.comp.Redraw()
}

// Run starts the screen, the draw loop, and the input loop. It blocks
// until Stop, context cancellation, or the input stream closing.
func (m *Manager) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := m.screen.Start(); err != nil {
		return err
	}

	m.mu.Lock()
	m.running = true
	m.mu.Unlock()
	m.comp.Run()
	m.comp.Redraw()

	defer func() {
		m.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.stop:
			return nil
		case ev, ok := <-m.screen.Events():
			if !ok {
				return nil
			}
			switch e := ev.(type) {
			case terminal.KeyEvent:
				m.HandleKey(e)
			case terminal.MouseEvent:
				m.ProcessMouse(e)
			case terminal.ResizeEvent:
				m.handleResize(e)
			}
		}
	}
}

// Stop shuts down the draw loop and restores the terminal. Safe to call
// more than once and from any goroutine.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()

		close(m.stop)
		m.comp.Stop()
		if err := m.screen.Stop(); err != nil {
			debuglog.Logger.Error("screen stop", "err", err)
		}
	})
}
