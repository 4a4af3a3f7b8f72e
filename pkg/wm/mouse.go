package wm

import (
	"github.com/odvcencio/casement/pkg/terminal"
	"github.com/odvcencio/casement/pkg/widget"
	"github.com/odvcencio/casement/pkg/window"
)

// Edge identifies which part of a window a drag grabbed. EdgeTop is the
// title bar and moves the window; the other three resize their side.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// ProcessMouse runs one translated mouse event through the interaction
// state machine. The return value reports whether anything consumed it;
// events that hit nothing are dropped without side effects.
func (m *Manager) ProcessMouse(ev terminal.MouseEvent) bool {
	switch ev.Action {
	case terminal.MouseLeftClick, terminal.MouseRightClick:
		return m.handlePress(ev)
	case terminal.MouseLeftDrag:
		return m.handleDrag(ev)
	case terminal.MouseRelease:
		return m.handleRelease(ev)
	default:
		// Scroll and hover go to the window under the pointer.
		target := m.hitTest(widget.Position{X: ev.X, Y: ev.Y})
		if target == nil {
			return false
		}
		return target.HandleMouse(ev)
	}
}

// hitTest walks the stack top to bottom and returns the first window
// containing the position, or the current drag target when the pointer
// ran ahead of it. A modal window blocks everything behind itself
// regardless of hit.
func (m *Manager) hitTest(pos widget.Position) *window.Window {
	m.mu.Lock()
	windows := append([]*window.Window(nil), m.windows...)
	drag := m.dragTarget
	m.mu.Unlock()

	for _, w := range windows {
		if w.Contains(pos) || w == drag {
			return w
		}
		if w.IsModal() {
			return nil
		}
	}
	return nil
}

// handlePress focuses the hit window and offers it the click; an
// unconsumed click near an edge arms the drag state machine instead.
func (m *Manager) handlePress(ev terminal.MouseEvent) bool {
	pos := widget.Position{X: ev.X, Y: ev.Y}
	target := m.hitTest(pos)
	if target == nil {
		return false
	}

	m.Focus(target)
	if target.HandleMouse(ev) {
		return true
	}

	r := target.Rect()
	edge := EdgeNone
	switch {
	case pos.Y == r.Top:
		edge = EdgeTop
	case pos.Y == r.Bottom-1:
		edge = EdgeBottom
	case pos.X == r.Left:
		edge = EdgeLeft
	case pos.X == r.Right-1:
		edge = EdgeRight
	}
	if edge == EdgeNone {
		return false
	}

	m.mu.Lock()
	m.dragTarget = target
	m.dragEdge = edge
	m.grabOffset = pos.Sub(widget.Position{X: r.Left, Y: r.Top})
	m.mu.Unlock()
	return true
}

// handleDrag moves or resizes the armed drag target. With no target
// armed the drag falls through to the focused window's widget tree, so
// in-window gestures like text selection keep working.
func (m *Manager) handleDrag(ev terminal.MouseEvent) bool {
	m.mu.Lock()
	target := m.dragTarget
	edge := m.dragEdge
	grab := m.grabOffset
	m.mu.Unlock()

	if target == nil {
		if focused := m.Focused(); focused != nil {
			return focused.HandleMouse(ev)
		}
		return false
	}

	pos := widget.Position{X: ev.X, Y: ev.Y}
	r := target.Rect()

	if edge == EdgeTop {
		if target.IsStatic() {
			return false
		}
		bw, bh := m.Bounds()
		next := clampPosition(pos.Sub(grab), r.Width(), r.Height(), bw, bh)
		target.SetPosition(next)
		target.SetCentered(false)
		m.comp.Invalidate(target)
		return true
	}

	if target.IsNoResize() {
		return false
	}

	// One side follows the pointer, the opposite side stays fixed. A
	// pointer past the minimum width pins the moving side at exactly
	// MinWidth, so the gesture saturates instead of failing.
	min := target.MinWidth()
	switch edge {
	case EdgeBottom:
		r.Bottom = pos.Y + 1
	case EdgeLeft:
		r.Left = pos.X
		if r.Width() < min {
			r.Left = r.Right - min
		}
	case EdgeRight:
		r.Right = pos.X + 1
		if r.Width() < min {
			r.Right = r.Left + min
		}
	}
	if r.Height() < 2 {
		return false
	}
	if target.SetRect(r) {
		m.comp.Invalidate(target)
	}
	return true
}

// handleRelease clears the drag target but reports the event as
// unconsumed, so the window under it can still end its own gesture.
func (m *Manager) handleRelease(ev terminal.MouseEvent) bool {
	m.mu.Lock()
	target := m.dragTarget
	m.dragTarget = nil
	m.dragEdge = EdgeNone
	m.mu.Unlock()

	if target == nil {
		target = m.hitTest(widget.Position{X: ev.X, Y: ev.Y})
	}
	if target != nil {
		target.HandleMouse(ev)
	}
	return false
}

// clampPosition keeps a window's origin inside the terminal so at least
// its title bar stays grabbable.
func clampPosition(pos widget.Position, w, h, boundW, boundH int) widget.Position {
	maxX := boundW - w
	maxY := boundH - h
	if pos.X > maxX {
		pos.X = maxX
	}
	if pos.Y > maxY {
		pos.Y = maxY
	}
	if pos.X < 0 {
		pos.X = 0
	}
	if pos.Y < 0 {
		pos.Y = 0
	}
	return pos
}
