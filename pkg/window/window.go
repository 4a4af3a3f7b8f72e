// Package window provides the positioned, resizable container hosting a
// widget tree. A window implements the widget contract itself, so
// windows nest anywhere a widget fits. Geometry mutations and renders
// are guarded by a per-window lock; the compositor may read a window
// while the input loop moves it and at worst composes one stale frame.
package window

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/casement/pkg/layout"
	"github.com/odvcencio/casement/pkg/terminal"
	"github.com/odvcencio/casement/pkg/widget"
)

// frameWidth is the horizontal space the border consumes.
const frameWidth = 2

// Manager is the slice of the window manager a window needs: Close
// delegates removal, Center asks for the screen size.
type Manager interface {
	Remove(*Window)
	Bounds() (width, height int)
}

// Corner addresses a title position on the frame.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// KeyHandler is a window-local keybinding. Its return value reports
// whether the key was consumed.
type KeyHandler func(ev terminal.KeyEvent) bool

type chord struct {
	key terminal.Key
	r   rune
}

func chordFor(ev terminal.KeyEvent) chord {
	c := chord{key: ev.Key}
	if ev.Key == terminal.KeyRune {
		c.r = ev.Rune
	}
	return c
}

// Window is a floating region over a widget tree.
type Window struct {
	mu sync.Mutex

	id       string
	pos      widget.Position
	width    int
	height   int
	minWidth int
	// explicitMin pins MinWidth against recomputation on Add.
	explicitMin bool

	isStatic     bool
	isModal      bool
	isNoResize   bool
	isNoBlur     bool
	isPersistent bool
	hasFocus     bool
	centered     bool
	dirty        bool

	frame       Frame
	activeStyle lipgloss.Style
	titles      [4]string

	manager  Manager
	lay      *layout.Layout
	children []widget.Widget
	bindings map[chord]KeyHandler
}

// New creates a detached window over the given widgets. It becomes live
// once added to a manager.
func New(widgets ...widget.Widget) *Window {
	w := &Window{
		id:          ulid.Make().String(),
		width:       frameWidth,
		height:      frameWidth,
		frame:       RoundedFrame,
		activeStyle: FocusedFrameStyle,
		bindings:    map[chord]KeyHandler{},
		dirty:       true,
	}
	w.lay = layout.New(innerAuthority{w})
	for _, child := range widgets {
		w.Add(child)
	}
	return w
}

// innerAuthority exposes the content area as the layout's sizing bound.
type innerAuthority struct{ w *Window }

func (a innerAuthority) Bounds() (int, int) {
	return max(0, a.w.width-frameWidth), max(0, a.w.height-frameWidth)
}

// ID returns the window's identity, stable for its lifetime.
func (w *Window) ID() string { return w.id }

// Layout exposes the window's slot layout for customization.
func (w *Window) Layout() *layout.Layout { return w.lay }

// Add appends a widget in its own auto-sized slot. MinWidth is
// recomputed from the widest child unless set explicitly; the estimate
// is conservative and may overshoot for slots that later share a row.
func (w *Window) Add(child widget.Widget) *Window {
	w.mu.Lock()
	defer w.mu.Unlock()

	index := len(w.children)
	w.children = append(w.children, child)
	w.lay.AddSlot(fmt.Sprintf("slot-%d", index), layout.Auto(), layout.Auto())
	w.lay.Assign(child, index)

	if !w.explicitMin {
		for _, c := range w.children {
			if need := c.Width() + frameWidth; need > w.minWidth {
				w.minWidth = need
			}
		}
	}
	if w.width < w.minWidth {
		w.width = w.minWidth
	}
	if want := w.contentHeight() + frameWidth; w.height < want {
		w.height = want
	}
	w.dirty = true
	return w
}

// contentHeight sums the children's own heights, one row each, while the
// window is detached from a concrete size.
func (w *Window) contentHeight() int {
	total := 0
	for _, c := range w.children {
		total += max(1, c.Height())
	}
	return total
}

// SetMinWidth pins the minimum width, disabling recomputation on Add.
func (w *Window) SetMinWidth(min int) *Window {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.minWidth = min
	w.explicitMin = true
	return w
}

// MinWidth returns the smallest width SetRect accepts.
func (w *Window) MinWidth() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.minWidth
}

// Flag setters, chainable at construction.

func (w *Window) SetStatic(v bool) *Window { w.mu.Lock(); w.isStatic = v; w.mu.Unlock(); return w }
func (w *Window) SetModal(v bool) *Window { w.mu.Lock(); w.isModal = v; w.mu.Unlock(); return w }
func (w *Window) SetNoResize(v bool) *Window { w.mu.Lock(); w.isNoResize = v; w.mu.Unlock(); return w }
func (w *Window) SetNoBlur(v bool) *Window { w.mu.Lock(); w.isNoBlur = v; w.mu.Unlock(); return w }
func (w *Window) SetPersistent(v bool) *Window { w.mu.Lock(); w.isPersistent = v; w.mu.Unlock(); return w }

func (w *Window) IsStatic() bool { w.mu.Lock(); defer w.mu.Unlock(); return w.isStatic }
func (w *Window) IsModal() bool { w.mu.Lock(); defer w.mu.Unlock(); return w.isModal }
func (w *Window) IsNoResize() bool { w.mu.Lock(); defer w.mu.Unlock(); return w.isNoResize }
func (w *Window) IsNoBlur() bool { w.mu.Lock(); defer w.mu.Unlock(); return w.isNoBlur }
func (w *Window) IsPersistent() bool { w.mu.Lock(); defer w.mu.Unlock(); return w.isPersistent }
func (w *Window) HasFocus() bool { w.mu.Lock(); defer w.mu.Unlock(); return w.hasFocus }

// SetFrame swaps the border character set.
func (w *Window) SetFrame(f Frame) *Window {
	w.mu.Lock()
	w.frame = f
	w.dirty = true
	w.mu.Unlock()
	return w
}

// SetTitle places text on the frame at the given corner. With pad, the
// text gets a space on each side so it reads cleanly against the border.
func (w *Window) SetTitle(text string, corner Corner, pad bool) *Window {
	if pad && text != "" {
		text = " " + text + " "
	}
	w.mu.Lock()
	w.titles[corner] = text
	w.dirty = true
	w.mu.Unlock()
	return w
}

// SetManager attaches the owning manager. Called by the manager on Add.
func (w *Window) SetManager(m Manager) {
	w.mu.Lock()
	w.manager = m
	w.mu.Unlock()
}

// Close asks the owning manager to remove the window. Detached windows
// ignore it.
func (w *Window) Close() {
	w.mu.Lock()
	m := w.manager
	w.mu.Unlock()
	if m != nil {
		m.Remove(w)
	}
}

// Rect returns the derived (left, top, right, bottom) rectangle.
func (w *Window) Rect() widget.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return widget.NewRect(w.pos.X, w.pos.Y, w.width, w.height)
}

// SetRect applies a new rectangle. A rect narrower than MinWidth is
// rejected as a no-op returning false; drag-resize relies on this to
// saturate at the minimum instead of erroring mid-gesture. On success
// children re-flow immediately under a temporary fill policy so a live
// resize feels continuous, then their resting policy is restored.
func (w *Window) SetRect(r widget.Rect) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if r.Width() < w.minWidth {
		return false
	}

	w.pos = widget.Position{X: r.Left, Y: r.Top}
	w.width = r.Width()
	w.height = r.Height()

	saved := make([]widget.SizePolicy, len(w.children))
	for i, c := range w.children {
		if s, ok := c.(widget.Sizable); ok {
			saved[i] = s.SizePolicy()
			s.SetSizePolicy(widget.PolicyFill)
		}
	}
	w.applyLayoutLocked()
	for i, c := range w.children {
		if s, ok := c.(widget.Sizable); ok {
			s.SetSizePolicy(saved[i])
		}
	}

	w.dirty = true
	return true
}

// Contains is a half-open hit test against the window rectangle.
func (w *Window) Contains(p widget.Position) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return widget.NewRect(w.pos.X, w.pos.Y, w.width, w.height).Contains(p)
}

// Center positions the window in the middle of the manager's bounds and
// keeps it centered across resize animations until moved by hand.
func (w *Window) Center() *Window {
	w.mu.Lock()
	m := w.manager
	width, height := w.width, w.height
	w.centered = true
	w.mu.Unlock()

	if m == nil {
		return w
	}
	bw, bh := m.Bounds()
	w.SetPosition(widget.Position{X: (bw - width) / 2, Y: (bh - height) / 2})
	return w
}

// Centered reports whether the window tracks the screen center.
func (w *Window) Centered() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.centered
}

// SetCentered toggles center tracking; dragging a window clears it.
func (w *Window) SetCentered(v bool) {
	w.mu.Lock()
	w.centered = v
	w.mu.Unlock()
}

// Focus marks the window focused and switches to the focused frame.
func (w *Window) Focus() {
	w.mu.Lock()
	w.hasFocus = true
	w.activeStyle = FocusedFrameStyle
	w.dirty = true
	w.mu.Unlock()
}

// Blur drops focus and dims the frame unless NoBlur. It also injects a
// synthetic release into the widget tree so in-progress selections and
// drags inside the window end with the focus.
func (w *Window) Blur() {
	w.mu.Lock()
	w.hasFocus = false
	if !w.isNoBlur {
		w.activeStyle = BlurredFrameStyle
	}
	w.dirty = true
	children := append([]widget.Widget(nil), w.children...)
	pos := w.pos
	w.mu.Unlock()

	release := terminal.MouseEvent{Action: terminal.MouseRelease, X: pos.X, Y: pos.Y}
	for _, c := range children {
		c.HandleMouse(release)
	}
}

// Bind registers a window-local keybinding checked before the widget
// tree sees the key.
func (w *Window) Bind(key terminal.Key, r rune, handler KeyHandler) *Window {
	w.mu.Lock()
	w.bindings[chord{key: key, r: r}] = handler
	w.mu.Unlock()
	return w
}

// MarkDirty flags the cached lines stale.
func (w *Window) MarkDirty() {
	w.mu.Lock()
	w.dirty = true
	w.mu.Unlock()
}

// ConsumeDirty reports and clears the dirty flag in one step; the
// compositor calls it when deciding whether to re-render.
func (w *Window) ConsumeDirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := w.dirty
	w.dirty = false
	return d
}

// Widget contract.

func (w *Window) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

// SetWidth resizes without the MinWidth guard; the guard belongs to
// SetRect. Animations shrink below the minimum on purpose.
func (w *Window) SetWidth(width int) {
	w.mu.Lock()
	w.width = max(0, width)
	w.dirty = true
	w.mu.Unlock()
}

func (w *Window) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

func (w *Window) SetHeight(height int) {
	w.mu.Lock()
	w.height = max(0, height)
	w.dirty = true
	w.mu.Unlock()
}

func (w *Window) Position() widget.Position {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pos
}

func (w *Window) SetPosition(p widget.Position) {
	w.mu.Lock()
	w.pos = p
	w.dirty = true
	w.mu.Unlock()
}

// HandleKey routes a key through the window's bindings, then the widget
// tree, reporting whether anything consumed it.
func (w *Window) HandleKey(ev terminal.KeyEvent) bool {
	w.mu.Lock()
	handler := w.bindings[chordFor(ev)]
	children := append([]widget.Widget(nil), w.children...)
	w.mu.Unlock()

	if handler != nil && handler(ev) {
		return true
	}
	for _, c := range children {
		if c.HandleKey(ev) {
			return true
		}
	}
	return false
}

// HandleMouse offers the event to the widget tree. Positional events go
// to the child under the pointer; releases are broadcast so every child
// can end an in-progress gesture.
func (w *Window) HandleMouse(ev terminal.MouseEvent) bool {
	w.mu.Lock()
	children := append([]widget.Widget(nil), w.children...)
	w.mu.Unlock()

	if ev.Action == terminal.MouseRelease {
		consumed := false
		for _, c := range children {
			if c.HandleMouse(ev) {
				consumed = true
			}
		}
		return consumed
	}

	at := widget.Position{X: ev.X, Y: ev.Y}
	for _, c := range children {
		bounds := widget.NewRect(c.Position().X, c.Position().Y, c.Width(), c.Height())
		if bounds.Contains(at) && c.HandleMouse(ev) {
			return true
		}
	}
	return false
}

// applyLayoutLocked re-flows children into the content area. Caller
// holds w.mu.
func (w *Window) applyLayoutLocked() {
	w.lay.SetOrigin(widget.Position{X: w.pos.X + 1, Y: w.pos.Y + 1})
	w.lay.Apply()
}

// GetLines renders the window: framed, titled, exactly Height() lines of
// Width() cells. Content lines come pre-styled from the widget tree and
// pass through untouched.
func (w *Window) GetLines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.height <= 0 || w.width <= 0 {
		return nil
	}
	if w.height < 2 || w.width < 2 {
		// Too small for a frame; mid-animation windows land here.
		lines := make([]string, w.height)
		for i := range lines {
			lines[i] = blankLine(w.width)
		}
		return lines
	}

	w.applyLayoutLocked()
	innerW := w.width - frameWidth
	interior := w.interiorLinesLocked(innerW, w.height-frameWidth)

	lines := make([]string, 0, w.height)
	lines = append(lines, w.edgeLocked(w.frame.TopLeft, w.frame.TopRight, innerW, w.titles[TopLeft], w.titles[TopRight]))
	side := w.activeStyle.Render(w.frame.Vertical)
	for _, line := range interior {
		lines = append(lines, side+padLine(line, innerW)+side)
	}
	lines = append(lines, w.edgeLocked(w.frame.BottomLeft, w.frame.BottomRight, innerW, w.titles[BottomLeft], w.titles[BottomRight]))
	return lines
}

// edgeLocked builds a horizontal border with optional corner titles.
func (w *Window) edgeLocked(left, right string, innerW int, leftTitle, rightTitle string) string {
	bar := []rune(strings.Repeat(w.frame.Horizontal, innerW))
	overlay := func(text string, fromRight bool) {
		runes := []rune(text)
		if len(runes) > len(bar) {
			runes = runes[:len(bar)]
		}
		start := 0
		if fromRight {
			start = len(bar) - len(runes)
		}
		copy(bar[start:], runes)
	}
	if leftTitle != "" {
		overlay(leftTitle, false)
	}
	if rightTitle != "" {
		overlay(rightTitle, true)
	}
	return w.activeStyle.Render(left + string(bar) + right)
}

// interiorLinesLocked assembles the content grid row by row: slots in a
// row sit side by side, each child padded to its slot width, empty slots
// render blank. The result always has exactly innerH lines.
func (w *Window) interiorLinesLocked(innerW, innerH int) []string {
	var out []string
	for _, row := range w.lay.BuildRows() {
		rowHeight := 0
		for _, slot := range row {
			if slot.Height() > rowHeight {
				rowHeight = slot.Height()
			}
		}

		// Render each occupant once per row.
		slotLines := make([][]string, len(row))
		for i, slot := range row {
			if c := slot.Content(); c != nil {
				slotLines[i] = c.GetLines()
			}
		}

		for lineIdx := 0; lineIdx < rowHeight && len(out) < innerH; lineIdx++ {
			var sb strings.Builder
			for i, slot := range row {
				if lineIdx < len(slotLines[i]) {
					sb.WriteString(padLine(slotLines[i][lineIdx], slot.Width()))
				} else {
					sb.WriteString(blankLine(slot.Width()))
				}
			}
			out = append(out, sb.String())
		}
	}

	for len(out) < innerH {
		out = append(out, blankLine(innerW))
	}
	return out
}
