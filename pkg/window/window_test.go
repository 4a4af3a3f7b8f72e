package window

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/casement/pkg/terminal"
	"github.com/odvcencio/casement/pkg/widget"
)

// recorder is a test widget that remembers every event it was offered.
type recorder struct {
	width  int
	height int
	pos    widget.Position

	keys    []terminal.KeyEvent
	mice    []terminal.MouseEvent
	consume bool
	lines   []string
}

func (r *recorder) GetLines() []string { return r.lines }

func (r *recorder) HandleKey(ev terminal.KeyEvent) bool {
	r.keys = append(r.keys, ev)
	return r.consume
}

func (r *recorder) HandleMouse(ev terminal.MouseEvent) bool {
	r.mice = append(r.mice, ev)
	return r.consume
}

func (r *recorder) Width() int { return r.width }
func (r *recorder) SetWidth(w int) { r.width = w }
func (r *recorder) Height() int { return r.height }
func (r *recorder) SetHeight(h int) { r.height = h }
func (r *recorder) Position() widget.Position { return r.pos }
func (r *recorder) SetPosition(p widget.Position) { r.pos = p }

type fakeManager struct {
	removed []*Window
	w, h    int
}

func (m *fakeManager) Remove(w *Window) { m.removed = append(m.removed, w) }
func (m *fakeManager) Bounds() (int, int) { return m.w, m.h }

func TestAddGrowsMinWidth(t *testing.T) {
	w := New()
	w.Add(&recorder{width: 18, height: 1})
	assert.Equal(t, 20, w.MinWidth())
	assert.GreaterOrEqual(t, w.Width(), 20)

	// An explicit minimum pins against recomputation.
	w.SetMinWidth(30)
	w.Add(&recorder{width: 40, height: 1})
	assert.Equal(t, 30, w.MinWidth())
}

func TestSetRect(t *testing.T) {
	w := New().SetMinWidth(20)

	t.Run("below minimum is rejected", func(t *testing.T) {
		require.True(t, w.SetRect(widget.NewRect(0, 0, 25, 8)))
		before := w.Rect()
		assert.False(t, w.SetRect(widget.NewRect(0, 0, 10, 8)))
		assert.Equal(t, before, w.Rect())
	})

	t.Run("at minimum is accepted", func(t *testing.T) {
		assert.True(t, w.SetRect(widget.NewRect(3, 2, 20, 6)))
		r := w.Rect()
		assert.Equal(t, 20, r.Width())
		assert.Equal(t, 6, r.Height())
		assert.Equal(t, widget.Position{X: 3, Y: 2}, w.Position())
	})

	t.Run("reflow reaches the children", func(t *testing.T) {
		child := &recorder{}
		w := New(child).SetMinWidth(10)
		require.True(t, w.SetRect(widget.NewRect(5, 4, 30, 10)))
		assert.Equal(t, 28, child.width)
		assert.Equal(t, 8, child.height)
		assert.Equal(t, widget.Position{X: 6, Y: 5}, child.pos)
	})
}

func TestContains(t *testing.T) {
	w := New().SetMinWidth(0)
	require.True(t, w.SetRect(widget.NewRect(10, 5, 20, 8)))

	assert.True(t, w.Contains(widget.Position{X: 10, Y: 5}))
	assert.True(t, w.Contains(widget.Position{X: 29, Y: 12}))
	assert.False(t, w.Contains(widget.Position{X: 30, Y: 12}), "right edge is exclusive")
	assert.False(t, w.Contains(widget.Position{X: 10, Y: 13}), "bottom edge is exclusive")
	assert.False(t, w.Contains(widget.Position{X: 9, Y: 5}))
}

func TestFocusBlur(t *testing.T) {
	child := &recorder{}
	w := New(child)
	require.True(t, w.SetRect(widget.NewRect(4, 3, w.MinWidth()+10, 6)))

	w.Focus()
	assert.True(t, w.HasFocus())

	w.Blur()
	assert.False(t, w.HasFocus())

	// Blur injects a synthetic release so child gestures end with focus.
	require.NotEmpty(t, child.mice)
	last := child.mice[len(child.mice)-1]
	assert.Equal(t, terminal.MouseRelease, last.Action)
	assert.Equal(t, 4, last.X)
	assert.Equal(t, 3, last.Y)
}

func TestHandleKey(t *testing.T) {
	t.Run("binding runs before the widget tree", func(t *testing.T) {
		child := &recorder{consume: true}
		w := New(child)
		called := false
		w.Bind(terminal.KeyEscape, 0, func(terminal.KeyEvent) bool {
			called = true
			return true
		})

		assert.True(t, w.HandleKey(terminal.KeyEvent{Key: terminal.KeyEscape}))
		assert.True(t, called)
		assert.Empty(t, child.keys)
	})

	t.Run("unbound keys fall through to children", func(t *testing.T) {
		child := &recorder{consume: true}
		w := New(child)
		assert.True(t, w.HandleKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'x'}))
		require.Len(t, child.keys, 1)
		assert.Equal(t, 'x', child.keys[0].Rune)
	})

	t.Run("unconsumed keys report false", func(t *testing.T) {
		w := New(&recorder{})
		assert.False(t, w.HandleKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'x'}))
	})
}

func TestHandleMouse(t *testing.T) {
	t.Run("positional events go to the child under the pointer", func(t *testing.T) {
		hit := &recorder{consume: true}
		miss := &recorder{consume: true}
		w := New(hit, miss)
		require.True(t, w.SetRect(widget.NewRect(0, 0, 20, 10)))

		// After reflow the first child owns the left half of the row.
		ev := terminal.MouseEvent{Action: terminal.MouseLeftClick, X: hit.pos.X, Y: hit.pos.Y}
		assert.True(t, w.HandleMouse(ev))
		assert.Len(t, hit.mice, 1)
		assert.Empty(t, miss.mice)
	})

	t.Run("release is broadcast to every child", func(t *testing.T) {
		a := &recorder{}
		b := &recorder{}
		w := New(a, b)
		require.True(t, w.SetRect(widget.NewRect(0, 0, 20, 10)))

		w.HandleMouse(terminal.MouseEvent{Action: terminal.MouseRelease, X: 50, Y: 50})
		assert.Len(t, a.mice, 1)
		assert.Len(t, b.mice, 1)
	})
}

func TestGetLines(t *testing.T) {
	t.Run("framed to exact geometry", func(t *testing.T) {
		child := &recorder{lines: []string{"hello"}}
		w := New(child)
		require.True(t, w.SetRect(widget.NewRect(0, 0, 12, 5)))

		lines := w.GetLines()
		require.Len(t, lines, 5)
		for i, line := range lines {
			assert.Equal(t, 12, printedWidth(line), "line %d", i)
		}
		assert.Contains(t, lines[0], RoundedFrame.TopLeft)
		assert.Contains(t, lines[0], RoundedFrame.TopRight)
		assert.Contains(t, lines[4], RoundedFrame.BottomLeft)
		assert.Contains(t, lines[1], "hello")
	})

	t.Run("titles overlay the border", func(t *testing.T) {
		w := New().SetTitle("log", TopLeft, true)
		require.True(t, w.SetRect(widget.NewRect(0, 0, 14, 4)))
		lines := w.GetLines()
		assert.Contains(t, lines[0], " log ")
	})

	t.Run("too small for a frame renders blanks", func(t *testing.T) {
		w := New()
		w.SetWidth(5)
		w.SetHeight(1)
		lines := w.GetLines()
		require.Len(t, lines, 1)
		assert.Equal(t, strings.Repeat(" ", 5), lines[0])
	})

	t.Run("zero size renders nothing", func(t *testing.T) {
		w := New()
		w.SetWidth(0)
		w.SetHeight(0)
		assert.Empty(t, w.GetLines())
	})
}

func TestClose(t *testing.T) {
	m := &fakeManager{w: 80, h: 24}
	w := New()
	w.SetManager(m)
	w.Close()
	require.Len(t, m.removed, 1)
	assert.Same(t, w, m.removed[0])

	// Detached windows ignore Close.
	w.SetManager(nil)
	w.Close()
	assert.Len(t, m.removed, 1)
}

func TestCenter(t *testing.T) {
	m := &fakeManager{w: 80, h: 24}
	w := New().SetMinWidth(0)
	w.SetManager(m)
	require.True(t, w.SetRect(widget.NewRect(0, 0, 40, 10)))

	w.Center()
	assert.Equal(t, widget.Position{X: 20, Y: 7}, w.Position())
	assert.True(t, w.Centered())

	w.SetCentered(false)
	assert.False(t, w.Centered())
}

func TestPrintedWidth(t *testing.T) {
	assert.Equal(t, 5, printedWidth("hello"))
	assert.Equal(t, 5, printedWidth("\x1b[1mhello\x1b[0m"))
	assert.Equal(t, 4, printedWidth("日本"))
	assert.Equal(t, 8, padLineWidth("ab", 8))
}

func padLineWidth(line string, width int) int {
	return printedWidth(padLine(line, width))
}
