package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/casement/pkg/terminal"
	"github.com/odvcencio/casement/pkg/widget"
)

type fixedAuthority struct {
	w, h int
}

func (a fixedAuthority) Bounds() (int, int) { return a.w, a.h }

type stub struct {
	width  int
	height int
	pos    widget.Position
}

func (p *stub) GetLines() []string { return nil }
func (p *stub) HandleKey(terminal.KeyEvent) bool { return false }
func (p *stub) HandleMouse(terminal.MouseEvent) bool { return false }
func (p *stub) Width() int { return p.width }
func (p *stub) SetWidth(w int) { p.width = w }
func (p *stub) Height() int { return p.height }
func (p *stub) SetHeight(h int) { p.height = h }
func (p *stub) Position() widget.Position { return p.pos }
func (p *stub) SetPosition(pos widget.Position) { p.pos = pos }

func TestDimension(t *testing.T) {
	t.Run("static clamps negative to zero", func(t *testing.T) {
		assert.Equal(t, 0, Cells(-3).Value())
		assert.Equal(t, 12, Cells(12).Value())
	})

	t.Run("relative floors its share", func(t *testing.T) {
		l := New(fixedAuthority{w: 25, h: 10})
		slot := l.AddSlot("half", Fraction(0.5), Auto())
		assert.Equal(t, 12, slot.Width())
	})

	t.Run("relative tracks the authority", func(t *testing.T) {
		auth := &fixedAuthority{w: 40, h: 10}
		l := New(auth)
		slot := l.AddSlot("half", Fraction(0.5), Auto())
		assert.Equal(t, 20, slot.Width())
		auth.w = 60
		assert.Equal(t, 30, slot.Width())
	})

	t.Run("unattached relative is zero", func(t *testing.T) {
		assert.Equal(t, 0, Fraction(0.5).Value())
	})
}

func TestApplyWidthDistribution(t *testing.T) {
	// One row of static 10, relative 0.5, and auto on a 40-cell bound:
	// the auto slot absorbs the remainder and the row sums to exactly 40.
	l := New(fixedAuthority{w: 40, h: 10})
	a := l.AddSlot("a", Cells(10), Auto())
	b := l.AddSlot("b", Fraction(0.5), Auto())
	c := l.AddSlot("c", Auto(), Auto())

	l.Apply()

	assert.Equal(t, 10, a.Width())
	assert.Equal(t, 20, b.Width())
	assert.Equal(t, 10, c.Width())
	assert.Equal(t, 40, a.Width()+b.Width()+c.Width())
}

func TestApplyRemainder(t *testing.T) {
	// 41 cells across three auto slots: 14, 14, 13. The extra cell goes
	// to the earliest slot.
	l := New(fixedAuthority{w: 41, h: 10})
	a := l.AddSlot("a", Auto(), Auto())
	b := l.AddSlot("b", Auto(), Auto())
	c := l.AddSlot("c", Auto(), Auto())

	l.Apply()

	assert.Equal(t, 14, a.Width())
	assert.Equal(t, 14, b.Width())
	assert.Equal(t, 13, c.Width())
}

func TestBuildRows(t *testing.T) {
	build := func(boundW int) [][]*Slot {
		l := New(fixedAuthority{w: boundW, h: 10})
		l.AddSlot("a", Cells(10), Auto())
		l.AddSlot("b", Cells(10), Auto())
		l.AddBreak()
		l.AddSlot("c", Cells(10), Auto())
		return l.BuildRows()
	}

	t.Run("narrow bound wraps before the break", func(t *testing.T) {
		// Two 10-cell slots cannot share a 15-cell row; the second wraps
		// even though the explicit break comes later.
		rows := build(15)
		require.Len(t, rows, 3)
		assert.Equal(t, "a", rows[0][0].Name)
		assert.Equal(t, "b", rows[1][0].Name)
		assert.Equal(t, "c", rows[2][0].Name)
		for i, row := range rows {
			sum := 0
			for _, slot := range row {
				sum += slot.Width()
			}
			assert.LessOrEqual(t, sum, 15, "row %d overflows the bound", i)
		}
	})

	t.Run("wide bound keeps the pair together", func(t *testing.T) {
		rows := build(25)
		require.Len(t, rows, 2)
		require.Len(t, rows[0], 2)
		assert.Equal(t, "a", rows[0][0].Name)
		assert.Equal(t, "b", rows[0][1].Name)
		require.Len(t, rows[1], 1)
		assert.Equal(t, "c", rows[1][0].Name)
	})

	t.Run("oversized slot overflows unsplit", func(t *testing.T) {
		l := New(fixedAuthority{w: 10, h: 10})
		l.AddSlot("wide", Cells(30), Auto())
		l.AddSlot("after", Cells(5), Auto())
		rows := l.BuildRows()
		require.Len(t, rows, 2)
		assert.Equal(t, "wide", rows[0][0].Name)
		assert.Equal(t, "after", rows[1][0].Name)
	})
}

func TestApplyGeometry(t *testing.T) {
	l := New(fixedAuthority{w: 20, h: 9})
	top := &stub{}
	bottom := &stub{}
	l.AddSlot("top", Auto(), Cells(3))
	l.AddBreak()
	l.AddSlot("bottom", Auto(), Auto())
	require.True(t, l.Assign(top, 0))
	require.True(t, l.Assign(bottom, 1))
	l.SetOrigin(widget.Position{X: 2, Y: 1})

	l.Apply()

	assert.Equal(t, 20, top.width)
	assert.Equal(t, 3, top.height)
	assert.Equal(t, widget.Position{X: 2, Y: 1}, top.pos)

	assert.Equal(t, 20, bottom.width)
	assert.Equal(t, 6, bottom.height)
	assert.Equal(t, widget.Position{X: 2, Y: 4}, bottom.pos)
}

func TestAssign(t *testing.T) {
	t.Run("out of range is a silent no-op", func(t *testing.T) {
		l := New(fixedAuthority{w: 20, h: 10})
		l.AddSlot("only", Auto(), Auto())
		assert.False(t, l.Assign(&stub{}, 5))
		assert.False(t, l.Assign(&stub{}, -1))
	})

	t.Run("break slots do not count", func(t *testing.T) {
		l := New(fixedAuthority{w: 20, h: 10})
		l.AddBreak()
		slot := l.AddSlot("only", Auto(), Auto())
		w := &stub{}
		require.True(t, l.Assign(w, 0))
		assert.Same(t, widget.Widget(w), slot.Content())
	})
}

func TestDetach(t *testing.T) {
	l := New(fixedAuthority{w: 20, h: 10})
	l.AddSlot("only", Auto(), Auto())

	t.Run("empty slot errors", func(t *testing.T) {
		assert.ErrorIs(t, l.Detach(0), ErrEmptySlot)
	})

	t.Run("missing slot errors", func(t *testing.T) {
		assert.Error(t, l.Detach(3))
	})

	t.Run("occupied slot detaches", func(t *testing.T) {
		require.True(t, l.Assign(&stub{}, 0))
		require.NoError(t, l.Detach(0))
		assert.ErrorIs(t, l.Detach(0), ErrEmptySlot)
	})
}
