package layout

import (
	"errors"
	"fmt"

	"github.com/odvcencio/casement/pkg/widget"
)

// Authority supplies the total width and height a layout may hand out.
// The terminal session satisfies it, and so does a window for nested
// layouts.
type Authority interface {
	Bounds() (width, height int)
}

// Slot is a named region with resolved geometry and an optional widget
// occupant. Content is a non-owning reference.
type Slot struct {
	Name    string
	width   Dimension
	height  Dimension
	content widget.Widget
	inner   widget.Position
	isBreak bool
}

// Content returns the occupying widget, nil when empty.
func (s *Slot) Content() widget.Widget { return s.content }

// Width returns the resolved width in cells.
func (s *Slot) Width() int { return s.width.Value() }

// Height returns the resolved height in cells.
func (s *Slot) Height() int { return s.height.Value() }

// InnerPosition returns the slot's offset from the layout origin.
func (s *Slot) InnerPosition() widget.Position { return s.inner }

// IsBreak reports whether this is the row-break sentinel.
func (s *Slot) IsBreak() bool { return s.isBreak }

// ErrEmptySlot is returned when detaching from a slot with no content.
var ErrEmptySlot = errors.New("layout: slot has no content")

// Layout owns an ordered slot sequence and distributes the authority's
// space across it on Apply.
type Layout struct {
	authority Authority
	slots     []*Slot
	origin    widget.Position
}

// New creates a layout sized by the given authority.
func New(authority Authority) *Layout {
	return &Layout{authority: authority}
}

// SetOrigin moves the layout's top-left corner; slot positions are
// relative to it.
func (l *Layout) SetOrigin(p widget.Position) { l.origin = p }

// Slots returns the slot sequence, breaks included.
func (l *Layout) Slots() []*Slot { return l.slots }

// AddSlot appends a slot. Width and height default to Auto.
func (l *Layout) AddSlot(name string, width, height Dimension) *Slot {
	return l.AddSlotAt(-1, name, width, height)
}

// AddSlotAt inserts a slot at index; -1 appends.
func (l *Layout) AddSlotAt(index int, name string, width, height Dimension) *Slot {
	w, h := width, height
	w.attach(func() int { bw, _ := l.authority.Bounds(); return bw })
	h.attach(func() int { _, bh := l.authority.Bounds(); return bh })

	slot := &Slot{Name: name, width: w, height: h}
	l.insert(index, slot)
	return slot
}

// AddBreak appends the row-break sentinel: zero size, never occupied,
// forces the next slot onto a new row.
func (l *Layout) AddBreak() {
	l.AddBreakAt(-1)
}

// AddBreakAt inserts a row break at index; -1 appends.
func (l *Layout) AddBreakAt(index int) {
	l.insert(index, &Slot{isBreak: true})
}

func (l *Layout) insert(index int, slot *Slot) {
	if index < 0 || index >= len(l.slots) {
		l.slots = append(l.slots, slot)
		return
	}
	l.slots = append(l.slots[:index], append([]*Slot{slot}, l.slots[index:]...)...)
}

// Assign attaches content to the index-th non-break slot. Out-of-range
// indices are a silent no-op returning false: windows add widgets before
// customizing their layout, so the miss is reachable through ordinary
// construction order and must not crash.
func (l *Layout) Assign(w widget.Widget, index int) bool {
	slot := l.nonBreakSlot(index)
	if slot == nil {
		return false
	}
	slot.content = w
	return true
}

// Detach removes content from the index-th non-break slot. Detaching an
// empty slot is a programmer error and surfaces as one.
func (l *Layout) Detach(index int) error {
	slot := l.nonBreakSlot(index)
	if slot == nil {
		return fmt.Errorf("layout: no slot at index %d", index)
	}
	if slot.content == nil {
		return ErrEmptySlot
	}
	slot.content = nil
	return nil
}

func (l *Layout) nonBreakSlot(index int) *Slot {
	if index < 0 {
		return nil
	}
	n := 0
	for _, s := range l.slots {
		if s.isBreak {
			continue
		}
		if n == index {
			return s
		}
		n++
	}
	return nil
}

// BuildRows partitions the slots into rows. A slot that does not fit the
// current row's remaining width starts a new row, as does an explicit
// break; the break itself belongs to no row. A single slot wider than the
// bound still gets a row of its own and overflows, it is never split.
func (l *Layout) BuildRows() [][]*Slot {
	boundW, _ := l.authority.Bounds()

	var rows [][]*Slot
	var row []*Slot
	remaining := boundW

	flush := func() {
		if len(row) > 0 {
			rows = append(rows, row)
			row = nil
		}
		remaining = boundW
	}

	for _, slot := range l.slots {
		if slot.isBreak {
			flush()
			continue
		}
		if len(row) > 0 && remaining < slot.width.Value() {
			flush()
		}
		row = append(row, slot)
		remaining -= slot.width.Value()
	}
	flush()

	return rows
}

// Apply resolves every Auto dimension and writes geometry into the
// occupying widgets. After it returns, every resolved value is >= 0 and
// no row's width sum exceeds the authority's width (short of a single
// oversized static slot, which overflows by contract).
func (l *Layout) Apply() {
	boundW, boundH := l.authority.Bounds()
	rows := l.BuildRows()
	if len(rows) == 0 {
		return
	}

	// Row heights: max explicit height in the row, else 0 marks the row
	// as Auto for the height distribution below.
	heights := make([]int, len(rows))
	explicit := 0
	autoRows := 0
	for i, row := range rows {
		for _, slot := range row {
			if slot.height.Kind() != KindAuto && slot.height.Value() > heights[i] {
				heights[i] = slot.height.Value()
			}
		}
		if heights[i] == 0 {
			autoRows++
		} else {
			explicit += heights[i]
		}
	}

	// Distribute the leftover height across Auto rows, one extra cell to
	// the first remainder rows.
	if autoRows > 0 {
		available := boundH - explicit
		if available < 0 {
			available = 0
		}
		autoHeight, extra := available/autoRows, available%autoRows
		for i := range rows {
			if heights[i] == 0 {
				heights[i] = autoHeight
				if extra > 0 {
					heights[i]++
					extra--
				}
			}
		}
	}

	y := 0
	for i, row := range rows {
		l.applyRow(row, heights[i], boundW, y)
		y += heights[i]
	}
}

// applyRow distributes width across one row and positions its slots.
func (l *Layout) applyRow(row []*Slot, rowHeight, boundW, y int) {
	fixed := 0
	autoSlots := 0
	for _, slot := range row {
		if slot.width.Kind() == KindAuto {
			autoSlots++
		} else {
			fixed += slot.width.Value()
		}
	}

	if autoSlots > 0 {
		available := boundW - fixed
		if available < 0 {
			available = 0
		}
		autoWidth, extra := available/autoSlots, available%autoSlots
		for _, slot := range row {
			if slot.width.Kind() != KindAuto {
				continue
			}
			w := autoWidth
			if extra > 0 {
				w++
				extra--
			}
			slot.width.set(w)
		}
	}

	x := 0
	for _, slot := range row {
		slot.inner = widget.Position{X: x, Y: y}
		if slot.height.Kind() == KindAuto {
			slot.height.set(rowHeight)
		}
		if c := slot.content; c != nil {
			c.SetWidth(slot.width.Value())
			c.SetHeight(slot.height.Value())
			c.SetPosition(l.origin.Add(slot.inner))
		}
		x += slot.width.Value()
	}
}
