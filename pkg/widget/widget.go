// Package widget defines the contract every renderable component follows
// and the geometry value types shared across the system. Layouts and
// windows set a widget's geometry before each render; the widget answers
// with exactly Height() pre-styled, fixed-width lines.
package widget

import "github.com/odvcencio/casement/pkg/terminal"

// Position is a screen coordinate in cells.
type Position struct {
	X, Y int
}

// Add returns the position offset by another.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the position minus another.
func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y}
}

// Rect is a half-open rectangle: Left/Top inclusive, Right/Bottom
// exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// NewRect builds a rect from origin and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns the horizontal extent.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Contains reports whether the position falls inside the rect.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Widget is the contract consumed by layouts, windows, and the
// compositor. Window implements it too, so widget trees nest.
type Widget interface {
	// GetLines renders the widget as exactly Height() fixed-width,
	// pre-styled lines.
	GetLines() []string

	// HandleKey processes a key event, reporting whether it consumed it.
	HandleKey(ev terminal.KeyEvent) bool

	// HandleMouse processes a mouse event with absolute coordinates,
	// reporting whether it consumed it.
	HandleMouse(ev terminal.MouseEvent) bool

	Width() int
	SetWidth(int)
	Height() int
	SetHeight(int)
	Position() Position
	SetPosition(Position)
}

// SizePolicy controls how a parent sizes a widget during layout.
type SizePolicy int

const (
	// PolicyStatic keeps the widget's own width.
	PolicyStatic SizePolicy = iota
	// PolicyFill stretches the widget to the space the parent offers.
	PolicyFill
)

// Sizable is implemented by widgets whose sizing policy a container may
// force temporarily, e.g. during a drag-resize so children re-flow.
type Sizable interface {
	SizePolicy() SizePolicy
	SetSizePolicy(SizePolicy)
}
