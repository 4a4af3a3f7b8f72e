// Package terminal provides the input event model and the raw-mode
// session used by the window manager. It decodes the byte stream a
// terminal emits (keys, SGR mouse reports, resize signals) into typed
// events, and owns the escape constants of the output wire protocol.
package terminal

// Event represents a terminal input event.
type Event interface {
	eventMarker()
}

// KeyEvent represents a key press.
type KeyEvent struct {
	Key  Key
	Rune rune
	Alt  bool
}

func (KeyEvent) eventMarker() {}

// ResizeEvent indicates the terminal size changed.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// MouseAction identifies what happened with the mouse.
type MouseAction int

const (
	MouseLeftClick MouseAction = iota
	MouseRightClick
	MouseLeftDrag
	MouseRelease
	MouseScrollUp
	MouseScrollDown
	MouseHover
)

// String returns a readable name for the action.
func (a MouseAction) String() string {
	switch a {
	case MouseLeftClick:
		return "left_click"
	case MouseRightClick:
		return "right_click"
	case MouseLeftDrag:
		return "left_drag"
	case MouseRelease:
		return "release"
	case MouseScrollUp:
		return "scroll_up"
	case MouseScrollDown:
		return "scroll_down"
	case MouseHover:
		return "hover"
	}
	return "unknown"
}

// MouseEvent represents a decoded mouse input event.
// Coordinates are 0-indexed screen cells.
type MouseEvent struct {
	Action MouseAction
	X, Y   int
}

func (MouseEvent) eventMarker() {}

// Key represents special keys.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character, see KeyEvent.Rune
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlK
	KeyCtrlL
	KeyCtrlN
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
)
