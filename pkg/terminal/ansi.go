package terminal

import "fmt"

// Output wire protocol. Cursor addressing and the full clear are the only
// sequences this package owns; SGR styling arrives pre-rendered inside
// widget lines and is passed through untouched.
const (
	Escape      = "\x1b["
	ClearScreen = "\x1b[2J"
	ClearLine   = "\x1b[2K"
	CursorHome  = "\x1b[H"
	Reset       = "\x1b[0m"
)

// CursorTo returns the sequence to move the cursor to (x, y).
// Coordinates are 0-indexed, the wire format is 1-indexed row;col.
func CursorTo(x, y int) string {
	return fmt.Sprintf("\x1b[%d;%dH", y+1, x+1)
}
