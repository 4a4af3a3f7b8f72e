package window

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Frame is the border character set drawn around a window.
type Frame struct {
	TopLeft, TopRight, BottomLeft, BottomRight string
	Horizontal, Vertical                       string
}

// RoundedFrame uses rounded Unicode box-drawing corners.
var RoundedFrame = Frame{
	TopLeft: "╭", TopRight: "╮",
	BottomLeft: "╰", BottomRight: "╯",
	Horizontal: "─", Vertical: "│",
}

// SquareFrame uses square Unicode box-drawing corners.
var SquareFrame = Frame{
	TopLeft: "┌", TopRight: "┐",
	BottomLeft: "└", BottomRight: "┘",
	Horizontal: "─", Vertical: "│",
}

// Default frame styles. Focus swaps between the two; NoBlur windows keep
// the focused style permanently.
var (
	FocusedFrameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	BlurredFrameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// printedWidth measures the display width of a styled line, skipping
// escape sequences.
func printedWidth(line string) int {
	width := 0
	inEscape := false
	for _, r := range line {
		if inEscape {
			if (r >= 0x40 && r <= 0x7e) && r != '[' {
				inEscape = false
			}
			continue
		}
		if r == 0x1b {
			inEscape = true
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return width
}

// padLine extends a styled line with spaces to the target display width.
// Overlong lines are returned untouched; slots overflow rather than wrap.
func padLine(line string, width int) string {
	gap := width - printedWidth(line)
	if gap <= 0 {
		return line
	}
	return line + strings.Repeat(" ", gap)
}

// blankLine returns an unstyled line of spaces.
func blankLine(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(" ", width)
}
