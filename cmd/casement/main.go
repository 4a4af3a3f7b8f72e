// Command casement is a small demo host: two floating windows over a
// text widget, draggable by the title bar, resizable by the edges.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/odvcencio/casement/pkg/terminal"
	"github.com/odvcencio/casement/pkg/widget"
	"github.com/odvcencio/casement/pkg/window"
	"github.com/odvcencio/casement/pkg/wm"
)

func main() {
	mgr := wm.New()

	mgr.Bind(terminal.KeyCtrlC, 0, func(m *wm.Manager, _ terminal.KeyEvent) bool {
		m.Stop()
		return true
	})
	mgr.Bind(terminal.KeyRune, 'q', func(m *wm.Manager, _ terminal.KeyEvent) bool {
		m.Stop()
		return true
	})
	mgr.Bind(terminal.KeyRune, '?', func(m *wm.Manager, _ terminal.KeyEvent) bool {
		m.Add(helpWindow())
		return true
	})

	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	body := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	home := window.New(newText(
		heading.Render("casement"),
		"",
		body.Render("Drag the title bar to move."),
		body.Render("Drag an edge to resize."),
		body.Render("Press ? for help, q to quit."),
	)).SetTitle("demo", window.TopLeft, true)
	home.SetRect(widget.NewRect(4, 2, 44, 9))

	mgr.Add(home)

	if err := mgr.Run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "casement:", err)
		os.Exit(1)
	}
}

func helpWindow() *window.Window {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	w := window.New(newText(
		dim.Render("Title bar drag ... move window"),
		dim.Render("Edge drag ....... resize window"),
		dim.Render("Esc ............. close this window"),
	)).SetModal(true).SetTitle("help", window.TopLeft, true)
	w.SetRect(widget.NewRect(0, 0, 41, 7))
	w.Bind(terminal.KeyEscape, 0, func(terminal.KeyEvent) bool {
		w.Close()
		return true
	})
	w.Center()
	return w
}

// text is a minimal widget: fixed styled lines, padded to the assigned
// geometry.
type text struct {
	lines  []string
	width  int
	height int
	pos    widget.Position
	policy widget.SizePolicy
}

func newText(lines ...string) *text {
	width := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > width {
			width = w
		}
	}
	return &text{lines: lines, width: width, height: len(lines)}
}

func (t *text) GetLines() []string {
	out := make([]string, 0, t.height)
	for i := 0; i < t.height; i++ {
		if i < len(t.lines) {
			out = append(out, t.lines[i])
		} else {
			out = append(out, "")
		}
	}
	return out
}

func (t *text) HandleKey(terminal.KeyEvent) bool { return false }
func (t *text) HandleMouse(terminal.MouseEvent) bool { return false }

func (t *text) Width() int { return t.width }
func (t *text) SetWidth(w int) { t.width = w }
func (t *text) Height() int { return t.height }
func (t *text) SetHeight(h int) { t.height = h }
func (t *text) Position() widget.Position { return t.pos }
func (t *text) SetPosition(p widget.Position) { t.pos = p }
func (t *text) SizePolicy() widget.SizePolicy { return t.policy }
func (t *text) SetSizePolicy(p widget.SizePolicy) { t.policy = p }
