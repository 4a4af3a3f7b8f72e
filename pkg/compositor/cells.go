package compositor

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/casement/pkg/terminal"
)

// A composited frame is an escape stream mixing absolute cursor moves
// with styled text. For diffing, the stream is exploded into a sparse
// grid of single styled cells: position tokens move a virtual cursor,
// SGR tokens set the active style prefix, and every printable rune
// lands in a cell carrying that prefix, so a partial update replays
// with its colors intact.

type cellPos struct {
	y, x int
}

type cell struct {
	style string
	r     rune
}

var blankCell = cell{r: ' '}

// parseStream converts an escape stream into its sparse cell grid.
func parseStream(s string) map[cellPos]cell {
	grid := make(map[cellPos]cell)
	x, y := 0, 0
	style := ""

	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		if r != 0x1b {
			grid[cellPos{y: y, x: x}] = cell{style: style, r: r}
			x += max(1, runewidth.RuneWidth(r))
			i++
			continue
		}

		seq, params, final := scanEscape(runes[i:])
		if seq == 0 {
			// Stray escape byte, drop it.
			i++
			continue
		}
		switch final {
		case 'H', 'f':
			row, col := 1, 1
			if len(params) > 0 {
				row = params[0]
			}
			if len(params) > 1 {
				col = params[1]
			}
			y, x = row-1, col-1
		case 'J':
			// Full clear restarts the grid.
			grid = make(map[cellPos]cell)
			style = ""
		case 'm':
			if len(params) == 0 || params[0] == 0 {
				style = ""
				if len(params) > 1 {
					// Reset followed by more attributes keeps the tail.
					style = string(runes[i : i+seq])
				}
			} else {
				style += string(runes[i : i+seq])
			}
		}
		i += seq
	}
	return grid
}

// scanEscape parses one CSI sequence at the head of runes. Returns the
// rune count consumed, the numeric parameters, and the final byte; a
// zero count means the sequence is malformed or truncated.
func scanEscape(runes []rune) (int, []int, rune) {
	if len(runes) < 2 || runes[0] != 0x1b || runes[1] != '[' {
		return 0, nil, 0
	}
	var params []int
	cur := 0
	seen := false
	for i := 2; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r >= '0' && r <= '9':
			cur = cur*10 + int(r-'0')
			seen = true
		case r == ';':
			params = append(params, cur)
			cur = 0
			seen = false
		case r == '?':
			// Private-mode prefix, parameters follow as usual.
		case r >= 0x40 && r <= 0x7e:
			if seen {
				params = append(params, cur)
			}
			return i + 1, params, r
		default:
			return 0, nil, 0
		}
	}
	return 0, nil, 0
}

// diffStreams computes the minimal positioned writes that turn the prev
// frame into the next one. Cells absent from a grid count as blanks, so
// vacated regions are overwritten with spaces. A cursor jump is emitted
// only when the next differing cell is not adjacent to the last write.
func diffStreams(prev, next string) string {
	pg := parseStream(prev)
	ng := parseStream(next)

	seen := make(map[cellPos]struct{}, len(pg)+len(ng))
	var changed []cellPos
	for pos := range ng {
		seen[pos] = struct{}{}
		if lookup(pg, pos) != lookup(ng, pos) {
			changed = append(changed, pos)
		}
	}
	for pos := range pg {
		if _, ok := seen[pos]; ok {
			continue
		}
		if lookup(pg, pos) != lookup(ng, pos) {
			changed = append(changed, pos)
		}
	}
	if len(changed) == 0 {
		return ""
	}

	sort.Slice(changed, func(i, j int) bool {
		if changed[i].y != changed[j].y {
			return changed[i].y < changed[j].y
		}
		return changed[i].x < changed[j].x
	})

	var sb strings.Builder
	lastX, lastY := -2, -2
	styleSet := false
	lastStyle := ""

	for _, pos := range changed {
		c := lookup(ng, pos)
		if pos.y != lastY || pos.x != lastX {
			sb.WriteString(terminal.CursorTo(pos.x, pos.y))
		}
		if !styleSet || c.style != lastStyle {
			sb.WriteString(terminal.Reset)
			sb.WriteString(c.style)
			lastStyle = c.style
			styleSet = true
		}
		sb.WriteRune(c.r)
		lastX = pos.x + max(1, runewidth.RuneWidth(c.r))
		lastY = pos.y
	}

	sb.WriteString(terminal.Reset)
	return sb.String()
}

func lookup(grid map[cellPos]cell, pos cellPos) cell {
	if c, ok := grid[pos]; ok {
		return c
	}
	return blankCell
}
