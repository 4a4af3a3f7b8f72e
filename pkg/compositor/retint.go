package compositor

import (
	"strings"

	"github.com/odvcencio/casement/pkg/terminal"
)

const sgrDim = "\x1b[2m"

// retintDim dims a blurred window's lines once, at cache-fill time.
// Every embedded reset re-asserts the faint attribute so styled spans
// inside the line stay dimmed too.
func retintDim(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		line = strings.ReplaceAll(line, terminal.Reset, terminal.Reset+sgrDim)
		out[i] = sgrDim + line + terminal.Reset
	}
	return out
}
