// Package debuglog provides the shared debug logger. The terminal
// itself belongs to the compositor, so log output goes to the file
// named by $CASEMENT_LOG and is discarded when that is unset.
package debuglog

import (
	"io"
	"os"

	clog "github.com/charmbracelet/log"
)

// Logger is the shared structured logger.
var Logger = newLogger()

func newLogger() *clog.Logger {
	var w io.Writer = io.Discard
	if path := os.Getenv("CASEMENT_LOG"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			w = f
		}
	}
	return clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
	})
}
