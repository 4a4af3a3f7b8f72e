//go:build !windows

package terminal

import (
	"os"
	"os/signal"
	"syscall"
)

// watchResize forwards SIGWINCH as ResizeEvents until done closes.
func (s *Session) watchResize(done <-chan struct{}) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	defer signal.Stop(ch)

	for {
		select {
		case <-ch:
			s.emitResize()
		case <-done:
			return
		}
	}
}
