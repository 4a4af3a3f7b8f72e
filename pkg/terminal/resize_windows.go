//go:build windows

package terminal

// Windows has no SIGWINCH; hosts can poll Bounds and post ResizeEvents
// themselves.
func (s *Session) watchResize(done <-chan struct{}) {
	<-done
}
