package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Session owns the terminal for the lifetime of a run: raw mode, the
// alternate screen, mouse tracking, and the decoded input stream. It is
// the sizing authority handed to layouts.
type Session struct {
	in     *os.File
	out    *termenv.Output
	state  *term.State
	events chan Event

	mu      sync.Mutex
	done    chan struct{}
	started bool
}

// NewSession creates a session over the given tty pair. Passing nil for
// either side selects stdin/stdout.
func NewSession(in *os.File, out io.Writer) *Session {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Session{
		in:     in,
		out:    termenv.NewOutput(out),
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
}

// Start switches the terminal into raw mode, enters the alternate screen,
// enables SGR mouse tracking, and begins decoding input.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	state, err := term.MakeRaw(int(s.in.Fd()))
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	s.state = state

	s.out.AltScreen()
	s.out.HideCursor()
	s.out.EnableMouseCellMotion()
	s.out.EnableMouseExtendedMode()

	s.started = true
	go s.readLoop()
	go s.watchResize(s.done)
	return nil
}

// Stop restores the terminal. Safe to call more than once. The read
// goroutine stays parked on its final blocking read until the process
// exits; consumers stop seeing events immediately.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false
	close(s.done)

	s.out.DisableMouseExtendedMode()
	s.out.DisableMouseCellMotion()
	s.out.ShowCursor()
	s.out.ExitAltScreen()

	if s.state != nil {
		if err := term.Restore(int(s.in.Fd()), s.state); err != nil {
			return fmt.Errorf("restore terminal: %w", err)
		}
	}
	return nil
}

// Events returns the decoded input stream.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Writer returns the output stream. Only the compositor's draw loop may
// write to it while a session is running.
func (s *Session) Writer() io.Writer {
	return s.out
}

// Bounds reports the terminal size, satisfying the layout sizing
// authority. Falls back to 80x24 when the size cannot be read.
func (s *Session) Bounds() (int, int) {
	w, h, err := term.GetSize(int(s.in.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

func (s *Session) readLoop() {
	buf := make([]byte, 512)
	for {
		n, err := s.in.Read(buf)
		if err != nil {
			return
		}
		chunk := buf[:n]

		for _, me := range Translate(chunk) {
			if me == nil {
				// Malformed report, dropped without comment.
				continue
			}
			if !s.emit(*me) {
				return
			}
		}
		for _, ke := range DecodeKeys(chunk) {
			if !s.emit(ke) {
				return
			}
		}
	}
}

func (s *Session) emit(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) emitResize() {
	w, h := s.Bounds()
	s.emit(ResizeEvent{Width: w, Height: h})
}
