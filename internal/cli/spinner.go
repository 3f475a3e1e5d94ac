package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status message on stderr while a stage runs. It only
// draws when stderr is a terminal, so piped and redirected runs stay clean.
type spinner struct {
	ctx     context.Context
	out     io.Writer
	animate bool

	mu      sync.Mutex
	message string
	width   int // widest message drawn so far, for clearing
	started bool

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newSpinner(message string) *spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext returns a spinner that also stops when ctx ends.
func newSpinnerWithContext(ctx context.Context, message string) *spinner {
	return &spinner{
		ctx:     ctx,
		out:     os.Stderr,
		animate: isTerminal(os.Stderr),
		message: message,
		width:   len(message),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s *spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	if !s.animate {
		close(s.done)
		return
	}
	go s.run()
}

func (s *spinner) run() {
	defer close(s.done)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-s.stop:
			s.clear()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s %s", styleSpinner.Render(frame), StyleDim.Render(fmt.Sprintf("%-*s", s.width, s.message)))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width+2))
}

// SetMessage replaces the text next to the spinner, e.g. when moving from
// loading to layout.
func (s *spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	s.width = max(s.width, len(message))
}

// Stop clears the spinner line. It is safe to call more than once and
// before Start.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
}

// StopWithError stops the spinner and reports the failed stage.
func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}
