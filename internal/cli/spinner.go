package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on a terminal while a request or a
// transaction is in flight. After a few seconds it appends the elapsed
// time, since receipts on Base can take a while. On anything other than a
// terminal it writes nothing.
type Spinner struct {
	w       io.Writer
	message string
	started time.Time

	stop     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
	width    int // widest line drawn, for clearing
}

// startSpinner starts animating until Stop is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	s := &Spinner{w: w, message: message, started: time.Now(), stop: make(chan struct{})}
	if !isTerminal(w) {
		return s
	}
	s.wg.Add(1)
	go s.run(ctx)
	return s
}

func (s *Spinner) run(ctx context.Context) {
	defer s.wg.Done()
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-tick.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *Spinner) draw(frame string) {
	line := s.message
	if elapsed := time.Since(s.started); elapsed >= 3*time.Second {
		line += fmt.Sprintf(" %ds", int(elapsed.Seconds()))
	}
	if n := len(line) + 2; n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
}

// Stop ends the animation and clears the line. Calling it again is a no-op.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
		if s.width > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}

// StopWithError stops the spinner and leaves a failure line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	newPrinter(s.w).failure("%s", message)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
