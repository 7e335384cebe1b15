// Package profiling records nested timing spans for CLI runs and wires
// pprof profiles to command-line flags.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Stopper ends a span.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
	recorder *Recorder
}

func (s *span) Stop() {
	s.recorder.end(s)
}

// Recorder collects spans into a tree. Spans opened while another is open
// become its children. The zero value is disabled.
type Recorder struct {
	mu      sync.Mutex
	enabled bool
	now     func() time.Time
	root    *span
	stack   []*span
}

// NewRecorder returns an enabled recorder.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.enable(time.Now)
	return r
}

func (r *Recorder) enable(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enabled {
		return
	}
	r.enabled = true
	r.now = now
	r.root = &span{name: "total", start: now(), recorder: r}
	r.stack = []*span{r.root}
}

// Start opens a span. Stop it with defer.
func (r *Recorder) Start(name string) Stopper {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return noopStopper{}
	}
	s := &span{name: name, start: r.now(), recorder: r}
	parent := r.stack[len(r.stack)-1]
	parent.children = append(parent.children, s)
	r.stack = append(r.stack, s)
	return s
}

func (r *Recorder) end(s *span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.duration = r.now().Sub(s.start)
	for i := len(r.stack) - 1; i > 0; i-- {
		if r.stack[i] == s {
			r.stack = r.stack[:i]
			return
		}
	}
}

// Summarize writes the span tree with each span's share of the total.
func (r *Recorder) Summarize(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return
	}
	total := r.now().Sub(r.root.start)
	r.root.duration = total

	fmt.Fprintln(w, "\n--- Timing ---")
	printSpan(w, r.root, 0, total)
}

func printSpan(w io.Writer, s *span, depth int, total time.Duration) {
	pct := 0.0
	if total > 0 {
		pct = float64(s.duration) / float64(total) * 100
	}
	fmt.Fprintf(w, "%s%s %v (%.1f%%)\n", strings.Repeat("  ", depth), s.name, s.duration.Round(100*time.Microsecond), pct)
	for _, child := range s.children {
		printSpan(w, child, depth+1, total)
	}
}

type noopStopper struct{}

func (noopStopper) Stop() {}

var defaultRecorder = &Recorder{}

// Enable turns on the process-wide recorder.
func Enable() {
	defaultRecorder.enable(time.Now)
}

// Start opens a span on the process-wide recorder. It is a no-op until
// Enable is called.
func Start(name string) Stopper {
	return defaultRecorder.Start(name)
}

// Summarize writes the process-wide span tree.
func Summarize(w io.Writer) {
	defaultRecorder.Summarize(w)
}
