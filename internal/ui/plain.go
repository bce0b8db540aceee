package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"lumen/internal/buildpipeline"
)

// LineSink prints one line per finished stage or module; used when the
// interactive view is off but status output is requested.
type LineSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: w}
}

func (s *LineSink) OnEvent(ev buildpipeline.Event) {
	if ev.Status != buildpipeline.StatusDone && ev.Status != buildpipeline.StatusError {
		return
	}
	name := string(ev.Stage)
	if ev.Module != "" {
		name += " " + ev.Module
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.Status == buildpipeline.StatusError {
		fmt.Fprintf(s.w, "%-8s %s: %v\n", "error", name, ev.Err)
		return
	}
	fmt.Fprintf(s.w, "%-8s %s (%.1f ms)\n", "done", name, float64(ev.Elapsed)/float64(time.Millisecond))
}
