// Package observ collects per-phase wall-clock timings for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one measured step of a compilation or build.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	done  bool
}

// Timer records phases in the order they began. A nil *Timer is valid and
// records nothing, so callers never branch on --timings themselves.
// Begin/End are safe for concurrent use (per-module clang jobs).
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a phase and returns its index for End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase idx. Unknown or already closed indices are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) || t.phases[idx].done {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
	p.done = true
}

// Measure times fn as one phase named name.
func (t *Timer) Measure(name string, fn func() error) error {
	idx := t.Begin(name)
	err := fn()
	note := ""
	if err != nil {
		note = "failed"
	}
	t.End(idx, note)
	return err
}

// Phases returns a copy of the recorded phases.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Phase, len(t.phases))
	copy(out, t.phases)
	return out
}

// PhaseReport - фаза в виде, пригодном для JSON-вывода.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report - все фазы и их сумма в миллисекундах.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report aggregates the phases. Phases that overlap (parallel jobs) are
// summed, so TotalMS can exceed wall-clock time.
func (t *Timer) Report() Report {
	phases := t.Phases()
	if len(phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(phases))}
	var total time.Duration
	for i, p := range phases {
		total += p.Dur
		report.Phases[i] = PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note}
	}
	report.TotalMS = millis(total)
	return report
}

// Summary renders the report as the aligned table printed after a command.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-24s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-24s %8.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
