package observ_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/nalgeon/be"

	"lumen/internal/observ"
)

func TestNilTimerIsNoop(t *testing.T) {
	var tm *observ.Timer
	idx := tm.Begin("resolve")
	tm.End(idx, "x")
	be.Equal(t, idx, -1)
	be.Equal(t, len(tm.Phases()), 0)
	be.Equal(t, tm.Report().TotalMS, 0.0)
}

func TestPhasesKeepOrderAndNotes(t *testing.T) {
	tm := observ.NewTimer()
	a := tm.Begin("resolve")
	b := tm.Begin("analyze")
	tm.End(b, "modules=5")
	tm.End(a, "")
	tm.End(a, "ignored")

	phases := tm.Phases()
	be.Equal(t, len(phases), 2)
	be.Equal(t, phases[0].Name, "resolve")
	be.Equal(t, phases[0].Note, "")
	be.Equal(t, phases[1].Note, "modules=5")

	sum := tm.Summary()
	be.True(t, strings.HasPrefix(sum, "timings:\n"))
	be.True(t, strings.Contains(sum, "// modules=5"))
	be.True(t, strings.Contains(sum, "total"))
}

func TestMeasureMarksFailure(t *testing.T) {
	tm := observ.NewTimer()
	err := tm.Measure("link", func() error { return errors.New("boom") })
	be.True(t, err != nil)
	be.Equal(t, tm.Phases()[0].Note, "failed")
}

func TestConcurrentPhases(t *testing.T) {
	tm := observ.NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("clang"), "")
		}()
	}
	wg.Wait()
	be.Equal(t, len(tm.Report().Phases), 16)
}
