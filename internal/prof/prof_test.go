package prof_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"lumen/internal/prof"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cfg := prof.Config{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "run.trace"),
	}
	s, err := prof.Start(cfg)
	be.Err(t, err, nil)
	be.Err(t, s.Stop(), nil)
	// повторный Stop ничего не делает
	be.Err(t, s.Stop(), nil)

	for _, path := range []string{cfg.CPU, cfg.Mem, cfg.Trace} {
		st, err := os.Stat(path)
		be.Err(t, err, nil)
		be.True(t, st.Size() > 0)
	}
}

func TestEmptyConfig(t *testing.T) {
	s, err := prof.Start(prof.Config{})
	be.Err(t, err, nil)
	be.Err(t, s.Stop(), nil)
}

func TestBadPath(t *testing.T) {
	_, err := prof.Start(prof.Config{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")})
	be.True(t, err != nil)
}
