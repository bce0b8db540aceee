package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)

	// Flush ensures all buffered events are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// Level controls how much of a compilation is traced. Each level includes
// the scopes of the previous one.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // compile span and passes, written only if the command fails
	LevelPhase        // compile span and passes: resolve, analyze, borrow, lower
	LevelDetail       // plus per-module events: loaded modules, import cycles
	LevelDebug        // everything
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a CLI value to a Level; case is ignored.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil // #nosec G115 -- len(levelNames) < 256
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelError, LevelPhase:
		return scope <= ScopePass
	case LevelDetail:
		return scope <= ScopeModule
	case LevelDebug:
		return true
	}
	return false
}

// StorageMode says where events go before reaching the output.
type StorageMode uint8

const (
	ModeStream StorageMode = iota // сразу в вывод
	ModeRing                      // последние RingSize событий; в вывод по Spill
)

func (m StorageMode) String() string {
	if m == ModeRing {
		return "ring"
	}
	return "stream"
}

// ParseMode converts a CLI value to StorageMode.
func ParseMode(s string) (StorageMode, error) {
	switch strings.ToLower(s) {
	case "", "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	default:
		return ModeStream, fmt.Errorf("invalid trace mode: %q (expected: stream|ring)", s)
	}
}

// DefaultRingSize is used when Config.RingSize is not positive.
const DefaultRingSize = 4096

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode // LevelError всегда работает как ModeRing
	Format     Format
	Output     io.Writer // если nil, используется OutputPath
	OutputPath string    // путь к файлу, "-" или "" для stderr
	RingSize   int
}

// New creates a Tracer based on Config. The format is inferred from a
// ".ndjson"/".json" output path when the caller left it at FormatText.
// In ring mode the result is a *RingTracer bound to the output.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatText && (strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".json")) {
		format = FormatNDJSON
	}
	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Mode == ModeRing || cfg.Level == LevelError {
		ring := NewRingTracer(cfg.RingSize, cfg.Level)
		ring.out, ring.format = w, format
		return ring, nil
	}
	return NewStreamTracer(w, cfg.Level, format), nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// nopCloser не даёт Close закрыть stderr.
type nopCloser struct{ io.Writer }
