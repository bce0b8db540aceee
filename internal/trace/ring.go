package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last events of a compilation in memory. Nothing is
// written until Spill: the CLI spills the ring only when a command fails,
// so a successful build leaves no trace output.
type RingTracer struct {
	mu     sync.Mutex
	buf    []Event
	next   int // куда писать следующее событие
	filled bool
	level  Level

	out    io.Writer // nil у кольца без вывода (тесты)
	format Format
}

// NewRingTracer creates an unbound ring holding up to size events.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.next] = *ev
	t.buf[t.next].Seq = NextSeq()
	t.next++
	if t.next == len(t.buf) {
		t.next, t.filled = 0, true
	}
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.filled {
		return append([]Event(nil), t.buf[:t.next]...)
	}
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

// Spill writes the snapshot to the output the ring was created with and
// empties the ring. An unbound ring ignores the call.
func (t *RingTracer) Spill() error {
	if t.out == nil {
		return nil
	}
	if err := t.Dump(t.out, t.format); err != nil {
		return err
	}
	t.mu.Lock()
	t.next, t.filled = 0, false
	t.mu.Unlock()
	return nil
}

func (t *RingTracer) Flush() error { return nil }

// Close releases a file output; buffered events are dropped unless
// spilled before.
func (t *RingTracer) Close() error {
	if c, ok := t.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
