package diag

import (
	"fmt"
	"slices"
)

// Bag is the append-only diagnostic sink shared by every pass.
type Bag struct {
	items   []Diagnostic
	max     int
	errors  int // учитываются и отброшенные по лимиту
	dropped int
}

func NewBag(max int) *Bag {
	if max <= 0 {
		max = 1
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if d.Severity >= SevError {
		b.errors++
	}
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	return b.errors > 0
}

// ErrorCount counts every error ever added, including ones dropped by the limit.
func (b *Bag) ErrorCount() int {
	return b.errors
}

// Dropped is the number of diagnostics rejected by the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик в порядке добавления.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sorted returns a copy ordered for printing: by file, most severe first,
// then by span. Equal keys keep insertion order.
func (b *Bag) Sorted() []Diagnostic {
	out := slices.Clone(b.items)
	slices.SortStableFunc(out, func(di, dj Diagnostic) int {
		if di.Primary.File != dj.Primary.File {
			return cmpInt(int(di.Primary.File), int(dj.Primary.File))
		}
		if di.Severity != dj.Severity {
			return cmpInt(int(dj.Severity), int(di.Severity))
		}
		if di.Primary.Start != dj.Primary.Start {
			return cmpInt(int(di.Primary.Start), int(dj.Primary.Start))
		}
		return cmpInt(int(di.Primary.End), int(dj.Primary.End))
	})
	return out
}

// Dedup убирает повторы по Code+Primary+Message; счётчик ошибок уменьшается
// на число выброшенных ошибок.
func (b *Bag) Dedup() {
	seen := make(map[string]bool, len(b.items))
	kept := b.items[:0]
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%s", d.Code.ID(), d.Primary.String(), d.Message)
		if seen[key] {
			if d.Severity >= SevError {
				b.errors--
			}
			continue
		}
		seen[key] = true
		kept = append(kept, d)
	}
	b.items = kept
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
