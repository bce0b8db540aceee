package driver

import "time"

// PhaseStatus - начало или конец фазы.
type PhaseStatus uint8

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent reports the progress of one pass to interactive frontends.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events synchronously from Compile.
type PhaseObserver func(PhaseEvent)
