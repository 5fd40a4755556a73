// Package events specifies how the kernel learns about the passage of simulated time, and provides
// a simple round-robin simulator that implements it.
package events

//go:generate mockgen -source event.go -destination mocks/scheduler.go -package mock_events

import (
	"github.com/vkngwrapper/memsim/process"
)

// Kind is the reason the scheduler stopped advancing time
type Kind uint32

const (
	KindNone Kind = iota
	KindCompleted
	KindIO
	KindQuantumExpired
	KindStarted
)

var kindMapping = map[Kind]string{
	KindNone:           "none",
	KindCompleted:      "completed",
	KindIO:             "io",
	KindQuantumExpired: "quantum expired",
	KindStarted:        "started",
}

func (k Kind) String() string {
	return kindMapping[k]
}

// Event is the result of advancing to the next scheduling event
type Event struct {
	// Elapsed is the simulated time that passed before the event occurred
	Elapsed uint64
	Kind    Kind
	// PID is the subject of the event. It is process.NoPID for KindNone.
	PID process.PID
}

// Scheduler is the event-timing component the kernel consults once per step. Only KindCompleted
// changes kernel state; every other kind is time bookkeeping.
type Scheduler interface {
	// ProcessStarted informs the scheduler that a process became resident and will run for duration
	ProcessStarted(pid process.PID, duration uint64)
	// AdvanceToNextEvent runs simulated time forward to the next event and reports it
	AdvanceToNextEvent() Event
}

// ArrivalHint lets an idle scheduler skip ahead to the next process arrival instead of creeping
// forward one tick at a time. batch.ListSource implements it.
type ArrivalHint interface {
	NextArrival() (uint64, bool)
}
