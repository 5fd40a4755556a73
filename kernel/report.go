package kernel

import (
	"github.com/google/uuid"
	"github.com/vkngwrapper/memsim/memutils/defrag"
)

// Outcome is the result of one admission attempt
type Outcome uint32

const (
	// OutcomeNone means no arrival was ready, so no admission was attempted
	OutcomeNone Outcome = iota
	// OutcomeAdmitted means the arrival was placed by the first allocation attempt
	OutcomeAdmitted
	// OutcomeAdmittedAfterCompaction means the arrival was placed once memory had been compacted
	OutcomeAdmittedAfterCompaction
	// OutcomeBlocked means the arrival did not fit even after compaction and was queued
	OutcomeBlocked
	// OutcomeRejected means the arrival is larger than the whole memory pool and was discarded
	OutcomeRejected
	// OutcomeDeferred means no pid was available, so the arrival was left with the source
	OutcomeDeferred
)

var outcomeMapping = map[Outcome]string{
	OutcomeNone:                    "None",
	OutcomeAdmitted:                "Admitted",
	OutcomeAdmittedAfterCompaction: "AdmittedAfterCompaction",
	OutcomeBlocked:                 "Blocked",
	OutcomeRejected:                "Rejected",
	OutcomeDeferred:                "Deferred",
}

func (o Outcome) String() string {
	return outcomeMapping[o]
}

// Report holds the running totals of a simulation
type Report struct {
	RunID uuid.UUID
	Steps int

	Admitted                int
	AdmittedAfterCompaction int
	Blocked                 int
	Promoted                int
	Rejected                int
	Deferred                int
	Completed               int

	Compaction defrag.Stats

	FinalTime          uint64
	PeakUsedMemory     int
	MaxBlockedAttempts int
}

func (r *Report) recordOutcome(outcome Outcome) {
	switch outcome {
	case OutcomeAdmitted:
		r.Admitted++
	case OutcomeAdmittedAfterCompaction:
		r.Admitted++
		r.AdmittedAfterCompaction++
	case OutcomeBlocked:
		r.Blocked++
	case OutcomeRejected:
		r.Rejected++
	case OutcomeDeferred:
		r.Deferred++
	}
}
