// Package batch provides the source of new processes for a simulation run.
package batch

//go:generate mockgen -source source.go -destination mocks/source.go -package mock_batch

import (
	"github.com/vkngwrapper/memsim/process"
)

// Descriptor describes a process waiting to enter the system
type Descriptor struct {
	OwnerID uint32      `yaml:"owner"`
	PPID    process.PID `yaml:"ppid"`
	// Arrival is the virtual time at which the process becomes ready
	Arrival  uint64       `yaml:"arrival"`
	Duration uint64       `yaml:"duration"`
	Size     int          `yaml:"size"`
	Type     process.Type `yaml:"type"`
}

// PCB returns an unclaimed process control block populated from the descriptor
func (d Descriptor) PCB() process.PCB {
	return process.PCB{
		PPID:     d.PPID,
		OwnerID:  d.OwnerID,
		Start:    d.Arrival,
		Duration: d.Duration,
		Size:     d.Size,
		Type:     d.Type,
	}
}

// Source produces the descriptors of new processes, in arrival order
type Source interface {
	// HasPending reports whether a descriptor is waiting to be taken
	HasPending() bool
	// PeekReady reports whether the pending descriptor's arrival time has elapsed
	PeekReady() bool
	// TakeDescriptor removes and returns the pending descriptor
	TakeDescriptor() (Descriptor, error)
	// IsExhausted reports whether the source will never produce another descriptor
	IsExhausted() bool
}
