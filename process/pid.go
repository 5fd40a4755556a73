package process

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/memsim/memutils"
)

// PIDAllocator hands out pids from [1, maxPID), advancing a counter that wraps around and skips
// pids whose table slots are still in use
type PIDAllocator struct {
	table   *Table
	maxPID  int
	counter int
}

// NewPIDAllocator creates a pid allocator over table. maxPID is exclusive and may not exceed the
// table capacity.
func NewPIDAllocator(table *Table, maxPID int) (*PIDAllocator, error) {
	if table == nil {
		return nil, errors.New("attempted to create a pid allocator without a process table")
	}

	if maxPID < 2 {
		return nil, errors.Newf("maximum pid must be at least 2, but was %d", maxPID)
	}

	if maxPID > table.Capacity() {
		return nil, errors.Newf("maximum pid %d is larger than the process table capacity %d", maxPID, table.Capacity())
	}

	return &PIDAllocator{
		table:  table,
		maxPID: maxPID,
	}, nil
}

// Next returns the next free pid. It returns an error wrapping memutils.ErrNoPIDAvailable, and NoPID, if
// every pid in range is in use. Next does not claim the pid's slot.
func (a *PIDAllocator) Next() (PID, error) {
	for attempts := 1; attempts < a.maxPID; attempts++ {
		a.counter++
		if a.counter >= a.maxPID {
			a.counter = 1
		}

		if !a.table.InUse(PID(a.counter)) {
			return PID(a.counter), nil
		}
	}

	return NoPID, errors.Wrapf(memutils.ErrNoPIDAvailable, "all %d pids are in use", a.maxPID-1)
}
