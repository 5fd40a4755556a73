package process

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/memsim/memutils/defrag"
)

// Table is the fixed-capacity process table. Slot i holds the process with pid i; slot 0
// is never used.
type Table struct {
	slots        []PCB
	runningCount int
}

var _ defrag.Residents = &Table{}

// NewTable creates a process table with capacity slots, including the reserved slot 0
func NewTable(capacity int) (*Table, error) {
	if capacity < 2 {
		return nil, errors.Newf("process table capacity must be at least 2, but was %d", capacity)
	}

	return &Table{
		slots: make([]PCB, capacity),
	}, nil
}

// Capacity returns the number of slots in the table, including the reserved slot 0
func (t *Table) Capacity() int {
	return len(t.slots)
}

func (t *Table) inRange(pid PID) bool {
	return pid > NoPID && int(pid) < len(t.slots)
}

// InUse reports whether the slot for pid holds a valid process
func (t *Table) InUse(pid PID) bool {
	return t.inRange(pid) && t.slots[pid].Valid
}

// Claim copies pcb into the slot for pid, marks it valid and puts it in StatusInit. The memory
// offset and used CPU of the new process are reset.
func (t *Table) Claim(pid PID, pcb PCB) (*PCB, error) {
	if !t.inRange(pid) {
		return nil, errors.Newf("pid %d is outside the process table range [1, %d)", pid, len(t.slots))
	}

	if t.slots[pid].Valid {
		return nil, errors.Newf("the slot for pid %d is already in use", pid)
	}

	pcb.Valid = true
	pcb.PID = pid
	pcb.Status = StatusInit
	pcb.MemoryOffset = 0
	pcb.UsedCPU = 0
	t.slots[pid] = pcb

	return &t.slots[pid], nil
}

// Get returns the process with the provided pid, or nil if the slot does not hold a valid
// process. The returned pointer is only valid until the slot is voided.
func (t *Table) Get(pid PID) *PCB {
	if !t.InUse(pid) {
		return nil
	}

	return &t.slots[pid]
}

// SetStatus changes the status of a valid process and keeps the running count current
func (t *Table) SetStatus(pid PID, status Status) error {
	pcb := t.Get(pid)
	if pcb == nil {
		return errors.Newf("attempted to change the status of pid %d, which is not in use", pid)
	}

	if pcb.Status == StatusRunning {
		t.runningCount--
	}
	if status == StatusRunning {
		t.runningCount++
	}

	pcb.Status = status
	return nil
}

// Void frees the slot for pid. The slot is left zeroed with StatusEnded.
func (t *Table) Void(pid PID) error {
	pcb := t.Get(pid)
	if pcb == nil {
		return errors.Newf("attempted to void pid %d, which is not in use", pid)
	}

	if pcb.Status == StatusRunning {
		t.runningCount--
	}

	t.slots[pid] = PCB{Status: StatusEnded}
	return nil
}

// RunningCount returns the number of processes in StatusRunning
func (t *Table) RunningCount() int {
	return t.runningCount
}

// ValidCount returns the number of slots in use
func (t *Table) ValidCount() int {
	count := 0
	for i := range t.slots {
		if t.slots[i].Valid {
			count++
		}
	}
	return count
}

// VisitRunning calls the provided callback for each running process in pid order
func (t *Table) VisitRunning(visit func(pcb *PCB)) {
	for i := range t.slots {
		if t.slots[i].Resident() {
			visit(&t.slots[i])
		}
	}
}

func (t *Table) SlotCount() int {
	return len(t.slots)
}

func (t *Table) Resident(slot int) (defrag.Resident, bool) {
	pcb := &t.slots[slot]
	if !pcb.Resident() {
		return defrag.Resident{}, false
	}

	return defrag.Resident{
		PID:    int(pcb.PID),
		Offset: pcb.MemoryOffset,
		Size:   pcb.Size,
	}, true
}

func (t *Table) Relocate(slot int, offset int) {
	if !t.slots[slot].Resident() {
		panic(errors.Newf("attempted to relocate slot %d, which does not hold a running process", slot))
	}

	t.slots[slot].MemoryOffset = offset
}
