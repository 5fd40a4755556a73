package kernel

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/memsim/memutils"
	"github.com/vkngwrapper/memsim/memutils/metadata"
	"github.com/vkngwrapper/memsim/process"
	"golang.org/x/exp/slices"
)

// Validate checks that the running processes and the free regions tile the memory pool exactly,
// with no overlap and no gap, and that the process table, blocked queue and usage totals agree
// with each other
func (k *Kernel) Validate() error {
	k.mutex.RLock()
	defer k.mutex.RUnlock()

	return k.validate()
}

func (k *Kernel) validate() error {
	err := k.memory.Validate()
	if err != nil {
		return errors.Wrap(err, "free list")
	}

	err = k.blocked.Validate()
	if err != nil {
		return errors.Wrap(err, "blocked queue")
	}

	var spans []metadata.Span
	err = k.memory.VisitFreeRegions(func(region metadata.Span) error {
		if region.Size < 1 {
			return errors.Newf("free region at %d has size %d", region.Offset, region.Size)
		}
		spans = append(spans, region)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "free list")
	}

	usedMemory := 0
	runningCount := 0
	blockedCount := 0

	for pid := process.PID(1); int(pid) < k.table.Capacity(); pid++ {
		pcb := k.table.Get(pid)
		if pcb == nil {
			continue
		}

		switch pcb.Status {
		case process.StatusRunning:
			runningCount++
			usedMemory += pcb.Size
			spans = append(spans, metadata.Span{Offset: pcb.MemoryOffset, Size: pcb.Size})
		case process.StatusBlocked:
			blockedCount++
			if !k.blocked.Contains(pid) {
				return errors.Newf("pid %d is blocked but is not in the blocked queue", pid)
			}
		default:
			return errors.Newf("pid %d is in status %s between steps", pid, pcb.Status)
		}
	}

	if blockedCount != k.blocked.Len() {
		return errors.Newf("%d processes are blocked but the blocked queue holds %d", blockedCount, k.blocked.Len())
	}

	if runningCount != k.table.RunningCount() {
		return errors.Newf("%d processes are running but the table counts %d", runningCount, k.table.RunningCount())
	}

	if runningCount != k.memory.AllocationCount() {
		return errors.Newf("%d processes are running but the free list counts %d allocations", runningCount, k.memory.AllocationCount())
	}

	if usedMemory != k.usedMemory {
		return errors.Newf("running processes hold %d units but used memory is %d", usedMemory, k.usedMemory)
	}

	slices.SortFunc(spans, func(left, right metadata.Span) int {
		return left.Offset - right.Offset
	})

	cursor := 0
	for index, span := range spans {
		if index > 0 && memutils.Overlaps(spans[index-1].Offset, spans[index-1].Size, span.Offset, span.Size) {
			return errors.Newf("span [%d, %d) overlaps span [%d, %d)", span.Offset, span.End(), spans[index-1].Offset, spans[index-1].End())
		}
		if span.Offset > cursor {
			return errors.Newf("memory [%d, %d) is neither free nor held by a running process", cursor, span.Offset)
		}
		cursor = span.End()
	}

	if cursor != k.memory.Size() {
		return errors.Newf("memory [%d, %d) is neither free nor held by a running process", cursor, k.memory.Size())
	}

	return nil
}
