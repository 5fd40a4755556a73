package kernel

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/memsim/blocked"
	"github.com/vkngwrapper/memsim/memutils"
	"github.com/vkngwrapper/memsim/memutils/metadata"
	"github.com/vkngwrapper/memsim/process"
)

// ResidentProcess is a running process as seen in a Snapshot
type ResidentProcess struct {
	PID     process.PID
	OwnerID uint32
	Type    process.Type
	Offset  int
	Size    int
	UsedCPU uint64
}

// Snapshot is a copy of the kernel's memory state. It shares nothing with the kernel.
type Snapshot struct {
	Time        uint64
	TotalMemory int
	UsedMemory  int
	// FreeRegions is in ascending offset order
	FreeRegions []metadata.Span
	// Residents is in pid order
	Residents []ResidentProcess
	// Blocked is in dequeue order
	Blocked    []blocked.Entry
	Statistics memutils.DetailedStatistics
}

// FreeMemory returns the total size of the free regions
func (s *Snapshot) FreeMemory() int {
	return s.TotalMemory - s.UsedMemory
}

// Fragmented reports whether free memory is split across more than one region
func (s *Snapshot) Fragmented() bool {
	return len(s.FreeRegions) > 1
}

// Snapshot copies the current memory state
func (k *Kernel) Snapshot() Snapshot {
	k.mutex.RLock()
	defer k.mutex.RUnlock()

	return k.snapshot()
}

func (k *Kernel) snapshot() Snapshot {
	snapshot := Snapshot{
		Time:        k.clock.Now(),
		TotalMemory: k.memory.Size(),
		UsedMemory:  k.usedMemory,
		FreeRegions: k.memory.FreeRegions(),
		Blocked:     k.blocked.Entries(),
	}

	snapshot.Statistics.Clear()
	k.memory.AddDetailedStatistics(&snapshot.Statistics)

	k.table.VisitRunning(func(pcb *process.PCB) {
		snapshot.Residents = append(snapshot.Residents, ResidentProcess{
			PID:     pcb.PID,
			OwnerID: pcb.OwnerID,
			Type:    pcb.Type,
			Offset:  pcb.MemoryOffset,
			Size:    pcb.Size,
			UsedCPU: pcb.UsedCPU,
		})
		snapshot.Statistics.AddAllocation(pcb.Size)
	})

	return snapshot
}

// WriteJSON writes the kernel's memory state, blocked queue and totals as a JSON object
func (k *Kernel) WriteJSON(writer *jwriter.Writer) {
	k.mutex.RLock()
	defer k.mutex.RUnlock()

	obj := writer.Object()
	defer obj.End()

	obj.Name("RunID").String(k.report.RunID.String())
	obj.Name("Time").Int(int(k.clock.Now()))
	obj.Name("UsedMemory").Int(k.usedMemory)

	memoryObj := obj.Name("Memory").Object()
	k.memory.BlockJsonData(&memoryObj)
	memoryObj.End()

	residents := obj.Name("Residents").Array()
	k.table.VisitRunning(func(pcb *process.PCB) {
		resident := residents.Object()
		resident.Name("PID").Int(int(pcb.PID))
		resident.Name("Offset").Int(pcb.MemoryOffset)
		resident.Name("Size").Int(pcb.Size)
		resident.Name("Type").String(pcb.Type.String())
		resident.Name("UsedCPU").Int(int(pcb.UsedCPU))
		resident.End()
	})
	residents.End()

	blockedArray := obj.Name("Blocked").Array()
	for _, entry := range k.blocked.Entries() {
		entryObj := blockedArray.Object()
		entryObj.Name("PID").Int(int(entry.PID))
		entryObj.Name("Size").Int(entry.Size)
		entryObj.Name("EnqueuedAt").Int(int(entry.EnqueuedAt))
		entryObj.Name("Attempts").Int(entry.Attempts)
		entryObj.End()
	}
	blockedArray.End()

	report := obj.Name("Report").Object()
	report.Name("Steps").Int(k.report.Steps)
	report.Name("Admitted").Int(k.report.Admitted)
	report.Name("AdmittedAfterCompaction").Int(k.report.AdmittedAfterCompaction)
	report.Name("Blocked").Int(k.report.Blocked)
	report.Name("Promoted").Int(k.report.Promoted)
	report.Name("Rejected").Int(k.report.Rejected)
	report.Name("Deferred").Int(k.report.Deferred)
	report.Name("Completed").Int(k.report.Completed)
	report.Name("CompactionRuns").Int(k.report.Compaction.Runs)
	report.Name("BytesMoved").Int(k.report.Compaction.BytesMoved)
	report.Name("PeakUsedMemory").Int(k.report.PeakUsedMemory)
	report.End()
}
