package process_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/memsim/memutils/defrag"
	"github.com/vkngwrapper/memsim/process"
)

func TestTableClaimAndVoid(t *testing.T) {
	table, err := process.NewTable(4)
	require.NoError(t, err)
	require.Equal(t, 4, table.Capacity())

	pcb, err := table.Claim(2, process.PCB{
		OwnerID:      7,
		Start:        10,
		Duration:     50,
		Size:         30,
		Type:         process.TypeInteractive,
		Status:       process.StatusRunning,
		MemoryOffset: 99,
		UsedCPU:      12,
	})
	require.NoError(t, err)
	require.Equal(t, process.PCB{
		Valid:    true,
		PID:      2,
		OwnerID:  7,
		Start:    10,
		Duration: 50,
		Size:     30,
		Type:     process.TypeInteractive,
		Status:   process.StatusInit,
	}, *pcb)
	require.True(t, table.InUse(2))
	require.Same(t, pcb, table.Get(2))
	require.Equal(t, 0, table.RunningCount())

	_, err = table.Claim(2, process.PCB{})
	require.Error(t, err)
	_, err = table.Claim(process.NoPID, process.PCB{})
	require.Error(t, err)
	_, err = table.Claim(4, process.PCB{})
	require.Error(t, err)

	require.NoError(t, table.SetStatus(2, process.StatusRunning))
	require.Equal(t, 1, table.RunningCount())
	require.NoError(t, table.SetStatus(2, process.StatusRunning))
	require.Equal(t, 1, table.RunningCount())

	require.NoError(t, table.Void(2))
	require.False(t, table.InUse(2))
	require.Nil(t, table.Get(2))
	require.Equal(t, 0, table.RunningCount())
	require.Equal(t, 0, table.ValidCount())

	require.Error(t, table.Void(2))
	require.Error(t, table.SetStatus(2, process.StatusBlocked))
}

func TestTableRejectsTinyCapacity(t *testing.T) {
	_, err := process.NewTable(1)
	require.Error(t, err)
}

func TestTableResidents(t *testing.T) {
	table, err := process.NewTable(5)
	require.NoError(t, err)

	for pid, size := range map[process.PID]int{1: 10, 3: 20, 4: 5} {
		pcb, err := table.Claim(pid, process.PCB{Size: size})
		require.NoError(t, err)
		pcb.MemoryOffset = int(pid) * 10
	}
	require.NoError(t, table.SetStatus(1, process.StatusRunning))
	require.NoError(t, table.SetStatus(3, process.StatusRunning))
	require.NoError(t, table.SetStatus(4, process.StatusBlocked))

	var residents []defrag.Resident
	for slot := 0; slot < table.SlotCount(); slot++ {
		resident, ok := table.Resident(slot)
		if ok {
			residents = append(residents, resident)
		}
	}
	require.Equal(t, []defrag.Resident{
		{PID: 1, Offset: 10, Size: 10},
		{PID: 3, Offset: 30, Size: 20},
	}, residents)

	var visited []process.PID
	table.VisitRunning(func(pcb *process.PCB) {
		visited = append(visited, pcb.PID)
	})
	require.Equal(t, []process.PID{1, 3}, visited)

	table.Relocate(3, 10)
	require.Equal(t, 10, table.Get(3).MemoryOffset)
	require.Equal(t, 30, table.Get(3).MemoryEnd())

	require.Panics(t, func() {
		table.Relocate(4, 0)
	})
}

func TestParseType(t *testing.T) {
	processType, err := process.ParseType("Background")
	require.NoError(t, err)
	require.Equal(t, process.TypeBackground, processType)
	require.Equal(t, "background", processType.String())

	_, err = process.ParseType("daemon")
	require.Error(t, err)

	var decoded process.Type
	require.NoError(t, decoded.UnmarshalText([]byte("foreground")))
	require.Equal(t, process.TypeForeground, decoded)

	require.Equal(t, "no type", process.Type(42).String())
	require.Equal(t, "blocked", process.StatusBlocked.String())
}
