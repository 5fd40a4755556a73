package batch_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/memsim/batch"
	"github.com/vkngwrapper/memsim/internal/clock"
	"github.com/vkngwrapper/memsim/process"
)

func TestListSourceReadiness(t *testing.T) {
	clk := clock.New(0)

	source, err := batch.NewListSource([]batch.Descriptor{
		{OwnerID: 2, Arrival: 10, Size: 20},
		{OwnerID: 1, Arrival: 0, Size: 10},
		{OwnerID: 3, Arrival: 10, Size: 30},
	}, clk.Now)
	require.NoError(t, err)

	require.True(t, source.HasPending())
	require.True(t, source.PeekReady())
	require.False(t, source.IsExhausted())
	require.Equal(t, 3, source.Remaining())

	descriptor, err := source.TakeDescriptor()
	require.NoError(t, err)
	require.Equal(t, uint32(1), descriptor.OwnerID)

	require.True(t, source.HasPending())
	require.False(t, source.PeekReady())
	arrival, ok := source.NextArrival()
	require.True(t, ok)
	require.Equal(t, uint64(10), arrival)

	_, err = source.TakeDescriptor()
	require.Error(t, err)

	clk.Advance(10)
	require.True(t, source.PeekReady())

	descriptor, err = source.TakeDescriptor()
	require.NoError(t, err)
	require.Equal(t, uint32(2), descriptor.OwnerID)
	descriptor, err = source.TakeDescriptor()
	require.NoError(t, err)
	require.Equal(t, uint32(3), descriptor.OwnerID)

	require.False(t, source.HasPending())
	require.False(t, source.PeekReady())
	require.True(t, source.IsExhausted())
	_, ok = source.NextArrival()
	require.False(t, ok)

	_, err = source.TakeDescriptor()
	require.Error(t, err)
}

func TestListSourceRequiresClock(t *testing.T) {
	_, err := batch.NewListSource(nil, nil)
	require.Error(t, err)
}

func TestDescriptorPCB(t *testing.T) {
	descriptor := batch.Descriptor{
		OwnerID:  4,
		PPID:     1,
		Arrival:  12,
		Duration: 30,
		Size:     64,
		Type:     process.TypeBackground,
	}

	require.Equal(t, process.PCB{
		PPID:     1,
		OwnerID:  4,
		Start:    12,
		Duration: 30,
		Size:     64,
		Type:     process.TypeBackground,
	}, descriptor.PCB())
}
