package blocked_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/memsim/blocked"
	"github.com/vkngwrapper/memsim/memutils"
	"github.com/vkngwrapper/memsim/process"
)

func drain(t *testing.T, queue *blocked.Queue) []int {
	var sizes []int
	for {
		entry, ok := queue.Dequeue()
		if !ok {
			break
		}
		sizes = append(sizes, entry.Size)
	}
	require.NoError(t, queue.Validate())
	return sizes
}

func TestQueueOrdersBySize(t *testing.T) {
	queue := blocked.NewQueue(4)

	require.NoError(t, queue.Enqueue(1, 40, 0))
	require.NoError(t, queue.Enqueue(2, 10, 1))
	require.NoError(t, queue.Enqueue(3, 25, 2))
	require.NoError(t, queue.Validate())

	require.Equal(t, []int{10, 25, 40}, drain(t, queue))
}

func TestQueueBreaksTiesByArrival(t *testing.T) {
	queue := blocked.NewQueue(4)

	require.NoError(t, queue.Enqueue(5, 20, 0))
	require.NoError(t, queue.Enqueue(3, 20, 0))
	require.NoError(t, queue.Enqueue(4, 10, 0))
	require.NoError(t, queue.Enqueue(1, 20, 0))

	var pids []process.PID
	for _, entry := range queue.Entries() {
		pids = append(pids, entry.PID)
	}
	require.Equal(t, []process.PID{4, 5, 3, 1}, pids)
}

func TestQueueEmpty(t *testing.T) {
	queue := blocked.NewQueue(0)

	_, ok := queue.Dequeue()
	require.False(t, ok)

	_, ok = queue.Peek()
	require.False(t, ok)
	require.Equal(t, 0, queue.Len())
}

func TestQueueRejectsDuplicates(t *testing.T) {
	queue := blocked.NewQueue(2)

	require.NoError(t, queue.Enqueue(1, 10, 0))
	require.ErrorIs(t, queue.Enqueue(1, 20, 0), memutils.ErrAlreadyQueued)
	require.ErrorIs(t, queue.Enqueue(2, 0, 0), memutils.ErrInvalidSize)
	require.Equal(t, 1, queue.Len())
	require.True(t, queue.Contains(1))
	require.False(t, queue.Contains(2))
}

func TestQueueRequeueKeepsPosition(t *testing.T) {
	queue := blocked.NewQueue(4)

	require.NoError(t, queue.Enqueue(1, 30, 5))
	require.NoError(t, queue.Enqueue(2, 30, 6))
	require.NoError(t, queue.Enqueue(3, 50, 7))

	head, ok := queue.Dequeue()
	require.True(t, ok)
	require.Equal(t, process.PID(1), head.PID)
	require.False(t, queue.Contains(1))

	require.NoError(t, queue.Requeue(head))
	require.ErrorIs(t, queue.Requeue(head), memutils.ErrAlreadyQueued)

	head, ok = queue.Peek()
	require.True(t, ok)
	require.Equal(t, blocked.Entry{
		PID:        1,
		Size:       30,
		Sequence:   1,
		EnqueuedAt: 5,
		Attempts:   1,
	}, head)
	require.Equal(t, 1, queue.MaxAttempts())
	require.NoError(t, queue.Validate())

	require.Error(t, queue.Requeue(blocked.Entry{PID: 9, Size: 1, Sequence: 99}))
}

func TestQueueLaterSmallerEntryJumpsAhead(t *testing.T) {
	queue := blocked.NewQueue(4)

	require.NoError(t, queue.Enqueue(1, 50, 0))
	head, _ := queue.Dequeue()
	require.NoError(t, queue.Requeue(head))

	require.NoError(t, queue.Enqueue(2, 20, 0))

	head, ok := queue.Peek()
	require.True(t, ok)
	require.Equal(t, process.PID(2), head.PID)
}

func TestQueueRemove(t *testing.T) {
	queue := blocked.NewQueue(4)

	require.NoError(t, queue.Enqueue(1, 10, 0))
	require.NoError(t, queue.Enqueue(2, 20, 0))
	require.NoError(t, queue.Enqueue(3, 30, 0))

	entry, ok := queue.Remove(2)
	require.True(t, ok)
	require.Equal(t, 20, entry.Size)

	_, ok = queue.Remove(2)
	require.False(t, ok)

	require.Equal(t, []int{10, 30}, drain(t, queue))
}
