// Package blocked holds the processes that were admitted to the system but could not be given
// memory. The queue orders pending requests by size, smallest first, with ties broken by arrival.
package blocked

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/memsim/memutils"
	"github.com/vkngwrapper/memsim/process"
	"golang.org/x/exp/slices"
)

// Entry is a queued memory request. The queue does not own the process it refers to.
type Entry struct {
	PID  process.PID
	Size int
	// Sequence is the arrival order of the entry, assigned when it is first enqueued
	Sequence uint64
	// EnqueuedAt is the simulated time of the first enqueue
	EnqueuedAt uint64
	// Attempts is the number of times the entry was dequeued for promotion and put back
	Attempts int
}

func (e Entry) before(other Entry) bool {
	if e.Size != other.Size {
		return e.Size < other.Size
	}
	return e.Sequence < other.Sequence
}

// Queue is a size-priority queue of blocked processes. Position is fixed at enqueue time; an
// entry is never re-evaluated while it waits.
type Queue struct {
	entries      []Entry
	members      *swiss.Map[process.PID, uint64]
	nextSequence uint64
}

// NewQueue creates an empty queue. capacity is a sizing hint.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}

	return &Queue{
		entries: make([]Entry, 0, capacity),
		members: swiss.NewMap[process.PID, uint64](uint32(capacity)),
	}
}

// Len returns the number of queued entries
func (q *Queue) Len() int {
	return len(q.entries)
}

// Contains reports whether the process with the provided pid is queued
func (q *Queue) Contains(pid process.PID) bool {
	return q.members.Has(pid)
}

// Enqueue adds a new memory request for pid. It is placed behind every queued entry that is
// smaller or of equal size.
func (q *Queue) Enqueue(pid process.PID, size int, now uint64) error {
	if err := memutils.CheckPositive(size, "blocked request size"); err != nil {
		return err
	}

	if q.members.Has(pid) {
		return errors.Wrapf(memutils.ErrAlreadyQueued, "pid %d", pid)
	}

	q.nextSequence++
	q.insert(Entry{
		PID:        pid,
		Size:       size,
		Sequence:   q.nextSequence,
		EnqueuedAt: now,
	})

	return nil
}

// Requeue returns an entry that was just dequeued to the queue. It keeps its original sequence,
// so it goes back to the position it was dequeued from, and its Attempts counter is incremented.
func (q *Queue) Requeue(entry Entry) error {
	if q.members.Has(entry.PID) {
		return errors.Wrapf(memutils.ErrAlreadyQueued, "pid %d", entry.PID)
	}

	if entry.Sequence == 0 || entry.Sequence > q.nextSequence {
		return errors.Newf("attempted to requeue pid %d with sequence %d, which was not issued by this queue", entry.PID, entry.Sequence)
	}

	entry.Attempts++
	q.insert(entry)
	return nil
}

func (q *Queue) insert(entry Entry) {
	index, _ := slices.BinarySearchFunc(q.entries, entry, func(queued Entry, target Entry) int {
		if queued.before(target) {
			return -1
		}
		return 1
	})

	q.entries = slices.Insert(q.entries, index, entry)
	q.members.Put(entry.PID, entry.Sequence)
}

// Peek returns the head of the queue without removing it
func (q *Queue) Peek() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}

	return q.entries[0], true
}

// Dequeue removes and returns the head of the queue, the smallest and earliest request. It returns
// false when the queue is empty.
func (q *Queue) Dequeue() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}

	head := q.entries[0]
	q.entries = slices.Delete(q.entries, 0, 1)
	q.members.Delete(head.PID)

	return head, true
}

// Remove drops the entry for pid, wherever it is in the queue. It returns false if pid is not queued.
func (q *Queue) Remove(pid process.PID) (Entry, bool) {
	if !q.members.Has(pid) {
		return Entry{}, false
	}

	index := slices.IndexFunc(q.entries, func(entry Entry) bool {
		return entry.PID == pid
	})
	if index < 0 {
		panic(errors.Newf("pid %d is a queue member but has no entry", pid))
	}

	entry := q.entries[index]
	q.entries = slices.Delete(q.entries, index, index+1)
	q.members.Delete(pid)

	return entry, true
}

// Entries returns a copy of the queued entries in dequeue order
func (q *Queue) Entries() []Entry {
	return slices.Clone(q.entries)
}

// MaxAttempts returns the largest Attempts value among queued entries
func (q *Queue) MaxAttempts() int {
	maxAttempts := 0
	for _, entry := range q.entries {
		if entry.Attempts > maxAttempts {
			maxAttempts = entry.Attempts
		}
	}
	return maxAttempts
}

func (q *Queue) Validate() error {
	if q.members.Count() != len(q.entries) {
		return errors.Newf("the queue has %d members but %d entries", q.members.Count(), len(q.entries))
	}

	for index, entry := range q.entries {
		sequence, ok := q.members.Get(entry.PID)
		if !ok || sequence != entry.Sequence {
			return errors.Newf("entry %d for pid %d is not registered as a queue member", index, entry.PID)
		}

		if index > 0 && !q.entries[index-1].before(entry) {
			return errors.Newf("entry %d for pid %d is out of order", index, entry.PID)
		}
	}

	return nil
}
