package batch

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slices"
)

// ListSource is a Source backed by a fixed list of descriptors. Readiness is judged against the
// clock function provided at creation.
type ListSource struct {
	descriptors []Descriptor
	next        int
	now         func() uint64
}

var _ Source = &ListSource{}

// NewListSource creates a source that yields descriptors sorted by arrival time. Descriptors with
// equal arrival times keep their relative order.
func NewListSource(descriptors []Descriptor, now func() uint64) (*ListSource, error) {
	if now == nil {
		return nil, errors.New("attempted to create a list source without a clock")
	}

	sorted := slices.Clone(descriptors)
	slices.SortStableFunc(sorted, func(left, right Descriptor) int {
		switch {
		case left.Arrival < right.Arrival:
			return -1
		case left.Arrival > right.Arrival:
			return 1
		default:
			return 0
		}
	})

	return &ListSource{
		descriptors: sorted,
		now:         now,
	}, nil
}

func (s *ListSource) HasPending() bool {
	return s.next < len(s.descriptors)
}

func (s *ListSource) PeekReady() bool {
	return s.HasPending() && s.descriptors[s.next].Arrival <= s.now()
}

func (s *ListSource) TakeDescriptor() (Descriptor, error) {
	if !s.HasPending() {
		return Descriptor{}, errors.New("attempted to take a descriptor from an exhausted source")
	}

	descriptor := s.descriptors[s.next]
	if descriptor.Arrival > s.now() {
		return Descriptor{}, errors.Newf("attempted to take a descriptor that arrives at %d before its arrival", descriptor.Arrival)
	}

	s.next++
	return descriptor, nil
}

func (s *ListSource) IsExhausted() bool {
	return !s.HasPending()
}

// NextArrival returns the arrival time of the pending descriptor, and false if none is pending
func (s *ListSource) NextArrival() (uint64, bool) {
	if !s.HasPending() {
		return 0, false
	}

	return s.descriptors[s.next].Arrival, true
}

// Remaining returns the number of descriptors not yet taken
func (s *ListSource) Remaining() int {
	return len(s.descriptors) - s.next
}
