package memutils

import "github.com/pkg/errors"

var (
	// ErrInvalidSize is returned when an allocation or release is requested with a size that is not a
	// positive integer
	ErrInvalidSize error = errors.New("size must be a positive integer")
	// ErrOverlappingRelease is returned when a span is released that overlaps memory which is already
	// free, or that reaches outside the pool. It always indicates that the caller released a span it does not own.
	ErrOverlappingRelease error = errors.New("released span overlaps free memory")
	// ErrNoPIDAvailable is returned from the pid allocator when every pid in range is in use
	ErrNoPIDAvailable error = errors.New("no pid available")
	// ErrAlreadyQueued is returned when a process is enqueued in the blocked queue twice
	ErrAlreadyQueued error = errors.New("process is already queued")
)
