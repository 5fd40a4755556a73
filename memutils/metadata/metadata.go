package metadata

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/memsim/memutils"
)

// BlockMetadata represents a single contiguous pool of memory. It tracks the free regions within the
// pool, allowing spans to be allocated and released, as well as enumerated and queried. It does not
// track what the allocated spans are used for: that is the responsibility of the consumer.
type BlockMetadata interface {
	// Init must be called before the BlockMetadata is used. It sizes the pool in units via the size
	// parameter and marks the whole pool free.
	Init(size int)
	// Size retrieves the size in units that the pool was initialized with
	Size() int

	// Validate performs internal consistency checks on the metadata. When the implementation is functioning
	// correctly, it should not be possible for this method to return an error.
	Validate() error
	// AllocationCount returns the number of spans currently allocated from the pool. This number
	// is the number of successful allocations minus the number of successful releases.
	AllocationCount() int
	// FreeRegionsCount returns the number of free regions in the pool. Adjacent free regions are always
	// merged, so this is the number of gaps between allocated spans.
	FreeRegionsCount() int
	// SumFreeSize returns the number of free units of memory in the pool.
	SumFreeSize() int
	// LargestFreeRegion returns the size of the largest free region, or 0 if the pool is full
	LargestFreeRegion() int
	// MayHaveFreeBlock should return a heuristic indicating whether the pool could possibly support a new
	// allocation of the provided size. It must be fast and must not produce false negatives.
	MayHaveFreeBlock(size int) bool

	// IsEmpty will return true if this pool has no live allocations
	IsEmpty() bool

	// VisitFreeRegions will call the provided callback once for each free region in ascending
	// offset order, stopping at the first error returned
	VisitFreeRegions(handleRegion func(region Span) error) error
	// FreeRegions returns a copy of the free regions in ascending offset order
	FreeRegions() []Span

	// AddDetailedStatistics sums this pool's free-region statistics into the statistics currently present
	// in the provided memutils.DetailedStatistics object. Allocations are not itemized by the metadata, so
	// the consumer must add them itself with DetailedStatistics.AddAllocation.
	AddDetailedStatistics(stats *memutils.DetailedStatistics)
	// AddStatistics sums this pool's allocation statistics into the statistics currently present in the
	// provided memutils.Statistics object.
	AddStatistics(stats *memutils.Statistics)

	// Clear instantly frees all allocations
	Clear()
	// BlockJsonData populates a json object with information about this pool
	BlockJsonData(json *jwriter.ObjectState)

	// CreateAllocationRequest retrieves an AllocationRequest object indicating where the implementation
	// would allocate the requested memory. That object can be passed to Alloc to commit the allocation.
	// The boolean return value is false when no free region can hold the allocation; this is not an error.
	//
	// allocSize - the size in units of the requested allocation. It must be positive.
	// strategy - the strategy used to choose between the free regions large enough to hold the allocation
	CreateAllocationRequest(allocSize int, strategy AllocationStrategy) (bool, AllocationRequest, error)
	// Alloc commits an AllocationRequest object, returning the allocated span. The implementation must return
	// an error if the request is no longer valid- i.e. the requested free region no longer exists or is no
	// longer large enough.
	Alloc(request AllocationRequest) (Span, error)

	// Release returns a span to the pool, merging it with free neighbors. The implementation must return an
	// error wrapping memutils.ErrOverlappingRelease if any part of the span is already free.
	Release(offset, size int) error
	// Consolidate discards every free region and replaces them with a single free region beginning at
	// offset and running to the end of the pool. It is used after allocations have been relocated
	// to the front of the pool.
	Consolidate(offset int) error
}

// BlockMetadataBase is a simple struct that provides a few shared utilities for BlockMetadata
// implementations in the memutils module.
type BlockMetadataBase struct {
	size int
}

// NewBlockMetadata creates a new, uninitialized BlockMetadataBase
func NewBlockMetadata() BlockMetadataBase {
	return BlockMetadataBase{
		size: 0,
	}
}

// Init sizes the block in units based on the parameter size.
func (m *BlockMetadataBase) Init(size int) {
	m.size = size
}

// Size returns the size of the block in units
func (m *BlockMetadataBase) Size() int { return m.size }

// BlockJsonData populates a json object with information about this block
func (m *BlockMetadataBase) BlockJsonData(json *jwriter.ObjectState, unusedBytes, allocationCount, unusedRangeCount int) {
	json.Name("TotalBytes").Int(m.Size())
	json.Name("UnusedBytes").Int(unusedBytes)
	json.Name("Allocations").Int(allocationCount)
	json.Name("UnusedRanges").Int(unusedRangeCount)
}
