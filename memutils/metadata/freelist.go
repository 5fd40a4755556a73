package metadata

import (
	"fmt"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/memsim/memutils"
	"golang.org/x/exp/slices"
)

// FreeListBlockMetadata is a BlockMetadata implementation that keeps an address-ordered list of free
// regions. Allocations are carved from the low end of a chosen free region, and released spans are
// merged with the free regions immediately before and after them. Because the list is coalesced after
// every release, no two free regions are ever adjacent.
type FreeListBlockMetadata struct {
	BlockMetadataBase

	strategy    AllocationStrategy
	allocCount  int
	sumFreeSize int
	freeList    []Span
}

var _ BlockMetadata = &FreeListBlockMetadata{}

// NewFreeListBlockMetadata creates an uninitialized FreeListBlockMetadata. strategy is the strategy
// used by Allocate; CreateAllocationRequest accepts any strategy.
func NewFreeListBlockMetadata(strategy AllocationStrategy) *FreeListBlockMetadata {
	return &FreeListBlockMetadata{
		BlockMetadataBase: NewBlockMetadata(),
		strategy:          strategy,
	}
}

func (m *FreeListBlockMetadata) Init(size int) {
	m.BlockMetadataBase.Init(size)
	m.allocCount = 0
	m.sumFreeSize = size
	m.freeList = m.freeList[:0]
	if size > 0 {
		m.freeList = append(m.freeList, Span{Offset: 0, Size: size})
	}
}

// Strategy returns the strategy used by Allocate
func (m *FreeListBlockMetadata) Strategy() AllocationStrategy {
	return m.strategy
}

func (m *FreeListBlockMetadata) Validate() error {
	if m.sumFreeSize > m.Size() {
		return errors.New("invalid metadata free size")
	}

	calculatedFreeSize := 0
	nextOffset := 0

	for index, region := range m.freeList {
		if region.Size <= 0 {
			return errors.Errorf("free region at offset %d has non-positive size %d", region.Offset, region.Size)
		}

		if region.Offset < nextOffset {
			return errors.Errorf("free region at offset %d overlaps or precedes free region %d, which ends at offset %d", region.Offset, index-1, nextOffset)
		}

		if index > 0 && region.Offset == nextOffset {
			return errors.Errorf("free region at offset %d is adjacent to the previous free region and should have been merged", region.Offset)
		}

		if region.End() > m.Size() {
			return errors.Errorf("free region at offset %d ends at %d, past the end of the pool at %d", region.Offset, region.End(), m.Size())
		}

		calculatedFreeSize += region.Size
		nextOffset = region.End()
	}

	if calculatedFreeSize != m.sumFreeSize {
		return errors.Errorf("the free size of the metadata is %d, but the free regions only added up to %d", m.sumFreeSize, calculatedFreeSize)
	}

	if m.allocCount < 0 {
		return errors.Errorf("the allocation count of the metadata is negative: %d", m.allocCount)
	}

	if m.allocCount == 0 && m.sumFreeSize != m.Size() {
		return errors.Errorf("the metadata has no allocations, but only %d of %d units are free", m.sumFreeSize, m.Size())
	}

	return nil
}

func (m *FreeListBlockMetadata) AllocationCount() int {
	return m.allocCount
}

func (m *FreeListBlockMetadata) FreeRegionsCount() int {
	return len(m.freeList)
}

func (m *FreeListBlockMetadata) SumFreeSize() int {
	return m.sumFreeSize
}

func (m *FreeListBlockMetadata) LargestFreeRegion() int {
	largest := 0
	for _, region := range m.freeList {
		if region.Size > largest {
			largest = region.Size
		}
	}

	return largest
}

func (m *FreeListBlockMetadata) MayHaveFreeBlock(size int) bool {
	return size <= m.sumFreeSize
}

func (m *FreeListBlockMetadata) IsEmpty() bool {
	return m.allocCount == 0
}

func (m *FreeListBlockMetadata) VisitFreeRegions(handleRegion func(region Span) error) error {
	for _, region := range m.freeList {
		err := handleRegion(region)
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *FreeListBlockMetadata) FreeRegions() []Span {
	return slices.Clone(m.freeList)
}

func (m *FreeListBlockMetadata) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.BlockCount++
	stats.BlockBytes += m.Size()

	for _, region := range m.freeList {
		stats.AddUnusedRange(region.Size)
	}
}

func (m *FreeListBlockMetadata) AddStatistics(stats *memutils.Statistics) {
	stats.BlockCount++
	stats.AllocationCount += m.allocCount
	stats.BlockBytes += m.Size()
	stats.AllocationBytes += m.Size() - m.sumFreeSize
}

func (m *FreeListBlockMetadata) Clear() {
	m.Init(m.Size())
}

func (m *FreeListBlockMetadata) BlockJsonData(json *jwriter.ObjectState) {
	m.BlockMetadataBase.BlockJsonData(json, m.sumFreeSize, m.allocCount, len(m.freeList))

	regions := json.Name("FreeRegions").Array()
	defer regions.End()

	for _, region := range m.freeList {
		obj := regions.Object()
		obj.Name("Offset").Int(region.Offset)
		obj.Name("Size").Int(region.Size)
		obj.End()
	}
}

// findRegion returns the index of the first free region whose offset is not less than offset, and
// whether that region begins exactly at offset
func (m *FreeListBlockMetadata) findRegion(offset int) (int, bool) {
	return slices.BinarySearchFunc(m.freeList, offset, func(region Span, target int) int {
		switch {
		case region.Offset < target:
			return -1
		case region.Offset > target:
			return 1
		default:
			return 0
		}
	})
}

func (m *FreeListBlockMetadata) CreateAllocationRequest(allocSize int, strategy AllocationStrategy) (bool, AllocationRequest, error) {
	var allocRequest AllocationRequest

	if allocSize < 1 {
		return false, allocRequest, errors.Wrapf(memutils.ErrInvalidSize, "invalid allocSize: %d", allocSize)
	}

	memutils.DebugValidate(m)

	// Is pool big enough?
	if allocSize > m.sumFreeSize {
		return false, allocRequest, nil
	}

	index := -1

	switch strategy {
	case AllocationStrategyFirstFit:
		for i, region := range m.freeList {
			if region.Size >= allocSize {
				index = i
				break
			}
		}
	case AllocationStrategyBestFit:
		for i, region := range m.freeList {
			if region.Size < allocSize {
				continue
			}

			if index < 0 || region.Size < m.freeList[index].Size {
				index = i
			}

			if region.Size == allocSize {
				break
			}
		}
	default:
		return false, allocRequest, errors.Errorf("unknown allocation strategy: %d", uint32(strategy))
	}

	if index < 0 {
		return false, allocRequest, nil
	}

	allocRequest.RegionOffset = m.freeList[index].Offset
	allocRequest.RegionSize = m.freeList[index].Size
	allocRequest.Size = allocSize
	allocRequest.Strategy = strategy

	return true, allocRequest, nil
}

func (m *FreeListBlockMetadata) Alloc(request AllocationRequest) (Span, error) {
	if request.Size < 1 {
		return Span{}, errors.Wrapf(memutils.ErrInvalidSize, "invalid allocation request size: %d", request.Size)
	}

	index, found := m.findRegion(request.RegionOffset)
	if !found {
		return Span{}, errors.Errorf("allocation request refers to a free region at offset %d, which no longer exists", request.RegionOffset)
	}

	region := &m.freeList[index]
	if region.Size < request.Size {
		return Span{}, errors.Errorf("allocation request of size %d refers to a free region of size %d", request.Size, region.Size)
	}

	span := Span{Offset: region.Offset, Size: request.Size}

	if region.Size == request.Size {
		m.freeList = slices.Delete(m.freeList, index, index+1)
	} else {
		// Split, the low end is handed out
		region.Offset += request.Size
		region.Size -= request.Size
	}

	m.sumFreeSize -= request.Size
	m.allocCount++

	return span, nil
}

// Allocate finds a free region for an allocation of the provided size using the metadata's strategy
// and commits it. It returns false if no free region is large enough, or if size is not positive.
// The metadata is unchanged when false is returned.
func (m *FreeListBlockMetadata) Allocate(size int) (Span, bool) {
	success, request, err := m.CreateAllocationRequest(size, m.strategy)
	if err != nil || !success {
		return Span{}, false
	}

	span, err := m.Alloc(request)
	if err != nil {
		panic(fmt.Sprintf("unexpected error when committing a fresh allocation request: %+v", err))
	}

	return span, true
}

func (m *FreeListBlockMetadata) Release(offset, size int) error {
	if size < 1 {
		return errors.Wrapf(memutils.ErrInvalidSize, "invalid release size: %d", size)
	}

	if offset < 0 || offset+size > m.Size() {
		return errors.Wrapf(memutils.ErrOverlappingRelease, "span [%d, %d) lies outside the pool of size %d", offset, offset+size, m.Size())
	}

	index, found := m.findRegion(offset)
	if found {
		return errors.Wrapf(memutils.ErrOverlappingRelease, "span [%d, %d) begins at the free region at offset %d", offset, offset+size, offset)
	}

	// Free regions are never adjacent, so the new span can only touch the region directly before
	// and the region directly after
	hasNext := index < len(m.freeList)
	hasPrev := index > 0

	if hasNext && m.freeList[index].Offset < offset+size {
		return errors.Wrapf(memutils.ErrOverlappingRelease, "span [%d, %d) overlaps the free region at offset %d", offset, offset+size, m.freeList[index].Offset)
	}

	if hasPrev && m.freeList[index-1].End() > offset {
		return errors.Wrapf(memutils.ErrOverlappingRelease, "span [%d, %d) overlaps the free region at offset %d", offset, offset+size, m.freeList[index-1].Offset)
	}

	mergeNext := hasNext && m.freeList[index].Offset == offset+size
	mergePrev := hasPrev && m.freeList[index-1].End() == offset

	switch {
	case mergePrev && mergeNext:
		m.freeList[index-1].Size += size + m.freeList[index].Size
		m.freeList = slices.Delete(m.freeList, index, index+1)
	case mergePrev:
		m.freeList[index-1].Size += size
	case mergeNext:
		m.freeList[index].Offset = offset
		m.freeList[index].Size += size
	default:
		m.freeList = slices.Insert(m.freeList, index, Span{Offset: offset, Size: size})
	}

	m.sumFreeSize += size
	if m.allocCount > 0 {
		m.allocCount--
	}

	memutils.DebugValidate(m)

	return nil
}

func (m *FreeListBlockMetadata) Consolidate(offset int) error {
	if offset < 0 || offset > m.Size() {
		return errors.Errorf("consolidated free region offset %d lies outside the pool of size %d", offset, m.Size())
	}

	m.freeList = m.freeList[:0]
	if offset < m.Size() {
		m.freeList = append(m.freeList, Span{Offset: offset, Size: m.Size() - offset})
	}
	m.sumFreeSize = m.Size() - offset

	return nil
}
