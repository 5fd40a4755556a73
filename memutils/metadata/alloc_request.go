package metadata

// AllocationRequest is a type returned from BlockMetadata.CreateAllocationRequest which indicates where and how
// the metadata intends to allocate new memory. Creating a request never changes the metadata: the request
// must be committed with BlockMetadata.Alloc, and it is only valid until the next change to the free list.
type AllocationRequest struct {
	// RegionOffset is the offset of the free region that the allocation will be carved from
	RegionOffset int
	// RegionSize is the size of the free region at the time the request was created
	RegionSize int
	// Size is the size of the allocation
	Size int
	// Strategy is the strategy that was used to choose the free region
	Strategy AllocationStrategy
}

// Exact reports whether the request consumes its free region whole, rather than splitting it
func (r AllocationRequest) Exact() bool {
	return r.RegionSize == r.Size
}
