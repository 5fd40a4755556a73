package defrag

// Stats contains basic metrics for compaction over time
type Stats struct {
	// BytesMoved is the total size of every resident allocation that was relocated. In a real
	// memory system this is the copy cost of the compaction.
	BytesMoved int
	// AllocationsMoved is the number of relocations
	AllocationsMoved int
	// Runs is the number of compactions that did work
	Runs int
	// Skipped is the number of compactions that were requested but did nothing, because free
	// memory was already in a single region
	Skipped int
}

func (s *Stats) Add(stats Stats) {
	s.BytesMoved += stats.BytesMoved
	s.AllocationsMoved += stats.AllocationsMoved
	s.Runs += stats.Runs
	s.Skipped += stats.Skipped
}

// Move describes the relocation of a single resident allocation
type Move struct {
	PID       int
	Size      int
	SrcOffset int
	DstOffset int
}

// MoveHandler is called once for each relocation after a compaction has been committed. It
// is an instrumentation hook and cannot change the outcome of the compaction.
type MoveHandler func(move Move)

// Resident is a live allocation as seen by the compactor
type Resident struct {
	PID    int
	Offset int
	Size   int
}

// Residents is the set of allocations a Compactor is able to relocate. Slots are visited in
// ascending order, and that order decides where each resident lands.
type Residents interface {
	// SlotCount is the number of slots to visit
	SlotCount() int
	// Resident returns the allocation held in the slot, and false if the slot holds no resident
	// allocation
	Resident(slot int) (Resident, bool)
	// Relocate moves the resident in slot to a new offset
	Relocate(slot int, offset int)
}
