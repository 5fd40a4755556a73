package defrag

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/memsim/memutils/metadata"
	"golang.org/x/exp/slices"
)

type plannedMove struct {
	slot int
	move Move
}

// Compactor slides every resident allocation toward offset 0, in slot order, and replaces the free
// list with a single free region covering the rest of the pool. Relocation is logical: only
// offsets change.
type Compactor struct {
	// Handler is an optional method that will be called for each relocation
	Handler MoveHandler

	planned []plannedMove
	moves   []Move
}

// Compact runs a compaction over the provided residents and free-list metadata. It returns false
// without changing anything if the metadata has at most one free region. The residents and the
// metadata must describe the same pool: an error is returned, and nothing is changed, if the
// residents and the free regions do not add up to the pool size.
func (c *Compactor) Compact(residents Residents, md metadata.BlockMetadata) (Stats, bool, error) {
	var stats Stats

	c.moves = c.moves[:0]

	if md.FreeRegionsCount() <= 1 {
		stats.Skipped++
		return stats, false, nil
	}

	c.planned = c.planned[:0]
	nextFreeOffset := 0

	for slot := 0; slot < residents.SlotCount(); slot++ {
		resident, ok := residents.Resident(slot)
		if !ok {
			continue
		}

		if resident.Offset != nextFreeOffset {
			c.planned = append(c.planned, plannedMove{
				slot: slot,
				move: Move{
					PID:       resident.PID,
					Size:      resident.Size,
					SrcOffset: resident.Offset,
					DstOffset: nextFreeOffset,
				},
			})
		}

		nextFreeOffset += resident.Size
	}

	if nextFreeOffset+md.SumFreeSize() != md.Size() {
		return stats, false, errors.Newf("resident allocations total %d units and %d units are free, but the pool holds %d units", nextFreeOffset, md.SumFreeSize(), md.Size())
	}

	for _, planned := range c.planned {
		residents.Relocate(planned.slot, planned.move.DstOffset)
		stats.BytesMoved += planned.move.Size
		stats.AllocationsMoved++
		c.moves = append(c.moves, planned.move)
	}

	err := md.Consolidate(nextFreeOffset)
	if err != nil {
		// Offsets were checked against the pool size above
		panic(errors.Wrap(err, "unexpected error when consolidating free regions"))
	}

	stats.Runs++

	if c.Handler != nil {
		for _, move := range c.moves {
			c.Handler(move)
		}
	}

	return stats, true, nil
}

// Moves returns a copy of the relocations performed by the most recent call to Compact
func (c *Compactor) Moves() []Move {
	return slices.Clone(c.moves)
}
