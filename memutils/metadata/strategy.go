package metadata

import (
	"strings"

	"github.com/pkg/errors"
)

// AllocationStrategy selects which free region satisfies a new allocation when more than one is
// large enough
type AllocationStrategy uint32

const (
	// AllocationStrategyFirstFit selects the free region with the lowest offset that is large enough
	// for the allocation. This is the default strategy.
	AllocationStrategyFirstFit AllocationStrategy = iota
	// AllocationStrategyBestFit selects the smallest free region that is large enough for the allocation,
	// preferring the lowest offset among regions of equal size. This minimizes the size of the
	// remainder left behind by a split, possibly at the expense of scanning the whole free list.
	AllocationStrategyBestFit
)

var allocationStrategyMapping = map[AllocationStrategy]string{
	AllocationStrategyFirstFit: "FirstFit",
	AllocationStrategyBestFit:  "BestFit",
}

func (s AllocationStrategy) String() string {
	return allocationStrategyMapping[s]
}

// ParseAllocationStrategy maps a strategy name, as returned by String, back to its value. Matching is
// case-insensitive and an empty name selects AllocationStrategyFirstFit.
func ParseAllocationStrategy(name string) (AllocationStrategy, error) {
	if name == "" {
		return AllocationStrategyFirstFit, nil
	}

	for strategy, strategyName := range allocationStrategyMapping {
		if strings.EqualFold(strategyName, name) {
			return strategy, nil
		}
	}

	return AllocationStrategyFirstFit, errors.Errorf("unknown allocation strategy: %q", name)
}

func (s AllocationStrategy) MarshalText() ([]byte, error) {
	name, ok := allocationStrategyMapping[s]
	if !ok {
		return nil, errors.Errorf("unknown allocation strategy: %d", uint32(s))
	}
	return []byte(name), nil
}

func (s *AllocationStrategy) UnmarshalText(text []byte) error {
	strategy, err := ParseAllocationStrategy(string(text))
	if err != nil {
		return err
	}
	*s = strategy
	return nil
}
