package memutils

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCheckPositive(t *testing.T) {
	require.NoError(t, CheckPositive(1, "size"))
	require.NoError(t, CheckPositive(uint64(7), "duration"))

	err := CheckPositive(0, "size")
	require.ErrorIs(t, err, ErrInvalidSize)
	require.Equal(t, "size is 0: "+ErrInvalidSize.Error(), err.Error())

	require.True(t, errors.Is(CheckPositive(-4, "size"), ErrInvalidSize))
}

func TestOverlaps(t *testing.T) {
	testCases := []struct {
		name                   string
		leftOffset, leftSize   int
		rightOffset, rightSize int
		overlaps               bool
	}{
		{name: "Disjoint", leftOffset: 0, leftSize: 10, rightOffset: 20, rightSize: 5},
		{name: "Adjacent", leftOffset: 0, leftSize: 10, rightOffset: 10, rightSize: 5},
		{name: "AdjacentReversed", leftOffset: 10, leftSize: 5, rightOffset: 0, rightSize: 10},
		{name: "Partial", leftOffset: 0, leftSize: 11, rightOffset: 10, rightSize: 5, overlaps: true},
		{name: "Contained", leftOffset: 0, leftSize: 100, rightOffset: 40, rightSize: 5, overlaps: true},
		{name: "Identical", leftOffset: 3, leftSize: 4, rightOffset: 3, rightSize: 4, overlaps: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.overlaps, Overlaps(testCase.leftOffset, testCase.leftSize, testCase.rightOffset, testCase.rightSize))
		})
	}
}
