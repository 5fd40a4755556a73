package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint | ~int64 | ~uint64 | ~uint32
}

// CheckPositive returns an error wrapping ErrInvalidSize if number is zero or negative
func CheckPositive[T Number](number T, name string) error {
	if number <= 0 {
		return cerrors.Wrapf(ErrInvalidSize, "%s is %d", name, number)
	}
	return nil
}

// Overlaps reports whether the half-open ranges [leftOffset, leftOffset+leftSize) and
// [rightOffset, rightOffset+rightSize) share at least one unit
func Overlaps(leftOffset, leftSize, rightOffset, rightSize int) bool {
	return leftOffset < rightOffset+rightSize && rightOffset < leftOffset+leftSize
}
