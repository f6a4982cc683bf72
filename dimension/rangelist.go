// Package dimension implements the per-dimension ordered range store (C2):
// an ordered sequence of (lo, hi) pairs with default-range insertion,
// grounded on the teacher's convention of a small, single-purpose store type
// per concern (e.g. fragment's bitmapCache) rather than a generic container.
package dimension

import (
	"github.com/marcobambini/TileDB/arrerr"
	"github.com/marcobambini/TileDB/domain"
)

// RangeList is the ordered sequence of 1-D ranges on one dimension of
// scalar type T. A freshly constructed RangeList holds exactly one default
// range spanning the full dimension domain.
type RangeList[T domain.Number] struct {
	bound   domain.Range[T]
	ranges  []domain.Range[T]
	isDef   []bool
}

// New returns a RangeList seeded with the single default range [bound.Lo,
// bound.Hi].
func New[T domain.Number](bound domain.Range[T]) *RangeList[T] {
	return &RangeList[T]{
		bound:  bound,
		ranges: []domain.Range[T]{bound},
		isDef:  []bool{true},
	}
}

// Add appends r. If the list currently consists of the single default
// range, appending a non-default range discards the default first, per
// §4.1.
func (rl *RangeList[T]) Add(r domain.Range[T], isDefault bool) error {
	if !isDefault {
		if err := r.Validate(rl.bound); err != nil {
			return err
		}
	}
	if !isDefault && len(rl.ranges) == 1 && rl.isDef[0] {
		rl.ranges = rl.ranges[:0]
		rl.isDef = rl.isDef[:0]
	}
	rl.ranges = append(rl.ranges, r)
	rl.isDef = append(rl.isDef, isDefault)
	return nil
}

// RangeNum returns the number of ranges currently stored.
func (rl *RangeList[T]) RangeNum() int { return len(rl.ranges) }

// Get returns the range at index i.
func (rl *RangeList[T]) Get(i int) (domain.Range[T], error) {
	if i < 0 || i >= len(rl.ranges) {
		return domain.Range[T]{}, arrerr.Newf(arrerr.Internal, "range index %d out of bounds [0,%d)", i, len(rl.ranges))
	}
	return rl.ranges[i], nil
}

// IsDefault reports whether the range at index i is the original default
// range (i.e. no explicit range has ever been added on this dimension).
func (rl *RangeList[T]) IsDefault(i int) bool {
	if i < 0 || i >= len(rl.isDef) {
		return false
	}
	return rl.isDef[i]
}

// RangeSizeBytes returns 2*sizeof(T), used for the generic byte-level
// range_size bookkeeping described in §4.1/§9.
func (rl *RangeList[T]) RangeSizeBytes() int {
	return domain.TypeOf[T]().RangeSize()
}

// Bound returns the dimension's full domain bound.
func (rl *RangeList[T]) Bound() domain.Range[T] { return rl.bound }

// Clone returns a deep copy of rl.
func (rl *RangeList[T]) Clone() *RangeList[T] {
	out := &RangeList[T]{
		bound:  rl.bound,
		ranges: append([]domain.Range[T](nil), rl.ranges...),
		isDef:  append([]bool(nil), rl.isDef...),
	}
	return out
}
