package domain

import (
	"math"

	"github.com/marcobambini/TileDB/arrerr"
)

// Range is a 1-D interval [Lo, Hi] on a dimension of scalar type T.
type Range[T Number] struct {
	Lo, Hi T
}

// IsPoint reports whether r is unary, i.e. Lo == Hi. This is the per-τ
// is_point replacement for the source's generic byte-level range_size
// comparison described in §9.
func (r Range[T]) IsPoint() bool { return r.Lo == r.Hi }

// Validate checks r against the dimension's domain bound, failing with
// InvalidRange on lo > hi, out-of-domain bounds, or (for float T) NaN.
func (r Range[T]) Validate(bound Range[T]) error {
	if isNaN(r.Lo) || isNaN(r.Hi) {
		return arrerr.New(arrerr.InvalidRange, "range bound is NaN")
	}
	if r.Lo > r.Hi {
		return arrerr.Newf(arrerr.InvalidRange, "lo (%v) > hi (%v)", r.Lo, r.Hi)
	}
	if r.Lo < bound.Lo || r.Hi > bound.Hi {
		return arrerr.Newf(arrerr.InvalidRange, "range [%v,%v] outside domain [%v,%v]", r.Lo, r.Hi, bound.Lo, bound.Hi)
	}
	return nil
}

func isNaN[T Number](v T) bool {
	switch x := any(v).(type) {
	case float32:
		return math.IsNaN(float64(x))
	case float64:
		return math.IsNaN(x)
	default:
		return false
	}
}

// BoundingBox returns the axis-wise smallest range containing both a and b,
// used by get_subarray to build the bounding box of start/end coordinates.
func BoundingBox[T Number](a, b Range[T]) Range[T] {
	lo, hi := a.Lo, a.Hi
	if b.Lo < lo {
		lo = b.Lo
	}
	if b.Hi > hi {
		hi = b.Hi
	}
	return Range[T]{Lo: lo, Hi: hi}
}
