package subarray

import (
	"github.com/marcobambini/TileDB/domain"
)

// AnySubarray is the type-erased Subarray surface exposed to callers that
// only know an array's scalar Type at run time (e.g. request handlers
// decoding untyped bounds off the wire). It is the single dispatch point per
// public operation called for in §9: each method switches internally on the
// concrete *Subarray[T] it wraps, and the call into that subarray is
// monomorphic once dispatched.
type AnySubarray interface {
	DimNum() int
	Layout() domain.Layout
	Type() domain.Type
	AddRange(dim int, lo, hi domain.Scalar) error
	GetRange(dim, idx int) (domain.Scalar, domain.Scalar, error)
	RangeNum() uint64
	RangeNumDim(dim int) int
	IsUnary() bool
	CellNum(rangeIdx uint64) (uint64, error)
	Clone() AnySubarray
}

// anySubarray adapts a monomorphic *Subarray[T] to AnySubarray, converting
// domain.Scalar to/from T at the boundary.
type anySubarray[T domain.Number] struct {
	sa *Subarray[T]
}

// Wrap erases a *Subarray[T] into an AnySubarray.
func Wrap[T domain.Number](sa *Subarray[T]) AnySubarray {
	return &anySubarray[T]{sa: sa}
}

// Unwrap recovers the concrete *Subarray[T] from an AnySubarray, failing if
// it was not built over T.
func Unwrap[T domain.Number](a AnySubarray) (*Subarray[T], bool) {
	w, ok := a.(*anySubarray[T])
	if !ok {
		return nil, false
	}
	return w.sa, true
}

func (a *anySubarray[T]) DimNum() int          { return a.sa.DimNum() }
func (a *anySubarray[T]) Layout() domain.Layout { return a.sa.Layout() }
func (a *anySubarray[T]) Type() domain.Type    { return domain.TypeOf[T]() }

func (a *anySubarray[T]) AddRange(dim int, lo, hi domain.Scalar) error {
	loT, err := domain.As[T](lo)
	if err != nil {
		return err
	}
	hiT, err := domain.As[T](hi)
	if err != nil {
		return err
	}
	return a.sa.AddRange(dim, domain.Range[T]{Lo: loT, Hi: hiT})
}

func (a *anySubarray[T]) GetRange(dim, idx int) (domain.Scalar, domain.Scalar, error) {
	r, err := a.sa.GetRange(dim, idx)
	if err != nil {
		return domain.Scalar{}, domain.Scalar{}, err
	}
	return domain.Of(r.Lo), domain.Of(r.Hi), nil
}

func (a *anySubarray[T]) RangeNum() uint64         { return a.sa.RangeNum() }
func (a *anySubarray[T]) RangeNumDim(dim int) int  { return a.sa.RangeNumDim(dim) }
func (a *anySubarray[T]) IsUnary() bool            { return a.sa.IsUnary() }
func (a *anySubarray[T]) CellNum(idx uint64) (uint64, error) { return a.sa.CellNum(idx) }

func (a *anySubarray[T]) Clone() AnySubarray {
	return Wrap(a.sa.Clone())
}
