// Package subarray implements the Subarray abstraction (C3): the Cartesian
// product of per-dimension range lists, layout-aware linear indexing, and
// the tile-overlap / estimated-size bookkeeping that hangs off it, grounded
// on the teacher's fragment.go style of a single mutex-guarded struct owning
// its derived caches.
package subarray

import (
	"sync"

	"github.com/marcobambini/TileDB/arrerr"
	"github.com/marcobambini/TileDB/dimension"
	"github.com/marcobambini/TileDB/domain"
	"github.com/marcobambini/TileDB/overlap"
	"github.com/marcobambini/TileDB/safemath"
)

// Subarray is the Cartesian product of per-dimension range lists over an
// array of scalar coordinate type T, plus layout-aware indexing and the
// tile-overlap cache the read-query engine drives.
type Subarray[T domain.Number] struct {
	mu sync.RWMutex

	schema *domain.TypedSchema[T]
	layout domain.Layout

	dims []*dimension.RangeList[T]

	rangeNumDim  []uint64
	rangeOffsets []uint64

	overlapReady bool
	tileOverlap  [][]overlap.TileOverlap // [fragment][range_idx]

	estReady bool
}

// New constructs a Subarray over schema with the given read layout. One
// default range (the full dimension domain) is seeded per dimension, per
// §4.2.
func New[T domain.Number](schema *domain.TypedSchema[T], layout domain.Layout) (*Subarray[T], error) {
	dimNum := schema.DimNum()
	dims := make([]*dimension.RangeList[T], dimNum)
	for i := 0; i < dimNum; i++ {
		bound, err := schema.DomainBound(i)
		if err != nil {
			return nil, err
		}
		dims[i] = dimension.New(bound)
	}
	sa := &Subarray[T]{
		schema: schema,
		layout: layout,
		dims:   dims,
	}
	sa.recomputeOffsetsLocked()
	return sa, nil
}

// Schema returns the array schema this subarray is built over.
func (sa *Subarray[T]) Schema() *domain.TypedSchema[T] { return sa.schema }

// Layout returns the read layout.
func (sa *Subarray[T]) Layout() domain.Layout { return sa.layout }

// SetLayout changes the read layout, recomputing range_offsets accordingly.
// Used by Query.SetLayout (§6) to let a caller override the layout a
// subarray was constructed with.
func (sa *Subarray[T]) SetLayout(l domain.Layout) {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	sa.layout = l
	sa.recomputeOffsetsLocked()
}

// DimNum returns the number of dimensions.
func (sa *Subarray[T]) DimNum() int { return len(sa.dims) }

// AddRange adds range r on dimension dim. This invalidates overlap_ready and
// est_size_ready, per §4.2.
func (sa *Subarray[T]) AddRange(dim int, r domain.Range[T]) error {
	sa.mu.Lock()
	defer sa.mu.Unlock()

	if dim < 0 || dim >= len(sa.dims) {
		return arrerr.Newf(arrerr.InvalidDimension, "dim_idx %d >= dim_num %d", dim, len(sa.dims))
	}
	if err := sa.dims[dim].Add(r, false); err != nil {
		return err
	}
	sa.invalidateLocked()
	sa.recomputeOffsetsLocked()
	return nil
}

// GetRange returns the idx-th range on dimension dim.
func (sa *Subarray[T]) GetRange(dim, idx int) (domain.Range[T], error) {
	sa.mu.RLock()
	defer sa.mu.RUnlock()

	if dim < 0 || dim >= len(sa.dims) {
		return domain.Range[T]{}, arrerr.Newf(arrerr.InvalidDimension, "dim_idx %d >= dim_num %d", dim, len(sa.dims))
	}
	return sa.dims[dim].Get(idx)
}

// RangeNumDim returns the number of ranges on dimension dim.
func (sa *Subarray[T]) RangeNumDim(dim int) int {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	if dim < 0 || dim >= len(sa.dims) {
		return 0
	}
	return sa.dims[dim].RangeNum()
}

// RangeNum returns the total number of ranges, the product of the per-dim
// range counts.
func (sa *Subarray[T]) RangeNum() uint64 {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	return sa.rangeNumLocked()
}

func (sa *Subarray[T]) rangeNumLocked() uint64 {
	total := uint64(1)
	for _, d := range sa.dims {
		total = safemath.MulU64Saturating(total, uint64(d.RangeNum()))
	}
	return total
}

func (sa *Subarray[T]) invalidateLocked() {
	sa.overlapReady = false
	sa.tileOverlap = nil
	sa.estReady = false
}

func (sa *Subarray[T]) recomputeOffsetsLocked() {
	dimNum := len(sa.dims)
	rangeNumDim := make([]uint64, dimNum)
	for i, d := range sa.dims {
		rangeNumDim[i] = uint64(d.RangeNum())
	}
	sa.rangeNumDim = rangeNumDim
	sa.rangeOffsets = computeOffsets(rangeNumDim, sa.effectiveLayoutLocked())
}

func (sa *Subarray[T]) effectiveLayoutLocked() domain.Layout {
	return domain.EffectiveOffsetLayout(sa.layout, sa.schema.CellOrder())
}

// computeOffsets builds the mixed-radix offsets used to convert between a
// linear range_idx and per-dimension coordinates, per §4.2: row-major
// computes offsets right-to-left with offsets[dimNum-1] = 1; col-major is
// the symmetric left-to-right construction.
func computeOffsets(rangeNumDim []uint64, layout domain.Layout) []uint64 {
	n := len(rangeNumDim)
	offsets := make([]uint64, n)
	if n == 0 {
		return offsets
	}
	if layout == domain.ColMajor {
		offsets[0] = 1
		for i := 1; i < n; i++ {
			offsets[i] = offsets[i-1] * rangeNumDim[i-1]
		}
		return offsets
	}
	offsets[n-1] = 1
	for i := n - 1; i >= 1; i-- {
		offsets[i-1] = offsets[i] * rangeNumDim[i]
	}
	return offsets
}

// RangeOffsets returns the current mixed-radix offsets, mainly for testing
// invariant 1 in §8.
func (sa *Subarray[T]) RangeOffsets() []uint64 {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	return append([]uint64(nil), sa.rangeOffsets...)
}

// RangeCoords decomposes a linear range_idx into per-dimension range
// indices, the inverse of RangeIdx. §8 invariant 2 requires this to be a
// bijection onto [0, range_num).
func (sa *Subarray[T]) RangeCoords(idx uint64) ([]int, error) {
	sa.mu.RLock()
	defer sa.mu.RUnlock()

	rangeNum := sa.rangeNumLocked()
	if idx >= rangeNum {
		return nil, arrerr.Newf(arrerr.Internal, "range_idx %d out of bounds [0,%d)", idx, rangeNum)
	}
	coords := make([]int, len(sa.dims))
	for i := range sa.dims {
		coords[i] = int((idx / sa.rangeOffsets[i]) % sa.rangeNumDim[i])
	}
	return coords, nil
}

// RangeIdx composes per-dimension range indices into a linear range_idx, the
// inverse of RangeCoords.
func (sa *Subarray[T]) RangeIdx(coords []int) (uint64, error) {
	sa.mu.RLock()
	defer sa.mu.RUnlock()

	if len(coords) != len(sa.dims) {
		return 0, arrerr.Newf(arrerr.Internal, "coords length %d != dim_num %d", len(coords), len(sa.dims))
	}
	var idx uint64
	for i, c := range coords {
		if c < 0 || uint64(c) >= sa.rangeNumDim[i] {
			return 0, arrerr.Newf(arrerr.Internal, "coord %d on dim %d out of bounds [0,%d)", c, i, sa.rangeNumDim[i])
		}
		idx += uint64(c) * sa.rangeOffsets[i]
	}
	return idx, nil
}

// RangesAt returns the per-dimension domain.Range selected by range_idx.
func (sa *Subarray[T]) RangesAt(idx uint64) ([]domain.Range[T], error) {
	coords, err := sa.RangeCoords(idx)
	if err != nil {
		return nil, err
	}
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	out := make([]domain.Range[T], len(sa.dims))
	for i, c := range coords {
		r, err := sa.dims[i].Get(c)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// AllRanges returns the per-dimension ranges for every range_idx in
// [0, RangeNum()), in range_idx order. Used to feed the tile-overlap engine
// and the estimator, which operate over the full rectangle set at once.
func (sa *Subarray[T]) AllRanges() ([][]domain.Range[T], error) {
	n := sa.RangeNum()
	out := make([][]domain.Range[T], n)
	for i := uint64(0); i < n; i++ {
		r, err := sa.RangesAt(i)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// IsUnary reports whether range_num == 1 and every dimension's single range
// is a point, per §3.
func (sa *Subarray[T]) IsUnary() bool {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	if sa.rangeNumLocked() != 1 {
		return false
	}
	for _, d := range sa.dims {
		r, err := d.Get(0)
		if err != nil || !r.IsPoint() {
			return false
		}
	}
	return true
}

// CellNum returns the number of cells covered by range_idx, per §4.2: a
// unary range always returns 1 regardless of τ; a non-unary range on a
// floating-point dimension is undefined and returns the overflow sentinel;
// otherwise it is the overflow-checked product of per-dimension
// (hi-lo+1) counts.
func (sa *Subarray[T]) CellNum(rangeIdx uint64) (uint64, error) {
	ranges, err := sa.RangesAt(rangeIdx)
	if err != nil {
		return 0, err
	}

	unary := true
	for _, r := range ranges {
		if !r.IsPoint() {
			unary = false
			break
		}
	}
	if unary {
		return 1, nil
	}

	if domain.TypeOf[T]().IsFloat() {
		return safemath.Sentinel, nil
	}

	total := uint64(1)
	for _, r := range ranges {
		cnt, ok := domain.CellCountDynamic(r.Lo, r.Hi)
		if !ok {
			return safemath.Sentinel, nil
		}
		total, ok = safemath.MulU64(total, cnt)
		if !ok {
			return safemath.Sentinel, nil
		}
	}
	return total, nil
}

// Clone returns a deep copy of sa: ranges and the overlap cache are copied by
// value; the schema reference is shared (non-owning), per §4.2/§9.
func (sa *Subarray[T]) Clone() *Subarray[T] {
	sa.mu.RLock()
	defer sa.mu.RUnlock()

	dims := make([]*dimension.RangeList[T], len(sa.dims))
	for i, d := range sa.dims {
		dims[i] = d.Clone()
	}
	var ov [][]overlap.TileOverlap
	if sa.tileOverlap != nil {
		ov = make([][]overlap.TileOverlap, len(sa.tileOverlap))
		for f, row := range sa.tileOverlap {
			ov[f] = append([]overlap.TileOverlap(nil), row...)
		}
	}
	return &Subarray[T]{
		schema:       sa.schema,
		layout:       sa.layout,
		dims:         dims,
		rangeNumDim:  append([]uint64(nil), sa.rangeNumDim...),
		rangeOffsets: append([]uint64(nil), sa.rangeOffsets...),
		overlapReady: sa.overlapReady,
		tileOverlap:  ov,
		estReady:     sa.estReady,
	}
}
