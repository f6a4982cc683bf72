// Package overlap implements the tile-overlap engine (C4): for each
// (fragment, subarray-range) pair, compute which tiles or tile-ranges
// intersect the range's hyper-rectangle, dispatched in parallel over the
// 2-D (fragment, range) index, grounded on the teacher's fragment.go R-tree
// lookups and the goroutine-dispatch-then-collect-error pattern in
// executor.go.
package overlap

import (
	"context"

	"github.com/marcobambini/TileDB/arrerr"
	"github.com/marcobambini/TileDB/domain"
	"github.com/marcobambini/TileDB/parallel"
)

// TileIDRange is a fully-covered contiguous tile-id interval [A, B].
type TileIDRange struct {
	A, B uint64
}

// TilePartial is a partially-covered tile and the fraction of it inside the
// query range.
type TilePartial struct {
	TileID uint64
	Ratio  float64
}

// TileOverlap is the per-fragment, per-subarray-range overlap result: a set
// of fully-covered tile-id intervals and a set of partially-covered tiles.
type TileOverlap struct {
	TileRanges []TileIDRange
	Tiles      []TilePartial
}

// IsEmpty reports whether the fragment has no overlap at all with the range.
func (o TileOverlap) IsEmpty() bool {
	return len(o.TileRanges) == 0 && len(o.Tiles) == 0
}

// FullyCoveredTileCount returns the number of tiles covered by TileRanges
// (not counting partials), used by the estimator to walk fully-covered
// intervals without materializing every tile id.
func (o TileOverlap) FullyCoveredTileCount() uint64 {
	var n uint64
	for _, tr := range o.TileRanges {
		n += tr.B - tr.A + 1
	}
	return n
}

// FragmentMeta is the fragment-metadata collaborator interface consumed by
// the tile-overlap engine and the result-size estimator (§6): per-attribute,
// per-tile sizes, and an R-tree over tile MBRs.
type FragmentMeta[T domain.Number] interface {
	TileSize(attr string, tileID uint64) (uint64, error)
	TileVarSize(attr string, tileID uint64) (uint64, error)
	RTree() RTree[T]
}

// RTree is the R-tree collaborator interface (§6): given the axis-aligned
// hyper-rectangle of a subarray range, return the TileOverlap against this
// R-tree's tile MBRs.
type RTree[T domain.Number] interface {
	GetTileOverlap(rect []domain.Range[T]) (TileOverlap, error)
}

// Compute runs the tile-overlap computation for every (fragment, range)
// pair in the 2-D grid [0,len(fragments)) x [0,len(rects)), dispatched via
// ex.ForEach2D. Results are keyed by (f, r) so parallel writes are disjoint
// and no ordering between tasks is guaranteed, per §4.3. Any RTree failure
// surfaces as arrerr.TileOverlapError; the whole computation is idempotent
// and safe to retry after a failure, since each cell is written independent
// of every other.
func Compute[T domain.Number](ctx context.Context, ex parallel.Executor, fragments []FragmentMeta[T], rects [][]domain.Range[T]) ([][]TileOverlap, error) {
	result := make([][]TileOverlap, len(fragments))
	for f := range result {
		result[f] = make([]TileOverlap, len(rects))
	}

	err := ex.ForEach2D(ctx, 0, len(fragments), 0, len(rects), func(_ context.Context, f, r int) error {
		ov, err := fragments[f].RTree().GetTileOverlap(rects[r])
		if err != nil {
			return arrerr.Wrapf(arrerr.New(arrerr.TileOverlapError, err.Error()), "fragment %d range %d", f, r)
		}
		result[f][r] = ov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
