package subarray

import (
	"context"

	"github.com/marcobambini/TileDB/arrerr"
	"github.com/marcobambini/TileDB/overlap"
	"github.com/marcobambini/TileDB/parallel"
)

// ComputeTileOverlap runs the tile-overlap engine (C4) over every
// (fragment, range_idx) pair, caching the result and setting overlap_ready,
// per §4.3. Safe to call again after a failure: a failed run clears the
// cache and overlap_ready, and a successful run replaces the whole cache, so
// the computation is idempotent.
func (sa *Subarray[T]) ComputeTileOverlap(ctx context.Context, ex parallel.Executor, fragments []overlap.FragmentMeta[T]) error {
	rects, err := sa.AllRanges()
	if err != nil {
		return err
	}

	result, err := overlap.Compute(ctx, ex, fragments, rects)
	if err != nil {
		sa.mu.Lock()
		sa.overlapReady = false
		sa.tileOverlap = nil
		sa.mu.Unlock()
		return err
	}

	sa.mu.Lock()
	sa.tileOverlap = result
	sa.overlapReady = true
	sa.mu.Unlock()
	return nil
}

// OverlapReady reports whether the tile-overlap cache is valid.
func (sa *Subarray[T]) OverlapReady() bool {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	return sa.overlapReady
}

// TileOverlap returns the cached overlap for (fragment, range_idx),
// requiring OverlapReady().
func (sa *Subarray[T]) TileOverlap(fragment int, rangeIdx uint64) (overlap.TileOverlap, error) {
	sa.mu.RLock()
	defer sa.mu.RUnlock()

	if !sa.overlapReady {
		return overlap.TileOverlap{}, arrerr.New(arrerr.Internal, "tile_overlap requested before overlap_ready")
	}
	if fragment < 0 || fragment >= len(sa.tileOverlap) {
		return overlap.TileOverlap{}, arrerr.Newf(arrerr.Internal, "fragment index %d out of bounds", fragment)
	}
	row := sa.tileOverlap[fragment]
	if rangeIdx >= uint64(len(row)) {
		return overlap.TileOverlap{}, arrerr.Newf(arrerr.Internal, "range_idx %d out of bounds", rangeIdx)
	}
	return row[rangeIdx], nil
}

// FragmentCount returns how many fragments the cached tile_overlap spans.
func (sa *Subarray[T]) FragmentCount() int {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	return len(sa.tileOverlap)
}

// EstReady reports whether the cached estimated result size is valid.
func (sa *Subarray[T]) EstReady() bool {
	sa.mu.RLock()
	defer sa.mu.RUnlock()
	return sa.estReady
}

// MarkEstReady is called by the estimator (C5) once it has populated its own
// external cache keyed by this subarray; kept here so AddRange's
// invalidation (§3: "adding a range clears both est_size_ready and
// overlap_ready") has a single flag to flip.
func (sa *Subarray[T]) MarkEstReady(ready bool) {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	sa.estReady = ready
}
