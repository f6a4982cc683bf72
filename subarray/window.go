package subarray

import (
	"github.com/marcobambini/TileDB/arrerr"
	"github.com/marcobambini/TileDB/dimension"
	"github.com/marcobambini/TileDB/domain"
	"github.com/marcobambini/TileDB/overlap"
)

// Window is a sub-subarray produced by GetSubarray: the axis-wise bounding
// box of the linear range window [start, end], plus whatever tile_overlap
// entries from that window were already computed on the parent. The
// bounding box collapses the window to one range per dimension (so
// Window.RangeNum() == 1), but the window may have spanned several original
// range indices; WindowOverlap indexes the carried-over entries by their
// offset from start, not by the collapsed subarray's own (always-zero)
// range_idx — callers that need per-original-range overlap inside a window
// use WindowOverlap directly rather than Window.TileOverlap.
type Window[T domain.Number] struct {
	*Subarray[T]
	start, end     uint64
	windowOverlap  [][]overlap.TileOverlap // [fragment][start..end offset]
}

// WindowOverlap returns the tile_overlap entry carried over for fragment f
// at the given offset from the window's start, if the parent had
// overlap_ready set when GetSubarray was called.
func (w *Window[T]) WindowOverlap(fragment int, offset uint64) (overlap.TileOverlap, bool) {
	if w.windowOverlap == nil || fragment < 0 || fragment >= len(w.windowOverlap) {
		return overlap.TileOverlap{}, false
	}
	row := w.windowOverlap[fragment]
	if offset >= uint64(len(row)) {
		return overlap.TileOverlap{}, false
	}
	return row[offset], true
}

// Bounds returns the [start, end] linear range window this Window was built
// from.
func (w *Window[T]) Bounds() (uint64, uint64) { return w.start, w.end }

// GetSubarray returns a new Window restricted to the linear range window
// [start, end], per §4.2: the new per-dim range is the axis-wise bounding
// box of the start and end coordinates' selected ranges, and the matching
// slice of each fragment's tile_overlap for range indices in [start, end]
// is copied over if the parent has overlap_ready set. range_offsets on the
// returned Window is recomputed for its single-range-per-dim shape.
func (sa *Subarray[T]) GetSubarray(start, end uint64) (*Window[T], error) {
	if end < start {
		return nil, arrerr.Newf(arrerr.Internal, "get_subarray: end %d < start %d", end, start)
	}
	startRanges, err := sa.RangesAt(start)
	if err != nil {
		return nil, err
	}
	endRanges, err := sa.RangesAt(end)
	if err != nil {
		return nil, err
	}

	sa.mu.RLock()
	defer sa.mu.RUnlock()

	dims := make([]*dimension.RangeList[T], len(sa.dims))
	for i := range sa.dims {
		box := domain.BoundingBox(startRanges[i], endRanges[i])
		dims[i] = dimension.New(sa.dims[i].Bound())
		if err := dims[i].Add(box, false); err != nil {
			return nil, err
		}
	}

	inner := &Subarray[T]{
		schema: sa.schema,
		layout: sa.layout,
		dims:   dims,
	}
	inner.recomputeOffsetsLocked()

	w := &Window[T]{Subarray: inner, start: start, end: end}
	if sa.overlapReady {
		w.windowOverlap = make([][]overlap.TileOverlap, len(sa.tileOverlap))
		for f, row := range sa.tileOverlap {
			w.windowOverlap[f] = append([]overlap.TileOverlap(nil), row[start:end+1]...)
		}
	}
	return w, nil
}
