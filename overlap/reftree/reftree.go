// Package reftree is a reference R-tree collaborator (C10): a concrete,
// in-memory implementation of overlap.RTree and overlap.FragmentMeta backed
// by github.com/google/btree, used by tests and the demo CLI to exercise
// the tile-overlap engine and estimator end-to-end since the real on-disk
// R-tree is out of scope (§1) but something must satisfy the collaborator
// interface for those components to run at all. Grounded on the teacher's
// use of google/btree to keep tile/fragment metadata ordered (view.go,
// holder.go).
package reftree

import (
	"sort"

	"github.com/google/btree"

	"github.com/marcobambini/TileDB/arrerr"
	"github.com/marcobambini/TileDB/domain"
	"github.com/marcobambini/TileDB/overlap"
)

// Tile is one tile's id and minimum bounding rectangle.
type Tile[T domain.Number] struct {
	ID  uint64
	MBR []domain.Range[T]
}

func less[T domain.Number](a, b Tile[T]) bool { return a.ID < b.ID }

// Tree is an R-tree-ish index over a fragment's tile MBRs, ordered by tile
// id so that fully-covered runs of consecutive ids can be merged into a
// TileIDRange cheaply.
type Tree[T domain.Number] struct {
	tiles *btree.BTreeG[Tile[T]]
}

// NewTree builds a Tree over tiles. Tile ids need not be contiguous or
// presented in order.
func NewTree[T domain.Number](tiles []Tile[T]) *Tree[T] {
	bt := btree.NewG(32, less[T])
	for _, t := range tiles {
		bt.ReplaceOrInsert(t)
	}
	return &Tree[T]{tiles: bt}
}

// GetTileOverlap implements overlap.RTree: it walks every tile in id order,
// classifies each as disjoint / partially / fully overlapping rect, and
// merges consecutive fully-covered ids into TileIDRange intervals.
func (t *Tree[T]) GetTileOverlap(rect []domain.Range[T]) (overlap.TileOverlap, error) {
	if t.tiles.Len() == 0 {
		return overlap.TileOverlap{}, nil
	}

	var fullIDs []uint64
	var partials []overlap.TilePartial

	var iterErr error
	t.tiles.Ascend(func(tile Tile[T]) bool {
		if len(tile.MBR) != len(rect) {
			iterErr = arrerr.Newf(arrerr.Internal, "tile %d has %d dims, rect has %d", tile.ID, len(tile.MBR), len(rect))
			return false
		}
		kind, ratio := classify(tile.MBR, rect)
		switch kind {
		case disjoint:
		case full:
			fullIDs = append(fullIDs, tile.ID)
		case partial:
			partials = append(partials, overlap.TilePartial{TileID: tile.ID, Ratio: ratio})
		}
		return true
	})
	if iterErr != nil {
		return overlap.TileOverlap{}, iterErr
	}

	sort.Slice(fullIDs, func(i, j int) bool { return fullIDs[i] < fullIDs[j] })
	return overlap.TileOverlap{TileRanges: mergeRuns(fullIDs), Tiles: partials}, nil
}

type overlapKind int

const (
	disjoint overlapKind = iota
	partial
	full
)

// classify compares a tile's MBR against the query rectangle. full means the
// tile's MBR lies entirely within rect; partial returns the fraction of the
// tile's hyper-volume that intersects rect.
func classify[T domain.Number](mbr, rect []domain.Range[T]) (overlapKind, float64) {
	intersectVol := 1.0
	mbrVol := 1.0
	contained := true

	for i := range mbr {
		lo, hi := mbr[i].Lo, mbr[i].Hi
		rlo, rhi := rect[i].Lo, rect[i].Hi

		if hi < rlo || lo > rhi {
			return disjoint, 0
		}
		if lo < rlo || hi > rhi {
			contained = false
		}

		ilo, ihi := lo, hi
		if rlo > ilo {
			ilo = rlo
		}
		if rhi < ihi {
			ihi = rhi
		}

		mbrVol *= axisExtent(lo, hi)
		intersectVol *= axisExtent(ilo, ihi)
	}

	if contained {
		return full, 1.0
	}
	if mbrVol == 0 {
		return partial, 0
	}
	return partial, intersectVol / mbrVol
}

func axisExtent[T domain.Number](lo, hi T) float64 {
	ext := float64(hi) - float64(lo) + 1
	if ext < 1 {
		ext = 1
	}
	return ext
}

// mergeRuns turns a sorted slice of tile ids into minimal contiguous
// TileIDRange intervals.
func mergeRuns(ids []uint64) []overlap.TileIDRange {
	if len(ids) == 0 {
		return nil
	}
	var out []overlap.TileIDRange
	start := ids[0]
	prev := ids[0]
	for _, id := range ids[1:] {
		if id == prev+1 {
			prev = id
			continue
		}
		out = append(out, overlap.TileIDRange{A: start, B: prev})
		start, prev = id, id
	}
	out = append(out, overlap.TileIDRange{A: start, B: prev})
	return out
}
