package reftree

import (
	"github.com/marcobambini/TileDB/arrerr"
	"github.com/marcobambini/TileDB/domain"
	"github.com/marcobambini/TileDB/overlap"
)

// Fragment is a reference overlap.FragmentMeta[T] implementation: an
// in-memory table of per-attribute tile sizes plus the Tree indexing that
// fragment's tile MBRs, grounded on the teacher's fragment.go struct owning
// both its cache and its on-disk layout metadata.
type Fragment[T domain.Number] struct {
	tree      *Tree[T]
	fixedSize map[string]map[uint64]uint64
	varSize   map[string]map[uint64]uint64
}

// NewFragment builds a Fragment over tiles, with tileSize/tileVarSize
// looked up from the supplied per-attribute maps. A tile id missing from an
// attribute's map has size 0; an attribute missing from fixedSize makes
// TileSize fail with InvalidAttribute, while one missing from varSize has
// var size 0.
func NewFragment[T domain.Number](tiles []Tile[T], fixedSize, varSize map[string]map[uint64]uint64) *Fragment[T] {
	return &Fragment[T]{
		tree:      NewTree(tiles),
		fixedSize: fixedSize,
		varSize:   varSize,
	}
}

func (f *Fragment[T]) TileSize(attr string, tileID uint64) (uint64, error) {
	byTile, ok := f.fixedSize[attr]
	if !ok {
		return 0, arrerr.Newf(arrerr.InvalidAttribute, "fragment has no tile sizes for attribute %q", attr)
	}
	return byTile[tileID], nil
}

func (f *Fragment[T]) TileVarSize(attr string, tileID uint64) (uint64, error) {
	byTile, ok := f.varSize[attr]
	if !ok {
		return 0, nil
	}
	return byTile[tileID], nil
}

func (f *Fragment[T]) RTree() overlap.RTree[T] {
	return f.tree
}
