package reftree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcobambini/TileDB/domain"
	"github.com/marcobambini/TileDB/overlap/reftree"
)

func rect(lo, hi []int32) []domain.Range[int32] {
	rs := make([]domain.Range[int32], len(lo))
	for i := range lo {
		rs[i] = domain.Range[int32]{Lo: lo[i], Hi: hi[i]}
	}
	return rs
}

func TestTree_FullOverlapAmongDisjointTiles(t *testing.T) {
	tiles := []reftree.Tile[int32]{
		{ID: 0, MBR: rect([]int32{1, 1}, []int32{2, 2})},
		{ID: 1, MBR: rect([]int32{1, 3}, []int32{2, 4})},
		{ID: 2, MBR: rect([]int32{3, 1}, []int32{4, 2})},
	}
	tree := reftree.NewTree(tiles)

	ov, err := tree.GetTileOverlap(rect([]int32{1, 1}, []int32{2, 2}))
	require.NoError(t, err)
	require.Len(t, ov.TileRanges, 1)
	require.Equal(t, uint64(0), ov.TileRanges[0].A)
	require.Equal(t, uint64(0), ov.TileRanges[0].B)
	require.Empty(t, ov.Tiles)
}

func TestTree_MergesContiguousFullyCoveredIDs(t *testing.T) {
	tiles := []reftree.Tile[int32]{
		{ID: 0, MBR: rect([]int32{1, 1}, []int32{1, 1})},
		{ID: 1, MBR: rect([]int32{1, 2}, []int32{1, 2})},
		{ID: 2, MBR: rect([]int32{1, 3}, []int32{1, 3})},
	}
	tree := reftree.NewTree(tiles)

	ov, err := tree.GetTileOverlap(rect([]int32{1, 1}, []int32{1, 3}))
	require.NoError(t, err)
	require.Len(t, ov.TileRanges, 1)
	require.Equal(t, uint64(0), ov.TileRanges[0].A)
	require.Equal(t, uint64(2), ov.TileRanges[0].B)
	require.Equal(t, uint64(3), ov.FullyCoveredTileCount())
}

func TestTree_DisjointTileIsExcluded(t *testing.T) {
	tiles := []reftree.Tile[int32]{
		{ID: 0, MBR: rect([]int32{1, 1}, []int32{1, 1})},
		{ID: 1, MBR: rect([]int32{10, 10}, []int32{10, 10})},
	}
	tree := reftree.NewTree(tiles)

	ov, err := tree.GetTileOverlap(rect([]int32{1, 1}, []int32{1, 1}))
	require.NoError(t, err)
	require.True(t, ov.FullyCoveredTileCount() == 1)
}

func TestTree_PartialOverlapRatio(t *testing.T) {
	tiles := []reftree.Tile[int32]{
		{ID: 0, MBR: rect([]int32{1, 1}, []int32{4, 4})},
	}
	tree := reftree.NewTree(tiles)

	ov, err := tree.GetTileOverlap(rect([]int32{1, 1}, []int32{2, 4}))
	require.NoError(t, err)
	require.Empty(t, ov.TileRanges)
	require.Len(t, ov.Tiles, 1)
	require.Equal(t, uint64(0), ov.Tiles[0].TileID)
	require.InDelta(t, 0.5, ov.Tiles[0].Ratio, 1e-9)
}

func TestTree_EmptyTreeYieldsEmptyOverlap(t *testing.T) {
	tree := reftree.NewTree[int32](nil)
	ov, err := tree.GetTileOverlap(rect([]int32{1, 1}, []int32{2, 2}))
	require.NoError(t, err)
	require.True(t, ov.IsEmpty())
}
