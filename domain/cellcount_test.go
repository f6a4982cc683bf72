package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcobambini/TileDB/domain"
	"github.com/marcobambini/TileDB/safemath"
)

func TestCellCount_NormalRange(t *testing.T) {
	n, ok := domain.CellCount[int32](1, 4)
	require.True(t, ok)
	require.Equal(t, uint64(4), n)
}

func TestCellCount_UnaryRangeIsOne(t *testing.T) {
	n, ok := domain.CellCount[int32](7, 7)
	require.True(t, ok)
	require.Equal(t, uint64(1), n)
}

func TestCellCountDynamic_MatchesCellCountForSameKind(t *testing.T) {
	n, ok := domain.CellCountDynamic(int32(1), int32(4))
	require.True(t, ok)
	require.Equal(t, uint64(4), n)
}

func TestCellCountDynamic_SignedFullRangeSaturates(t *testing.T) {
	// hi-lo+1 over the full int64 domain overflows int64 arithmetic; the
	// saturating path must report failure and the sentinel, never wrap.
	n, ok := domain.CellCountDynamic(int64(math.MinInt64), int64(math.MaxInt64))
	require.False(t, ok)
	require.Equal(t, safemath.Sentinel, n)
}

func TestCellCountDynamic_UnsignedFullRangeSaturates(t *testing.T) {
	n, ok := domain.CellCountDynamic(uint64(0), uint64(math.MaxUint64))
	require.False(t, ok)
	require.Equal(t, safemath.Sentinel, n)
}

func TestCellCountDynamic_UnsignedNormalRange(t *testing.T) {
	n, ok := domain.CellCountDynamic(uint32(10), uint32(20))
	require.True(t, ok)
	require.Equal(t, uint64(11), n)
}
