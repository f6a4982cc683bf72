package subarray_test

import (
	"testing"

	"github.com/marcobambini/TileDB/domain"
	"github.com/marcobambini/TileDB/subarray"
	"github.com/stretchr/testify/require"
)

func newSchema(t *testing.T) *domain.TypedSchema[int32] {
	t.Helper()
	s, err := domain.NewTypedSchema[int32](
		[]int32{1, 4, 1, 4},
		[]int32{2, 2},
		domain.RowMajor, domain.RowMajor, true,
		[]domain.Attribute{{Name: "a1", Type: domain.Int32, CellValNum: 1}},
	)
	require.NoError(t, err)
	return s
}

func TestSubarray_DefaultRange(t *testing.T) {
	sa, err := subarray.New(newSchema(t), domain.RowMajor)
	require.NoError(t, err)
	require.EqualValues(t, 1, sa.RangeNum())
}

func TestSubarray_RangeEnumerationBijection(t *testing.T) {
	sa, err := subarray.New(newSchema(t), domain.RowMajor)
	require.NoError(t, err)

	require.NoError(t, sa.AddRange(0, domain.Range[int32]{Lo: 1, Hi: 2}))
	require.NoError(t, sa.AddRange(0, domain.Range[int32]{Lo: 3, Hi: 4}))
	require.NoError(t, sa.AddRange(1, domain.Range[int32]{Lo: 1, Hi: 1}))
	require.NoError(t, sa.AddRange(1, domain.Range[int32]{Lo: 2, Hi: 3}))
	require.NoError(t, sa.AddRange(1, domain.Range[int32]{Lo: 4, Hi: 4}))

	n := sa.RangeNum()
	require.EqualValues(t, 2*3, n)

	seen := map[uint64]bool{}
	for idx := uint64(0); idx < n; idx++ {
		coords, err := sa.RangeCoords(idx)
		require.NoError(t, err)
		back, err := sa.RangeIdx(coords)
		require.NoError(t, err)
		require.Equal(t, idx, back)
		require.False(t, seen[back])
		seen[back] = true
	}
	require.Len(t, seen, int(n))
}

func TestSubarray_UnaryCellNum(t *testing.T) {
	sa, err := subarray.New(newSchema(t), domain.RowMajor)
	require.NoError(t, err)
	require.NoError(t, sa.AddRange(0, domain.Range[int32]{Lo: 2, Hi: 2}))
	require.NoError(t, sa.AddRange(1, domain.Range[int32]{Lo: 2, Hi: 2}))

	require.True(t, sa.IsUnary())
	n, err := sa.CellNum(0)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestSubarray_CellNumProduct(t *testing.T) {
	sa, err := subarray.New(newSchema(t), domain.RowMajor)
	require.NoError(t, err)
	require.NoError(t, sa.AddRange(0, domain.Range[int32]{Lo: 1, Hi: 2}))
	require.NoError(t, sa.AddRange(1, domain.Range[int32]{Lo: 1, Hi: 4}))

	n, err := sa.CellNum(0)
	require.NoError(t, err)
	require.EqualValues(t, 2*4, n)
}

func TestSubarray_AddRangeInvalidatesCaches(t *testing.T) {
	sa, err := subarray.New(newSchema(t), domain.RowMajor)
	require.NoError(t, err)
	sa.MarkEstReady(true)
	require.True(t, sa.EstReady())

	require.NoError(t, sa.AddRange(0, domain.Range[int32]{Lo: 1, Hi: 2}))
	require.False(t, sa.EstReady())
	require.False(t, sa.OverlapReady())
}

func TestSubarray_CloneIsIndependent(t *testing.T) {
	sa, err := subarray.New(newSchema(t), domain.RowMajor)
	require.NoError(t, err)
	require.NoError(t, sa.AddRange(0, domain.Range[int32]{Lo: 1, Hi: 2}))

	clone := sa.Clone()
	require.NoError(t, clone.AddRange(1, domain.Range[int32]{Lo: 1, Hi: 1}))
	require.NoError(t, clone.AddRange(1, domain.Range[int32]{Lo: 3, Hi: 4}))

	require.EqualValues(t, 1, sa.RangeNum())
	require.EqualValues(t, 2, clone.RangeNum())
	require.EqualValues(t, 1, sa.RangeNumDim(1))
	require.EqualValues(t, 2, clone.RangeNumDim(1))
}

func TestSubarray_GetSubarrayBoundingBox(t *testing.T) {
	sa, err := subarray.New(newSchema(t), domain.RowMajor)
	require.NoError(t, err)
	require.NoError(t, sa.AddRange(0, domain.Range[int32]{Lo: 1, Hi: 2}))
	require.NoError(t, sa.AddRange(1, domain.Range[int32]{Lo: 1, Hi: 3}))

	win, err := sa.GetSubarray(0, sa.RangeNum()-1)
	require.NoError(t, err)
	require.EqualValues(t, 1, win.RangeNum())

	r0, err := win.GetRange(0, 0)
	require.NoError(t, err)
	require.Equal(t, domain.Range[int32]{Lo: 1, Hi: 2}, r0)
	r1, err := win.GetRange(1, 0)
	require.NoError(t, err)
	require.Equal(t, domain.Range[int32]{Lo: 1, Hi: 3}, r1)
}

func TestSubarray_InvalidDimension(t *testing.T) {
	sa, err := subarray.New(newSchema(t), domain.RowMajor)
	require.NoError(t, err)
	err = sa.AddRange(5, domain.Range[int32]{Lo: 1, Hi: 1})
	require.Error(t, err)
}
