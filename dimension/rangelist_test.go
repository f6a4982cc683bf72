package dimension_test

import (
	"testing"

	"github.com/marcobambini/TileDB/arrerr"
	"github.com/marcobambini/TileDB/dimension"
	"github.com/marcobambini/TileDB/domain"
	"github.com/stretchr/testify/require"
)

func TestRangeList_DefaultRange(t *testing.T) {
	bound := domain.Range[int32]{Lo: 1, Hi: 4}
	rl := dimension.New(bound)

	require.Equal(t, 1, rl.RangeNum())
	r, err := rl.Get(0)
	require.NoError(t, err)
	require.Equal(t, bound, r)
	require.True(t, rl.IsDefault(0))
}

func TestRangeList_AddDiscardsDefault(t *testing.T) {
	bound := domain.Range[int32]{Lo: 1, Hi: 4}
	rl := dimension.New(bound)

	require.NoError(t, rl.Add(domain.Range[int32]{Lo: 2, Hi: 3}, false))
	require.Equal(t, 1, rl.RangeNum())
	r, err := rl.Get(0)
	require.NoError(t, err)
	require.Equal(t, domain.Range[int32]{Lo: 2, Hi: 3}, r)
	require.False(t, rl.IsDefault(0))

	require.NoError(t, rl.Add(domain.Range[int32]{Lo: 1, Hi: 1}, false))
	require.Equal(t, 2, rl.RangeNum())
}

func TestRangeList_AddInvalid(t *testing.T) {
	bound := domain.Range[int32]{Lo: 1, Hi: 4}
	rl := dimension.New(bound)

	err := rl.Add(domain.Range[int32]{Lo: 3, Hi: 2}, false)
	require.Error(t, err)
	require.True(t, arrerr.Is(err, arrerr.InvalidRange))

	err = rl.Add(domain.Range[int32]{Lo: 0, Hi: 2}, false)
	require.Error(t, err)
	require.True(t, arrerr.Is(err, arrerr.InvalidRange))
}

func TestRangeList_FloatNaN(t *testing.T) {
	bound := domain.Range[float64]{Lo: 0, Hi: 10}
	rl := dimension.New(bound)
	nan := float64(0)
	nan = nan / nan

	err := rl.Add(domain.Range[float64]{Lo: nan, Hi: 5}, false)
	require.Error(t, err)
	require.True(t, arrerr.Is(err, arrerr.InvalidRange))
}

func TestRangeList_Clone(t *testing.T) {
	bound := domain.Range[int32]{Lo: 1, Hi: 4}
	rl := dimension.New(bound)
	require.NoError(t, rl.Add(domain.Range[int32]{Lo: 2, Hi: 3}, false))

	clone := rl.Clone()
	require.NoError(t, clone.Add(domain.Range[int32]{Lo: 1, Hi: 1}, false))

	require.Equal(t, 1, rl.RangeNum())
	require.Equal(t, 2, clone.RangeNum())
}
