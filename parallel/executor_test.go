package parallel_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcobambini/TileDB/config"
	"github.com/marcobambini/TileDB/parallel"
)

func TestErrgroupExecutor_ForEachVisitsEveryIndex(t *testing.T) {
	ex := parallel.New(config.ExecutorConfig{MaxConcurrency: 4})

	var mu sync.Mutex
	var seen []int
	err := ex.ForEach(context.Background(), 0, 10, func(ctx context.Context, i int) error {
		mu.Lock()
		seen = append(seen, i)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	sort.Ints(seen)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, seen)
}

func TestErrgroupExecutor_ForEachEmptyRangeIsNoop(t *testing.T) {
	ex := parallel.New(config.ExecutorConfig{})
	called := false
	err := ex.ForEach(context.Background(), 5, 5, func(ctx context.Context, i int) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.False(t, called)
}

func TestErrgroupExecutor_ForEachPropagatesFirstError(t *testing.T) {
	ex := parallel.New(config.ExecutorConfig{MaxConcurrency: 2})
	sentinel := errors.New("boom")

	err := ex.ForEach(context.Background(), 0, 20, func(ctx context.Context, i int) error {
		if i == 7 {
			return sentinel
		}
		return nil
	})
	require.ErrorIs(t, err, sentinel)
}

func TestErrgroupExecutor_ForEach2DVisitsFullGrid(t *testing.T) {
	ex := parallel.New(config.ExecutorConfig{})

	var mu sync.Mutex
	count := 0
	err := ex.ForEach2D(context.Background(), 0, 3, 0, 4, func(ctx context.Context, i, j int) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 12, count)
}

func TestSerial_RunsInOrderAndStopsOnFirstError(t *testing.T) {
	ex := parallel.Serial()
	var seen []int
	sentinel := errors.New("stop")

	err := ex.ForEach(context.Background(), 0, 5, func(ctx context.Context, i int) error {
		seen = append(seen, i)
		if i == 2 {
			return sentinel
		}
		return nil
	})
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, []int{0, 1, 2}, seen)
}

func TestSerial_ForEach2DDeterministicOrder(t *testing.T) {
	ex := parallel.Serial()
	var seen [][2]int
	err := ex.ForEach2D(context.Background(), 0, 2, 0, 2, func(ctx context.Context, i, j int) error {
		seen = append(seen, [2]int{i, j})
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, seen)
}
