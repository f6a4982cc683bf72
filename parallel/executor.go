// Package parallel provides the shared-memory parallel-for capability the
// tile-overlap engine (C4) and result-size estimator (C5) dispatch onto,
// grounded on the teacher's goroutine-plus-channel, first-error-wins
// dispatch pattern in executor.go, reimplemented over errgroup.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/marcobambini/TileDB/config"
)

// Task is one unit of parallel-for work. It returns an error on failure; the
// dispatch returns the first non-nil error. The errgroup-backed Executor
// cancels the ctx handed to the other tasks but still starts and awaits
// every task, so no task is left dangling; Serial stops at the failing task.
type Task func(ctx context.Context, i int) error

// Task2D is one unit of 2-D parallel-for work.
type Task2D func(ctx context.Context, i, j int) error

// Executor is the capability interface consumed by C4/C5. Implementations
// must not let any one task block indefinitely on another.
type Executor interface {
	ForEach(ctx context.Context, lo, hi int, fn Task) error
	ForEach2D(ctx context.Context, lo1, hi1, lo2, hi2 int, fn Task2D) error
}

// errgroupExecutor is the default Executor, grounded on the teacher's
// dispatch-then-collect-first-error pattern but built on errgroup so that
// task cancellation propagates cooperatively via ctx.
type errgroupExecutor struct {
	maxConcurrency int
}

// New returns an Executor configured from cfg.
func New(cfg config.ExecutorConfig) Executor {
	return &errgroupExecutor{maxConcurrency: cfg.MaxConcurrency}
}

// ForEach runs fn(i) for i in [lo, hi), waits for all of them, and returns
// the first error encountered, if any.
func (e *errgroupExecutor) ForEach(ctx context.Context, lo, hi int, fn Task) error {
	if hi <= lo {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	if e.maxConcurrency > 0 {
		g.SetLimit(e.maxConcurrency)
	}
	for i := lo; i < hi; i++ {
		i := i
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// ForEach2D runs fn(i, j) for every (i, j) in the 2-D index space
// [lo1,hi1) x [lo2,hi2), the embarrassingly-parallel grid the tile-overlap
// engine dispatches (fragment, subarray-range) pairs onto.
func (e *errgroupExecutor) ForEach2D(ctx context.Context, lo1, hi1, lo2, hi2 int, fn Task2D) error {
	if hi1 <= lo1 || hi2 <= lo2 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	if e.maxConcurrency > 0 {
		g.SetLimit(e.maxConcurrency)
	}
	for i := lo1; i < hi1; i++ {
		for j := lo2; j < hi2; j++ {
			i, j := i, j
			g.Go(func() error {
				return fn(gctx, i, j)
			})
		}
	}
	return g.Wait()
}

// Serial is a deterministic, unparallelized Executor useful for tests that
// need to pin execution order, or environments without goroutine headroom.
func Serial() Executor { return serialExecutor{} }

type serialExecutor struct{}

func (serialExecutor) ForEach(ctx context.Context, lo, hi int, fn Task) error {
	for i := lo; i < hi; i++ {
		if err := fn(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

func (serialExecutor) ForEach2D(ctx context.Context, lo1, hi1, lo2, hi2 int, fn Task2D) error {
	for i := lo1; i < hi1; i++ {
		for j := lo2; j < hi2; j++ {
			if err := fn(ctx, i, j); err != nil {
				return err
			}
		}
	}
	return nil
}
