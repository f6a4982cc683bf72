package estimate

import (
	"context"
	"math"
	"sync"

	"github.com/marcobambini/TileDB/arrerr"
	"github.com/marcobambini/TileDB/config"
	"github.com/marcobambini/TileDB/domain"
	"github.com/marcobambini/TileDB/overlap"
	"github.com/marcobambini/TileDB/parallel"
	"github.com/marcobambini/TileDB/safemath"
	"github.com/marcobambini/TileDB/subarray"
)

// offsetEntrySize is sizeof(u64), the per-cell byte cost of an offsets-buffer
// entry, used for the var-attribute per-range ceiling in §4.4 step 4.
const offsetEntrySize = 8

// Estimator computes and holds the per-attribute ResultSize for one
// Subarray, gated by est_size_ready the way tile_overlap is gated by
// overlap_ready.
type Estimator[T domain.Number] struct {
	mu     sync.RWMutex
	totals map[string]ResultSize
}

// NewEstimator returns an empty Estimator (est_size_ready is false until
// Compute succeeds).
func NewEstimator[T domain.Number]() *Estimator[T] {
	return &Estimator[T]{totals: map[string]ResultSize{}}
}

// Compute runs the five-step estimation algorithm in §4.4 for every
// attribute in attrs (plus the synthetic "coords" attribute when the schema
// is sparse and coords is requested), requiring sa.OverlapReady(). Fails
// with DenseNotSupported against a dense array (estimation is sparse-only,
// per §4.4's listed failure modes).
func (e *Estimator[T]) Compute(ctx context.Context, ex parallel.Executor, sa *subarray.Subarray[T], fragments []overlap.FragmentMeta[T], attrs []domain.Attribute, policy config.EstimationPolicy) error {
	if sa.Schema().Dense() {
		return arrerr.New(arrerr.DenseNotSupported, "est_result_size is sparse-only")
	}
	if !sa.OverlapReady() {
		return arrerr.New(arrerr.Internal, "compute_est_result_size requires tile_overlap to be ready")
	}

	rangeNum := sa.RangeNum()
	newTotals := make(map[string]ResultSize, len(attrs))
	var totalsMu sync.Mutex

	for _, attr := range attrs {
		attr := attr
		var attrTotal ResultSize
		var attrMu sync.Mutex

		err := ex.ForEach(ctx, 0, int(rangeNum), func(ctx context.Context, i int) error {
			rangeIdx := uint64(i)
			rangeResult, err := e.computeRange(sa, fragments, attr, rangeIdx)
			if err != nil {
				return err
			}
			attrMu.Lock()
			attrTotal = attrTotal.add(rangeResult)
			attrMu.Unlock()
			return nil
		})
		if err != nil {
			return err
		}

		attrTotal.SizeFixed *= policy.Amplification
		attrTotal.SizeVar *= policy.Amplification

		totalsMu.Lock()
		newTotals[attr.Name] = attrTotal
		totalsMu.Unlock()
	}

	e.mu.Lock()
	e.totals = newTotals
	e.mu.Unlock()
	sa.MarkEstReady(true)
	return nil
}

// computeRange folds one range_idx's contribution across every fragment for
// attr, then clamps it against the per-range ceiling (step 4 of §4.4) before
// it is summed into the attribute's running total. Clamping per range,
// before the cross-range sum, means one pathological range's overlap cannot
// by itself inflate the whole-subarray estimate past what that range could
// possibly hold.
func (e *Estimator[T]) computeRange(sa *subarray.Subarray[T], fragments []overlap.FragmentMeta[T], attr domain.Attribute, rangeIdx uint64) (ResultSize, error) {
	var rs ResultSize

	for f := range fragments {
		ov, err := sa.TileOverlap(f, rangeIdx)
		if err != nil {
			return ResultSize{}, err
		}

		for _, tr := range ov.TileRanges {
			for t := tr.A; t <= tr.B; t++ {
				sz, err := fragments[f].TileSize(attr.Name, t)
				if err != nil {
					return ResultSize{}, err
				}
				rs.SizeFixed += float64(sz)
				rs.MemFixed += float64(sz)
				if attr.IsVar() {
					vsz, err := fragments[f].TileVarSize(attr.Name, t)
					if err != nil {
						return ResultSize{}, err
					}
					rs.SizeVar += float64(vsz)
					rs.MemVar += float64(vsz)
				}
			}
		}

		for _, tp := range ov.Tiles {
			sz, err := fragments[f].TileSize(attr.Name, tp.TileID)
			if err != nil {
				return ResultSize{}, err
			}
			rs.SizeFixed += float64(sz) * tp.Ratio
			rs.MemFixed += float64(sz)
			if attr.IsVar() {
				vsz, err := fragments[f].TileVarSize(attr.Name, tp.TileID)
				if err != nil {
					return ResultSize{}, err
				}
				rs.SizeVar += float64(vsz) * tp.Ratio
				rs.MemVar += float64(vsz)
			}
		}
	}

	n, err := sa.CellNum(rangeIdx)
	if err != nil {
		return ResultSize{}, err
	}

	var maxFixed uint64
	if attr.IsVar() {
		maxFixed = safemath.MulU64Saturating(n, offsetEntrySize)
	} else {
		cellSize, ok := attr.CellSize()
		if !ok {
			return ResultSize{}, arrerr.Newf(arrerr.Internal, "attribute %q has no fixed cell size", attr.Name)
		}
		maxFixed = safemath.MulU64Saturating(n, uint64(cellSize))
	}
	if rs.SizeFixed > float64(maxFixed) {
		rs.SizeFixed = float64(maxFixed)
	}
	// max_var remains UINT64_MAX per §4.4 step 4: size_var is never clamped here.
	return rs, nil
}

// Ready reports whether Compute has successfully populated the estimator.
func (e *Estimator[T]) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totals != nil && len(e.totals) > 0
}

// GetFixed returns ceil(size_fixed) for a fixed-sized attribute, failing
// with InvalidAttribute if attrName is unknown and ShapeError if attrName is
// actually variable-sized.
func (e *Estimator[T]) GetFixed(schema *domain.TypedSchema[T], attrName string) (uint64, error) {
	attr, ok := schema.Attribute(attrName)
	if !ok {
		return 0, arrerr.Newf(arrerr.InvalidAttribute, "unknown attribute %q", attrName)
	}
	if attr.IsVar() {
		return 0, arrerr.Newf(arrerr.ShapeError, "attribute %q is variable-sized; use GetVar", attrName)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	rs, ok := e.totals[attrName]
	if !ok {
		return 0, arrerr.Newf(arrerr.Internal, "no estimate computed for %q", attrName)
	}
	return uint64(math.Ceil(rs.SizeFixed)), nil
}

// GetVar returns (ceil(offsets-buffer size), ceil(values-buffer size)) for a
// variable-sized attribute, failing with ShapeError if attrName is actually
// fixed-sized.
func (e *Estimator[T]) GetVar(schema *domain.TypedSchema[T], attrName string) (uint64, uint64, error) {
	attr, ok := schema.Attribute(attrName)
	if !ok {
		return 0, 0, arrerr.Newf(arrerr.InvalidAttribute, "unknown attribute %q", attrName)
	}
	if !attr.IsVar() {
		return 0, 0, arrerr.Newf(arrerr.ShapeError, "attribute %q is fixed-sized; use GetFixed", attrName)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	rs, ok := e.totals[attrName]
	if !ok {
		return 0, 0, arrerr.Newf(arrerr.Internal, "no estimate computed for %q", attrName)
	}
	return uint64(math.Ceil(rs.SizeFixed)), uint64(math.Ceil(rs.SizeVar)), nil
}

// GetMemFixed/GetMemVar return the worst-case memory bound for attrName,
// never amplified or ceiled.
func (e *Estimator[T]) GetMemFixed(attrName string) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rs, ok := e.totals[attrName]
	if !ok {
		return 0, arrerr.Newf(arrerr.Internal, "no estimate computed for %q", attrName)
	}
	return rs.MemFixed, nil
}

func (e *Estimator[T]) GetMemVar(attrName string) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rs, ok := e.totals[attrName]
	if !ok {
		return 0, arrerr.Newf(arrerr.Internal, "no estimate computed for %q", attrName)
	}
	return rs.MemVar, nil
}
