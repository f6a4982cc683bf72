package domain

import (
	"math"

	"github.com/marcobambini/TileDB/safemath"
)

// CellCount returns hi-lo+1, the number of integer coordinates in [lo, hi],
// saturating to safemath.Sentinel on overflow. Per §4.2 this is only
// well-defined for integer τ; callers must special-case unary ranges and
// floating-point τ themselves (cell count is undefined there except for the
// unary case, which is always 1 regardless of τ).
func CellCount[T Integer](lo, hi T) (uint64, bool) {
	return cellCountDynamic(lo, hi)
}

// CellCountDynamic is the type-erased form of CellCount, usable from code
// generic over the full Number type set (which includes the two float
// kinds) once the caller has already confirmed T is not floating-point —
// Go's generic dispatch cannot call a function constrained to Integer from
// one merely constrained to Number, so this is the escape hatch the
// Subarray.CellNum integer branch uses.
func CellCountDynamic(lo, hi interface{}) (uint64, bool) {
	return cellCountDynamic(lo, hi)
}

func cellCountDynamic(lo, hi interface{}) (uint64, bool) {
	switch v := lo.(type) {
	case int8:
		return intCellCount(int64(v), int64(hi.(int8)))
	case int16:
		return intCellCount(int64(v), int64(hi.(int16)))
	case int32:
		return intCellCount(int64(v), int64(hi.(int32)))
	case int64:
		return intCellCount(v, hi.(int64))
	case uint8:
		return uintCellCount(uint64(v), uint64(hi.(uint8)))
	case uint16:
		return uintCellCount(uint64(v), uint64(hi.(uint16)))
	case uint32:
		return uintCellCount(uint64(v), uint64(hi.(uint32)))
	case uint64:
		return uintCellCount(v, hi.(uint64))
	default:
		panic("domain: CellCount called with non-integer scalar kind")
	}
}

func intCellCount(lo, hi int64) (uint64, bool) {
	diff, ok := safemath.SubI64(hi, lo)
	if !ok {
		return safemath.Sentinel, false
	}
	sum, ok := safemath.AddI64(diff, 1)
	if !ok {
		return safemath.Sentinel, false
	}
	return uint64(sum), true
}

func uintCellCount(lo, hi uint64) (uint64, bool) {
	diff := hi - lo
	if diff == math.MaxUint64 {
		return safemath.Sentinel, false
	}
	return diff + 1, true
}
