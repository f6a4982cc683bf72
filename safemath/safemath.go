// Package safemath provides the overflow-checked arithmetic used by cell
// counting (C3) and result-size estimation (C5): per §9, every multiplication
// producing a size or a cell count must saturate to a sentinel rather than
// wrap silently.
//
// github.com/JohnCGriffin/overflow only checks signed arithmetic, so it
// backs the signed-dimension cell-count path (AddI64) where values are known
// to fit in int64. Sizes and cell counts are uint64 by convention (matching
// the wire semantics in §6), so the uint64 add/mul used everywhere else is
// hand-rolled here using the standard "does the inverse operation round-trip"
// check, since no third-party library in the pack offers checked unsigned
// 64-bit arithmetic.
package safemath

import (
	"math"

	"github.com/JohnCGriffin/overflow"
)

// Sentinel is the UINT64_MAX value an overflowing computation saturates to.
const Sentinel uint64 = math.MaxUint64

// AddI64 checks a signed 64-bit add, delegating to overflow.Add64.
func AddI64(a, b int64) (int64, bool) {
	return overflow.Add64(a, b)
}

// SubI64 checks a signed 64-bit subtract, delegating to overflow.Sub64.
func SubI64(a, b int64) (int64, bool) {
	return overflow.Sub64(a, b)
}

// AddU64 returns a+b, and false if the add overflows uint64.
func AddU64(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return Sentinel, false
	}
	return sum, true
}

// MulU64 returns a*b, and false if the multiply overflows uint64. Mirrors
// the "is the inverse operation exact" check JohnCGriffin/overflow uses for
// its signed variants, adapted to unsigned.
func MulU64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/a != b {
		return Sentinel, false
	}
	return p, true
}

// MulU64Saturating returns a*b, or Sentinel on overflow.
func MulU64Saturating(a, b uint64) uint64 {
	p, ok := MulU64(a, b)
	if !ok {
		return Sentinel
	}
	return p
}

// AddU64Saturating returns a+b, or Sentinel on overflow.
func AddU64Saturating(a, b uint64) uint64 {
	s, ok := AddU64(a, b)
	if !ok {
		return Sentinel
	}
	return s
}
