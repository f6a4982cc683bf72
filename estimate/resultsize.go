// Package estimate implements the result-size estimator (C5): folding
// tile-overlap and fragment metadata into fixed/var-size estimates and
// memory upper bounds, grounded on the teacher's mutex-guarded accumulator
// pattern in fragment.go's cache bookkeeping.
package estimate

// ResultSize holds the four non-negative estimate fields described in §3:
// size_fixed/size_var are fractional estimates (ceiled on the way out),
// mem_fixed/mem_var are worst-case bounds, never amplified or ceiled.
type ResultSize struct {
	SizeFixed float64
	SizeVar   float64
	MemFixed  float64
	MemVar    float64
}

func (r ResultSize) add(other ResultSize) ResultSize {
	return ResultSize{
		SizeFixed: r.SizeFixed + other.SizeFixed,
		SizeVar:   r.SizeVar + other.SizeVar,
		MemFixed:  r.MemFixed + other.MemFixed,
		MemVar:    r.MemVar + other.MemVar,
	}
}
