package domain

import "fmt"

// Type tags which of the ten supported scalar kinds a dimension's coordinate
// type is. It is the discriminant of the tagged union described in the
// design notes: TypeOf[T] maps a Number instantiation to its Type, and a
// Scalar carries its Type alongside its value. Subarray and the
// per-dimension range store are generic over T and do not switch on Type.
type Type int

const (
	Int8 Type = iota
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
)

// Types lists every supported scalar type, in declaration order.
var Types = []Type{Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Float32, Float64}

func (t Type) String() string {
	switch t {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("domain.Type(%d)", int(t))
	}
}

// IsFloat reports whether t is one of the two floating-point scalar types,
// which require NaN validation and have no well-defined non-unary cell count.
func (t Type) IsFloat() bool {
	return t == Float32 || t == Float64
}

// Valid reports whether t is one of the ten supported scalar types.
func (t Type) Valid() bool {
	switch t {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Float32, Float64:
		return true
	default:
		return false
	}
}

// ByteSize returns sizeof(τ) in bytes.
func (t Type) ByteSize() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// RangeSize returns 2*sizeof(τ), the byte size of a (lo, hi) range pair,
// used for the generic byte-level is_unary comparison described in §9.
func (t Type) RangeSize() int {
	return 2 * t.ByteSize()
}
