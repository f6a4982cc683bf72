package domain

import "github.com/marcobambini/TileDB/arrerr"

// Scalar is a dynamically-typed coordinate value: the run-time half of the
// tagged union. A Scalar is produced by a caller who only knows a dimension's
// Type at run time (e.g. decoding an API request) and is converted to the
// monomorphic generic value As[T] once the dimension's Type is known.
type Scalar struct {
	typ Type
	val interface{}
}

// Of constructs a Scalar tagging v with T's corresponding Type. It is the
// single dispatch point translating a generic value into the tagged union.
func Of[T Number](v T) Scalar {
	return Scalar{typ: TypeOf[T](), val: v}
}

// TypeOf returns the Type tag corresponding to the generic instantiation T.
func TypeOf[T Number]() Type {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		// Unreachable: Number's type set is exactly the ten scalar kinds.
		panic("domain: unreachable scalar kind")
	}
}

// Type reports which scalar type this Scalar is tagged with.
func (s Scalar) Type() Type { return s.typ }

// As extracts the value as T, failing with UnsupportedDomainType if s was not
// tagged with T's Type.
func As[T Number](s Scalar) (T, error) {
	v, ok := s.val.(T)
	if !ok {
		var zero T
		return zero, arrerr.Newf(arrerr.UnsupportedDomainType,
			"scalar tagged %s cannot be read as %s", s.typ, TypeOf[T]())
	}
	return v, nil
}
