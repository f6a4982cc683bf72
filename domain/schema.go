package domain

import "github.com/marcobambini/TileDB/arrerr"

// AnySchema is the type-erased array-schema interface: dim_num, attribute
// lookup, cell/tile order, cell size, and the dense/sparse flag, without
// naming the coordinate type T. A concrete *TypedSchema[T] implements it.
// Subarray, the tile-overlap engine and the estimator are generic over T and
// hold a *TypedSchema[T] directly rather than an AnySchema.
type AnySchema interface {
	Type() Type
	DimNum() int
	CellOrder() Layout
	TileOrder() Layout
	Dense() bool
	Attribute(name string) (Attribute, bool)
	Attributes() []Attribute
	CellSize(attrName string) (int, bool)
}

// TypedSchema is the monomorphic schema for a single scalar type T. Per the
// open-question resolution in §9, every dimension of an array shares one T:
// the caller picks T as NewTypedSchema's type argument, and everything built
// from a TypedSchema[T] — RangeList[T], Subarray[T] — is monomorphic from
// then on.
type TypedSchema[T Number] struct {
	dimNum      int
	cellOrder   Layout
	tileOrder   Layout
	dense       bool
	domainBound []Range[T]
	tileExtent  []T
	attrs       []Attribute
	attrByName  map[string]Attribute
}

// NewTypedSchema validates and constructs a TypedSchema.
func NewTypedSchema[T Number](domainBound, tileExtent []T, cellOrder, tileOrder Layout, dense bool, attrs []Attribute) (*TypedSchema[T], error) {
	if len(domainBound)%2 != 0 || len(domainBound) == 0 {
		return nil, arrerr.Newf(arrerr.InvalidDimension, "domain vector must have even, positive length, got %d", len(domainBound))
	}
	dimNum := len(domainBound) / 2
	if len(tileExtent) != dimNum {
		return nil, arrerr.Newf(arrerr.InvalidDimension, "tile_extents length %d does not match dim_num %d", len(tileExtent), dimNum)
	}
	bounds := make([]Range[T], dimNum)
	for i := 0; i < dimNum; i++ {
		lo, hi := domainBound[2*i], domainBound[2*i+1]
		r := Range[T]{Lo: lo, Hi: hi}
		if isNaN(lo) || isNaN(hi) {
			return nil, arrerr.Newf(arrerr.InvalidRange, "domain bound for dim %d is NaN", i)
		}
		if lo > hi {
			return nil, arrerr.Newf(arrerr.InvalidRange, "domain bound for dim %d has lo > hi", i)
		}
		bounds[i] = r
	}

	byName := make(map[string]Attribute, len(attrs))
	for _, a := range attrs {
		byName[a.Name] = a
	}

	return &TypedSchema[T]{
		dimNum:      dimNum,
		cellOrder:   cellOrder,
		tileOrder:   tileOrder,
		dense:       dense,
		domainBound: bounds,
		tileExtent:  append([]T(nil), tileExtent...),
		attrs:       append([]Attribute(nil), attrs...),
		attrByName:  byName,
	}, nil
}

func (s *TypedSchema[T]) Type() Type          { return TypeOf[T]() }
func (s *TypedSchema[T]) DimNum() int         { return s.dimNum }
func (s *TypedSchema[T]) CellOrder() Layout   { return s.cellOrder }
func (s *TypedSchema[T]) TileOrder() Layout   { return s.tileOrder }
func (s *TypedSchema[T]) Dense() bool         { return s.dense }
func (s *TypedSchema[T]) Attributes() []Attribute {
	return append([]Attribute(nil), s.attrs...)
}

func (s *TypedSchema[T]) Attribute(name string) (Attribute, bool) {
	a, ok := s.attrByName[name]
	return a, ok
}

func (s *TypedSchema[T]) CellSize(attrName string) (int, bool) {
	a, ok := s.attrByName[attrName]
	if !ok {
		return 0, false
	}
	return a.CellSize()
}

// DomainBound returns the [lo, hi] domain bound of dimension dim.
func (s *TypedSchema[T]) DomainBound(dim int) (Range[T], error) {
	if dim < 0 || dim >= s.dimNum {
		return Range[T]{}, arrerr.Newf(arrerr.InvalidDimension, "dim_idx %d >= dim_num %d", dim, s.dimNum)
	}
	return s.domainBound[dim], nil
}

// TileExtent returns the tile extent of dimension dim (dense arrays only).
func (s *TypedSchema[T]) TileExtent(dim int) (T, error) {
	if dim < 0 || dim >= s.dimNum {
		var zero T
		return zero, arrerr.Newf(arrerr.InvalidDimension, "dim_idx %d >= dim_num %d", dim, s.dimNum)
	}
	return s.tileExtent[dim], nil
}
