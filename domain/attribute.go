package domain

// VarNum is the sentinel CellValNum meaning "variable number of values per
// cell" (the spec's `VAR`). Fixed attributes have CellValNum >= 1.
const VarNum = 0

// Attribute is a named per-cell value channel.
type Attribute struct {
	Name       string
	Type       Type
	CellValNum int // VarNum, or a positive fixed count
	Compressor string
}

// IsVar reports whether a is variable-sized.
func (a Attribute) IsVar() bool { return a.CellValNum == VarNum }

// CellSize returns the fixed per-cell byte size of a, and false if a is
// variable-sized (cell size is undefined for var attributes).
func (a Attribute) CellSize() (int, bool) {
	if a.IsVar() {
		return 0, false
	}
	return a.Type.ByteSize() * a.CellValNum, true
}

// CoordsAttrName is the reserved attribute name for the coordinate tuple of
// a sparse array cell.
const CoordsAttrName = "coords"
