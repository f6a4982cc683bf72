// Package query implements the read-query state machine (C6): a caller
// submits a subarray-bound query repeatedly, each submit streaming cells
// into caller-owned buffers until the result is COMPLETED or the query
// suspends INCOMPLETE, grounded on the teacher's Execute/ConstrainedExecute
// incremental-cursor pattern in executor.go.
package query

import "github.com/marcobambini/TileDB/domain"

// CellSource is the array-data collaborator a Query pulls cell payloads
// from. It is not named as a separate interface in the collaborator list
// (§6 only specifies fragment metadata, R-tree, schema, parallel-for, heap
// accounting), because those interfaces describe index/size metadata, not
// cell payload access; C6 needs a way to actually read cell values to be
// runnable and testable at all, so CellSource fills that gap, grounded on
// the teacher's Row/columnIterator style of a cursor-driven value source.
type CellSource[T domain.Number] interface {
	// Dense reports whether this source has a value at every coordinate in
	// its schema's domain (true), or only at sparsely populated coordinates.
	Dense() bool

	// CellsInRange returns, in ascending cell-order (per order) within rect,
	// the coordinates of every cell the submit loop must visit: every
	// coordinate in rect for a dense source, or only the populated ones for
	// a sparse source.
	CellsInRange(rect []domain.Range[T], order domain.Layout) ([][]T, error)

	// FixedCell returns the cell_size(attr) raw bytes for attr at coords.
	FixedCell(attr string, coords []T) ([]byte, error)

	// VarCell returns the value-buffer bytes for the variable-sized attr at
	// coords.
	VarCell(attr string, coords []T) ([]byte, error)
}
