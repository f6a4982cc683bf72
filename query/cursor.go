package query

// cursor is the opaque resumption position recorded when a submit suspends:
// which linear range_idx is in progress, and how far into that range's
// cell enumeration the previous submit got. It is a plain struct rather
// than interface{}, per the cursor-representation design note.
type cursor struct {
	rangeIdx   uint64
	cellOffset int
	done       bool
}
