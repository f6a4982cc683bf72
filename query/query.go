package query

import (
	"context"
	"encoding/binary"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/marcobambini/TileDB/arrerr"
	"github.com/marcobambini/TileDB/domain"
	"github.com/marcobambini/TileDB/subarray"
)

// attrBuffer is one target attribute's buffer binding: exactly one of fixed
// or varBuf is non-nil, enforced at SetBuffers time.
type attrBuffer struct {
	name   string
	fixed  *FixedBuffer
	varBuf *VarBuffer
}

// Query is the read-query state machine (C6): bound to a subarray and a set
// of caller buffers, it streams cells across one or more Submit calls until
// COMPLETED, or suspends INCOMPLETE, or fails into an error-terminal state.
// A Query is single-threaded from the caller's perspective (§4.5); the mutex
// here only guards against misuse, not for real concurrent submits.
type Query[T domain.Number] struct {
	mu sync.Mutex

	id     uuid.UUID
	source CellSource[T]
	sa     *subarray.Subarray[T]

	attrs  []attrBuffer
	coords *FixedBuffer

	status    Status
	err       error
	cur       cursor
	finalized bool
}

// New constructs a Query in the READY state, reading cell payloads from
// source. Each Query is tagged with a fresh random id, useful for
// correlating submits in logs across a long-running incremental read.
func New[T domain.Number](source CellSource[T]) *Query[T] {
	return &Query[T]{id: uuid.New(), source: source, status: StatusReady}
}

// ID returns the query's unique identifier.
func (q *Query[T]) ID() uuid.UUID { return q.id }

// SetSubarray binds sa to the query. Only legal in READY, before the first
// Submit.
func (q *Query[T]) SetSubarray(sa *subarray.Subarray[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.status != StatusReady {
		return arrerr.New(arrerr.Internal, "set_subarray requires state READY")
	}
	q.sa = sa
	return nil
}

// SetLayout overrides the read layout. Only legal in READY.
func (q *Query[T]) SetLayout(l domain.Layout) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.status != StatusReady {
		return arrerr.New(arrerr.Internal, "set_layout requires state READY")
	}
	if q.sa == nil {
		return arrerr.New(arrerr.Internal, "set_layout requires set_subarray first")
	}
	q.sa.SetLayout(l)
	return nil
}

// SetBuffers binds one caller buffer per target attribute (FixedBuffer for
// fixed-sized attributes, VarBuffer for variable-sized ones), plus an
// optional coords buffer for sparse reads. Rejects an attribute whose form
// doesn't match its schema definition with InvalidAttribute.
func (q *Query[T]) SetBuffers(fixed map[string]*FixedBuffer, vars map[string]*VarBuffer, coords *FixedBuffer) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.status != StatusReady {
		return arrerr.New(arrerr.Internal, "set_buffers requires state READY")
	}
	if q.sa == nil {
		return arrerr.New(arrerr.Internal, "set_buffers requires set_subarray first")
	}
	schema := q.sa.Schema()

	var attrs []attrBuffer
	for name, buf := range fixed {
		a, ok := schema.Attribute(name)
		if !ok {
			return arrerr.Newf(arrerr.InvalidAttribute, "unknown attribute %q", name)
		}
		if a.IsVar() {
			return arrerr.Newf(arrerr.InvalidAttribute, "attribute %q is variable-sized; bind a VarBuffer", name)
		}
		attrs = append(attrs, attrBuffer{name: name, fixed: buf})
	}
	for name, buf := range vars {
		a, ok := schema.Attribute(name)
		if !ok {
			return arrerr.Newf(arrerr.InvalidAttribute, "unknown attribute %q", name)
		}
		if !a.IsVar() {
			return arrerr.Newf(arrerr.InvalidAttribute, "attribute %q is fixed-sized; bind a FixedBuffer", name)
		}
		attrs = append(attrs, attrBuffer{name: name, varBuf: buf})
	}

	q.attrs = attrs
	q.coords = coords
	return nil
}

// ResetBuffers advertises new capacities for already-bound buffers between
// submits, per §4.5: new capacity must be >= the buffer's current capacity,
// else InvalidBufferSize. Does not move the resumption cursor.
func (q *Query[T]) ResetBuffers(fixedCaps map[string]int, varCaps map[string][2]int, coordsCap int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.status != StatusIncomplete && q.status != StatusReady {
		return arrerr.New(arrerr.Internal, "reset_buffers requires state READY or INCOMPLETE")
	}
	for _, ab := range q.attrs {
		if ab.fixed != nil {
			if cap_, ok := fixedCaps[ab.name]; ok {
				if err := ab.fixed.reset(cap_); err != nil {
					return err
				}
			}
		}
		if ab.varBuf != nil {
			if caps, ok := varCaps[ab.name]; ok {
				if err := ab.varBuf.reset(caps[0], caps[1]); err != nil {
					return err
				}
			}
		}
	}
	if q.coords != nil && coordsCap > 0 {
		if err := q.coords.reset(coordsCap); err != nil {
			return err
		}
	}
	return nil
}

// GetStatus returns the query's current status.
func (q *Query[T]) GetStatus() Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.status
}

// Finalize releases the query. Idempotent; legal from any state.
func (q *Query[T]) Finalize() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.finalized = true
	return nil
}

// Submit advances the state machine by one submission, per §4.5's
// submission semantics: it walks the subarray's linear range enumeration in
// layout order, streaming whole cells into the bound buffers, until either
// every range is drained (COMPLETED), a buffer would overflow after at
// least one whole cell was written this submission (INCOMPLETE, cursor
// saved), or the very next cell cannot fit in empty buffers (Unsplittable,
// error-terminal). A cell that fits the empty buffers exactly and is the last
// cell of the result is written normally and the query completes.
func (q *Query[T]) Submit(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.finalized {
		return arrerr.New(arrerr.Internal, "submit called after finalize")
	}
	if q.status == StatusErr {
		return arrerr.New(arrerr.Internal, "submit called on an error-terminal query; only finalize is legal")
	}
	if q.status == StatusCompleted {
		return arrerr.New(arrerr.Internal, "submit called on a completed query")
	}
	if q.sa == nil {
		return arrerr.New(arrerr.Internal, "submit requires set_subarray")
	}

	q.resetProducedLocked()

	anyWritten := false
	rangeNum := q.sa.RangeNum()

	for {
		if q.cur.done || q.cur.rangeIdx >= rangeNum {
			q.status = StatusCompleted
			return nil
		}

		rect, err := q.sa.RangesAt(q.cur.rangeIdx)
		if err != nil {
			q.status = StatusErr
			q.err = err
			return err
		}
		cells, err := q.source.CellsInRange(rect, q.sa.Layout())
		if err != nil {
			q.status = StatusErr
			q.err = err
			return err
		}

		if q.cur.cellOffset >= len(cells) {
			q.cur.rangeIdx++
			q.cur.cellOffset = 0
			continue
		}

		coords := cells[q.cur.cellOffset]
		fits, sizes, err := q.cellFitsLocked(coords)
		if err != nil {
			q.status = StatusErr
			q.err = err
			return err
		}

		if !fits {
			if !anyWritten {
				err := arrerr.New(arrerr.Unsplittable, "smallest whole cell does not fit in the bound buffers")
				q.status = StatusErr
				q.err = err
				return err
			}
			q.status = StatusIncomplete
			return nil
		}

		q.writeCellLocked(coords, sizes)
		anyWritten = true
		q.cur.cellOffset++
	}
}

func (q *Query[T]) resetProducedLocked() {
	for _, ab := range q.attrs {
		if ab.fixed != nil {
			ab.fixed.Produced = 0
		}
		if ab.varBuf != nil {
			ab.varBuf.OffsetsProduced = 0
			ab.varBuf.ValuesProduced = 0
		}
	}
	if q.coords != nil {
		q.coords.Produced = 0
	}
}

// cellSizes caches the per-attribute var-value bytes fetched while checking
// whether a cell fits, so writeCellLocked doesn't fetch them twice.
type cellSizes struct {
	varVals map[string][]byte
}

func (q *Query[T]) cellFitsLocked(coords []T) (bool, cellSizes, error) {
	sizes := cellSizes{varVals: map[string][]byte{}}

	if q.coords != nil {
		need := len(coords) * domain.TypeOf[T]().ByteSize()
		if q.coords.remaining() < need {
			return false, sizes, nil
		}
	}

	for _, ab := range q.attrs {
		if ab.fixed != nil {
			cellSize, ok := attrCellSize(q.sa, ab.name)
			if !ok {
				return false, sizes, arrerr.Newf(arrerr.Internal, "attribute %q has no fixed cell size", ab.name)
			}
			if ab.fixed.remaining() < cellSize {
				return false, sizes, nil
			}
			continue
		}
		val, err := q.source.VarCell(ab.name, coords)
		if err != nil {
			return false, sizes, err
		}
		sizes.varVals[ab.name] = val
		if ab.varBuf.offsetsRemaining() < offsetWidth || ab.varBuf.valuesRemaining() < len(val) {
			return false, sizes, nil
		}
	}
	return true, sizes, nil
}

func (q *Query[T]) writeCellLocked(coords []T, sizes cellSizes) {
	if q.coords != nil {
		var buf []byte
		for _, c := range coords {
			buf = append(buf, encodeScalar(c)...)
		}
		q.coords.write(buf)
	}
	for _, ab := range q.attrs {
		if ab.fixed != nil {
			b, err := q.source.FixedCell(ab.name, coords)
			if err != nil {
				continue
			}
			ab.fixed.write(b)
			continue
		}
		ab.varBuf.writeOffsetAndValue(sizes.varVals[ab.name])
	}
}

func attrCellSize[T domain.Number](sa *subarray.Subarray[T], attrName string) (int, bool) {
	a, ok := sa.Schema().Attribute(attrName)
	if !ok {
		return 0, false
	}
	return a.CellSize()
}

// encodeScalar renders v in little-endian wire form, sized per its
// domain.Type's ByteSize, matching the coords channel's packed-tuple
// semantics in §6.
func encodeScalar[T domain.Number](v T) []byte {
	switch x := any(v).(type) {
	case int8:
		return []byte{byte(x)}
	case uint8:
		return []byte{x}
	case int16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(x))
		return b
	case uint16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, x)
		return b
	case int32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(x))
		return b
	case uint32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, x)
		return b
	case int64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(x))
		return b
	case uint64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, x)
		return b
	case float32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(x))
		return b
	case float64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(x))
		return b
	default:
		return nil
	}
}
