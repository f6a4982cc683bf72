package query

import "github.com/marcobambini/TileDB/arrerr"

// FixedBuffer is the caller-owned buffer backing a fixed-size attribute or
// the coords channel: a packed array of cell_size bytes per cell (§6).
type FixedBuffer struct {
	Data     []byte
	Capacity int
	Produced int
}

// NewFixedBuffer wraps a caller-supplied byte slice; capacity is len(data).
func NewFixedBuffer(data []byte) *FixedBuffer {
	return &FixedBuffer{Data: data, Capacity: len(data)}
}

func (b *FixedBuffer) remaining() int { return b.Capacity - b.Produced }

func (b *FixedBuffer) write(p []byte) {
	copy(b.Data[b.Produced:b.Produced+len(p)], p)
	b.Produced += len(p)
}

// reset resets Produced to 0 and, if newCapacity > len(Data), grows Data.
// Rejects newCapacity < Capacity with InvalidBufferSize (§4.5's
// reset_buffers rule).
func (b *FixedBuffer) reset(newCapacity int) error {
	if newCapacity < b.Capacity {
		return arrerr.Newf(arrerr.InvalidBufferSize, "new capacity %d < original capacity %d", newCapacity, b.Capacity)
	}
	if newCapacity > len(b.Data) {
		grown := make([]byte, newCapacity)
		copy(grown, b.Data)
		b.Data = grown
	}
	b.Capacity = newCapacity
	b.Produced = 0
	return nil
}

// VarBuffer is the caller-owned buffer pair backing a variable-sized
// attribute: a packed u64 offsets array (Offsets, viewed 8 bytes per entry)
// and a concatenated-payload values array (Values), per §6.
type VarBuffer struct {
	Offsets         []byte
	OffsetsCapacity int
	OffsetsProduced int

	Values         []byte
	ValuesCapacity int
	ValuesProduced int
}

// NewVarBuffer wraps caller-supplied offsets/values byte slices.
func NewVarBuffer(offsets, values []byte) *VarBuffer {
	return &VarBuffer{
		Offsets:         offsets,
		OffsetsCapacity: len(offsets),
		Values:          values,
		ValuesCapacity:  len(values),
	}
}

func (b *VarBuffer) offsetsRemaining() int { return b.OffsetsCapacity - b.OffsetsProduced }
func (b *VarBuffer) valuesRemaining() int  { return b.ValuesCapacity - b.ValuesProduced }

const offsetWidth = 8

// writeOffsetAndValue writes off[i] = (byte offset of this value within
// Values, before this write) and appends val to Values.
func (b *VarBuffer) writeOffsetAndValue(val []byte) {
	off := uint64(b.ValuesProduced)
	for i := 0; i < offsetWidth; i++ {
		b.Offsets[b.OffsetsProduced+i] = byte(off >> (8 * i))
	}
	b.OffsetsProduced += offsetWidth
	copy(b.Values[b.ValuesProduced:b.ValuesProduced+len(val)], val)
	b.ValuesProduced += len(val)
}

func (b *VarBuffer) reset(newOffsetsCapacity, newValuesCapacity int) error {
	if newOffsetsCapacity < b.OffsetsCapacity {
		return arrerr.Newf(arrerr.InvalidBufferSize, "new offsets capacity %d < original capacity %d", newOffsetsCapacity, b.OffsetsCapacity)
	}
	if newValuesCapacity < b.ValuesCapacity {
		return arrerr.Newf(arrerr.InvalidBufferSize, "new values capacity %d < original capacity %d", newValuesCapacity, b.ValuesCapacity)
	}
	if newOffsetsCapacity > len(b.Offsets) {
		grown := make([]byte, newOffsetsCapacity)
		copy(grown, b.Offsets)
		b.Offsets = grown
	}
	if newValuesCapacity > len(b.Values) {
		grown := make([]byte, newValuesCapacity)
		copy(grown, b.Values)
		b.Values = grown
	}
	b.OffsetsCapacity = newOffsetsCapacity
	b.ValuesCapacity = newValuesCapacity
	b.OffsetsProduced = 0
	b.ValuesProduced = 0
	return nil
}
