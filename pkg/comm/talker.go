package comm

import (
	"github.com/StefanFabian/crosstalk/pkg/codec"
	"github.com/StefanFabian/crosstalk/pkg/endian"
)

// Frame layout constants.
const (
	startHi = 0x02
	startLo = 0x42

	// headerSize is start marker + id + payload length.
	headerSize = 6
	// frameOverhead is headerSize plus the trailing CRC.
	frameOverhead = 8
)

// Default buffer capacities.
const (
	DefaultBufferSize = 512
)

// Option configures a CrossTalker.
type Option func(*CrossTalker)

// WithBufferSize sets the capacity of the receive ring buffer.
func WithBufferSize(size int) Option {
	return func(t *CrossTalker) { t.buf = make([]byte, size) }
}

// WithScratchSize sets the capacity of the serialization buffer, which
// bounds the size of outbound frames. Defaults to half the ring buffer.
func WithScratchSize(size int) Option {
	return func(t *CrossTalker) { t.scratch = make([]byte, size) }
}

// CrossTalker owns a byte channel and exchanges framed objects over it.
// Received bytes accumulate in a fixed-capacity ring buffer; outbound
// frames are assembled in a fixed scratch buffer. A CrossTalker is not
// safe for concurrent use.
type CrossTalker struct {
	channel ByteChannel
	buf     []byte // receive ring
	scratch []byte // outbound frames and linearized inbound frames
	index   int    // read cursor into buf
	size    int    // resident byte count
}

// New creates a CrossTalker owning the given channel.
func New(channel ByteChannel, opts ...Option) *CrossTalker {
	t := &CrossTalker{channel: channel}
	for _, opt := range opts {
		opt(t)
	}
	if t.buf == nil {
		t.buf = make([]byte, DefaultBufferSize)
	}
	if t.scratch == nil {
		t.scratch = make([]byte, len(t.buf)/2)
	}
	return t
}

// markRead advances the read cursor past count consumed bytes.
func (t *CrossTalker) markRead(count int) {
	t.size -= count
	t.index += count
	if t.index >= len(t.buf) {
		t.index -= len(t.buf)
	}
	if t.size <= 0 {
		// Reset to the buffer start for scan locality.
		t.size = 0
		t.index = 0
	}
}

// processSerialDataMax drains the channel into the free tail of the
// ring, at most maxToRead bytes. If resident data would exceed the
// capacity, the oldest bytes are dropped.
func (t *CrossTalker) processSerialDataMax(maxToRead int) {
	for t.channel.Available() > 0 {
		if maxToRead == 0 {
			return
		}
		index := t.index + t.size
		if index >= len(t.buf) {
			index -= len(t.buf)
		}
		count := len(t.buf) - index
		if count > maxToRead {
			count = maxToRead
		}
		count = t.channel.Read(t.buf[index : index+count])
		if count == 0 {
			return
		}
		t.size += count
		maxToRead -= count
		if t.size > len(t.buf) {
			t.markRead(t.size - len(t.buf))
		}
	}
}

// processSerialDataUntil reads from the channel up to (but not past)
// the given ring index, filling the remaining free space first.
func (t *CrossTalker) processSerialDataUntil(index int) {
	maxToRead := index - t.index
	if maxToRead < 0 {
		maxToRead += len(t.buf)
	}
	maxToRead += len(t.buf) - t.size
	t.processSerialDataMax(maxToRead)
}

// ProcessSerialData moves pending channel bytes into the ring buffer.
// With overwriteBuffer set, up to the full capacity is read and the
// oldest bytes are dropped to make room; one byte less is read when the
// buffer is non-empty so a pending start marker cannot be overrun.
// Otherwise only the remaining free space is filled.
func (t *CrossTalker) ProcessSerialData(overwriteBuffer bool) {
	if overwriteBuffer {
		max := len(t.buf)
		if t.size != 0 {
			max = len(t.buf) - 1
		}
		t.processSerialDataMax(max)
	} else if t.size < len(t.buf) {
		t.processSerialDataMax(len(t.buf) - t.size)
	}
}

// findNextObjectIndex scans the ring cyclically from start for the
// frame start marker, examining end-start bytes. It returns the ring
// index of the 0x02 byte or -1. The marker may straddle the wrap.
func (t *CrossTalker) findNextObjectIndex(start, end int) int {
	count := end - start
	if count <= 0 {
		return -1
	}
	index := start
	if index >= len(t.buf) {
		index -= len(t.buf)
	}
	objIndex := -1
	haveFirst := false
	for ; count > 0; count-- {
		if haveFirst {
			if t.buf[index] == startLo {
				return objIndex
			}
			haveFirst = false
		}
		if t.buf[index] == startHi {
			objIndex = index
			haveFirst = true
		}
		index++
		if index >= len(t.buf) {
			index = 0
		}
	}
	return -1
}

// Available returns the number of non-object bytes that can be read
// from the buffer. A trailing 0x02 is held back because it may be the
// first half of a start marker that has not fully arrived.
func (t *CrossTalker) Available() int {
	if t.size == 0 {
		return 0
	}
	objIndex := t.findNextObjectIndex(t.index, t.index+t.size)
	if objIndex == -1 {
		lastIndex := t.index + t.size - 1
		if lastIndex >= len(t.buf) {
			lastIndex -= len(t.buf)
		}
		if t.buf[lastIndex] == startHi {
			return t.size - 1
		}
		return t.size
	}
	available := objIndex - t.index
	if available < 0 {
		available += len(t.buf)
	}
	return available
}

// HasObject reports whether a frame start marker sits at the read
// cursor. Four resident bytes are required so the object id is
// guaranteed to be in the buffer.
func (t *CrossTalker) HasObject() bool {
	if t.size < 4 || t.buf[t.index] != startHi {
		return false
	}
	second := t.index + 1
	if second >= len(t.buf) {
		second -= len(t.buf)
	}
	return t.buf[second] == startLo
}

// ObjectID returns the id of the pending object, or -1 if there is
// none.
func (t *CrossTalker) ObjectID() int16 {
	if !t.HasObject() {
		return -1
	}
	return int16(t.readUint16At(t.index + 2))
}

// readObjectSize reads the payload length field of the frame starting
// at the given ring index.
func (t *CrossTalker) readObjectSize(start int) int {
	return int(t.readUint16At(start + 4))
}

// readUint16At composes a little-endian 16-bit value from two ring
// bytes that may straddle the wrap. The explicit byte composition is
// already host-order independent; no further conversion is applied.
func (t *CrossTalker) readUint16At(index int) uint16 {
	if index >= len(t.buf) {
		index -= len(t.buf)
	}
	lo := t.buf[index]
	index++
	if index >= len(t.buf) {
		index = 0
	}
	return uint16(lo) | uint16(t.buf[index])<<8
}

// ClearBuffer discards all buffered bytes.
func (t *CrossTalker) ClearBuffer() {
	t.index = 0
	t.size = 0
}

// Read copies up to len(p) non-object bytes into p and consumes them.
// It never crosses or consumes a start marker.
func (t *CrossTalker) Read(p []byte) int {
	length := len(p)
	if available := t.Available(); length > available {
		length = available
	}
	if length == 0 {
		return 0
	}
	start := t.index
	end := t.index + length
	n := 0
	if end > len(t.buf) {
		n = copy(p, t.buf[start:])
		start = 0
		end -= len(t.buf)
	}
	copy(p[n:], t.buf[start:end])
	t.markRead(length)
	return length
}

// Skip discards all non-object bytes up to the next start marker.
func (t *CrossTalker) Skip() int {
	return t.SkipN(len(t.buf))
}

// SkipN discards up to n non-object bytes and returns the number
// skipped. The channel is polled first so a marker that just arrived
// is visible.
func (t *CrossTalker) SkipN(n int) int {
	t.ProcessSerialData(false)
	if n < 0 {
		n = 0
	}
	if available := t.Available(); n > available {
		n = available
	}
	t.markRead(n)
	return n
}

// ReadObject reads the pending frame into obj, which must be a pointer
// to a record whose ObjectID matches the frame.
//
// On CrcError and ObjectSizeMismatch the frame is consumed so the
// stream resynchronizes; on ObjectIDMismatch, NoObjectAvailable and
// NotEnoughData nothing is consumed from the buffer, so the caller may inspect
// ObjectID, retry with a different record type, skip the frame, or
// wait for more bytes.
func (t *CrossTalker) ReadObject(obj codec.Object) ReadResult {
	if !t.HasObject() {
		return NoObjectAvailable
	}
	// Top up the buffer so a frame mid-arrival has a chance to complete.
	t.processSerialDataUntil(t.index)
	if t.size < headerSize {
		return NotEnoughData
	}
	if t.ObjectID() != obj.ObjectID() {
		return ObjectIDMismatch
	}
	serializedSize := t.readObjectSize(t.index)
	if serializedSize+frameOverhead > t.size {
		return NotEnoughData
	}
	total := frameOverhead + serializedSize
	data := t.buf[t.index:]
	if t.index+total > len(t.buf) {
		// The frame wraps the ring boundary; linearize it for the CRC
		// and deserialize pass.
		data = t.scratch
		if total > len(data) {
			data = make([]byte, total)
		}
		n := copy(data, t.buf[t.index:])
		copy(data[n:], t.buf[:total-n])
	}
	crc := endian.Uint16(data[headerSize+serializedSize:])
	computed := CRC16(data[:headerSize+serializedSize])
	consumed := 0
	if crc == computed {
		consumed = codec.Deserialize(data[headerSize:headerSize+serializedSize], obj)
	}
	// The frame is consumed whether or not the CRC matched.
	t.markRead(total)
	if crc != computed {
		return CrcError
	}
	if consumed != serializedSize {
		return ObjectSizeMismatch
	}
	return ReadSuccess
}

// SkipObject discards the pending frame without checking its CRC.
func (t *CrossTalker) SkipObject() ReadResult {
	if !t.HasObject() {
		return NoObjectAvailable
	}
	t.processSerialDataUntil(t.index)
	if t.size < headerSize {
		return NotEnoughData
	}
	serializedSize := t.readObjectSize(t.index)
	if serializedSize+frameOverhead > t.size {
		return NotEnoughData
	}
	t.markRead(serializedSize + frameOverhead)
	return ReadSuccess
}

// SendObject frames and sends the record in a single channel write.
// Records with negative object ids cannot be sent; those ids are
// reserved.
func (t *CrossTalker) SendObject(obj codec.Object) WriteResult {
	id := obj.ObjectID()
	if id < 0 {
		panic("comm: negative object ids are reserved")
	}
	size := frameOverhead + codec.SizeOf(obj)
	if size > len(t.scratch) {
		return ObjectTooLarge
	}
	t.scratch[0] = startHi
	t.scratch[1] = startLo
	endian.PutUint16(t.scratch[2:], uint16(id))
	serialized := codec.Serialize(t.scratch[headerSize:], obj)
	endian.PutUint16(t.scratch[4:], uint16(serialized))
	if serialized != size-frameOverhead {
		panic("comm: serialized size does not match computed size")
	}
	endian.PutUint16(t.scratch[headerSize+serialized:], CRC16(t.scratch[:headerSize+serialized]))
	if !t.channel.Write(t.scratch[:size]) {
		return WriteError
	}
	return WriteSuccess
}
