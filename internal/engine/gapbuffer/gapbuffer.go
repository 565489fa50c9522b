package gapbuffer

import (
	"io"
)

// Stats counts the data movement performed by a GapBuffer.
type Stats struct {
	// MovedBytes is the number of bytes copied while relocating the gap.
	MovedBytes int64
	// Grows is the number of storage resizes.
	Grows int
	// GrownBytes is the total capacity added by growth.
	GrownBytes int64
	// GrowCopiedBytes is the number of suffix bytes shifted during growth.
	GrowCopiedBytes int64
}

// GapBuffer is a byte buffer with a movable gap at the edit point.
//
// The storage is laid out as [0, gapStart) text, [gapStart, gapEnd) gap,
// [gapEnd, len(storage)) text. pointPos is a raw storage offset that is
// never strictly inside the gap. The zero value is not usable; use New.
type GapBuffer struct {
	storage  []byte
	gapStart int
	gapEnd   int
	pointPos int

	alloc         Allocator
	initialGap    int
	growthDivisor int

	stats    Stats
	released bool
}

// New creates an empty buffer with a pre-allocated gap.
// It fails only if the allocator cannot provide the initial storage.
func New(opts ...Option) (*GapBuffer, error) {
	b := &GapBuffer{
		alloc:         HeapAllocator{},
		initialGap:    DefaultInitialGap,
		growthDivisor: DefaultGrowthDivisor,
	}

	for _, opt := range opts {
		opt(b)
	}

	storage, err := b.alloc.Resize(nil, b.initialGap)
	if err != nil {
		return nil, &AllocError{Op: "init", Size: b.initialGap, Err: err}
	}
	b.storage = storage
	b.gapEnd = len(storage)

	return b, nil
}

// NewFromBytes creates a buffer holding a copy of p.
// The point is left at the end of the content.
func NewFromBytes(p []byte, opts ...Option) (*GapBuffer, error) {
	b, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := b.Insert(p); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// NewFromString creates a buffer holding s.
func NewFromString(s string, opts ...Option) (*GapBuffer, error) {
	return NewFromBytes([]byte(s), opts...)
}

// Release drops the backing storage. Any later mutation panics.
// Release is idempotent.
func (b *GapBuffer) Release() {
	b.storage = nil
	b.gapStart, b.gapEnd, b.pointPos = 0, 0, 0
	b.released = true
}

// Released reports whether Release has been called.
func (b *GapBuffer) Released() bool {
	return b.released
}

// State queries

// Len returns the logical length of the text, excluding the gap.
func (b *GapBuffer) Len() int {
	return len(b.storage) - b.GapSize()
}

// GapSize returns the number of free bytes in the gap.
func (b *GapBuffer) GapSize() int {
	return b.gapEnd - b.gapStart
}

// Cap returns the total size of the backing storage.
func (b *GapBuffer) Cap() int {
	return len(b.storage)
}

// Point returns the cursor position as a logical byte offset.
func (b *GapBuffer) Point() int {
	b.assertPoint()
	if b.pointPos <= b.gapStart {
		return b.pointPos
	}
	return b.pointPos - b.GapSize()
}

// Stats returns the data movement counters.
func (b *GapBuffer) Stats() Stats {
	return b.stats
}

// ResetStats zeroes the data movement counters.
func (b *GapBuffer) ResetStats() {
	b.stats = Stats{}
}

// Cursor

// SetPoint moves the cursor to a logical offset without touching storage.
// Positions past the end are clamped to Len(); negative positions to 0.
func (b *GapBuffer) SetPoint(position int) {
	switch {
	case position < 0:
		b.pointPos = 0
	case position <= b.gapStart:
		b.pointPos = position
	case position < b.Len():
		b.pointPos = position + b.GapSize()
	default:
		b.pointPos = b.Len() + b.GapSize()
	}
}

// Mutation

// Insert writes p at the point. The point ends immediately after the
// inserted bytes. The only possible error is an *AllocError, in which case
// the logical content is unchanged.
func (b *GapBuffer) Insert(p []byte) error {
	b.mustLive()
	b.moveGapToPoint()

	if b.GapSize() <= len(p) {
		if err := b.GrowGap(max(len(p), b.Len()/b.growthDivisor)); err != nil {
			return err
		}
	}

	n := copy(b.storage[b.gapStart:b.gapEnd], p)
	b.gapStart += n
	b.pointPos = b.gapStart
	return nil
}

// InsertString writes s at the point.
func (b *GapBuffer) InsertString(s string) error {
	return b.Insert([]byte(s))
}

// DeleteForward removes up to count bytes after the point and returns the
// number removed. The point does not move.
func (b *GapBuffer) DeleteForward(count int) int {
	b.mustLive()
	b.moveGapToPoint()

	if count <= 0 {
		return 0
	}
	removed := min(count, len(b.storage)-b.gapEnd)
	b.gapEnd += removed
	return removed
}

// DeleteBackward removes up to count bytes before the point and returns
// the number removed. The point moves back by that amount.
func (b *GapBuffer) DeleteBackward(count int) int {
	b.mustLive()
	b.moveGapToPoint()

	if count <= 0 {
		return 0
	}
	start := max(b.gapStart-count, 0)
	removed := b.gapStart - start
	b.gapStart = start
	b.pointPos = b.gapStart
	return removed
}

// GrowGap enlarges the gap by amount bytes. The gap does not move and
// the logical content and point are unchanged.
func (b *GapBuffer) GrowGap(amount int) error {
	b.mustLive()
	if amount <= 0 {
		return nil
	}

	oldSize := len(b.storage)
	size := oldSize + amount
	storage, err := b.alloc.Resize(b.storage, size)
	if err != nil {
		return &AllocError{Op: "grow", Size: size, Err: err}
	}
	b.storage = storage

	// Shift the suffix to the new end of storage.
	suffix := oldSize - b.gapEnd
	b.copyBackward(b.gapEnd+amount, b.gapEnd, suffix)
	b.stats.GrowCopiedBytes += int64(suffix)

	if b.pointPos > b.gapStart {
		b.pointPos += amount
	}
	b.gapEnd += amount

	b.stats.Grows++
	b.stats.GrownBytes += int64(amount)
	return nil
}

// moveGapToPoint relocates the gap so that it starts at the point.
// Only the bytes between the old gap and the point are copied.
func (b *GapBuffer) moveGapToPoint() {
	b.assertPoint()

	switch {
	case b.pointPos == b.gapStart:
		return

	case b.pointPos == b.gapEnd:
		b.pointPos = b.gapStart

	case b.pointPos < b.gapStart:
		// [pointPos, gapStart) slides right to end at gapEnd.
		span := b.gapStart - b.pointPos
		b.copyBackward(b.gapEnd-span, b.pointPos, span)
		b.stats.MovedBytes += int64(span)
		b.gapStart = b.pointPos
		b.gapEnd -= span

	default:
		// [gapEnd, pointPos) slides left to start at gapStart.
		span := b.pointPos - b.gapEnd
		b.copyForward(b.gapStart, b.gapEnd, span)
		b.stats.MovedBytes += int64(span)
		b.gapStart += span
		b.gapEnd += span
		b.pointPos = b.gapStart
	}
}

// copyForward copies n bytes from src to a lower dst, low to high, so
// overlapping ranges are read before they are overwritten.
func (b *GapBuffer) copyForward(dst, src, n int) {
	for i := 0; i < n; i++ {
		b.storage[dst+i] = b.storage[src+i]
	}
}

// copyBackward copies n bytes from src to a higher dst, high to low.
func (b *GapBuffer) copyBackward(dst, src, n int) {
	for i := n - 1; i >= 0; i-- {
		b.storage[dst+i] = b.storage[src+i]
	}
}

// Read-only access

// Bytes returns a copy of the logical content.
func (b *GapBuffer) Bytes() []byte {
	out := make([]byte, 0, b.Len())
	out = append(out, b.storage[:b.gapStart]...)
	return append(out, b.storage[b.gapEnd:]...)
}

// String returns the logical content.
func (b *GapBuffer) String() string {
	return string(b.Bytes())
}

// ByteAt returns the byte at a logical offset.
func (b *GapBuffer) ByteAt(offset int) (byte, bool) {
	if offset < 0 || offset >= b.Len() {
		return 0, false
	}
	if offset < b.gapStart {
		return b.storage[offset], true
	}
	return b.storage[offset+b.GapSize()], true
}

// ReadAt implements io.ReaderAt over the logical content.
// It neither moves the point nor relocates the gap.
func (b *GapBuffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(b.Len()) {
		return 0, io.EOF
	}
	pos := int(off)

	n := 0
	if pos < b.gapStart {
		n = copy(p, b.storage[pos:b.gapStart])
		pos = b.gapStart
	}
	if n < len(p) {
		n += copy(p[n:], b.storage[pos+b.GapSize():])
	}

	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteTo implements io.WriterTo. Both halves are written directly; the
// gap is not relocated.
func (b *GapBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.storage[:b.gapStart])
	total := int64(n)
	if err != nil {
		return total, err
	}
	n, err = w.Write(b.storage[b.gapEnd:])
	total += int64(n)
	return total, err
}

// Invariants

// checkInvariants returns an *InvariantError if the layout is corrupt.
func (b *GapBuffer) checkInvariants() error {
	switch {
	case b.gapStart < 0 || b.gapStart > b.gapEnd || b.gapEnd > len(b.storage):
		return b.invariantError("0 <= gapStart <= gapEnd <= len(storage)")
	case b.pointPos < 0 || b.pointPos > len(b.storage):
		return b.invariantError("point within storage")
	case b.pointPos > b.gapStart && b.pointPos < b.gapEnd:
		return b.invariantError("point outside gap")
	}
	return nil
}

// assertPoint panics if the point has landed inside the gap.
func (b *GapBuffer) assertPoint() {
	if b.pointPos > b.gapStart && b.pointPos < b.gapEnd {
		panic(b.invariantError("point outside gap"))
	}
}

func (b *GapBuffer) mustLive() {
	if b.released {
		panic(ErrReleased)
	}
}

func (b *GapBuffer) invariantError(what string) *InvariantError {
	return &InvariantError{
		Invariant: what,
		GapStart:  b.gapStart,
		GapEnd:    b.gapEnd,
		PointPos:  b.pointPos,
		Size:      len(b.storage),
	}
}
