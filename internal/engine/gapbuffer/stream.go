package gapbuffer

import (
	"io"
	"math"
)

// readFromChunk is the read size used by Writer.ReadFrom.
const readFromChunk = 4096

// Reader is a sequential read view over a GapBuffer.
// Reads start at the point and advance it.
type Reader struct {
	buf *GapBuffer
}

// Writer is a sequential write view over a GapBuffer.
// Writes insert at the point and advance it.
type Writer struct {
	buf *GapBuffer
}

// Seeker is a random-access view that moves the point.
// Targets outside [0, Len()] are clamped, never rejected.
type Seeker struct {
	buf *GapBuffer
}

// Stream combines the read, write and seek views.
type Stream struct {
	buf *GapBuffer
}

// Reader returns a read view of the buffer.
func (b *GapBuffer) Reader() Reader {
	return Reader{buf: b}
}

// Writer returns a write view of the buffer.
func (b *GapBuffer) Writer() Writer {
	return Writer{buf: b}
}

// Seeker returns a seek view of the buffer.
func (b *GapBuffer) Seeker() Seeker {
	return Seeker{buf: b}
}

// Stream returns a combined io.ReadWriteSeeker view of the buffer.
func (b *GapBuffer) Stream() Stream {
	return Stream{buf: b}
}

var (
	_ io.Reader          = Reader{}
	_ io.Writer          = Writer{}
	_ io.StringWriter    = Writer{}
	_ io.ReaderFrom      = Writer{}
	_ io.Seeker          = Seeker{}
	_ io.ReadWriteSeeker = Stream{}
	_ io.ReaderAt        = (*GapBuffer)(nil)
	_ io.WriterTo        = (*GapBuffer)(nil)
)

// Read copies up to len(p) bytes of text starting at the point and
// advances the point past them. It returns 0, io.EOF at end of content.
func (r Reader) Read(p []byte) (int, error) {
	b := r.buf
	if len(p) == 0 {
		return 0, nil
	}

	b.assertPoint()
	pos := b.pointPos
	if pos == b.gapStart {
		pos = b.gapEnd
	}

	n := 0
	if pos < b.gapStart {
		n = copy(p, b.storage[pos:b.gapStart])
		pos += n
		if pos == b.gapStart {
			pos = b.gapEnd
		}
	}
	if n < len(p) && pos >= b.gapEnd {
		m := copy(p[n:], b.storage[pos:])
		n += m
		pos += m
	}

	if n == 0 {
		return 0, io.EOF
	}
	b.pointPos = pos
	return n, nil
}

// Write inserts p at the point. It returns len(p) on success; the only
// error is an allocation failure, in which case nothing is written.
func (w Writer) Write(p []byte) (int, error) {
	if err := w.buf.Insert(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString inserts s at the point.
func (w Writer) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// ReadFrom inserts everything read from r at the point.
func (w Writer) ReadFrom(r io.Reader) (int64, error) {
	chunk := make([]byte, readFromChunk)
	var total int64
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if werr := w.buf.Insert(chunk[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// SeekTo moves the point to pos, clamped to [0, Len()].
func (s Seeker) SeekTo(pos int) {
	s.buf.SetPoint(pos)
}

// SeekBy moves the point by delta, clamped to [0, Len()].
func (s Seeker) SeekBy(delta int) {
	p := s.buf.Point()
	length := s.buf.Len()

	switch {
	case delta < 0 && -delta >= p, delta == math.MinInt:
		s.buf.SetPoint(0)
	case delta > 0 && delta >= length-p:
		s.buf.SetPoint(length)
	default:
		s.buf.SetPoint(p + delta)
	}
}

// Pos returns the point.
func (s Seeker) Pos() int {
	return s.buf.Point()
}

// EndPos returns the logical length.
func (s Seeker) EndPos() int {
	return s.buf.Len()
}

// Seek implements io.Seeker. Offsets outside the content are clamped;
// only an unknown whence is an error.
func (s Seeker) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(s.buf.Point())
	case io.SeekEnd:
		base = int64(s.buf.Len())
	default:
		return int64(s.buf.Point()), ErrInvalidWhence
	}

	length := int64(s.buf.Len())
	var target int64
	switch {
	case offset < 0 && -offset >= base, offset == math.MinInt64:
		target = 0
	case offset > 0 && offset >= length-base:
		target = length
	default:
		target = base + offset
	}

	s.buf.SetPoint(int(target))
	return target, nil
}

// Read implements io.Reader.
func (s Stream) Read(p []byte) (int, error) {
	return s.buf.Reader().Read(p)
}

// Write implements io.Writer.
func (s Stream) Write(p []byte) (int, error) {
	return s.buf.Writer().Write(p)
}

// Seek implements io.Seeker.
func (s Stream) Seek(offset int64, whence int) (int64, error) {
	return s.buf.Seeker().Seek(offset, whence)
}
