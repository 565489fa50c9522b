package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/gapbuf/internal/engine/gapbuffer"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrClosed           = errors.New("buffer is closed")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is an editor document stored in a gap buffer.
// All methods are safe for concurrent use.
type Buffer struct {
	mu         sync.Mutex
	gb         *gapbuffer.GapBuffer
	id         uuid.UUID
	revisionID RevisionID
	lineEnding LineEnding
	gapOpts    []gapbuffer.Option
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) (*Buffer, error) {
	b := &Buffer{
		id:         uuid.New(),
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
	}

	for _, opt := range opts {
		opt(b)
	}

	gb, err := gapbuffer.New(b.gapOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating buffer: %w", err)
	}
	b.gb = gb

	return b, nil
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) (*Buffer, error) {
	return NewBufferFromReader(strings.NewReader(s), opts...)
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	b, err := NewBuffer(opts...)
	if err != nil {
		return nil, err
	}

	// Read all content first to handle line ending normalization correctly
	// (CRLF sequences may be split across read boundaries)
	data, err := io.ReadAll(r)
	if err != nil {
		b.Close()
		return nil, err
	}

	text := b.normalizeLineEndings(string(data))
	if _, err := b.gb.Writer().WriteString(text); err != nil {
		b.Close()
		return nil, fmt.Errorf("loading buffer: %w", err)
	}
	return b, nil
}

// normalizeLineEndings converts all line endings to the buffer's preferred style.
func (b *Buffer) normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') && b.lineEnding == LineEndingLF {
		return s
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.lineEnding != LineEndingLF {
		s = strings.ReplaceAll(s, "\n", b.lineEnding.Sequence())
	}
	return s
}

// Close releases the underlying storage. Later calls return ErrClosed
// or zero values.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gb.Release()
}

// ID returns the document's unique identifier.
func (b *Buffer) ID() uuid.UUID {
	return b.id
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gb.String()
}

// TextRange returns text in the given byte range.
func (b *Buffer) TextRange(start, end ByteOffset) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(start, end); err != nil {
		return "", err
	}

	out := make([]byte, end-start)
	if _, err := b.gb.ReadAt(out, start); err != nil && err != io.EOF {
		return "", err
	}
	return string(out), nil
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ByteOffset(b.gb.Len())
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Count(b.gb.Bytes(), []byte(b.lineEnding.Sequence())) + 1
}

// WriteTo writes the content to w without moving the edit point.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gb.WriteTo(w)
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkLive(); err != nil {
		return 0, err
	}
	if offset < 0 || offset > ByteOffset(b.gb.Len()) {
		return 0, ErrOffsetOutOfRange
	}

	text = b.normalizeLineEndings(text)
	b.gb.SetPoint(int(offset))
	if err := b.gb.InsertString(text); err != nil {
		return 0, err
	}
	b.revisionID = NewRevisionID()

	return offset + ByteOffset(len(text)), nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkLive(); err != nil {
		return err
	}
	if err := b.checkRange(start, end); err != nil {
		return err
	}

	b.gb.SetPoint(int(start))
	b.gb.DeleteForward(int(end - start))
	b.revisionID = NewRevisionID()

	return nil
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkLive(); err != nil {
		return 0, err
	}
	if err := b.checkRange(start, end); err != nil {
		return 0, err
	}

	text = b.normalizeLineEndings(text)
	// Insert ahead of the old range first so a failed grow leaves the
	// content untouched. The old range then sits right after the point.
	b.gb.SetPoint(int(start))
	if err := b.gb.InsertString(text); err != nil {
		return 0, err
	}
	b.gb.DeleteForward(int(end - start))
	b.revisionID = NewRevisionID()

	return start + ByteOffset(len(text)), nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revisionID
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lineEnding
}

// SetLineEnding sets the buffer's line ending style.
// This does not convert existing line endings.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// Stats returns the gap buffer's data movement counters.
func (b *Buffer) Stats() gapbuffer.Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gb.Stats()
}

// Snapshot returns a read-only copy of the current buffer state.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return &Snapshot{
		text:       b.gb.Bytes(),
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
	}
}

// Do runs fn with exclusive access to the underlying gap buffer, for
// point-based editing sequences. fn must not retain gb.
func (b *Buffer) Do(fn func(gb *gapbuffer.GapBuffer) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkLive(); err != nil {
		return err
	}
	err := fn(b.gb)
	b.revisionID = NewRevisionID()
	return err
}

func (b *Buffer) checkLive() error {
	if b.gb.Released() {
		return ErrClosed
	}
	return nil
}

func (b *Buffer) checkRange(start, end ByteOffset) error {
	if start < 0 || start > end || end > ByteOffset(b.gb.Len()) {
		return ErrRangeInvalid
	}
	return nil
}
