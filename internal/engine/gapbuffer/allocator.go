package gapbuffer

// Allocator provides backing storage for a GapBuffer.
//
// Resize returns a slice of exactly size bytes whose prefix holds the
// contents of buf up to min(len(buf), size). The returned slice may alias
// buf. Bytes past len(buf) have unspecified content.
type Allocator interface {
	Resize(buf []byte, size int) ([]byte, error)
}

// HeapAllocator allocates from the Go heap and never fails short of a
// runtime out-of-memory condition.
type HeapAllocator struct{}

// Resize implements Allocator.
func (HeapAllocator) Resize(buf []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrOutOfMemory
	}
	if size <= cap(buf) {
		return buf[:size], nil
	}
	return append(buf[:cap(buf)], make([]byte, size-cap(buf))...), nil
}

// LimitAllocator is a heap allocator with a hard storage ceiling.
type LimitAllocator struct {
	Limit int
}

// Resize implements Allocator. It fails with ErrOutOfMemory when size
// exceeds Limit.
func (a LimitAllocator) Resize(buf []byte, size int) ([]byte, error) {
	if size > a.Limit {
		return nil, ErrOutOfMemory
	}
	return HeapAllocator{}.Resize(buf, size)
}
