package gapbuffer

import (
	"errors"
	"fmt"
)

// Errors returned by gap buffer operations.
var (
	// ErrOutOfMemory indicates an allocator refused to provide storage.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrInvalidWhence indicates an unknown whence value passed to Seek.
	ErrInvalidWhence = errors.New("invalid whence")

	// ErrReleased is the panic value for use of a buffer after Release.
	ErrReleased = errors.New("gap buffer used after release")
)

// AllocError describes a failed storage resize.
type AllocError struct {
	Op   string // operation that needed storage ("init", "grow")
	Size int    // requested storage size in bytes
	Err  error
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("gapbuffer: %s to %d bytes: %v", e.Op, e.Size, e.Err)
}

// Unwrap returns the underlying allocator error.
func (e *AllocError) Unwrap() error {
	return e.Err
}

// InvariantError reports corrupted internal state. It is only ever used
// as a panic value.
type InvariantError struct {
	Invariant string
	GapStart  int
	GapEnd    int
	PointPos  int
	Size      int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("gapbuffer: invariant violated: %s (gap=[%d,%d) point=%d size=%d)",
		e.Invariant, e.GapStart, e.GapEnd, e.PointPos, e.Size)
}
