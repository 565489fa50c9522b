// Package gapbuffer provides a mutable byte buffer optimized for edits
// clustered around a moving cursor.
//
// The storage is a single byte slice partitioned into three regions:
//
//	[text before gap][gap][text after gap]
//
// Insertions and deletions happen at the gap, so repeated edits near the
// cursor (the "point") only move the bytes between the old gap position
// and the new one. Growth is lazy and amortized: the gap is enlarged only
// when an insertion does not fit, by max(requested, Len()/GrowthDivisor).
//
// Basic usage:
//
//	gb, err := gapbuffer.New()
//	if err != nil {
//	    return err
//	}
//	defer gb.Release()
//
//	gb.InsertString("12345")  // "12345", point 5
//	gb.SetPoint(3)
//	gb.InsertString("X")      // "123X45", point 4
//	gb.DeleteForward(1)       // "123X5"
//	gb.DeleteBackward(2)      // "125", point 2
//
// Stream views:
//
// Reader, Writer, Seeker and Stream are value types holding only the
// buffer pointer. They add no state of their own and delegate to the
// point-based operations, so they can be created and discarded freely:
//
//	gb.Seeker().SeekTo(0)
//	io.Copy(os.Stdout, gb.Reader())
//
// Positions:
//
// All positions are byte offsets into the logical (gap-free) text. The
// buffer never inspects content and is not aware of UTF-8 boundaries; a
// point may land inside a multi-byte sequence. Grapheme-aware movement is
// provided separately by the grapheme package.
//
// Errors:
//
// Only operations that resize storage can fail, and only with an
// allocation failure reported through the configured Allocator as an
// *AllocError. Seeking, reading and deleting clamp out-of-range input.
// A broken internal invariant is a bug and panics with *InvariantError.
//
// Thread Safety:
//
// A GapBuffer has no internal locking. Callers sharing one across
// goroutines must serialize access; the buffer package does this for
// editor documents.
package gapbuffer
