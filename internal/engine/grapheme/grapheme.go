// Package grapheme moves a byte-addressed cursor by user-perceived
// characters (extended grapheme clusters).
//
// The gap buffer itself addresses raw bytes and never inspects content.
// This package is the opt-in layer for callers that want cursor motion
// which never splits a UTF-8 sequence or a combining sequence. Invalid
// UTF-8 bytes are treated as one cluster each.
package grapheme

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// initialWindow is the first read size when scanning for a boundary.
// The window doubles until a complete cluster is seen.
const initialWindow = 32

// Text is the cursor-bearing byte sequence navigated by this package.
// *gapbuffer.GapBuffer implements it.
type Text interface {
	io.ReaderAt
	Len() int
	Point() int
	SetPoint(pos int)
}

// Next moves the point forward by one grapheme cluster and returns the
// number of bytes moved. It returns 0 at the end of the text.
func Next(t Text) int {
	p := t.Point()
	n := clusterAfter(t, p)
	t.SetPoint(p + n)
	return n
}

// Prev moves the point back by one grapheme cluster and returns the
// number of bytes moved. It returns 0 at the start of the text.
func Prev(t Text) int {
	p := t.Point()
	n := clusterBefore(t, p)
	t.SetPoint(p - n)
	return n
}

// Count returns the number of grapheme clusters in the text.
func Count(t Text) int {
	data := make([]byte, t.Len())
	n, _ := t.ReadAt(data, 0)
	count := 0
	state := -1
	rest := data[:n]
	for len(rest) > 0 {
		_, rest, _, state = uniseg.FirstGraphemeCluster(rest, state)
		count++
	}
	return count
}

// Boundary reports whether pos falls between two grapheme clusters.
// The start and end of the text are boundaries; positions outside the
// text are not.
func Boundary(t Text, pos int) bool {
	length := t.Len()
	switch {
	case pos < 0 || pos > length:
		return false
	case pos == 0 || pos == length:
		return true
	}

	// Segment from a line start through the rune that begins at or
	// straddles pos.
	start := lineStart(t, pos-1)
	end := min(pos+utf8.UTFMax, length)
	chunk := make([]byte, end-start)
	n, _ := t.ReadAt(chunk, int64(start))

	offset := start
	state := -1
	rest := chunk[:n]
	for len(rest) > 0 && offset < pos {
		var cluster []byte
		cluster, rest, _, state = uniseg.FirstGraphemeCluster(rest, state)
		offset += len(cluster)
	}
	return offset == pos
}

// clusterAfter returns the byte length of the cluster starting at pos.
func clusterAfter(t Text, pos int) int {
	length := t.Len()
	if pos >= length {
		return 0
	}

	for window := initialWindow; ; window *= 2 {
		end := min(pos+window, length)
		chunk := make([]byte, end-pos)
		n, _ := t.ReadAt(chunk, int64(pos))
		chunk = chunk[:n]

		cluster, rest, _, _ := uniseg.FirstGraphemeCluster(chunk, -1)
		// The break after a cluster is only known once the whole next rune
		// is in the chunk.
		if utf8.FullRune(rest) || end == length {
			return len(cluster)
		}
	}
}

// clusterBefore returns the byte length of the cluster ending at pos.
// Segmentation starts at a line start, so every boundary it finds is a
// real one.
func clusterBefore(t Text, pos int) int {
	if pos <= 0 {
		return 0
	}
	pos = min(pos, t.Len())

	start := lineStart(t, pos-1)
	chunk := make([]byte, pos-start)
	n, _ := t.ReadAt(chunk, int64(start))
	chunk = chunk[:n]

	last, offset := 0, 0
	state := -1
	rest := chunk
	for len(rest) > 0 {
		var cluster []byte
		cluster, rest, _, state = uniseg.FirstGraphemeCluster(rest, state)
		last = offset
		offset += len(cluster)
	}
	return len(chunk) - last
}

// lineStart returns the offset just past the last LF before limit, or 0.
// A break always follows LF, whatever precedes it.
func lineStart(t Text, limit int) int {
	end := limit
	for window := initialWindow; end > 0; window *= 2 {
		start := max(end-window, 0)
		chunk := make([]byte, end-start)
		n, _ := t.ReadAt(chunk, int64(start))
		if i := bytes.LastIndexByte(chunk[:n], '\n'); i >= 0 {
			return start + i + 1
		}
		end = start
	}
	return 0
}
