package gapbuffer

import (
	"fmt"
	"strings"
)

// Gap and point glyphs used by Dump.
const (
	dumpGapByte   = '_'
	dumpPointByte = '|'
)

// Dump renders the raw storage for debugging. Gap bytes are shown as
// underscores and the point as a bar, followed by the counters:
//
//	123|__45 len=5 point=3 gap=[3,5)
//
// The output is not a stable format.
func (b *GapBuffer) Dump() string {
	var sb strings.Builder
	sb.Grow(len(b.storage) + 48)

	for i := 0; i <= len(b.storage); i++ {
		if i == b.pointPos {
			sb.WriteByte(dumpPointByte)
		}
		if i == len(b.storage) {
			break
		}
		if i >= b.gapStart && i < b.gapEnd {
			sb.WriteByte(dumpGapByte)
		} else {
			sb.WriteByte(b.storage[i])
		}
	}

	fmt.Fprintf(&sb, " len=%d point=%d gap=[%d,%d)", b.Len(), b.Point(), b.gapStart, b.gapEnd)
	return sb.String()
}

// Format implements fmt.Formatter. %s and %v print the text, %q quotes
// it, and %+v prints Dump.
func (b *GapBuffer) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			fmt.Fprint(f, b.Dump())
			return
		}
		fmt.Fprint(f, b.String())
	case 's':
		fmt.Fprint(f, b.String())
	case 'q':
		fmt.Fprintf(f, "%q", b.String())
	default:
		fmt.Fprintf(f, "%%!%c(gapbuffer=%s)", verb, b.String())
	}
}
