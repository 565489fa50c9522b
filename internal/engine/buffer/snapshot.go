package buffer

import "bytes"

// Snapshot is a read-only copy of a buffer at one revision. It is safe
// for concurrent access and does not change when the buffer is modified.
type Snapshot struct {
	text       []byte
	revisionID RevisionID
	lineEnding LineEnding
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return string(s.text)
}

// Len returns the byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(len(s.text))
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return bytes.Count(s.text, []byte(s.lineEnding.Sequence())) + 1
}

// RevisionID returns the revision this snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// LineEnding returns the line ending style at snapshot time.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}
