// Package buffer provides a goroutine-safe editor document built on top
// of the gap buffer. It is the shared, offset-addressed interface that
// editor components use for text manipulation.
//
// The buffer package provides:
//
//   - Serialized read/write access via sync.Mutex around a single GapBuffer
//   - Offset-based Insert, Delete and Replace with range validation
//   - Line ending normalization on every write
//   - A stable document ID and monotonically increasing revision IDs
//   - Copy-based snapshots for concurrent readers
//
// Basic usage:
//
//	buf, err := buffer.NewBufferFromString("Hello, World!")
//	if err != nil {
//	    return err
//	}
//	defer buf.Close()
//
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
// Successive edits near each other are cheap: every edit positions the
// gap buffer's point and only the bytes between the previous and the new
// edit location move.
//
// Offsets are bytes. The buffer does not validate UTF-8.
package buffer
