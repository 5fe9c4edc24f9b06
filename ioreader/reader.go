package ioreader

import "io"

// Reader is a positionable, chunked byte source: the common interface
// implemented by FileReader, FileSectionReader, and FilterReader. It
// mirrors the original SDK's qn_io_reader vtable (close/peek/read/seek/
// advance/duplicate/section/name/size) one-for-one, but as a plain Go
// interface — no vtable-offset pointer arithmetic needed.
//
// Read and Peek follow io.Reader's contract: io.EOF signals a clean end
// of input, any other error is unrecoverable for that Reader. Peek reads
// without consuming: the next Read (or Peek) sees the same bytes again.
type Reader interface {
	io.Closer

	// Peek fills buf with up to len(buf) bytes without advancing the
	// read position.
	Peek(buf []byte) (int, error)

	// Read fills buf with up to len(buf) bytes and advances the read
	// position by that many bytes.
	Read(buf []byte) (int, error)

	// Seek moves the read position to an absolute offset from the start
	// of this Reader's view (0 for a fresh FileReader, 0 for the start of
	// a section's own window, not the underlying file's start).
	Seek(offset int64) error

	// Advance moves the read position by delta bytes, which may be
	// negative.
	Advance(delta int64) error

	// Duplicate returns an independent Reader over the same underlying
	// data with its own read position (spec's "exclusive vs shared file
	// descriptor" distinction: duplicating always yields an independently
	// positionable reader regardless of how the original was opened).
	// FileReader and BufferReader duplicates start at the original's
	// current position; FileSectionReader and SectionReader duplicates
	// start at the beginning of the section's window.
	Duplicate() (Reader, error)

	// Section returns a Reader restricted to [offset, offset+size) of
	// this Reader's own view.
	Section(offset, size int64) (Reader, error)

	// Name identifies the underlying data, typically a file path; "" if
	// the Reader has no natural name (e.g. an in-memory buffer).
	Name() string

	// Size reports the total size of this Reader's view.
	Size() int64
}
