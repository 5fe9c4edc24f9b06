package ioreader

import (
	"io"

	"github.com/bluntblade/kodo-go/kodoerr"
)

// BufferReader is an in-memory Reader, used for small upload bodies and
// in tests where a file would be overkill. The original SDK has no
// direct counterpart (every non-file source in the reference is read
// straight off a qn_io_reader_itf the caller already built by hand); this
// fills the same role FileReader fills for files, grounded on the same
// Reader contract.
type BufferReader struct {
	name string
	data []byte
	pos  int
}

// NewBufferReader wraps data (not copied) as a Reader named name.
func NewBufferReader(name string, data []byte) *BufferReader {
	return &BufferReader{name: name, data: data}
}

func (b *BufferReader) Close() error { return nil }

func (b *BufferReader) Read(buf []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}

	n := copy(buf, b.data[b.pos:])
	b.pos += n

	return n, nil
}

func (b *BufferReader) Peek(buf []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}

	return copy(buf, b.data[b.pos:]), nil
}

func (b *BufferReader) Seek(offset int64) error {
	if offset < 0 || offset > int64(len(b.data)) {
		return kodoerr.New(kodoerr.InvalidArgument)
	}

	b.pos = int(offset)

	return nil
}

func (b *BufferReader) Advance(delta int64) error {
	return b.Seek(int64(b.pos) + delta)
}

func (b *BufferReader) Duplicate() (Reader, error) {
	dup := NewBufferReader(b.name, b.data)
	dup.pos = b.pos

	return dup, nil
}

func (b *BufferReader) Section(offset, size int64) (Reader, error) {
	if offset < 0 || offset+size > int64(len(b.data)) {
		return nil, kodoerr.New(kodoerr.InvalidArgument)
	}

	return NewBufferReader(b.name, b.data[offset:offset+size]), nil
}

func (b *BufferReader) Name() string { return b.name }
func (b *BufferReader) Size() int64  { return int64(len(b.data)) }
