package ioreader

import (
	"io"

	"github.com/bluntblade/kodo-go/kodoerr"
)

// Observer is called with each slice of bytes a FilterReader passes
// through on a successful Read. It must not retain buf past the call
// (the same backing array is reused by the caller). Returning an error
// aborts the read that triggered it: FilterReader.Read then returns the
// byte count together with a StorPuttingAbortedByFilter error wrapping
// the observer's error, and later observers are not called — the Go
// expression of the
// original's QN_IO_RDR_FILTER_ABORTED_BY_FILTER sentinel
// (original_source's stor/uploader.c checksums each chunk as it is read
// off the wire; a reader-side filter here lets the same accounting
// happen as bytes flow the other way, out toward the network).
type Observer func(chunk []byte) error

// FilterReader wraps a Reader, running each successfully-read chunk
// through zero or more Observers before returning it to the caller —
// e.g. accumulating a running CRC32/MD5/SHA1 digest as upload chunks
// stream past, without buffering them twice. Peek does not invoke
// observers (it must not have an externally visible effect, matching
// Reader's no-side-effect contract for Peek).
type FilterReader struct {
	src       Reader
	observers []Observer
}

// NewFilterReader wraps src, invoking each of observers, in order, after
// every successful Read.
func NewFilterReader(src Reader, observers ...Observer) *FilterReader {
	return &FilterReader{src: src, observers: observers}
}

func (f *FilterReader) Close() error { return f.src.Close() }

func (f *FilterReader) Read(buf []byte) (int, error) {
	n, err := f.src.Read(buf)
	if n > 0 {
		for _, obs := range f.observers {
			if obsErr := obs(buf[:n]); obsErr != nil {
				return n, kodoerr.Wrap(kodoerr.StorPuttingAbortedByFilter, "", obsErr)
			}
		}
	}

	if err != nil && err != io.EOF {
		return n, err
	}

	return n, err
}

func (f *FilterReader) Peek(buf []byte) (int, error) { return f.src.Peek(buf) }

func (f *FilterReader) Seek(offset int64) error { return f.src.Seek(offset) }

func (f *FilterReader) Advance(delta int64) error { return f.src.Advance(delta) }

func (f *FilterReader) Duplicate() (Reader, error) {
	dup, err := f.src.Duplicate()
	if err != nil {
		return nil, err
	}

	return NewFilterReader(dup, f.observers...), nil
}

func (f *FilterReader) Section(offset, size int64) (Reader, error) {
	sec, err := f.src.Section(offset, size)
	if err != nil {
		return nil, err
	}

	return NewFilterReader(sec, f.observers...), nil
}

func (f *FilterReader) Name() string { return f.src.Name() }
func (f *FilterReader) Size() int64  { return f.src.Size() }

// AddObserver appends an Observer to the end of the chain; observers
// already registered stay in place and keep being called.
func (f *FilterReader) AddObserver(obs Observer) {
	f.observers = append(f.observers, obs)
}
