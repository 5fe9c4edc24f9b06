package ioreader

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestFileReaderReadsWholeFile(t *testing.T) {
	path := writeTempFile(t, "hello world")

	r, err := OpenFile(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, int64(11), r.Size())

	buf := make([]byte, 64)
	n, err := r.Read(buf)
	assert.True(t, err == nil || err == io.EOF)
	assert.Equal(t, "hello world", string(buf[:n]))
}

func TestFileReaderPeekDoesNotConsume(t *testing.T) {
	path := writeTempFile(t, "abcdef")

	r, err := OpenFile(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 3)
	n, err := r.Peek(buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf[:n]))

	n, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf[:n]))
}

func TestFileSectionReaderContainment(t *testing.T) {
	path := writeTempFile(t, "0123456789")

	sec, err := NewFileSection(path, 2, 5)
	require.NoError(t, err)
	defer sec.Close()

	assert.Equal(t, int64(5), sec.Size())

	buf := make([]byte, 64)
	n, err := sec.Read(buf)
	assert.True(t, err == nil || err == io.EOF)
	assert.Equal(t, "23456", string(buf[:n]))

	n, err = sec.Read(buf)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 0, n)
}

func TestFileSectionReaderNestedSectionRespectsBounds(t *testing.T) {
	path := writeTempFile(t, "0123456789")

	sec, err := NewFileSection(path, 2, 5) // "23456"
	require.NoError(t, err)
	defer sec.Close()

	_, err = sec.Section(4, 2) // would run past the 5-byte window
	require.Error(t, err)

	inner, err := sec.Section(1, 2) // "34"
	require.NoError(t, err)
	defer inner.Close()

	buf := make([]byte, 64)
	n, _ := inner.Read(buf)
	assert.Equal(t, "34", string(buf[:n]))
}

func TestFileSectionDuplicateResetsToStart(t *testing.T) {
	path := writeTempFile(t, "0123456789")

	sec, err := NewFileSection(path, 0, 10)
	require.NoError(t, err)
	defer sec.Close()

	buf := make([]byte, 3)
	_, err = sec.Read(buf)
	require.NoError(t, err)

	dup, err := sec.Duplicate()
	require.NoError(t, err)
	defer dup.Close()

	n, err := dup.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "012", string(buf[:n]))
}

func TestBufferReaderSectionAndDuplicate(t *testing.T) {
	b := NewBufferReader("mem", []byte("abcdefgh"))

	sec, err := b.Section(2, 4)
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, _ := sec.Read(buf)
	assert.Equal(t, "cdef", string(buf[:n]))

	dup, err := b.Duplicate()
	require.NoError(t, err)

	n, _ = dup.Read(buf)
	assert.Equal(t, "abcdefgh", string(buf[:n]))
}

func TestFilterReaderInvokesObserversInOrder(t *testing.T) {
	b := NewBufferReader("mem", []byte("hello"))

	var seen []string
	fr := NewFilterReader(b,
		func(chunk []byte) error { seen = append(seen, "first:"+string(chunk)); return nil },
		func(chunk []byte) error { seen = append(seen, "second:"+string(chunk)); return nil },
	)

	buf := make([]byte, 5)
	n, err := fr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []string{"first:hello", "second:hello"}, seen)
}

func TestFilterReaderAbortsOnObserverError(t *testing.T) {
	b := NewBufferReader("mem", []byte("hello"))

	boom := assert.AnError
	fr := NewFilterReader(b, func(chunk []byte) error { return boom })

	buf := make([]byte, 5)
	_, err := fr.Read(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestFilterReaderPeekSkipsObservers(t *testing.T) {
	b := NewBufferReader("mem", []byte("hello"))

	var called bool
	fr := NewFilterReader(b, func(chunk []byte) error { called = true; return nil })

	buf := make([]byte, 5)
	_, err := fr.Peek(buf)
	require.NoError(t, err)
	assert.False(t, called)
}
