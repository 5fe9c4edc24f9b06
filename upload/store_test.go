package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluntblade/kodo-go/kodoerr"
)

func TestStoreSaveThenLoadRoundTrips(t *testing.T) {
	s := NewStore(t.TempDir())

	p := NewProgress(BlockSize + 1)
	p.Blocks[0].Uploaded = p.Blocks[0].Size
	p.Blocks[0].Context = "ctx-a"

	require.NoError(t, s.Save("bucket1", "path/to/file.bin", p))

	got, err := s.Load("bucket1", "path/to/file.bin")
	require.NoError(t, err)
	assert.Equal(t, p.TotalSize, got.TotalSize)
	assert.Equal(t, "ctx-a", got.Blocks[0].Context)
}

func TestStoreLoadMissingIsNoSuchEntry(t *testing.T) {
	s := NewStore(t.TempDir())

	_, err := s.Load("bucket1", "never-saved")
	require.Error(t, err)
	assert.True(t, kodoerr.New(kodoerr.NoSuchEntry).Is(err))
}

func TestStoreSaveOverwritesExistingRecord(t *testing.T) {
	s := NewStore(t.TempDir())

	first := NewProgress(10)
	require.NoError(t, s.Save("b", "k", first))

	second := NewProgress(20)
	require.NoError(t, s.Save("b", "k", second))

	got, err := s.Load("b", "k")
	require.NoError(t, err)
	assert.EqualValues(t, 20, got.TotalSize)
}

func TestStoreDeleteRemovesRecord(t *testing.T) {
	s := NewStore(t.TempDir())

	require.NoError(t, s.Save("b", "k", NewProgress(1)))
	require.NoError(t, s.Delete("b", "k"))

	_, err := s.Load("b", "k")
	assert.True(t, kodoerr.New(kodoerr.NoSuchEntry).Is(err))
}

func TestStoreDeleteMissingIsNotAnError(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.NoError(t, s.Delete("b", "never-there"))
}

func TestStoreDistinguishesKeysWithAmbiguousDelimiters(t *testing.T) {
	s := NewStore(t.TempDir())

	require.NoError(t, s.Save("a:", "b", NewProgress(1)))
	require.NoError(t, s.Save("a", ":b", NewProgress(2)))

	first, err := s.Load("a:", "b")
	require.NoError(t, err)
	second, err := s.Load("a", ":b")
	require.NoError(t, err)

	assert.NotEqual(t, first.TotalSize, second.TotalSize)
}
