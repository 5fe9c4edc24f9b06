package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressSplitsIntoBlocks(t *testing.T) {
	p := NewProgress(BlockSize*2 + 100)
	require.Len(t, p.Blocks, 3)

	assert.Equal(t, int64(0), p.Blocks[0].Offset)
	assert.Equal(t, int64(BlockSize), p.Blocks[0].Size)
	assert.Equal(t, int64(BlockSize), p.Blocks[1].Offset)
	assert.Equal(t, int64(BlockSize), p.Blocks[1].Size)
	assert.Equal(t, int64(BlockSize*2), p.Blocks[2].Offset)
	assert.Equal(t, int64(100), p.Blocks[2].Size)
}

func TestNewProgressZeroLengthFileHasNoBlocks(t *testing.T) {
	p := NewProgress(0)
	assert.Empty(t, p.Blocks)
	assert.True(t, p.Done())
}

func TestProgressDoneRequiresEveryBlockDone(t *testing.T) {
	p := NewProgress(BlockSize + 1)
	assert.False(t, p.Done())

	p.Blocks[0].Uploaded = p.Blocks[0].Size
	p.Blocks[0].Context = "ctx-a"
	assert.False(t, p.Done())

	p.Blocks[1].Uploaded = p.Blocks[1].Size
	p.Blocks[1].Context = "ctx-b"
	assert.True(t, p.Done())
}

func TestBlockDoneRequiresNonEmptyContext(t *testing.T) {
	b := Block{Size: 10, Uploaded: 10}
	assert.False(t, b.Done())

	b.Context = "ctx"
	assert.True(t, b.Done())
}

func TestProgressEncodeDecodeRoundTrip(t *testing.T) {
	p := NewProgress(BlockSize + 1)
	p.Blocks[0].Uploaded = ChunkSize
	p.Blocks[0].Context = "partial-ctx"
	p.Blocks[0].ExpiresAt = 1700000000

	data, err := p.Encode()
	require.NoError(t, err)

	got, err := DecodeProgress(data)
	require.NoError(t, err)

	assert.Equal(t, p.TotalSize, got.TotalSize)
	assert.Equal(t, p.BlockSize, got.BlockSize)
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, "partial-ctx", got.Blocks[0].Context)
	assert.EqualValues(t, ChunkSize, got.Blocks[0].Uploaded)
}

func TestProgressEncodeUsesPersistedFieldNames(t *testing.T) {
	p := NewProgress(10)
	p.Blocks[0].Context = "c"

	data, err := p.Encode()
	require.NoError(t, err)

	s := string(data)
	for _, field := range []string{`"total_size"`, `"block_size"`, `"blocks"`, `"index"`, `"offset"`, `"size"`, `"uploaded"`, `"ctx"`, `"expired_at"`} {
		assert.Contains(t, s, field)
	}
}

func TestProgressAttachRejectsSizeMismatch(t *testing.T) {
	p := NewProgress(100)
	assert.NoError(t, p.Attach(100))
	assert.Error(t, p.Attach(99))
}
