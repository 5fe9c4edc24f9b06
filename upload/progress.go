// Package upload implements the resumable upload engine: fixed-size
// block/chunk layout, crash-resumable progress tracking, and the
// mkblk/bput/mkfile wire protocol, grounded on spec.md §4.9 and the
// original SDK's stor/uploader.c and stor/resumable_put.c.
package upload

import (
	"encoding/json"

	"github.com/bluntblade/kodo-go/kodoerr"
)

// Layout constants: a file is divided into fixed BlockSize blocks
// (except possibly the last); each block is uploaded as a sequence of
// ChunkSize chunks.
const (
	BlockSize = 4 << 20   // 4 MiB
	ChunkSize = 256 << 10 // 256 KiB
)

// Block tracks one block's upload progress. Field names match the
// persisted wire format byte-for-byte (spec.md §3's Persisted progress
// format).
type Block struct {
	Index     int    `json:"index"`
	Offset    int64  `json:"offset"`
	Size      int64  `json:"size"`
	Uploaded  int64  `json:"uploaded"`
	Context   string `json:"ctx"`
	ExpiresAt int64  `json:"expired_at"`
}

// Done reports whether the block has received every byte and holds a
// server-issued context for it.
func (b *Block) Done() bool { return b.Uploaded == b.Size && b.Context != "" }

// Progress is the crash-resumable state of one file upload: enough to
// serialize, persist, reload, and resume without re-sending blocks the
// server has already acknowledged.
type Progress struct {
	TotalSize int64   `json:"total_size"`
	BlockSize int64   `json:"block_size"`
	Blocks    []Block `json:"blocks"`
}

// NewProgress lays totalSize out into BlockSize blocks, the last one
// possibly short. A zero-length file yields zero blocks, so Done is
// vacuously true and Put proceeds straight to mkfile.
func NewProgress(totalSize int64) *Progress {
	p := &Progress{TotalSize: totalSize, BlockSize: BlockSize}

	for offset := int64(0); offset < totalSize; offset += BlockSize {
		size := int64(BlockSize)
		if offset+size > totalSize {
			size = totalSize - offset
		}

		p.Blocks = append(p.Blocks, Block{
			Index:  len(p.Blocks),
			Offset: offset,
			Size:   size,
		})
	}

	return p
}

// Done reports whether every block has finished uploading.
func (p *Progress) Done() bool {
	for i := range p.Blocks {
		if !p.Blocks[i].Done() {
			return false
		}
	}

	return true
}

// Attach validates that size (typically a freshly reopened file's size)
// still matches the progress's recorded total, the precondition spec.md
// §4.9 requires before resuming: "if the fresh reader's size differs,
// the attach fails."
func (p *Progress) Attach(size int64) error {
	if size != p.TotalSize {
		return kodoerr.New(kodoerr.StorInvalidResumableSession)
	}

	return nil
}

// Encode serializes p to its persisted JSON form.
func (p *Progress) Encode() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, kodoerr.Wrap(kodoerr.StorInvalidResumableSession, "", err)
	}

	return data, nil
}

// DecodeProgress parses a previously-persisted progress record.
func DecodeProgress(data []byte) (*Progress, error) {
	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, kodoerr.Wrap(kodoerr.StorInvalidResumableSession, "", err)
	}

	return &p, nil
}
