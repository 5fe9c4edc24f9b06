package upload

import (
	"context"
	"encoding/base64"
	"fmt"
	"hash/crc32"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/bluntblade/kodo-go/ioreader"
	"github.com/bluntblade/kodo-go/jsonv"
	"github.com/bluntblade/kodo-go/kodoerr"
	"github.com/bluntblade/kodo-go/transport"
)

// Defaults for the uploader's own chunk/block retry loop: three
// retries after the first attempt, 200ms base, 5s cap, matching spec.md §7's "default 3,
// caller-configurable" bound.
const (
	DefaultMaxRetries  = 3
	DefaultBaseBackoff = 200 * time.Millisecond
	DefaultMaxBackoff  = 5 * time.Second
)

// Result is the successful outcome of a Put: the object's content hash
// and the (possibly server-rewritten, via saveKey) key it was stored
// under.
type Result struct {
	Hash string
	Key  string
}

// Uploader drives the mkblk/bput/mkfile wire protocol described in
// spec.md §4.9. It talks to the HTTP server directly (not through
// transport.Connection) because spec.md §7 requires retries be built at
// exactly one level: the chunk/block retry loop below is that level, and
// it needs to re-read the chunk's bytes from scratch on every attempt,
// which a generic Connection.Do retry (unaware of ioreader.Reader) could
// not do safely for a non-seekable request body.
type Uploader struct {
	httpClient  transport.HTTPDoer
	upHost      string
	uploadToken string
	maxRetries  uint64
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

// NewUploader returns an Uploader posting to upHost (e.g. a region's up
// service base URL) with uploadToken as the bearer of upload policy
// permission, and the default retry policy.
func NewUploader(httpClient transport.HTTPDoer, upHost, uploadToken string) *Uploader {
	return &Uploader{
		httpClient:  httpClient,
		upHost:      strings.TrimRight(upHost, "/"),
		uploadToken: uploadToken,
		maxRetries:  DefaultMaxRetries,
		baseBackoff: DefaultBaseBackoff,
		maxBackoff:  DefaultMaxBackoff,
	}
}

// WithRetryPolicy overrides the chunk/block retry bounds, returning u
// for chaining.
func (u *Uploader) WithRetryPolicy(maxRetries uint64, base, max time.Duration) *Uploader {
	u.maxRetries = maxRetries
	u.baseBackoff = base
	u.maxBackoff = max

	return u
}

// Put drives r (sized exactly p.TotalSize) through the resumable upload
// protocol, storing the object under key with the given mimeType,
// resuming from p's existing block state. On a retryable failure after
// exhausting retries, it returns with p mutated in place to reflect
// every block successfully completed so far — the caller may persist p
// (see Store) and call Put again later with a fresh reader over the same
// file.
func (u *Uploader) Put(ctx context.Context, r ioreader.Reader, key, mimeType string, p *Progress) (*Result, error) {
	if err := p.Attach(r.Size()); err != nil {
		return nil, err
	}

	for i := range p.Blocks {
		blk := &p.Blocks[i]

		for !blk.Done() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			if err := u.putNextChunk(ctx, r, blk); err != nil {
				return nil, err
			}
		}
	}

	return u.mkfile(ctx, r.Size(), key, mimeType, p)
}

// putNextChunk uploads blk's next chunk, retrying the whole
// read-and-send operation (a fresh section read from scratch each
// attempt) up to u.maxRetries times on a transport or validation
// failure, and advances blk on success.
func (u *Uploader) putNextChunk(ctx context.Context, r ioreader.Reader, blk *Block) error {
	backoff, err := retry.NewExponential(u.baseBackoff)
	if err != nil {
		return kodoerr.Wrap(kodoerr.InvalidArgument, "backoff policy", err)
	}
	backoff = retry.WithCappedDuration(u.maxBackoff, backoff)
	backoff = retry.WithMaxRetries(u.maxRetries, backoff)

	if blockContextExpired(blk) {
		blk.Uploaded = 0
		blk.Context = ""
		blk.ExpiresAt = 0
	}

	chunkSize := int64(ChunkSize)
	if remaining := blk.Size - blk.Uploaded; chunkSize > remaining {
		chunkSize = remaining
	}

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		section, err := r.Section(blk.Offset+blk.Uploaded, chunkSize)
		if err != nil {
			return err
		}
		defer section.Close()

		var sum uint32
		fr := ioreader.NewFilterReader(section, func(chunk []byte) error {
			sum = crc32.Update(sum, crc32.IEEETable, chunk)
			return nil
		})

		var resp blockResp
		if blk.Uploaded == 0 {
			resp, err = u.mkblk(ctx, blk.Size, fr, chunkSize)
		} else {
			resp, err = u.bput(ctx, blk.Context, blk.Uploaded, fr, chunkSize)
		}

		if err != nil {
			if retryableKind(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		if resp.Offset != blk.Uploaded+chunkSize || resp.CRC32 != sum || resp.Context == "" {
			return retry.RetryableError(kodoerr.New(kodoerr.StorInvalidChunkPutResult))
		}

		blk.Uploaded += chunkSize
		blk.Context = resp.Context
		blk.ExpiresAt = resp.ExpiresAt

		return nil
	})
}

// blockContextExpired reports whether blk holds a server context past its
// deadline. A resumed upload checks this before reusing Context/Uploaded:
// spec.md §4.9 treats an expired context like a chunk failure on that
// block, discarding its progress so the next chunk reissues mkblk instead
// of bput against a context the server has already dropped.
func blockContextExpired(blk *Block) bool {
	if blk.Uploaded == 0 || blk.ExpiresAt == 0 {
		return false
	}

	return time.Now().After(time.Unix(blk.ExpiresAt, 0))
}

func retryableKind(err error) bool {
	kind, ok := kodoerr.KindOf(err)
	if !ok {
		return false
	}

	return kind == kodoerr.TryAgain || kind == kodoerr.HTTPTransmissionFailed
}

func (u *Uploader) mkblk(ctx context.Context, blockSize int64, body ioreader.Reader, length int64) (blockResp, error) {
	return u.putChunk(ctx, fmt.Sprintf("%s/mkblk/%d", u.upHost, blockSize), body, length)
}

func (u *Uploader) bput(ctx context.Context, blockContext string, offset int64, body ioreader.Reader, length int64) (blockResp, error) {
	return u.putChunk(ctx, fmt.Sprintf("%s/bput/%s/%d", u.upHost, blockContext, offset), body, length)
}

func (u *Uploader) putChunk(ctx context.Context, url string, body ioreader.Reader, length int64) (blockResp, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, readerAdapter{body})
	if err != nil {
		return blockResp{}, kodoerr.Wrap(kodoerr.InvalidArgument, url, err)
	}

	req.ContentLength = length
	req.Header.Set("Authorization", "UpToken "+u.uploadToken)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return blockResp{}, kodoerr.Wrap(kodoerr.HTTPTransmissionFailed, url, err)
	}
	defer resp.Body.Close()

	v, err := transport.DecodeJSON(resp.Body)
	if err != nil {
		return blockResp{}, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return blockResp{}, kodoerr.Wrap(kodoerr.HTTPUnexpectedStatus, strconv.Itoa(resp.StatusCode), nil)
	}

	return parseBlockResp(v)
}

func (u *Uploader) mkfile(ctx context.Context, fileSize int64, key, mimeType string, p *Progress) (*Result, error) {
	contexts := make([]string, len(p.Blocks))
	for i, blk := range p.Blocks {
		contexts[i] = blk.Context
	}

	encKey := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(key))
	encMime := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(mimeType))

	url := fmt.Sprintf("%s/mkfile/%d/key/%s/mimeType/%s", u.upHost, fileSize, encKey, encMime)
	body := strings.NewReader(strings.Join(contexts, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, kodoerr.Wrap(kodoerr.InvalidArgument, url, err)
	}
	req.ContentLength = int64(body.Len())
	req.Header.Set("Authorization", "UpToken "+u.uploadToken)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, kodoerr.Wrap(kodoerr.HTTPTransmissionFailed, url, err)
	}
	defer resp.Body.Close()

	v, err := transport.DecodeJSON(resp.Body)
	if err != nil {
		return nil, err
	}

	mk, err := parseMkfileResp(v)
	if err != nil {
		return nil, err
	}

	return &Result{Hash: mk.Hash, Key: mk.Key}, nil
}

// readerAdapter lets an ioreader.Reader (which has its own Peek/Seek
// surface beyond plain io.Reader) satisfy http.NewRequest's body
// parameter.
type readerAdapter struct {
	r ioreader.Reader
}

func (a readerAdapter) Read(buf []byte) (int, error) { return a.r.Read(buf) }

type blockResp struct {
	Context   string
	Checksum  string
	CRC32     uint32
	Offset    int64
	Host      string
	ExpiresAt int64
}

func parseBlockResp(v jsonv.Value) (blockResp, error) {
	obj, ok := v.AsObject()
	if !ok {
		return blockResp{}, kodoerr.New(kodoerr.StorAPIReturnNoValue)
	}

	var r blockResp

	if val, ok := obj.Get("ctx"); ok {
		if s, ok := val.AsString(); ok {
			r.Context = s.String()
		}
	}
	if val, ok := obj.Get("checksum"); ok {
		if s, ok := val.AsString(); ok {
			r.Checksum = s.String()
		}
	}
	if val, ok := obj.Get("crc32"); ok {
		if n, ok := val.AsInt(); ok {
			r.CRC32 = uint32(n)
		}
	}
	if val, ok := obj.Get("offset"); ok {
		if n, ok := val.AsInt(); ok {
			r.Offset = n
		}
	}
	if val, ok := obj.Get("host"); ok {
		if s, ok := val.AsString(); ok {
			r.Host = s.String()
		}
	}
	if val, ok := obj.Get("expired_at"); ok {
		if n, ok := val.AsInt(); ok {
			r.ExpiresAt = n
		}
	}

	return r, nil
}

type mkfileResp struct {
	Hash string
	Key  string
}

func parseMkfileResp(v jsonv.Value) (mkfileResp, error) {
	obj, ok := v.AsObject()
	if !ok {
		return mkfileResp{}, kodoerr.New(kodoerr.StorAPIReturnNoValue)
	}

	if errVal, ok := obj.Get("error"); ok {
		msg, _ := errVal.AsString()
		return mkfileResp{}, kodoerr.Wrap(kodoerr.StorAPIReturnNoValue, msg.String(), nil)
	}

	var r mkfileResp
	if val, ok := obj.Get("hash"); ok {
		if s, ok := val.AsString(); ok {
			r.Hash = s.String()
		}
	}
	if val, ok := obj.Get("key"); ok {
		if s, ok := val.AsString(); ok {
			r.Key = s.String()
		}
	}

	return r, nil
}
