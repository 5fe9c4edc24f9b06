package kodo

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/bluntblade/kodo-go/jsonv"
	"github.com/bluntblade/kodo-go/kodoerr"
	"github.com/bluntblade/kodo-go/region"
	"github.com/bluntblade/kodo-go/sign"
	"github.com/bluntblade/kodo-go/transport"
	"github.com/bluntblade/kodo-go/upload"
)

// MinResumableFileSize and MaxResumableFileSize clamp the
// caller-supplied "switch to resumable upload above this size"
// threshold, mirroring qn_easy_init_put_extra's clamp of
// min_resumable_fsize to [4MB, 500MB] with a 10MB default.
const (
	MinResumableFileSize     = 4 << 20
	MaxResumableFileSize     = 500 << 20
	DefaultResumableFileSize = 10 << 20
)

// clampResumableThreshold applies qn_easy_init_put_extra's bounds to a
// caller-supplied threshold, substituting the default when it is below
// the minimum (covers both "unset" and "too small to be worth a
// resumable session" in one clamp, matching the original's own
// behavior of treating anything under 4MB as "use the default").
func clampResumableThreshold(threshold int64) int64 {
	switch {
	case threshold < MinResumableFileSize:
		return DefaultResumableFileSize
	case threshold > MaxResumableFileSize:
		return MaxResumableFileSize
	default:
		return threshold
	}
}

// policyBucket recovers the bucket name a policy's scope authorizes,
// splitting "bucket:key" the same way qn_easy_select_putting_entry does.
func policyBucket(policy *sign.UploadPolicy) string {
	bucket, _, _ := strings.Cut(policy.Scope(), ":")
	return bucket
}

// Put uploads all of r's bytes to key in one
// multipart POST, the direct (non-resumable) path grounded on
// qn_easy_put_file_in_one_piece. Use PutFile for the size-driven
// dispatch between this and the resumable path.
func (c *Client) Put(ctx context.Context, r io.Reader, key, mimeType string, policy *sign.UploadPolicy) (*upload.Result, error) {
	token, err := policy.SignedToken(c.creds)
	if err != nil {
		return nil, err
	}

	fb := transport.NewFormBuilder()

	if err := fb.WriteField("token", token); err != nil {
		return nil, err
	}
	if key != "" {
		if err := fb.WriteField("key", key); err != nil {
			return nil, err
		}
	}

	contentType := mimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body, err := fb.Body("file", key, contentType, r)
	if err != nil {
		return nil, err
	}

	baseURL := c.serviceBaseURL(policyBucket(policy), region.KindUp)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/", body)
	if err != nil {
		return nil, kodoerr.Wrap(kodoerr.InvalidArgument, baseURL, err)
	}
	req.Header.Set("Content-Type", fb.ContentType())

	resp, err := c.conn.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	v, err := decodeResponseBody(resp)
	if err != nil {
		return nil, err
	}

	return parsePutResult(v)
}

func parsePutResult(v jsonv.Value) (*upload.Result, error) {
	obj, ok := v.AsObject()
	if !ok {
		return nil, kodoerr.New(kodoerr.StorAPIReturnNoValue)
	}

	res := &upload.Result{}
	if val, ok := obj.Get("hash"); ok {
		if s, ok := val.AsString(); ok {
			res.Hash = s.String()
		}
	}
	if val, ok := obj.Get("key"); ok {
		if s, ok := val.AsString(); ok {
			res.Key = s.String()
		}
	}

	return res, nil
}
