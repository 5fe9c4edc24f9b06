package kodo

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/multierr"

	"github.com/bluntblade/kodo-go/jsonv"
	"github.com/bluntblade/kodo-go/kodoerr"
)

// BatchResult is one /batch response entry: the HTTP-shaped status code
// the server assigned this particular op, and its decoded data on
// success.
type BatchResult struct {
	Code int
	Data jsonv.Value
	Err  error
}

// StatOp, DeleteOp, CopyOp, and MoveOp build one RS /batch operation
// string apiece, grounded on demo/qbatch_stat.c's op-string assembly
// (the single-operation endpoints and their batch counterparts share
// the exact same "/verb/arg1/arg2" shape; batch just strings several
// together under one "op=" per line).
func StatOp(bucket, key string) string {
	return "/stat/" + encodeEntry(bucket, key)
}

func DeleteOp(bucket, key string) string {
	return "/delete/" + encodeEntry(bucket, key)
}

func CopyOp(srcBucket, srcKey, dstBucket, dstKey string) string {
	return "/copy/" + encodeEntry(srcBucket, srcKey) + "/" + encodeEntry(dstBucket, dstKey)
}

func MoveOp(srcBucket, srcKey, dstBucket, dstKey string) string {
	return "/move/" + encodeEntry(srcBucket, srcKey) + "/" + encodeEntry(dstBucket, dstKey)
}

// Batch submits every op in ops as one POST /batch call against
// bucket's resource-admin service, grounded on demo/qbatch_stat.c. The
// returned slice is positional (result i answers ops[i]) even when some
// ops fail: per-item failures are reported both as a non-nil Err on
// that BatchResult and folded into the returned aggregate error via
// multierr, so a caller that only checks the returned error still learns
// every op failed, while one that inspects results can tell which.
func (c *Client) Batch(ctx context.Context, bucket string, ops []string) ([]BatchResult, error) {
	if len(ops) == 0 {
		return nil, nil
	}

	form := make([]string, len(ops))
	for i, op := range ops {
		form[i] = "op=" + url.QueryEscape(op)
	}
	body := []byte(strings.Join(form, "&"))

	v, err := c.rsPost(ctx, bucket, "/batch", body, "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}

	arr, ok := v.AsArray()
	if !ok {
		return nil, kodoerr.New(kodoerr.StorInvalidListResult)
	}

	results := make([]BatchResult, arr.Len())
	var aggregate error

	arr.ForEach(func(i int, iv jsonv.Value) bool {
		obj, ok := iv.AsObject()
		if !ok {
			results[i] = BatchResult{Err: kodoerr.New(kodoerr.StorAPIReturnNoValue)}
			aggregate = multierr.Append(aggregate, results[i].Err)
			return true
		}

		code := 0
		if cv, ok := obj.Get("code"); ok {
			if n, ok := cv.AsInt(); ok {
				code = int(n)
			}
		}

		data, _ := obj.Get("data")

		r := BatchResult{Code: code, Data: data}
		if code < http.StatusOK || code >= http.StatusMultipleChoices {
			r.Err = kodoerr.Wrap(kodoerr.HTTPUnexpectedStatus, ops[i], nil)
			aggregate = multierr.Append(aggregate, r.Err)
		}

		results[i] = r

		return true
	})

	return results, aggregate
}
