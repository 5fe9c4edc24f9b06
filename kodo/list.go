package kodo

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bluntblade/kodo-go/jsonv"
	"github.com/bluntblade/kodo-go/kodoerr"
	"github.com/bluntblade/kodo-go/region"
)

// Item is one /list response entry.
type Item struct {
	Key      string
	Hash     string
	FSize    int64
	PutTime  int64
	MimeType string
}

// ListOptions narrows a List call, grounded on
// qn_easy_list_extra_st/qn_stor_lse_set_prefix: Prefix restricts keys,
// Delimiter groups keys sharing a prefix up to the next Delimiter byte
// into the response's "commonPrefixes", Limit bounds entries per page
// (clamped to 1000, the server's own max, matching qn_easy_list's own
// clamp).
type ListOptions struct {
	Prefix    string
	Delimiter string
	Limit     int
}

// List walks every page of bucket's object listing matching opts,
// calling visit once per item in key order. Returning false from visit
// stops the walk early without error, mirroring qn_easy_list's
// itr_cb-returns-qn_false early exit. Grounded on easy.c's
// qn_easy_list marker-driven pagination loop.
func (c *Client) List(ctx context.Context, bucket string, opts ListOptions, visit func(Item) bool) error {
	limit := opts.Limit
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	marker := ""
	for {
		query := url.Values{}
		query.Set("bucket", bucket)
		query.Set("limit", strconv.Itoa(limit))

		if opts.Prefix != "" {
			query.Set("prefix", opts.Prefix)
		}
		if opts.Delimiter != "" {
			query.Set("delimiter", opts.Delimiter)
		}
		if marker != "" {
			query.Set("marker", marker)
		}

		baseURL := c.serviceBaseURL(bucket, region.KindRSF)

		req, err := c.signedRequest(http.MethodGet, baseURL, "/list", query.Encode(), nil, "")
		if err != nil {
			return kodoerr.Wrap(kodoerr.InvalidArgument, "/list", err)
		}

		resp, err := c.conn.Do(ctx, req)
		if err != nil {
			return err
		}

		v, derr := decodeResponseBody(resp)
		if derr != nil {
			return derr
		}

		obj, ok := v.AsObject()
		if !ok {
			return kodoerr.New(kodoerr.StorInvalidListResult)
		}

		itemsVal, ok := obj.Get("items")
		if !ok {
			return kodoerr.New(kodoerr.StorInvalidListResult)
		}

		items, ok := itemsVal.AsArray()
		if !ok {
			return kodoerr.New(kodoerr.StorInvalidListResult)
		}

		count := items.Len()
		stop := false
		items.ForEach(func(_ int, iv jsonv.Value) bool {
			stop = !visit(parseItem(iv))
			return !stop
		})
		if stop {
			return nil
		}

		nextMarker := ""
		if mv, ok := obj.Get("marker"); ok {
			if s, ok := mv.AsString(); ok {
				nextMarker = s.String()
			}
		}

		if count < limit || nextMarker == "" {
			return nil
		}

		marker = nextMarker
	}
}

func parseItem(v jsonv.Value) Item {
	obj, ok := v.AsObject()
	if !ok {
		return Item{}
	}

	var it Item
	if val, ok := obj.Get("key"); ok {
		if s, ok := val.AsString(); ok {
			it.Key = s.String()
		}
	}
	if val, ok := obj.Get("hash"); ok {
		if s, ok := val.AsString(); ok {
			it.Hash = s.String()
		}
	}
	if val, ok := obj.Get("fsize"); ok {
		if n, ok := val.AsInt(); ok {
			it.FSize = n
		}
	}
	if val, ok := obj.Get("putTime"); ok {
		if n, ok := val.AsInt(); ok {
			it.PutTime = n
		}
	}
	if val, ok := obj.Get("mimeType"); ok {
		if s, ok := val.AsString(); ok {
			it.MimeType = s.String()
		}
	}

	return it
}
