package kodo

import (
	"context"
	"net/http"

	"github.com/bluntblade/kodo-go/jsonv"
	"github.com/bluntblade/kodo-go/kodoerr"
	"github.com/bluntblade/kodo-go/region"
	"github.com/bluntblade/kodo-go/transport"
)

// Stat is the decoded /stat response: content hash, size, upload time
// (100ns units since epoch, Qiniu's native putTime unit), MIME type, and
// the storage-class "type" field, grounded on demo/qstat.c's
// qn_stor_mn_stat call shape.
type Stat struct {
	Hash     string
	FSize    int64
	PutTime  int64
	MimeType string
	Type     int
}

// Stat queries the object named key in bucket, grounded on
// demo/qstat.c.
func (c *Client) Stat(ctx context.Context, bucket, key string) (*Stat, error) {
	v, err := c.rsGet(ctx, bucket, "/stat/"+encodeEntry(bucket, key))
	if err != nil {
		return nil, err
	}

	obj, ok := v.AsObject()
	if !ok {
		return nil, kodoerr.New(kodoerr.StorAPIReturnNoValue)
	}

	st := &Stat{}
	if val, ok := obj.Get("hash"); ok {
		if s, ok := val.AsString(); ok {
			st.Hash = s.String()
		}
	}
	if val, ok := obj.Get("fsize"); ok {
		if n, ok := val.AsInt(); ok {
			st.FSize = n
		}
	}
	if val, ok := obj.Get("putTime"); ok {
		if n, ok := val.AsInt(); ok {
			st.PutTime = n
		}
	}
	if val, ok := obj.Get("mimeType"); ok {
		if s, ok := val.AsString(); ok {
			st.MimeType = s.String()
		}
	}
	if val, ok := obj.Get("type"); ok {
		if n, ok := val.AsInt(); ok {
			st.Type = int(n)
		}
	}

	return st, nil
}

// Copy duplicates srcKey in srcBucket as dstKey in dstBucket, grounded
// on demo/qcopy.c. force, when true, overwrites an existing object at
// the destination (the RS API's "force" query parameter).
func (c *Client) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string, force bool) error {
	path := "/copy/" + encodeEntry(srcBucket, srcKey) + "/" + encodeEntry(dstBucket, dstKey)
	if force {
		path += "/force/true"
	}

	_, err := c.rsPost(ctx, srcBucket, path, nil, "")

	return err
}

// Move relocates srcKey in srcBucket to dstKey in dstBucket, grounded on
// demo/qmove.c.
func (c *Client) Move(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string, force bool) error {
	path := "/move/" + encodeEntry(srcBucket, srcKey) + "/" + encodeEntry(dstBucket, dstKey)
	if force {
		path += "/force/true"
	}

	_, err := c.rsPost(ctx, srcBucket, path, nil, "")

	return err
}

// Delete removes key from bucket, grounded on demo/qdelete.c.
func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.rsPost(ctx, bucket, "/delete/"+encodeEntry(bucket, key), nil, "")

	return err
}

// rsGet issues a signed GET against the resource-admin (rs) service for
// bucket and decodes the JSON response body.
func (c *Client) rsGet(ctx context.Context, bucket, path string) (jsonv.Value, error) {
	return c.rsDo(ctx, http.MethodGet, bucket, path, "", nil, "")
}

// rsPost issues a signed POST against the resource-admin (rs) service
// for bucket and decodes the JSON response body.
func (c *Client) rsPost(ctx context.Context, bucket, path string, body []byte, contentType string) (jsonv.Value, error) {
	return c.rsDo(ctx, http.MethodPost, bucket, path, "", body, contentType)
}

func (c *Client) rsDo(ctx context.Context, method, bucket, path, rawQuery string, body []byte, contentType string) (jsonv.Value, error) {
	baseURL := c.serviceBaseURL(bucket, region.KindRS)

	req, err := c.signedRequest(method, baseURL, path, rawQuery, body, contentType)
	if err != nil {
		return jsonv.Value{}, kodoerr.Wrap(kodoerr.InvalidArgument, path, err)
	}

	resp, err := c.conn.Do(ctx, req)
	if err != nil {
		return jsonv.Value{}, err
	}

	return decodeResponseBody(resp)
}

// decodeResponseBody decodes resp's JSON body, closing it in every
// case, and treats a bodiless success response (204, or a 0-length
// body, both of which the RS copy/move/delete endpoints return) as
// jsonv.Null rather than a parse failure.
func decodeResponseBody(resp *http.Response) (jsonv.Value, error) {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 {
		return jsonv.Null(), nil
	}

	return transport.DecodeJSON(resp.Body)
}
