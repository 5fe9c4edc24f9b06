package kodo

import (
	"bytes"
	"encoding/base64"
	"net/http"
)

// encodeEntry builds the urlsafe-base64 "EncodedEntryURI" the RS API
// addresses objects by: bucket + ":" + key, or just bucket when key is
// empty (addressing the bucket itself).
func encodeEntry(bucket, key string) string {
	entry := bucket
	if key != "" {
		entry += ":" + key
	}

	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(entry))
}

// signedRequest builds an RS/RSF-style administrative request: method,
// base URL + path (+ query), optional body, signed per
// sign.Credentials.RequestToken and carried as "Authorization: QBox
// <token>" (spec.md §6). http.NewRequest sets req.GetBody automatically
// for a *bytes.Reader body, letting transport.Connection rebuild it on
// retry.
func (c *Client) signedRequest(method, baseURL, path, rawQuery string, body []byte, contentType string) (*http.Request, error) {
	url := baseURL + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	req.Header.Set("Authorization", c.creds.RequestToken(path, rawQuery, body))

	return req, nil
}
