// Package sign implements the access/secret key request signing,
// upload-policy construction, and CDN download-URL signing described in
// the original SDK's qiniu/auth and qiniu/cdn units.
package sign

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
)

// Credentials is an access/secret key pair, the signing identity for
// every administrative call and upload token this module produces.
type Credentials struct {
	AccessKey string
	SecretKey string
}

func (c Credentials) hmacSHA1(data []byte) string {
	mac := hmac.New(sha1.New, []byte(c.SecretKey))
	mac.Write(data)
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(mac.Sum(nil))
}

// RequestToken returns the "QBox <token>" Authorization header value
// for an administrative API call, per the canonical string rule: path +
// "?" + query (when non-empty) + "\n" + body (when the call carries
// one).
func (c Credentials) RequestToken(path, rawQuery string, body []byte) string {
	canonical := path
	if rawQuery != "" {
		canonical += "?" + rawQuery
	}
	canonical += "\n"
	if len(body) > 0 {
		canonical += string(body)
	}

	return "QBox " + c.AccessKey + ":" + c.hmacSHA1([]byte(canonical))
}

// UploadToken signs an already base64-url-encoded upload policy,
// returning "<access_key>:<signature>:<encoded_policy>", the value
// carried as the upload's "token" form field and, prefixed with
// "UpToken ", as the resumable upload wire protocol's Authorization
// header.
func (c Credentials) UploadToken(encodedPolicy string) string {
	return c.AccessKey + ":" + c.hmacSHA1([]byte(encodedPolicy)) + ":" + encodedPolicy
}
