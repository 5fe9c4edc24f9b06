package transport

import "net/http"

// SetAuthorization sets the Authorization header to "<scheme> <token>",
// the shape both of this module's QBox and UpToken signing schemes
// produce.
func SetAuthorization(req *http.Request, scheme, token string) {
	req.Header.Set("Authorization", scheme+" "+token)
}

// MergeHeaders adds every value in extra to req without clobbering
// headers already set on it, the per-request reading of the teacher's
// header-merging loop in internal/graph/client.go (there applied once
// per Client; here left to the caller so a single Connection can serve
// requests with different header sets).
func MergeHeaders(req *http.Request, extra http.Header) {
	for key, vals := range extra {
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}
}
