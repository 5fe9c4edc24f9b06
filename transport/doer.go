package transport

import "net/http"

// HTTPDoer is the minimal surface a caller needs from an HTTP client:
// satisfied by *http.Client directly, so callers that want the default
// transport need not wrap it in a Connection.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
