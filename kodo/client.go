// Package kodo is the easy façade: thin, synchronous compositions over
// transport/sign/region/upload, grounded on
// original_source/src/qiniu/easy.c's qn_easy_st and the demo/*.c
// binaries (each demo maps to one method here and one cmd/kodo
// subcommand).
package kodo

import (
	"log/slog"
	"net/http"

	"github.com/bluntblade/kodo-go/region"
	"github.com/bluntblade/kodo-go/sign"
	"github.com/bluntblade/kodo-go/transport"
)

// Client bundles credentials, a retrying HTTP connection, and region
// discovery/caching, the Go-native reading of qn_easy_st (which bundles
// a qn_storage_ptr, a region table, a service selector, and the bucket
// last resolved against them).
type Client struct {
	creds            sign.Credentials
	conn             *transport.Connection
	discoverer       *region.Discoverer
	table            *region.Table
	logger           *slog.Logger
	discoveryBaseURL string
}

// Option configures a Client at construction.
type Option func(*Client)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient overrides the *http.Client the Connection wraps.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.conn = transport.NewConnection(httpClient, c.logger) }
}

// WithDiscoveryBaseURL overrides the default uc.qbox.me region-discovery
// host, mainly for tests.
func WithDiscoveryBaseURL(baseURL string) Option {
	return func(c *Client) { c.discoveryBaseURL = baseURL }
}

// Table returns the Client's region table, letting a caller pre-seed it
// from a region.Cache before the first request and persist anything it
// learned back to the cache afterward — the one-shot-process form of
// the original SDK's in-memory-for-the-life-of-the-program region table.
func (c *Client) Table() *region.Table { return c.table }

// Region resolves bucket's up/io service table, discovering it if the
// Client's Table has no cached entry, grounded on demo/qregion.c's
// qn_rgn_svc_grab_region call.
func (c *Client) Region(bucket string) (*region.Region, error) {
	return c.discoverer.Lookup(c.creds.AccessKey, bucket)
}

// NewClient returns a Client authenticating with creds, querying region
// discovery through opts (defaults: http.DefaultClient, slog.Default(),
// the production discovery host).
func NewClient(creds sign.Credentials, opts ...Option) *Client {
	c := &Client{creds: creds, logger: slog.Default()}

	for _, opt := range opts {
		opt(c)
	}

	if c.conn == nil {
		c.conn = transport.NewConnection(nil, c.logger)
	}

	c.table = region.NewTable()
	c.discoverer = region.NewDiscoverer(&connDoer{c.conn}, c.discoveryBaseURL, c.table)

	return c
}

// connDoer adapts *transport.Connection (context-taking) to the plain
// http.Client-shaped HTTPDoer that region.Discoverer and upload.Uploader
// expect, pulling the context back out of the request they build it
// from.
type connDoer struct {
	conn *transport.Connection
}

func (d *connDoer) Do(req *http.Request) (*http.Response, error) {
	return d.conn.Do(req.Context(), req)
}

// serviceBaseURL resolves the base URL a Client should use for kind
// against bucket: a cached/discovered Region's entry if one exists,
// falling back to the hardcoded default service (region.DefaultService)
// when discovery itself fails, matching qn_easy_select_putting_entry's
// own fallback to qn_svc_get_default_service on a region lookup miss.
func (c *Client) serviceBaseURL(bucket string, kind region.Kind) string {
	rgn, err := c.discoverer.Lookup(c.creds.AccessKey, bucket)
	if err != nil {
		return firstEntryOrDefault(nil, kind)
	}

	return firstEntryOrDefault(rgn.Service(kind), kind)
}

func firstEntryOrDefault(svc *region.Service, kind region.Kind) string {
	if svc != nil {
		if ent, ok := svc.Entry(0); ok {
			return ent.BaseURL
		}
	}

	def := region.DefaultService(kind)
	ent, _ := def.Entry(0)

	return ent.BaseURL
}
