package region

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bluntblade/kodo-go/jsonv"
	"github.com/bluntblade/kodo-go/kodoerr"
)

// DefaultDiscoveryBaseURL is the fallback bucket-to-region lookup
// endpoint, grounded on qn_rgn_svc_grab_entry_info's hardcoded
// "http://uc.qbox.me".
const DefaultDiscoveryBaseURL = "http://uc.qbox.me"

// defaultDiscoveryTTL is used when a discovery response omits "ttl",
// matching qn_rgn_svc_make_region's `qn_json_integer ttl = 86400`
// default before the field is read.
const defaultDiscoveryTTL = 86400 * time.Second

// HTTPDoer is the minimal surface Discoverer needs from an HTTP client,
// satisfied by *http.Client. transport.Connection's Do also takes a
// context, so it fits only through an adapter (package kodo has one).
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Discoverer resolves a bucket's up/io service endpoints by querying a
// discovery endpoint and caches the result in a Table, grounded on
// qn_rgn_svc_grab_entry_info. Concurrent lookups for the same bucket are
// collapsed into a single in-flight request via singleflight, since
// discovery has no original-C counterpart for that concern (the
// reference SDK is single-threaded per connection).
type Discoverer struct {
	doer    HTTPDoer
	baseURL string
	table   *Table
	group   singleflight.Group
}

// NewDiscoverer returns a Discoverer querying baseURL (pass "" for
// DefaultDiscoveryBaseURL) and caching results in table.
func NewDiscoverer(doer HTTPDoer, baseURL string, table *Table) *Discoverer {
	if baseURL == "" {
		baseURL = DefaultDiscoveryBaseURL
	}

	return &Discoverer{doer: doer, baseURL: baseURL, table: table}
}

// Lookup returns the cached Region for bucket if present and unexpired,
// otherwise queries the discovery endpoint, caches the answer, and
// returns it. Concurrent Lookup calls for the same bucket share one HTTP
// round trip.
func (d *Discoverer) Lookup(accessKey, bucket string) (*Region, error) {
	if rgn, err := d.table.Get(bucket); err == nil {
		return rgn, nil
	}

	v, err, _ := d.group.Do(bucket, func() (interface{}, error) {
		rgn, ttl, ferr := d.fetch(accessKey, bucket)
		if ferr != nil {
			return nil, ferr
		}

		d.table.Set(bucket, ttl, rgn)

		return rgn, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Region), nil
}

func (d *Discoverer) fetch(accessKey, bucket string) (*Region, time.Duration, error) {
	query := url.Values{}
	query.Set("ak", accessKey)
	query.Set("bucket", bucket)

	reqURL := fmt.Sprintf("%s/v1/query?%s", d.baseURL, query.Encode())

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, kodoerr.Wrap(kodoerr.InvalidArgument, reqURL, err)
	}

	resp, err := d.doer.Do(req)
	if err != nil {
		return nil, 0, kodoerr.Wrap(kodoerr.HTTPTransmissionFailed, reqURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, kodoerr.Wrap(kodoerr.HTTPTransmissionFailed, reqURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, 0, kodoerr.Wrap(kodoerr.HTTPUnexpectedStatus, fmt.Sprintf("%s: %d", reqURL, resp.StatusCode), nil)
	}

	root, err := parseDiscoveryBody(body)
	if err != nil {
		return nil, 0, err
	}

	return makeRegionFromResponse(root)
}

func parseDiscoveryBody(body []byte) (jsonv.Value, error) {
	p := jsonv.NewParser()

	if _, err := p.Parse(body, true); err != nil {
		return jsonv.Value{}, err
	}

	if !p.Done() {
		return jsonv.Value{}, kodoerr.New(kodoerr.JSONBadTextInput)
	}

	return p.Result(), nil
}

// makeRegionFromResponse builds a Region and its TTL out of a discovery
// response shaped `{"ttl": 86400, "http": {"up": [...], "io": [...]},
// "https": {"up": [...], "io": [...]}}`, grounded on
// qn_rgn_svc_make_region: a default 86400s ttl, and up/io entry arrays
// read out of both the "http" and "https" scheme tables and merged into
// one Service per Kind (an entry's own scheme, not the table it was
// listed under, decides how it is dialed).
func makeRegionFromResponse(root jsonv.Value) (*Region, time.Duration, error) {
	obj, ok := root.AsObject()
	if !ok {
		return nil, 0, kodoerr.New(kodoerr.JSONNotThisType)
	}

	ttl := defaultDiscoveryTTL
	if v, ok := obj.Get("ttl"); ok {
		if i, ok := v.AsInt(); ok {
			ttl = time.Duration(i) * time.Second
		}
	}

	up := NewService(KindUp)
	ioSvc := NewService(KindIO)

	for _, scheme := range []string{"http", "https"} {
		schemeVal, ok := obj.Get(scheme)
		if !ok {
			continue
		}

		schemeObj, ok := schemeVal.AsObject()
		if !ok {
			continue
		}

		if err := appendEntries(schemeObj, "up", up); err != nil {
			return nil, 0, err
		}

		if err := appendEntries(schemeObj, "io", ioSvc); err != nil {
			return nil, 0, err
		}
	}

	rgn := NewRegion()
	rgn.SetService(up)
	rgn.SetService(ioSvc)

	return rgn, ttl, nil
}

func appendEntries(schemeObj *jsonv.Object, key string, svc *Service) error {
	arrVal, ok := schemeObj.Get(key)
	if !ok {
		return nil
	}

	arr, ok := arrVal.AsArray()
	if !ok {
		return nil
	}

	var addErr error
	arr.ForEach(func(_ int, v jsonv.Value) bool {
		s, ok := v.AsString()
		if !ok {
			return true
		}

		ent := ParseEntryLine(s.String())
		if err := svc.AddEntry(ent); err != nil {
			addErr = err
			return false
		}

		return true
	})

	return addErr
}
