package region

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiscoveryBody = `{
	"ttl": 60,
	"http": {
		"up": ["http://up1.example.com", "-H up.virtual.example.com http://10.0.0.1"],
		"io": ["http://io1.example.com"]
	},
	"https": {
		"up": ["https://up1.example.com"],
		"io": ["https://io1.example.com"]
	}
}`

func TestDiscovererLookupParsesAndCachesRegion(t *testing.T) {
	var hits int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/v1/query", r.URL.Path)
		assert.Equal(t, "ak1", r.URL.Query().Get("ak"))
		assert.Equal(t, "bucket1", r.URL.Query().Get("bucket"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleDiscoveryBody))
	}))
	defer srv.Close()

	tbl := NewTable()
	d := NewDiscoverer(http.DefaultClient, srv.URL, tbl)

	rgn, err := d.Lookup("ak1", "bucket1")
	require.NoError(t, err)

	up := rgn.Service(KindUp)
	require.NotNil(t, up)
	assert.Equal(t, 3, up.Len())

	e, ok := up.Entry(1)
	require.True(t, ok)
	assert.Equal(t, "http://10.0.0.1", e.BaseURL)
	assert.Equal(t, "up.virtual.example.com", e.Hostname)

	io := rgn.Service(KindIO)
	require.NotNil(t, io)
	assert.Equal(t, 2, io.Len())

	cached, err := tbl.Get("bucket1")
	require.NoError(t, err)
	assert.Same(t, rgn, cached)

	_, err = d.Lookup("ak1", "bucket1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "second lookup should be served from the cache")
}

func TestDiscovererDefaultTTLWhenFieldOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"http": {"up": ["http://u"], "io": ["http://i"]}}`))
	}))
	defer srv.Close()

	tbl := NewTable()
	d := NewDiscoverer(http.DefaultClient, srv.URL, tbl)

	_, err := d.Lookup("ak", "b")
	require.NoError(t, err)

	rgn, err := tbl.Get("b")
	require.NoError(t, err)
	require.NotNil(t, rgn)
}

func TestDiscovererSurfacesUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDiscoverer(http.DefaultClient, srv.URL, NewTable())

	_, err := d.Lookup("ak", "b")
	require.Error(t, err)
}

func TestDiscoverer_ConcurrentLookupsCollapseToOneRequest(t *testing.T) {
	var hits int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte(sampleDiscoveryBody))
	}))
	defer srv.Close()

	d := NewDiscoverer(http.DefaultClient, srv.URL, NewTable())

	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		go func() {
			_, _ = d.Lookup("ak", "bucket1")
			done <- struct{}{}
		}()
	}

	for i := 0; i < 5; i++ {
		<-done
	}

	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}
