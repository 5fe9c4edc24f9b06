// Package testutil provides shared httptest.Server fakes used across
// this module's packages (kodo and cmd/kodo), replacing
// per-package ad hoc fakes with one stateful resource-admin (RS)
// double modeled on the real stat/copy/move/delete/list/batch API
// surface.
package testutil

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Object is one stored entry in a FakeRS bucket.
type Object struct {
	Hash     string
	FSize    int64
	PutTime  int64
	MimeType string
}

// FakeRS is an in-memory stand-in for the Qiniu-style resource-admin
// (rs) and resource-listing (rsf) services: stat/copy/move/delete at
// the root, /list, and /batch, all addressed by the same
// urlsafe-base64 "bucket:key" EncodedEntryURI the real API uses.
// Authorization headers are accepted but not verified — FakeRS tests
// request shape and RS semantics, not signing (signing has its own
// tests in package sign).
type FakeRS struct {
	mu      sync.Mutex
	buckets map[string]map[string]Object
}

// NewFakeRS returns an empty FakeRS.
func NewFakeRS() *FakeRS {
	return &FakeRS{buckets: make(map[string]map[string]Object)}
}

// Put seeds bucket with an object at key, for tests that want to stat/
// copy/move/delete/list a pre-existing object without uploading one
// first.
func (f *FakeRS) Put(bucket, key string, obj Object) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.buckets[bucket] == nil {
		f.buckets[bucket] = make(map[string]Object)
	}
	f.buckets[bucket][key] = obj
}

// Server starts and returns the httptest.Server; callers must Close it.
func (f *FakeRS) Server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/stat/", f.handleStat)
	mux.HandleFunc("/copy/", f.handleCopy)
	mux.HandleFunc("/move/", f.handleMove)
	mux.HandleFunc("/delete/", f.handleDelete)
	mux.HandleFunc("/list", f.handleList)
	mux.HandleFunc("/batch", f.handleBatch)

	return httptest.NewServer(mux)
}

func decodeEntry(encoded string) (bucket, key string, ok bool) {
	raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(encoded)
	if err != nil {
		return "", "", false
	}

	bucket, key, found := strings.Cut(string(raw), ":")
	if !found {
		return string(raw), "", true
	}

	return bucket, key, true
}

func (f *FakeRS) handleStat(w http.ResponseWriter, r *http.Request) {
	bucket, key, ok := decodeEntry(strings.TrimPrefix(r.URL.Path, "/stat/"))
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	obj, found := f.buckets[bucket][key]
	f.mu.Unlock()

	if !found {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"no such file or directory"}`)
		return
	}

	fmt.Fprintf(w, `{"hash":%q,"fsize":%d,"putTime":%d,"mimeType":%q,"type":0}`,
		obj.Hash, obj.FSize, obj.PutTime, obj.MimeType)
}

func (f *FakeRS) handleCopy(w http.ResponseWriter, r *http.Request) {
	f.copyOrMove(w, r, "/copy/", false)
}

func (f *FakeRS) handleMove(w http.ResponseWriter, r *http.Request) {
	f.copyOrMove(w, r, "/move/", true)
}

func (f *FakeRS) copyOrMove(w http.ResponseWriter, r *http.Request, prefix string, remove bool) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if len(parts) < 2 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	srcBucket, srcKey, ok1 := decodeEntry(parts[0])
	dstBucket, dstKey, ok2 := decodeEntry(parts[1])
	if !ok1 || !ok2 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	obj, found := f.buckets[srcBucket][srcKey]
	if !found {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"no such file or directory"}`)
		return
	}

	if f.buckets[dstBucket] == nil {
		f.buckets[dstBucket] = make(map[string]Object)
	}
	f.buckets[dstBucket][dstKey] = obj

	if remove {
		delete(f.buckets[srcBucket], srcKey)
	}

	w.WriteHeader(http.StatusOK)
}

func (f *FakeRS) handleDelete(w http.ResponseWriter, r *http.Request) {
	bucket, key, ok := decodeEntry(strings.TrimPrefix(r.URL.Path, "/delete/"))
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	_, found := f.buckets[bucket][key]
	if found {
		delete(f.buckets[bucket], key)
	}
	f.mu.Unlock()

	if !found {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"no such file or directory"}`)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (f *FakeRS) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bucket := q.Get("bucket")
	prefix := q.Get("prefix")
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 1000
	}
	marker := q.Get("marker")

	f.mu.Lock()
	keys := make([]string, 0, len(f.buckets[bucket]))
	for k := range f.buckets[bucket] {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if marker != "" {
		for i, k := range keys {
			if k > marker {
				start = i
				break
			}
		}
	}

	end := start + limit
	if end > len(keys) {
		end = len(keys)
	}
	page := keys[start:end]

	var b strings.Builder
	b.WriteString(`{"items":[`)
	for i, k := range page {
		if i > 0 {
			b.WriteByte(',')
		}
		obj := f.buckets[bucket][k]
		fmt.Fprintf(&b, `{"key":%q,"hash":%q,"fsize":%d,"putTime":%d,"mimeType":%q}`,
			k, obj.Hash, obj.FSize, obj.PutTime, obj.MimeType)
	}
	b.WriteString(`]`)

	if end < len(keys) {
		fmt.Fprintf(&b, `,"marker":%q`, page[len(page)-1])
	}
	b.WriteString(`}`)
	f.mu.Unlock()

	io.WriteString(w, b.String())
}

func (f *FakeRS) handleBatch(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	values, err := url.ParseQuery(string(body))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ops := values["op"]

	var b strings.Builder
	b.WriteByte('[')

	for i, op := range ops {
		if i > 0 {
			b.WriteByte(',')
		}

		code, data := f.runOp(op)
		fmt.Fprintf(&b, `{"code":%d,"data":%s}`, code, data)
	}

	b.WriteByte(']')
	io.WriteString(w, b.String())
}

func (f *FakeRS) runOp(op string) (code int, dataJSON string) {
	switch {
	case strings.HasPrefix(op, "/stat/"):
		bucket, key, ok := decodeEntry(strings.TrimPrefix(op, "/stat/"))
		if !ok {
			return http.StatusBadRequest, `{}`
		}

		f.mu.Lock()
		obj, found := f.buckets[bucket][key]
		f.mu.Unlock()

		if !found {
			return http.StatusNotFound, `{"error":"no such file or directory"}`
		}

		return http.StatusOK, fmt.Sprintf(`{"hash":%q,"fsize":%d,"putTime":%d,"mimeType":%q}`,
			obj.Hash, obj.FSize, obj.PutTime, obj.MimeType)

	case strings.HasPrefix(op, "/delete/"):
		bucket, key, ok := decodeEntry(strings.TrimPrefix(op, "/delete/"))
		if !ok {
			return http.StatusBadRequest, `{}`
		}

		f.mu.Lock()
		_, found := f.buckets[bucket][key]
		if found {
			delete(f.buckets[bucket], key)
		}
		f.mu.Unlock()

		if !found {
			return http.StatusNotFound, `{"error":"no such file or directory"}`
		}

		return http.StatusOK, `{}`

	default:
		return http.StatusBadRequest, `{"error":"unsupported op"}`
	}
}
