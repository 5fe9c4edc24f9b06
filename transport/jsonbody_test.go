package transport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONObject(t *testing.T) {
	v, err := DecodeJSON(strings.NewReader(`{"ttl":60,"ok":true}`))
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)

	ttl, ok := obj.Get("ttl")
	require.True(t, ok)
	n, ok := ttl.AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 60, n)
}

func TestDecodeJSONAcrossSmallChunks(t *testing.T) {
	body := `{"up":{"acc":["http://a.example.com","http://b.example.com"]}}`
	v, err := DecodeJSON(&byteAtATimeReader{data: []byte(body)})
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	up, ok := obj.Get("up")
	require.True(t, ok)
	upObj, ok := up.AsObject()
	require.True(t, ok)
	acc, ok := upObj.Get("acc")
	require.True(t, ok)
	arr, ok := acc.AsArray()
	require.True(t, ok)
	assert.Equal(t, 2, arr.Len())
}

func TestDecodeJSONMalformedInput(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader(`{"ttl":`))
	assert.Error(t, err)
}

// byteAtATimeReader hands back one byte per Read call, to exercise
// DecodeJSON's multi-chunk accumulation path.
type byteAtATimeReader struct {
	data []byte
	pos  int
}

func (r *byteAtATimeReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}
