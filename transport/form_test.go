package transport

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseParts(t *testing.T, contentType string, body io.Reader) map[string][]byte {
	t.Helper()

	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)

	mr := multipart.NewReader(body, params["boundary"])
	parts := make(map[string][]byte)

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		data, err := io.ReadAll(p)
		require.NoError(t, err)
		parts[p.FormName()] = data
	}

	return parts
}

func TestFormBuilderRoundTrip(t *testing.T) {
	b := NewFormBuilder()
	require.NoError(t, b.WriteField("token", "uptoken-abc"))
	require.NoError(t, b.WriteField("key", "path/to/object"))

	body, err := b.Body("file", "object.bin", "application/octet-stream", strings.NewReader("hello world"))
	require.NoError(t, err)

	parts := parseParts(t, b.ContentType(), body)
	assert.Equal(t, []byte("uptoken-abc"), parts["token"])
	assert.Equal(t, []byte("path/to/object"), parts["key"])
	assert.Equal(t, []byte("hello world"), parts["file"])
}

func TestFormBuilderEscapesFilename(t *testing.T) {
	b := NewFormBuilder()
	body, err := b.Body("file", `weird"name.txt`, "", strings.NewReader("x"))
	require.NoError(t, err)

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `filename="weird\"name.txt"`)
}

func TestCRC32TrailerAppendsChecksumPart(t *testing.T) {
	b := NewFormBuilder()
	payload := "the quick brown fox"

	trailer := CRC32Trailer(b.Boundary(), strings.NewReader(payload))
	body, err := b.Body("file", "f.bin", "", trailer)
	require.NoError(t, err)

	parts := parseParts(t, b.ContentType(), body)
	assert.Equal(t, []byte(payload), parts["file"])
	require.Contains(t, parts, "crc32")
	assert.NotEmpty(t, parts["crc32"])
}

func TestWithProgressReportsCumulativeBytes(t *testing.T) {
	var calls []int64
	r := WithProgress(bytes.NewReader(make([]byte, 10)), 10, func(uploaded, total int64) {
		calls = append(calls, uploaded)
	})

	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		if n == 0 && err != nil {
			break
		}
	}

	require.NotEmpty(t, calls)
	assert.Equal(t, int64(10), calls[len(calls)-1])
}

func TestWithProgressNilCallbackIsNoop(t *testing.T) {
	r := WithProgress(strings.NewReader("abc"), 3, nil)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}
