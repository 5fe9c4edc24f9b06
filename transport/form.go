package transport

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/bluntblade/kodo-go/kodoerr"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// FormBuilder assembles a multipart/form-data body for an upload
// request without ever holding the file payload itself in memory. It is
// the Go reading of a real third-party Qiniu SDK's FormUploader: string
// fields (token, key, custom x: params) are written into a small header
// buffer up front; the file part's header is written into that same
// buffer, but its data is kept as a separate io.Reader and only
// concatenated with the header and the closing boundary at Body time via
// io.MultiReader, so a multi-gigabyte upload body is never fully
// materialized.
type FormBuilder struct {
	header *bytes.Buffer
	writer *multipart.Writer
}

// NewFormBuilder returns an empty builder with a fresh MIME boundary.
func NewFormBuilder() *FormBuilder {
	header := new(bytes.Buffer)
	return &FormBuilder{header: header, writer: multipart.NewWriter(header)}
}

// WriteField adds a plain string field (token, key, or an x:-prefixed
// custom parameter).
func (b *FormBuilder) WriteField(name, value string) error {
	if err := b.writer.WriteField(name, value); err != nil {
		return kodoerr.Wrap(kodoerr.HTTPAddingStringFieldFailed, name, err)
	}
	return nil
}

// Boundary reports the form's MIME boundary.
func (b *FormBuilder) Boundary() string { return b.writer.Boundary() }

// ContentType returns the Content-Type header value for the body Body
// produces.
func (b *FormBuilder) ContentType() string { return b.writer.FormDataContentType() }

// Body declares a file field named fieldName (server-visible filename
// fileName, content type contentType) and returns a Reader that streams
// the accumulated field header, then data, then the form's closing
// boundary. Call it once, after every WriteField call. The returned
// Reader does not copy data; the caller may still wrap it (for example
// with CRC32Trailer or a progress-reporting reader) before it is sent.
func (b *FormBuilder) Body(fieldName, fileName, contentType string, data io.Reader) (io.Reader, error) {
	head := make(textproto.MIMEHeader)
	head.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="%s"; filename="%s"`,
		escapeQuotes(fieldName), escapeQuotes(fileName),
	))
	if contentType != "" {
		head.Set("Content-Type", contentType)
	}

	if _, err := b.writer.CreatePart(head); err != nil {
		return nil, kodoerr.Wrap(kodoerr.HTTPAddingFileFieldFailed, fieldName, err)
	}

	trailer := []byte("\r\n--" + b.writer.Boundary() + "--\r\n")

	return io.MultiReader(bytes.NewReader(b.header.Bytes()), data, bytes.NewReader(trailer)), nil
}

// crc32Trailer wraps data so that once the caller has read it to
// completion, a further read yields one more multipart part carrying the
// running CRC32 checksum of everything read so far — mirroring the
// original SDK's crc32Reader, which appends a trailing "crc32" form
// field computed on the fly instead of requiring two passes over the
// file.
type crc32Trailer struct {
	data     io.Reader
	boundary string
	sum      uint32
	trailer  *bytes.Reader
	done     bool
}

// CRC32Trailer returns a Reader that streams data, then (once data is
// exhausted) a trailing "crc32" multipart field holding the decimal
// CRC32-IEEE checksum of the bytes streamed. Place it last among the
// file's data readers so the running checksum covers the whole upload.
func CRC32Trailer(boundary string, data io.Reader) io.Reader {
	return &crc32Trailer{data: data, boundary: boundary}
}

func (c *crc32Trailer) Read(p []byte) (int, error) {
	if c.done {
		if c.trailer == nil {
			return 0, io.EOF
		}
		return c.trailer.Read(p)
	}

	n, err := c.data.Read(p)
	if n > 0 {
		c.sum = crc32.Update(c.sum, crc32.IEEETable, p[:n])
	}

	if err == io.EOF {
		c.done = true
		c.trailer = bytes.NewReader(c.buildTrailer())

		if n > 0 {
			return n, nil
		}
		return c.trailer.Read(p)
	}

	return n, err
}

func (c *crc32Trailer) buildTrailer() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\r\n--%s\r\n", c.boundary)
	buf.WriteString(`Content-Disposition: form-data; name="crc32"` + "\r\n\r\n")
	buf.WriteString(strconv.FormatUint(uint64(c.sum), 10))
	return buf.Bytes()
}

// progressFunc reports uploaded bytes out of total (total <= 0 when
// unknown).
type progressFunc func(uploaded, total int64)

// progressReader wraps a Reader to invoke fn as bytes are read,
// matching the original SDK's readerWithProgress: a read that returns 0
// new bytes (a retry re-reading the same range) is not reported, so
// progress never regresses.
type progressReader struct {
	r        io.Reader
	total    int64
	uploaded int64
	fn       progressFunc
}

// WithProgress wraps r so fn is called after every read that advances
// the stream, with the cumulative byte count and total (pass a
// non-positive total when the size is unknown).
func WithProgress(r io.Reader, total int64, fn progressFunc) io.Reader {
	if fn == nil {
		return r
	}
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.uploaded += int64(n)
		p.fn(p.uploaded, p.total)
	}
	return n, err
}
