package transport

import (
	"errors"
	"io"

	"github.com/bluntblade/kodo-go/jsonv"
	"github.com/bluntblade/kodo-go/kodoerr"
)

const jsonReadChunkSize = 4096

// DecodeJSON reads r to completion, feeding it through a jsonv.Parser one
// read chunk at a time instead of buffering the whole response body
// first. This is the Go reading of the original SDK's callback-driven
// response decoder (qn_http_resp_set_data_writer / qn_http_json_writer):
// there the HTTP layer hands the JSON parser bytes as they arrive off
// the socket rather than waiting for the full body; here the same shape
// is expressed as a read loop over jsonv.Parser.Parse.
func DecodeJSON(r io.Reader) (jsonv.Value, error) {
	p := jsonv.NewParser()
	buf := make([]byte, jsonReadChunkSize)
	var pending []byte

	for {
		n, rerr := r.Read(buf)
		eof := errors.Is(rerr, io.EOF)
		if rerr != nil && !eof {
			return jsonv.Value{}, kodoerr.Wrap(kodoerr.HTTPTransmissionFailed, "", rerr)
		}

		pending = append(pending, buf[:n]...)

		consumed, perr := p.Parse(pending, eof)
		pending = pending[consumed:]

		if perr != nil {
			if errors.Is(perr, kodoerr.ErrNeedMoreTextInput) && !eof {
				continue
			}
			return jsonv.Value{}, perr
		}

		if p.Done() {
			return p.Result(), nil
		}

		if eof {
			return jsonv.Value{}, kodoerr.New(kodoerr.JSONBadTextInput)
		}
	}
}
