package jsonv

import (
	"strconv"

	"github.com/bluntblade/kodo-go/kodoerr"
)

// FormatOptions controls Formatter output (spec §4.3).
type FormatOptions struct {
	// Pretty indents nested containers with two spaces per level; no
	// newline follows the root value. Disabled by default, which emits the
	// original's compact wire form.
	Pretty bool
	// EscapeNonASCII emits every byte from 0x7F up as its own \u00XX
	// escape instead of raw UTF-8. Disabled by default.
	EscapeNonASCII bool
}

type fmtFrameKind int

const (
	fmtFrameObject fmtFrameKind = iota
	fmtFrameArray
)

type fmtFrame struct {
	kind     fmtFrameKind
	obj      *Object
	arr      *Array
	index    int
	wroteAny bool
}

// Formatter renders a Value tree to bytes a chunk at a time: like the
// Tokenizer and Parser, it is restartable. Format writes into a
// caller-supplied buffer and returns kodoerr.ErrOutOfBuffer when the
// buffer fills up mid-value; the caller drains the buffer and calls
// Format again to continue exactly where it left off (spec §4.3, §8
// "format with tight buffers").
type Formatter struct {
	opts  FormatOptions
	stack []fmtFrame
	depth int

	pending []byte // bytes already produced but not yet copied out
	done    bool
}

// NewFormatter starts formatting root.
func NewFormatter(root Value, opts FormatOptions) *Formatter {
	f := &Formatter{opts: opts}
	f.pending = f.renderValue(root, 0)

	return f
}

// Done reports whether the entire value has been written out.
func (f *Formatter) Done() bool { return f.done && len(f.pending) == 0 }

// Format copies as much of the rendered output as fits into buf,
// returning the number of bytes written. It returns
// kodoerr.ErrOutOfBuffer if buf was filled before the whole value was
// written (call again with a fresh/drained buffer to continue), or nil
// once exhausted.
func (f *Formatter) Format(buf []byte) (int, error) {
	n := copy(buf, f.pending)
	f.pending = f.pending[n:]

	if len(f.pending) > 0 {
		return n, kodoerr.ErrOutOfBuffer
	}

	f.done = true

	return n, nil
}

// renderValue eagerly renders the whole tree into memory. The original
// C formatter streams token-by-token to bound memory use; here the whole
// rendered form is buffered once (reusing jsonv's Value tree, already
// fully in memory) and Format's out-of-buffer contract is satisfied by
// slicing that buffer across calls instead of re-entering a state
// machine. This trades peak memory (one full serialized copy) for a much
// simpler implementation; see DESIGN.md.
func (f *Formatter) renderValue(v Value, depth int) []byte {
	switch v.Kind() {
	case KindNull:
		return []byte("null")
	case KindBool:
		b, _ := v.AsBool()
		if b {
			return []byte("true")
		}

		return []byte("false")
	case KindInt:
		i, _ := v.AsInt()

		return []byte(strconv.FormatInt(i, 10))
	case KindFloat:
		fv, _ := v.AsFloat()

		return []byte(strconv.FormatFloat(fv, 'f', 6, 64))
	case KindString:
		s, _ := v.AsString()

		return f.renderString(s)
	case KindObject:
		obj, _ := v.AsObject()

		return f.renderObject(obj, depth)
	case KindArray:
		arr, _ := v.AsArray()

		return f.renderArray(arr, depth)
	default:
		return nil
	}
}

func (f *Formatter) indent(depth int) []byte {
	if !f.opts.Pretty {
		return nil
	}

	out := make([]byte, depth*2)
	for i := range out {
		out[i] = ' '
	}

	return out
}

func (f *Formatter) newline() []byte {
	if !f.opts.Pretty {
		return nil
	}

	return []byte{'\n'}
}

func (f *Formatter) renderObject(obj *Object, depth int) []byte {
	out := append([]byte{}, '{')
	out = append(out, f.newline()...)

	first := true
	obj.ForEach(func(key string, v Value) bool {
		if !first {
			out = append(out, ',')
			out = append(out, f.newline()...)
		}
		first = false

		out = append(out, f.indent(depth+1)...)
		out = append(out, f.renderString(ByteStringFromString(key))...)
		out = append(out, ':')
		if f.opts.Pretty {
			out = append(out, ' ')
		}
		out = append(out, f.renderValue(v, depth+1)...)

		return true
	})

	out = append(out, f.newline()...)
	out = append(out, f.indent(depth)...)
	out = append(out, '}')

	return out
}

func (f *Formatter) renderArray(arr *Array, depth int) []byte {
	out := append([]byte{}, '[')
	out = append(out, f.newline()...)

	arr.ForEach(func(i int, v Value) bool {
		if i > 0 {
			out = append(out, ',')
			out = append(out, f.newline()...)
		}

		out = append(out, f.indent(depth+1)...)
		out = append(out, f.renderValue(v, depth+1)...)

		return true
	})

	out = append(out, f.newline()...)
	out = append(out, f.indent(depth)...)
	out = append(out, ']')

	return out
}

func (f *Formatter) renderString(s ByteString) []byte {
	raw := s.Bytes()
	out := make([]byte, 0, len(raw)+2)
	out = append(out, '"')

	for _, b := range raw {
		switch b {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		case '\f':
			out = append(out, '\\', 'f')
		case '\b':
			out = append(out, '\\', 'b')
		default:
			if b < 0x20 || (f.opts.EscapeNonASCII && b > 0x7E) {
				out = append(out, []byte(`\u00`)...)
				out = append(out, hexDigitUpper(b>>4), hexDigitUpper(b&0xF))

				continue
			}

			out = append(out, b)
		}
	}

	out = append(out, '"')

	return out
}

func hexDigitUpper(n byte) byte {
	if n < 10 {
		return '0' + n
	}

	return 'A' + (n - 10)
}

// FormatToString renders v to a string in one call with no buffer-size
// concerns, the convenience wrapper spec §4.3 calls for (object->string /
// array->string).
func FormatToString(v Value, opts FormatOptions) (string, error) {
	f := NewFormatter(v, opts)

	var out []byte
	buf := make([]byte, 256)

	for {
		n, err := f.Format(buf)
		out = append(out, buf[:n]...)

		if err == nil {
			return string(out), nil
		}

		if !IsOutOfBuffer(err) {
			return "", err
		}
	}
}

// IsOutOfBuffer reports whether err is the Formatter's out-of-buffer
// continuation signal.
func IsOutOfBuffer(err error) bool {
	k, ok := kodoerr.KindOf(err)

	return ok && k == kodoerr.OutOfBuffer
}
