package jsonv

import (
	"strconv"

	"github.com/bluntblade/kodo-go/kodoerr"
)

// DefaultMaxParsingLevels bounds container nesting depth (spec §4.2),
// matching the original parser's default of 4.
const DefaultMaxParsingLevels = 4

type parseStatus int

const (
	stsExpectKeyOrClose parseStatus = iota
	stsExpectColon
	stsExpectValue
	stsExpectCommaOrClose
	stsExpectArrayValueOrClose
	stsExpectArrayCommaOrClose
)

type frame struct {
	obj        *Object
	arr        *Array
	pendingKey ByteString
	status     parseStatus
}

// Parser is a restartable pushdown JSON parser (spec §4.2): it consumes
// tokens from an internal Tokenizer and assembles an Object or Array tree
// without ever holding the whole input in memory at once. Parsing state
// (the container stack and whichever token is half-consumed) survives
// across Parse calls, so Parse may be fed the document one chunk at a
// time exactly like the Tokenizer it wraps.
type Parser struct {
	tok       *Tokenizer
	maxLevels int
	stack     []frame
	result    Value
	done      bool
}

// NewParser returns a Parser with the default nesting-depth limit.
func NewParser() *Parser {
	return NewParserWithMaxLevels(DefaultMaxParsingLevels)
}

// NewParserWithMaxLevels returns a Parser that rejects documents nesting
// containers deeper than maxLevels (spec §4.2 "too many parsing levels").
func NewParserWithMaxLevels(maxLevels int) *Parser {
	return &Parser{tok: NewTokenizer(), maxLevels: maxLevels}
}

// Reset discards all progress, readying the Parser to parse a fresh
// document.
func (p *Parser) Reset() {
	p.tok.Reset()
	p.stack = p.stack[:0]
	p.result = Value{}
	p.done = false
}

// Done reports whether a complete root value has been parsed.
func (p *Parser) Done() bool { return p.done }

// Result returns the parsed root Value. Valid only once Done reports
// true.
func (p *Parser) Result() Value { return p.result }

// tokenToValue converts tk into the Value it denotes; used for scalar
// tokens (string/integer/number/true/false/null).
func tokenToValue(tk Token) (Value, error) {
	switch tk.Kind {
	case TokString:
		return String(NewByteString(tk.Text)), nil
	case TokInteger:
		n, err := strconv.ParseInt(string(tk.Text), 10, 64)
		if err != nil {
			return Value{}, kodoerr.Wrap(kodoerr.OverflowUpperBound, string(tk.Text), err)
		}

		return Int(n), nil
	case TokNumber:
		f, err := strconv.ParseFloat(string(tk.Text), 64)
		if err != nil {
			return Value{}, kodoerr.Wrap(kodoerr.JSONBadTextInput, string(tk.Text), err)
		}

		return Float(f), nil
	case TokTrue:
		return Bool(true), nil
	case TokFalse:
		return Bool(false), nil
	case TokNull:
		// The original parser's array path is known to push a bool-false
		// placeholder for a NULL token instead of a real null value; this
		// implementation always produces a genuine null Value regardless
		// of container (spec design notes, "Open question" resolution).
		return Null(), nil
	default:
		return Value{}, kodoerr.New(kodoerr.JSONBadTextInput)
	}
}

func isScalarToken(k TokenKind) bool {
	switch k {
	case TokString, TokInteger, TokNumber, TokTrue, TokFalse, TokNull:
		return true
	default:
		return false
	}
}

// Parse feeds data (a chunk of the input, not necessarily the whole
// document) to the parser. It returns the number of bytes consumed from
// data and an error. Once the root value is fully parsed, Done reports
// true and Result returns it; further bytes in data past that point are
// left unconsumed (consumed < len(data)) so a caller parsing a stream of
// concatenated documents can keep going from there.
//
// When data runs out before the root value is complete, Parse consumes
// all of it, Done stays false, and the error is
// kodoerr.ErrNeedMoreTextInput, mirroring the Tokenizer's contract, so
// callers can test for it with errors.Is and feed the next chunk.
func (p *Parser) Parse(data []byte, eof bool) (int, error) {
	if p.done {
		return 0, nil
	}

	total := 0

	for {
		tk, n, err := p.tok.Next(data[total:], eof)
		total += n

		if err != nil {
			return total, err
		}

		if tk.Kind == TokInputEnd {
			// eof was asserted but the document never reached a root
			// value (stack empty, nothing parsed) or is still mid-way
			// through one (stack non-empty): either way that is
			// malformed input now that no more bytes are coming.
			return total, kodoerr.New(kodoerr.JSONBadTextInput)
		}

		if err := p.accept(tk); err != nil {
			return total, err
		}

		if p.done {
			return total, nil
		}
	}
}

// accept folds one token into the parser's container stack.
func (p *Parser) accept(tk Token) error {
	if len(p.stack) == 0 {
		return p.acceptRoot(tk)
	}

	top := &p.stack[len(p.stack)-1]
	if top.obj != nil {
		return p.acceptInObject(top, tk)
	}

	return p.acceptInArray(top, tk)
}

func (p *Parser) acceptRoot(tk Token) error {
	switch tk.Kind {
	case TokOpenBrace:
		return p.pushObject()
	case TokOpenBracket:
		return p.pushArray()
	default:
		return kodoerr.New(kodoerr.JSONBadTextInput)
	}
}

func (p *Parser) pushObject() error {
	if len(p.stack) >= p.maxLevels {
		return kodoerr.New(kodoerr.JSONTooManyParsingLevels)
	}

	p.stack = append(p.stack, frame{obj: NewObject(0), status: stsExpectKeyOrClose})

	return nil
}

func (p *Parser) pushArray() error {
	if len(p.stack) >= p.maxLevels {
		return kodoerr.New(kodoerr.JSONTooManyParsingLevels)
	}

	p.stack = append(p.stack, frame{arr: NewArray(0), status: stsExpectArrayValueOrClose})

	return nil
}

// closeContainer pops the top frame and folds its finished value into
// whatever is now on top (or into the parse result, at the root).
func (p *Parser) closeContainer() error {
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]

	var v Value
	if top.obj != nil {
		v = FromObject(top.obj)
	} else {
		v = FromArray(top.arr)
	}

	if len(p.stack) == 0 {
		p.result = v
		p.done = true

		return nil
	}

	return p.acceptValue(v)
}

// acceptValue folds a completed child value (scalar or just-closed
// container) into the new top frame.
func (p *Parser) acceptValue(v Value) error {
	parent := &p.stack[len(p.stack)-1]

	if parent.obj != nil {
		if err := parent.obj.SetByteString(parent.pendingKey, v); err != nil {
			return err
		}

		parent.status = stsExpectCommaOrClose

		return nil
	}

	if err := parent.arr.Push(v); err != nil {
		return err
	}

	parent.status = stsExpectArrayCommaOrClose

	return nil
}

func (p *Parser) acceptInObject(f *frame, tk Token) error {
	switch f.status {
	case stsExpectKeyOrClose:
		if tk.Kind == TokCloseBrace {
			return p.closeContainer()
		}

		if tk.Kind != TokString {
			return kodoerr.New(kodoerr.JSONBadTextInput)
		}

		f.pendingKey = NewByteString(tk.Text)
		f.status = stsExpectColon

		return nil

	case stsExpectColon:
		if tk.Kind != TokColon {
			return kodoerr.New(kodoerr.JSONBadTextInput)
		}

		f.status = stsExpectValue

		return nil

	case stsExpectValue:
		switch tk.Kind {
		case TokOpenBrace:
			return p.pushObject()
		case TokOpenBracket:
			return p.pushArray()
		default:
			if !isScalarToken(tk.Kind) {
				return kodoerr.New(kodoerr.JSONBadTextInput)
			}

			v, err := tokenToValue(tk)
			if err != nil {
				return err
			}

			return p.acceptValue(v)
		}

	case stsExpectCommaOrClose:
		switch tk.Kind {
		case TokCloseBrace:
			return p.closeContainer()
		case TokComma:
			f.status = stsExpectKeyOrClose

			return nil
		default:
			return kodoerr.New(kodoerr.JSONBadTextInput)
		}

	default:
		return kodoerr.New(kodoerr.JSONBadTextInput)
	}
}

func (p *Parser) acceptInArray(f *frame, tk Token) error {
	switch f.status {
	case stsExpectArrayValueOrClose:
		if tk.Kind == TokCloseBracket {
			return p.closeContainer()
		}

		switch tk.Kind {
		case TokOpenBrace:
			return p.pushObject()
		case TokOpenBracket:
			return p.pushArray()
		default:
			if !isScalarToken(tk.Kind) {
				return kodoerr.New(kodoerr.JSONBadTextInput)
			}

			v, err := tokenToValue(tk)
			if err != nil {
				return err
			}

			return p.acceptValue(v)
		}

	case stsExpectArrayCommaOrClose:
		switch tk.Kind {
		case TokCloseBracket:
			return p.closeContainer()
		case TokComma:
			f.status = stsExpectArrayValueOrClose

			return nil
		default:
			return kodoerr.New(kodoerr.JSONBadTextInput)
		}

	default:
		return kodoerr.New(kodoerr.JSONBadTextInput)
	}
}
