package jsonv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizerDelimitersAndKeywords(t *testing.T) {
	tok := NewTokenizer()
	data := []byte(`{}[]:, true false null`)
	pos := 0

	var kinds []TokenKind

	for pos < len(data) {
		tk, n, err := tok.Next(data[pos:], true)
		require.NoError(t, err)
		pos += n
		kinds = append(kinds, tk.Kind)
	}

	assert.Equal(t, []TokenKind{
		TokOpenBrace, TokCloseBrace, TokOpenBracket, TokCloseBracket,
		TokColon, TokComma, TokTrue, TokFalse, TokNull,
	}, kinds)
}

func TestTokenizerKeywordsAreCaseInsensitive(t *testing.T) {
	tok := NewTokenizer()
	data := []byte(`True FALSE Null nuLL`)
	pos := 0

	var kinds []TokenKind

	for pos < len(data) {
		tk, n, err := tok.Next(data[pos:], true)
		require.NoError(t, err)
		pos += n
		kinds = append(kinds, tk.Kind)
	}

	assert.Equal(t, []TokenKind{TokTrue, TokFalse, TokNull, TokNull}, kinds)
}

func TestTokenizerStringEscapes(t *testing.T) {
	tok := NewTokenizer()
	data := []byte(`"a\tb\n\"c\\d"`)

	tk, n, err := tok.Next(data, true)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, TokString, tk.Kind)
	assert.Equal(t, "a\tb\n\"c\\d", string(tk.Text))
}

func TestTokenizerSurrogatePair(t *testing.T) {
	tok := NewTokenizer()
	data := []byte("\"\\uD834\\uDD1E\"")

	tk, n, err := tok.Next(data, true)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, TokString, tk.Kind)
	assert.Equal(t, []byte{0xF0, 0x9D, 0x84, 0x9E}, tk.Text)
}

func TestTokenizerNumberVsInteger(t *testing.T) {
	tok := NewTokenizer()

	tk, _, err := tok.Next([]byte("123456,"), true)
	require.NoError(t, err)
	assert.Equal(t, TokInteger, tk.Kind)
	assert.Equal(t, "123456", string(tk.Text))

	tok2 := NewTokenizer()
	tk2, _, err := tok2.Next([]byte("456.456000}"), true)
	require.NoError(t, err)
	assert.Equal(t, TokNumber, tk2.Kind)
	assert.Equal(t, "456.456000", string(tk2.Text))
}

func TestTokenizerChunkedAcrossBoundary(t *testing.T) {
	tok := NewTokenizer()

	tk, n, err := tok.Next([]byte(`"hel`), false)
	require.Error(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, TokenKind(0), tk.Kind)

	tk, n, err = tok.Next([]byte(`lo"`), true)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, TokString, tk.Kind)
	assert.Equal(t, "hello", string(tk.Text))
}

func TestTokenizerNegativeNumber(t *testing.T) {
	tok := NewTokenizer()

	tk, _, err := tok.Next([]byte("-42 "), false)
	require.NoError(t, err)
	assert.Equal(t, TokInteger, tk.Kind)
	assert.Equal(t, "-42", string(tk.Text))
}
