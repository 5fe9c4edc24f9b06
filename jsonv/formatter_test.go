package jsonv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterCompactRoundTrip(t *testing.T) {
	obj := NewObject(0)
	require.NoError(t, obj.Set("key", StringFromGo("pair")))
	require.NoError(t, obj.Set("ret", Int(123456)))
	require.NoError(t, obj.Set("_num", Float(456.456)))
	require.NoError(t, obj.Set("_true", Bool(true)))
	require.NoError(t, obj.Set("_false", Bool(false)))
	require.NoError(t, obj.Set("_null", Null()))

	out, err := FormatToString(FromObject(obj), FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, `{"_false":false,"_null":null,"_num":456.456000,"_true":true,"key":"pair","ret":123456}`, out)
}

func TestFormatterTightBuffer(t *testing.T) {
	obj := NewObject(0)
	require.NoError(t, obj.Set("a", Int(1)))
	require.NoError(t, obj.Set("b", Int(2)))

	f := NewFormatter(FromObject(obj), FormatOptions{})

	var out []byte
	buf := make([]byte, 3)

	for {
		n, err := f.Format(buf)
		out = append(out, buf[:n]...)

		if err == nil {
			break
		}

		require.True(t, IsOutOfBuffer(err))
	}

	assert.Equal(t, `{"a":1,"b":2}`, string(out))
}

func TestFormatterRoundTripsParsedValue(t *testing.T) {
	input := `{"a":[1,2,3],"b":{"c":"d"},"e":null,"f":true}`
	v := parseAll(t, input)

	out, err := FormatToString(v, FormatOptions{})
	require.NoError(t, err)

	p2 := NewParser()
	_, err = p2.Parse([]byte(out), true)
	require.NoError(t, err)
	require.True(t, p2.Done())
	assert.True(t, v.Equal(p2.Result()))
}

func TestFormatterEscapesControlAndQuote(t *testing.T) {
	out, err := FormatToString(StringFromGo("a\"b\\c\nd"), FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, `"a\"b\\c\nd"`, out)
}

func TestFormatterPretty(t *testing.T) {
	obj := NewObject(0)
	require.NoError(t, obj.Set("a", Int(1)))

	out, err := FormatToString(FromObject(obj), FormatOptions{Pretty: true})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", out)
}
