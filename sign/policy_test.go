package sign

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluntblade/kodo-go/jsonv"
)

func decodePolicy(t *testing.T, encoded string) *jsonv.Object {
	t.Helper()

	raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(encoded)
	require.NoError(t, err)

	p := jsonv.NewParser()
	_, err = p.Parse(raw, true)
	require.NoError(t, err)
	require.True(t, p.Done())

	obj, ok := p.Result().AsObject()
	require.True(t, ok)
	return obj
}

func TestUploadPolicyEncodesRequiredFields(t *testing.T) {
	deadline := time.Unix(1700000000, 0)
	p := NewUploadPolicy("my-bucket", deadline)

	encoded, err := p.Encode()
	require.NoError(t, err)
	assert.NotContains(t, encoded, "=")

	obj := decodePolicy(t, encoded)
	scope, ok := obj.Get("scope")
	require.True(t, ok)
	s, _ := scope.AsString()
	assert.Equal(t, "my-bucket", s.String())

	dl, ok := obj.Get("deadline")
	require.True(t, ok)
	n, _ := dl.AsInt()
	assert.EqualValues(t, 1700000000, n)
}

func TestUploadPolicyOptionsSetExtraFields(t *testing.T) {
	p := NewUploadPolicy("bucket", time.Unix(1700000000, 0)).With(
		InsertOnly(),
		EndUser("user-1"),
		CallbackURL("https://example.com/cb"),
		FsizeLimit(1024),
		DetectMime(),
	)

	encoded, err := p.Encode()
	require.NoError(t, err)

	obj := decodePolicy(t, encoded)

	insertOnly, ok := obj.Get("insertOnly")
	require.True(t, ok)
	b, _ := insertOnly.AsBool()
	assert.True(t, b)

	endUser, ok := obj.Get("endUser")
	require.True(t, ok)
	eu, _ := endUser.AsString()
	assert.Equal(t, "user-1", eu.String())

	limit, ok := obj.Get("fsizeLimit")
	require.True(t, ok)
	n, _ := limit.AsInt()
	assert.EqualValues(t, 1024, n)
}

func TestUploadPolicyNormalizesScopeToNFC(t *testing.T) {
	decomposed := "é" // "é" as e + combining acute accent
	p := NewUploadPolicy(decomposed, time.Unix(0, 0))

	encoded, err := p.Encode()
	require.NoError(t, err)

	obj := decodePolicy(t, encoded)
	scope, _ := obj.Get("scope")
	s, _ := scope.AsString()
	assert.Equal(t, "é", s.String())
	assert.NotEqual(t, decomposed, s.String())
}

func TestUploadPolicySignedTokenHasThreeParts(t *testing.T) {
	p := NewUploadPolicy("bucket", time.Unix(1700000000, 0))
	creds := Credentials{AccessKey: "ak", SecretKey: "sk"}

	token, err := p.SignedToken(creds)
	require.NoError(t, err)

	parts := strings.Split(token, ":")
	require.Len(t, parts, 3)
	assert.Equal(t, "ak", parts[0])
}
