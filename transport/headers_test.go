package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAuthorization(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	SetAuthorization(req, "QBox", "abc123")
	assert.Equal(t, "QBox abc123", req.Header.Get("Authorization"))
}

func TestMergeHeadersAddsWithoutClobbering(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)
	req.Header.Set("X-Existing", "keep")

	extra := http.Header{}
	extra.Add("X-Existing", "also")
	extra.Add("X-New", "value")

	MergeHeaders(req, extra)

	assert.ElementsMatch(t, []string{"keep", "also"}, req.Header.Values("X-Existing"))
	assert.Equal(t, "value", req.Header.Get("X-New"))
}
