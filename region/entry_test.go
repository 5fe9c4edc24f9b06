package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEntryLinePlainURL(t *testing.T) {
	e := ParseEntryLine("http://up.qiniu.com")
	assert.Equal(t, "http://up.qiniu.com", e.BaseURL)
	assert.Empty(t, e.Hostname)
}

func TestParseEntryLineWithHostOverride(t *testing.T) {
	e := ParseEntryLine("-H upload.example.com http://1.2.3.4")
	assert.Equal(t, "http://1.2.3.4", e.BaseURL)
	assert.Equal(t, "upload.example.com", e.Hostname)
}

func TestParseEntryLineTrimsWhitespace(t *testing.T) {
	e := ParseEntryLine("  -H   host.example.com   https://5.6.7.8  ")
	assert.Equal(t, "https://5.6.7.8", e.BaseURL)
	assert.Equal(t, "host.example.com", e.Hostname)
}

func TestServiceEntrySchemeChecks(t *testing.T) {
	http := ServiceEntry{BaseURL: "http://a"}
	https := ServiceEntry{BaseURL: "https://a"}

	assert.True(t, http.IsHTTP())
	assert.False(t, http.IsHTTPS())
	assert.True(t, https.IsHTTPS())
	assert.False(t, https.IsHTTP())
}
