package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceAddAndReadEntries(t *testing.T) {
	svc := NewService(KindRS)
	require.NoError(t, svc.AddEntry(ServiceEntry{BaseURL: "http://rs.example.com"}))

	assert.Equal(t, KindRS, svc.Kind())
	assert.Equal(t, 1, svc.Len())

	e, ok := svc.Entry(0)
	require.True(t, ok)
	assert.Equal(t, "http://rs.example.com", e.BaseURL)

	_, ok = svc.Entry(1)
	assert.False(t, ok)
}

func TestServiceRejectsEntriesPastCapacity(t *testing.T) {
	svc := NewService(KindUp)
	for i := 0; i < maxServiceEntries; i++ {
		require.NoError(t, svc.AddEntry(ServiceEntry{BaseURL: "http://x"}))
	}

	err := svc.AddEntry(ServiceEntry{BaseURL: "http://overflow"})
	assert.Error(t, err)
}

func TestServiceEntriesReturnsIndependentCopy(t *testing.T) {
	svc := NewService(KindUp)
	require.NoError(t, svc.AddEntry(ServiceEntry{BaseURL: "http://a"}))

	copied := svc.Entries()
	copied[0].BaseURL = "mutated"

	e, _ := svc.Entry(0)
	assert.Equal(t, "http://a", e.BaseURL)
}

func TestDefaultServiceCoversEveryKind(t *testing.T) {
	for _, k := range []Kind{KindUp, KindIO, KindRS, KindRSF, KindAPI} {
		svc := DefaultService(k)
		require.Equal(t, 1, svc.Len())

		e, _ := svc.Entry(0)
		assert.NotEmpty(t, e.BaseURL)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "up", KindUp.String())
	assert.Equal(t, "api", KindAPI.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
