package region

import (
	"testing"
	"time"

	"github.com/bluntblade/kodo-go/kodoerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableGetMissingEntryIsNoSuchEntry(t *testing.T) {
	tbl := NewTable()

	_, err := tbl.Get("bucket-a")
	require.Error(t, err)
	assert.True(t, kodoerr.New(kodoerr.NoSuchEntry).Is(err))
}

func TestTableSetThenGetRoundTrips(t *testing.T) {
	tbl := NewTable()
	rgn := DefaultRegion()

	tbl.Set("bucket-a", time.Hour, rgn)

	got, err := tbl.Get("bucket-a")
	require.NoError(t, err)
	assert.Same(t, rgn, got)
	assert.Equal(t, 1, tbl.Len())
}

func TestTableGetExpiredEntryIsTryAgain(t *testing.T) {
	tbl := NewTable()
	tbl.Set("bucket-a", -time.Second, DefaultRegion())

	_, err := tbl.Get("bucket-a")
	require.Error(t, err)
	assert.True(t, kodoerr.New(kodoerr.TryAgain).Is(err))
}

func TestTableSetReplacesInPlace(t *testing.T) {
	tbl := NewTable()
	tbl.Set("bucket-a", time.Hour, DefaultRegion())

	second := NewRegion()
	tbl.Set("bucket-a", time.Hour, second)

	require.Equal(t, 1, tbl.Len())

	got, err := tbl.Get("bucket-a")
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestTableForEachVisitsAllUntilStopped(t *testing.T) {
	tbl := NewTable()
	tbl.Set("a", time.Hour, DefaultRegion())
	tbl.Set("b", time.Hour, DefaultRegion())
	tbl.Set("c", time.Hour, DefaultRegion())

	var names []string
	tbl.ForEach(func(name string, rgn *Region) bool {
		names = append(names, name)
		return name != "b"
	})

	assert.Equal(t, []string{"a", "b"}, names)
}
