package region

import (
	"context"
	"testing"
	"time"

	"github.com/bluntblade/kodo-go/kodoerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := OpenCache(context.Background(), t.TempDir()+"/region-cache.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func sampleRegion(t *testing.T) *Region {
	t.Helper()

	rgn := NewRegion()
	up := NewService(KindUp)
	require.NoError(t, up.AddEntry(ServiceEntry{BaseURL: "http://up1.example.com"}))
	require.NoError(t, up.AddEntry(ServiceEntry{BaseURL: "http://10.0.0.1", Hostname: "up.virtual.example.com"}))
	rgn.SetService(up)

	io := NewService(KindIO)
	require.NoError(t, io.AddEntry(ServiceEntry{BaseURL: "http://io1.example.com"}))
	rgn.SetService(io)

	return rgn
}

func TestCacheSaveThenLoadRoundTrips(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	require.NoError(t, c.Save(ctx, "bucket1", time.Hour, sampleRegion(t)))

	got, err := c.Load(ctx, "bucket1")
	require.NoError(t, err)

	up := got.Service(KindUp)
	require.NotNil(t, up)
	require.Equal(t, 2, up.Len())

	e, ok := up.Entry(1)
	require.True(t, ok)
	assert.Equal(t, "http://10.0.0.1", e.BaseURL)
	assert.Equal(t, "up.virtual.example.com", e.Hostname)

	io := got.Service(KindIO)
	require.NotNil(t, io)
	assert.Equal(t, 1, io.Len())
}

func TestCacheLoadMissingBucketIsNoSuchEntry(t *testing.T) {
	c := openTestCache(t)

	_, err := c.Load(context.Background(), "never-saved")
	require.Error(t, err)
	assert.True(t, kodoerr.New(kodoerr.NoSuchEntry).Is(err))
}

func TestCacheLoadExpiredRowIsTryAgain(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	require.NoError(t, c.Save(ctx, "bucket1", -time.Second, sampleRegion(t)))

	_, err := c.Load(ctx, "bucket1")
	require.Error(t, err)
	assert.True(t, kodoerr.New(kodoerr.TryAgain).Is(err))
}

func TestCacheSaveReplacesExistingRow(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	require.NoError(t, c.Save(ctx, "bucket1", time.Hour, sampleRegion(t)))

	second := NewRegion()
	up := NewService(KindUp)
	require.NoError(t, up.AddEntry(ServiceEntry{BaseURL: "http://replaced.example.com"}))
	second.SetService(up)
	ioSvc := NewService(KindIO)
	second.SetService(ioSvc)

	require.NoError(t, c.Save(ctx, "bucket1", time.Hour, second))

	got, err := c.Load(ctx, "bucket1")
	require.NoError(t, err)

	up2 := got.Service(KindUp)
	require.Equal(t, 1, up2.Len())

	e, _ := up2.Entry(0)
	assert.Equal(t, "http://replaced.example.com", e.BaseURL)
}

func TestCacheDeleteRemovesRow(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	require.NoError(t, c.Save(ctx, "bucket1", time.Hour, sampleRegion(t)))
	require.NoError(t, c.Delete(ctx, "bucket1"))

	_, err := c.Load(ctx, "bucket1")
	require.Error(t, err)
	assert.True(t, kodoerr.New(kodoerr.NoSuchEntry).Is(err))
}
