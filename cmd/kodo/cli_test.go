package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bluntblade/kodo-go/region"
	"github.com/bluntblade/kodo-go/testutil"
)

// seedCache writes a region.Cache at cacheDir/regions.db mapping bucket
// to a Region whose every service points at baseURL, the same
// loadConfig reads back via seedRegionTable — letting a CLI-level test
// reach a local fake server without touching real discovery or the
// production default hosts.
func seedCache(t *testing.T, cacheDir, bucket, baseURL string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(cacheDir, 0o700))

	cache, err := region.OpenCache(context.Background(), filepath.Join(cacheDir, "regions.db"))
	require.NoError(t, err)
	defer cache.Close()

	rgn := region.NewRegion()
	for _, kind := range []region.Kind{region.KindUp, region.KindIO, region.KindRS, region.KindRSF, region.KindAPI} {
		svc := region.NewService(kind)
		require.NoError(t, svc.AddEntry(region.ServiceEntry{BaseURL: baseURL}))
		rgn.SetService(svc)
	}

	require.NoError(t, cache.Save(context.Background(), bucket, time.Hour, rgn))
}

func writeProfileConfig(t *testing.T, path, cacheDir string) {
	t.Helper()

	content := `[profile.default]
access_key = "ak"
secret_key = "sk"
bucket = "bucket"
cache_dir = "` + cacheDir + `"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func runCLI(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()

	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err = cmd.Execute()

	return out.String(), err
}

func TestCLIStatPrintsObjectMetadata(t *testing.T) {
	rs := testutil.NewFakeRS()
	rs.Put("bucket", "key.txt", testutil.Object{Hash: "h1", FSize: 42, MimeType: "text/plain"})
	srv := rs.Server()
	defer srv.Close()

	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	seedCache(t, cacheDir, "bucket", srv.URL)

	configPath := filepath.Join(dir, "config.toml")
	writeProfileConfig(t, configPath, cacheDir)

	out, err := runCLI(t, "--config", configPath, "stat", "--json", "key.txt")
	require.NoError(t, err)
	require.Contains(t, out, `"hash":"h1"`)
	require.Contains(t, out, `"fsize":42`)
}

func TestCLILsListsObjectsUnderPrefix(t *testing.T) {
	rs := testutil.NewFakeRS()
	rs.Put("bucket", "a/one.txt", testutil.Object{Hash: "h1", FSize: 1})
	rs.Put("bucket", "a/two.txt", testutil.Object{Hash: "h2", FSize: 2})
	srv := rs.Server()
	defer srv.Close()

	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	seedCache(t, cacheDir, "bucket", srv.URL)

	configPath := filepath.Join(dir, "config.toml")
	writeProfileConfig(t, configPath, cacheDir)

	out, err := runCLI(t, "--config", configPath, "ls", "--prefix", "a/")
	require.NoError(t, err)
	require.Contains(t, out, "a/one.txt")
	require.Contains(t, out, "a/two.txt")
}

func TestCLIRmDeletesObject(t *testing.T) {
	rs := testutil.NewFakeRS()
	rs.Put("bucket", "gone.txt", testutil.Object{Hash: "h1", FSize: 1})
	srv := rs.Server()
	defer srv.Close()

	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	seedCache(t, cacheDir, "bucket", srv.URL)

	configPath := filepath.Join(dir, "config.toml")
	writeProfileConfig(t, configPath, cacheDir)

	_, err := runCLI(t, "--config", configPath, "--quiet", "rm", "gone.txt")
	require.NoError(t, err)

	_, err = runCLI(t, "--config", configPath, "stat", "gone.txt")
	require.Error(t, err)
}

func TestCLIConfigureWritesProfile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	_, err := runCLI(t, "--config", configPath, "configure",
		"--access-key", "ak", "--secret-key", "sk", "--bucket", "b")
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Contains(t, string(data), `access_key = "ak"`)
}
