package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadOrDefaultReturnsDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, defaultLogLevel, cfg.Logging.LogLevel)
	assert.Empty(t, cfg.Profiles)
}

func TestLoadParsesProfileSection(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[profile.work]
access_key = "ak-work"
secret_key = "sk-work"
bucket = "work-bucket"
`)

	cfg, err := Load(path, discardLogger())
	require.NoError(t, err)
	require.Contains(t, cfg.Profiles, "work")
	assert.Equal(t, "ak-work", cfg.Profiles["work"].AccessKey)
	assert.Equal(t, "work-bucket", cfg.Profiles["work"].Bucket)
}

func TestLoadRejectsUnknownGlobalKey(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
unknown_setting = true
`)

	_, err := Load(path, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown_setting")
}

func TestLoadRejectsUnknownProfileKey(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[profile.work]
access_key = "ak"
secret_key = "sk"
bucket = "b"
sync_dir = "/tmp"
`)

	_, err := Load(path, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile.work.sync_dir")
}

func TestResolveAppliesFourLayerOverrideChain(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[profile.default]
access_key = "file-ak"
secret_key = "file-sk"
bucket = "file-bucket"
`)

	t.Setenv(EnvBucket, "env-bucket")

	resolved, err := Resolve(
		EnvOverrides{Bucket: "env-bucket"},
		CLIOverrides{ConfigPath: path, AccessKey: "cli-ak"},
		discardLogger(),
	)
	require.NoError(t, err)
	assert.Equal(t, "cli-ak", resolved.AccessKey)
	assert.Equal(t, "file-sk", resolved.SecretKey)
	assert.Equal(t, "env-bucket", resolved.Bucket)
}

func TestResolveFailsWithoutCredentials(t *testing.T) {
	_, err := Resolve(EnvOverrides{}, CLIOverrides{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")}, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_key")
}
