package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// configFilePermissions is the standard permission mode for config files:
// owner read/write only, since the file may hold a plaintext secret key.
const configFilePermissions = 0o600

// configDirPermissions is the standard permission mode for config directories.
const configDirPermissions = 0o700

// configTemplate is the default config file content written by `kodo
// configure` on first run.
const configTemplate = `# kodo configuration
# Docs: https://github.com/bluntblade/kodo-go

# ── Global settings ──
# Uncomment and modify to override defaults.

# [logging]
# log_level = "info"
# log_file = ""
`

// profileSection generates the TOML text for a new [profile.NAME] section.
func profileSection(name, accessKey, secretKey, bucket string) string {
	return fmt.Sprintf("\n[profile.%s]\naccess_key = %q\nsecret_key = %q\nbucket = %q\n",
		name, accessKey, secretKey, bucket)
}

// WriteNewProfile creates path from the default template and appends a
// profile section, used by `kodo configure` when no config file exists yet.
// The write is atomic (temp file + rename) and parent directories are
// created as needed.
func WriteNewProfile(path, name, accessKey, secretKey, bucket string) error {
	content := configTemplate + profileSection(name, accessKey, secretKey, bucket)

	return atomicWriteFile(path, []byte(content))
}

// AppendProfile appends a new profile section to an existing config file.
func AppendProfile(path, name, accessKey, secretKey, bucket string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	content := string(data)
	if content != "" && content[len(content)-1] != '\n' {
		content += "\n"
	}

	content += profileSection(name, accessKey, secretKey, bucket)

	return atomicWriteFile(path, []byte(content))
}

// atomicWriteFile writes data to a temporary file in the same directory as
// path, then renames it to the target path. This prevents partial writes
// from corrupting the config file on crash. Parent directories are created
// as needed.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, configDirPermissions); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tempPath := f.Name()

	succeeded := false
	defer func() {
		if !succeeded {
			os.Remove(tempPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()

		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tempPath, configFilePermissions); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	succeeded = true

	return nil
}
