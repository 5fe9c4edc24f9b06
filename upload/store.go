package upload

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bluntblade/kodo-go/kodoerr"
)

const (
	progressSubdir    = "upload-progress"
	progressFilePerms = 0o600
	progressDirPerms  = 0o700
)

// Store persists Progress records to disk, keyed by (bucket, key). It
// is the Go reading of driveops.SessionStore generalized from OneDrive
// upload-session URLs to qiniu resumable-upload block progress:
// sha256-keyed JSON files under a dedicated directory, written through
// a temp file plus atomic rename so a crash mid-write never corrupts
// the last good checkpoint. Unlike the teacher's static ".tmp" suffix,
// the temp name carries a google/uuid suffix so two uploads of the same
// (bucket, key) racing each other never collide on the same temp path.
type Store struct {
	dir string
}

// NewStore roots a Store at dataDir/upload-progress.
func NewStore(dataDir string) *Store {
	return &Store{dir: filepath.Join(dataDir, progressSubdir)}
}

func progressKey(bucket, key string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d:%s:%s", len(bucket), bucket, key))
	return fmt.Sprintf("%x.json", sum)
}

func (s *Store) path(bucket, key string) string {
	return filepath.Join(s.dir, progressKey(bucket, key))
}

// Load reads the progress record for (bucket, key). Returns a
// kodoerr.NoSuchEntry error if no record exists.
func (s *Store) Load(bucket, key string) (*Progress, error) {
	data, err := os.ReadFile(s.path(bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kodoerr.New(kodoerr.NoSuchEntry)
		}

		return nil, kodoerr.Wrap(kodoerr.FileReadingFailed, s.path(bucket, key), err)
	}

	return DecodeProgress(data)
}

// Save persists p for (bucket, key), creating the progress directory if
// needed.
func (s *Store) Save(bucket, key string, p *Progress) error {
	if err := os.MkdirAll(s.dir, progressDirPerms); err != nil {
		return kodoerr.Wrap(kodoerr.FileOpeningFailed, s.dir, err)
	}

	data, err := p.Encode()
	if err != nil {
		return err
	}

	target := s.path(bucket, key)
	tmp := target + "." + uuid.NewString() + ".tmp"

	if err := os.WriteFile(tmp, data, progressFilePerms); err != nil {
		return kodoerr.Wrap(kodoerr.FileOpeningFailed, tmp, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return kodoerr.Wrap(kodoerr.FileOpeningFailed, target, err)
	}

	return nil
}

// Delete removes the progress record for (bucket, key), if any.
func (s *Store) Delete(bucket, key string) error {
	if err := os.Remove(s.path(bucket, key)); err != nil && !os.IsNotExist(err) {
		return kodoerr.Wrap(kodoerr.FileOpeningFailed, s.path(bucket, key), err)
	}

	return nil
}
