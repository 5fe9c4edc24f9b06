package region

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure Go SQLite driver, registers as "sqlite"

	"github.com/bluntblade/kodo-go/kodoerr"
)

//go:embed migrations/*.sql
var cacheMigrationsFS embed.FS

// Cache persists a Table's entries to a SQLite database so region
// discovery survives across process restarts, the practical form of
// Table's in-memory TTL cache for a one-shot CLI invocation. The
// original C SDK never persists the region table across runs (its
// process lives as long as the calling program does); this is a Go-side
// addition with no original_source counterpart, grounded instead on
// the teacher's own SQLite-plus-goose persistence layer
// (internal/sync/migrations.go's goose.NewProvider usage and
// internal/sync/state.go's sql.Open/pragma setup).
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if necessary) the SQLite database at path and
// brings its schema up to date. Use ":memory:" for tests.
func OpenCache(ctx context.Context, path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("region: opening cache database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("region: setting %s: %w", pragma, err)
		}
	}

	subFS, err := fs.Sub(cacheMigrationsFS, "migrations")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("region: creating migration sub-filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subFS)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("region: creating migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("region: running cache migrations: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error { return c.db.Close() }

// Save writes rgn's up/io entries for bucket, replacing any prior row,
// with a deadline ttl from now.
func (c *Cache) Save(ctx context.Context, bucket string, ttl time.Duration, rgn *Region) error {
	deadline := time.Now().Add(ttl).Unix()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO region_cache (bucket, up_entries, io_entries, deadline_unix)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(bucket) DO UPDATE SET
			up_entries = excluded.up_entries,
			io_entries = excluded.io_entries,
			deadline_unix = excluded.deadline_unix
	`, bucket, joinEntries(rgn.Service(KindUp)), joinEntries(rgn.Service(KindIO)), deadline)
	if err != nil {
		return fmt.Errorf("region: saving cache row for bucket %q: %w", bucket, err)
	}

	return nil
}

// Load reads back the Region cached for bucket. Returns
// kodoerr.New(kodoerr.NoSuchEntry) if no row exists, or
// kodoerr.New(kodoerr.TryAgain) if the row's deadline has passed,
// matching Table.Get's two failure modes exactly so callers can treat a
// persisted cache and an in-memory Table interchangeably.
func (c *Cache) Load(ctx context.Context, bucket string) (*Region, error) {
	var upRaw, ioRaw string
	var deadlineUnix int64

	row := c.db.QueryRowContext(ctx,
		`SELECT up_entries, io_entries, deadline_unix FROM region_cache WHERE bucket = ?`, bucket)

	if err := row.Scan(&upRaw, &ioRaw, &deadlineUnix); err != nil {
		if err == sql.ErrNoRows {
			return nil, kodoerr.New(kodoerr.NoSuchEntry)
		}

		return nil, fmt.Errorf("region: loading cache row for bucket %q: %w", bucket, err)
	}

	if time.Now().After(time.Unix(deadlineUnix, 0)) {
		return nil, kodoerr.New(kodoerr.TryAgain)
	}

	rgn := NewRegion()
	rgn.SetService(splitEntries(KindUp, upRaw))
	rgn.SetService(splitEntries(KindIO, ioRaw))

	return rgn, nil
}

// Delete removes any cached row for bucket. Deleting an absent bucket is
// a no-op.
func (c *Cache) Delete(ctx context.Context, bucket string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM region_cache WHERE bucket = ?`, bucket); err != nil {
		return fmt.Errorf("region: deleting cache row for bucket %q: %w", bucket, err)
	}

	return nil
}

func entryLine(e ServiceEntry) string {
	if e.Hostname == "" {
		return e.BaseURL
	}

	return fmt.Sprintf("-H %s %s", e.Hostname, e.BaseURL)
}

func joinEntries(svc *Service) string {
	if svc == nil {
		return ""
	}

	lines := make([]string, 0, svc.Len())
	for _, e := range svc.Entries() {
		lines = append(lines, entryLine(e))
	}

	return strings.Join(lines, "\n")
}

func splitEntries(kind Kind, raw string) *Service {
	svc := NewService(kind)

	if raw == "" {
		return svc
	}

	for _, line := range strings.Split(raw, "\n") {
		_ = svc.AddEntry(ParseEntryLine(line))
	}

	return svc
}
