package region

import (
	"sync"
	"time"

	"github.com/bluntblade/kodo-go/kodoerr"
)

type tableEntry struct {
	name     string
	deadline time.Time
	region   *Region
}

// Table is a TTL-expiring, name-keyed cache of Regions, grounded on
// original_source/src/qiniu/region_table.c's linear-scan qn_rgn_table_st
// (the same x1.5 growth discipline Array/Object use; a Go slice already
// amortizes this, so Table leans on append rather than hand-rolling the
// capacity doubling the C version needs).
type Table struct {
	mu      sync.RWMutex
	entries []tableEntry
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{entries: make([]tableEntry, 0, 4)}
}

// Get returns the Region cached under name, failing with
// kodoerr.NoSuchEntry if absent or kodoerr.New(kodoerr.TryAgain) if
// present but past its deadline (mirroring
// qn_err_rgn_set_entry_info_expired: an expired entry should trigger a
// fresh discovery, not be treated as a hard miss).
func (t *Table) Get(name string) (*Region, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := range t.entries {
		if t.entries[i].name != name {
			continue
		}

		if time.Now().After(t.entries[i].deadline) {
			return nil, kodoerr.New(kodoerr.TryAgain)
		}

		return t.entries[i].region, nil
	}

	return nil, kodoerr.New(kodoerr.NoSuchEntry)
}

// Set binds name to rgn with a deadline ttl from now, replacing any
// existing binding in place (qn_rgn_tbl_set_region).
func (t *Table) Set(name string, ttl time.Duration, rgn *Region) {
	t.mu.Lock()
	defer t.mu.Unlock()

	deadline := time.Now().Add(ttl)

	for i := range t.entries {
		if t.entries[i].name == name {
			t.entries[i].deadline = deadline
			t.entries[i].region = rgn

			return
		}
	}

	t.entries = append(t.entries, tableEntry{name: name, deadline: deadline, region: rgn})
}

// Len reports the number of cached entries, expired or not.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.entries)
}

// ForEach calls fn for every cached (name, Region) pair in insertion
// order, the Go-native reading of qn_rgn_itr_create/_next_pair — a
// dedicated iterator type would hold no state an ordinary callback loop
// doesn't already give for free.
func (t *Table) ForEach(fn func(name string, rgn *Region) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, e := range t.entries {
		if !fn(e.name, e.region) {
			return
		}
	}
}
