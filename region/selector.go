package region

import "github.com/bluntblade/kodo-go/kodoerr"

// Strategy selects how a Selector picks and reorders entries, grounded
// on original_source/src/qiniu/service_selector.c's
// qn_svc_selector_strategy.
type Strategy int

const (
	// LastSucceededFirst always returns the current head entry; a
	// reported failure advances the head to the next entry, modularly,
	// so the next pick tries a different one.
	LastSucceededFirst Strategy = iota
	// LeastFailuresFirst always returns the current head entry; a
	// reported failure bubbles that entry past any later entries with a
	// strictly smaller failure count, keeping the list sorted so the
	// least-failing entry is always tried first.
	LeastFailuresFirst
	// RoundRobin advances the head on every pick, failure or not,
	// cycling through all entries in turn.
	RoundRobin
)

// Filter restricts which entries a Selector draws from.
type Filter int

const (
	FilterAny Filter = 0
	// FilterNoHTTP excludes plain-http entries (https only).
	FilterNoHTTP Filter = 1 << iota
	// FilterNoHTTPS excludes https entries (http only).
	FilterNoHTTPS
)

type selectorEntry struct {
	entry    ServiceEntry
	failures uint16
}

// Selector picks entries out of a Service one at a time under one of the
// three Strategy policies, grounded on qn_svc_selector_st.
type Selector struct {
	strategy Strategy
	entries  []selectorEntry
	next     int
}

// NewSelector builds a Selector over svc's entries, applying filter at
// construction (qn_svc_sel_create/_reset): entries excluded by filter
// never appear in the Selector regardless of later failures.
func NewSelector(svc *Service, strategy Strategy, filter Filter) *Selector {
	sel := &Selector{strategy: strategy}

	for _, e := range svc.Entries() {
		if filter&FilterNoHTTPS != 0 && e.IsHTTPS() {
			continue
		}

		if filter&FilterNoHTTP != 0 && e.IsHTTP() {
			continue
		}

		sel.entries = append(sel.entries, selectorEntry{entry: e})
	}

	return sel
}

// Len reports how many entries this Selector draws from (post-filter).
func (s *Selector) Len() int { return len(s.entries) }

// NextEntry returns the entry the Selector currently recommends trying.
// Returns kodoerr.New(kodoerr.NoSuchEntry) if every entry was filtered
// out at construction.
func (s *Selector) NextEntry() (ServiceEntry, error) {
	if len(s.entries) == 0 {
		return ServiceEntry{}, kodoerr.New(kodoerr.NoSuchEntry)
	}

	ent := s.entries[s.next].entry

	if s.strategy == RoundRobin {
		s.next++
		if s.next == len(s.entries) {
			s.next = 0
		}
	}

	return ent, nil
}

// RegisterFailure records that ent (previously returned by NextEntry)
// failed, letting the Strategy reorder or advance accordingly
// (qn_svc_sel_register_failed_entry). A failure that would wrap a counter
// past 0xFFFF first halves every entry's counter, so the relative order
// of the counts is kept.
func (s *Selector) RegisterFailure(ent ServiceEntry) {
	if len(s.entries) <= 1 {
		return
	}

	for i := range s.entries {
		if s.entries[i].entry != ent {
			continue
		}

		if s.entries[i].failures == 0xFFFF {
			for k := range s.entries {
				s.entries[k].failures >>= 1
			}
		}

		s.entries[i].failures++

		switch s.strategy {
		case LastSucceededFirst:
			s.next++
			if s.next == len(s.entries) {
				s.next = 0
			}
		case LeastFailuresFirst:
			s.bubble(i)
		case RoundRobin:
			// no-op: round robin ignores failure accounting for ordering
		}

		return
	}
}

// bubble moves entries[n] past every immediately-following entry with a
// failure count strictly smaller than its own, keeping the list ordered by
// ascending failures (qn_svc_sel_register_failed_entry_least_failures_first).
func (s *Selector) bubble(n int) {
	p := n + 1
	for p < len(s.entries) && s.entries[n].failures > s.entries[p].failures {
		p++
	}

	if p-(n+1) == 0 {
		return
	}

	moved := s.entries[n]
	copy(s.entries[n:p-1], s.entries[n+1:p])
	s.entries[p-1] = moved
}
