package region

import "github.com/bluntblade/kodo-go/kodoerr"

// Kind identifies which operation family a Service answers for.
type Kind int

const (
	KindUp Kind = iota
	KindIO
	KindRS
	KindRSF
	KindAPI
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindUp:
		return "up"
	case KindIO:
		return "io"
	case KindRS:
		return "rs"
	case KindRSF:
		return "rsf"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// maxServiceEntries mirrors the 8-bit cnt/cap fields in
// original_source/src/qiniu/service.c's qn_service_st.
const maxServiceEntries = 255

// Service is an ordered list of ServiceEntry values for one Kind, growing
// by plain append (capped at maxServiceEntries) as entries are added,
// grounded on qn_svc_create/_add_entry/_augment.
type Service struct {
	kind    Kind
	entries []ServiceEntry
}

// NewService returns an empty Service of the given kind with an initial
// capacity hint of 4, matching qn_svc_create's default.
func NewService(kind Kind) *Service {
	return &Service{kind: kind, entries: make([]ServiceEntry, 0, 4)}
}

// Kind reports which operation family this Service answers for.
func (s *Service) Kind() Kind { return s.kind }

// Len reports the number of entries.
func (s *Service) Len() int { return len(s.entries) }

// Entry returns the entry at position i.
func (s *Service) Entry(i int) (ServiceEntry, bool) {
	if i < 0 || i >= len(s.entries) {
		return ServiceEntry{}, false
	}

	return s.entries[i], true
}

// AddEntry appends ent, failing with kodoerr.OutOfCapacity once
// maxServiceEntries is reached.
func (s *Service) AddEntry(ent ServiceEntry) error {
	if len(s.entries) >= maxServiceEntries {
		return kodoerr.New(kodoerr.OutOfCapacity)
	}

	s.entries = append(s.entries, ent)

	return nil
}

// Entries returns a copy of the entry list, in insertion order.
func (s *Service) Entries() []ServiceEntry {
	out := make([]ServiceEntry, len(s.entries))
	copy(out, s.entries)

	return out
}

// defaultServices mirrors qn_svc_default_services: a single fallback
// endpoint per Kind, used when a bucket's Region has not been discovered
// yet (or discovery is disabled).
var defaultServices = map[Kind]string{
	KindUp:  "http://up.qiniu.com",
	KindIO:  "http://iovip.qbox.me",
	KindRS:  "http://rs.qiniu.com",
	KindRSF: "http://rsf.qbox.me",
	KindAPI: "http://api.qiniu.com",
}

// DefaultService returns the single-entry fallback Service for kind.
func DefaultService(kind Kind) *Service {
	svc := NewService(kind)
	_ = svc.AddEntry(ServiceEntry{BaseURL: defaultServices[kind]})

	return svc
}
