package region

// Region bundles one Service per Kind (up/io/rs/rsf/api), grounded on
// original_source/src/qiniu/region.c's qn_region_st.
type Region struct {
	services [kindCount]*Service
}

// NewRegion returns an empty Region with no services bound.
func NewRegion() *Region {
	return &Region{}
}

// SetService binds svc as the Region's service for its own Kind.
func (r *Region) SetService(svc *Service) {
	r.services[svc.Kind()] = svc
}

// Service returns the Region's service for kind, or nil if unbound.
func (r *Region) Service(kind Kind) *Service {
	return r.services[kind]
}

// Clone returns a deep copy: mutating the clone's services never affects
// the original (qn_rgn_duplicate).
func (r *Region) Clone() *Region {
	out := NewRegion()

	for k, svc := range r.services {
		if svc == nil {
			continue
		}

		clone := NewService(Kind(k))
		for _, e := range svc.entries {
			_ = clone.AddEntry(e)
		}

		out.services[k] = clone
	}

	return out
}

// DefaultRegion returns a Region backed entirely by the global fallback
// endpoints (qn_svc_get_default_service for every Kind), used before any
// bucket-specific discovery has happened.
func DefaultRegion() *Region {
	r := NewRegion()
	for k := Kind(0); k < kindCount; k++ {
		r.SetService(DefaultService(k))
	}

	return r
}
