// Package region models the storage service's endpoint topology: a
// ServiceEntry is one reachable base URL (optionally bound to a virtual
// hostname), a Service is an ordered list of entries for one kind of
// operation (up/io/rs/rsf/api), a Region bundles one Service per kind,
// and a Table caches Regions by bucket name behind a TTL. A
// Selector picks entries out of a Service under one of three strategies.
// Grounded on original_source/src/qiniu/service.c,
// service_selector.c, region.c, and region_table.c.
package region
