package region

import "strings"

// ServiceEntry is one reachable endpoint: a base URL, optionally bound to
// a virtual hostname that must be sent as the Host header / SNI name
// while dialing base_url (the "-H <hostname> <base_url>" form the
// discovery response sometimes carries), grounded on
// original_source/src/qiniu/region.c's qn_rgn_svc_parse_and_add_entry.
type ServiceEntry struct {
	BaseURL  string
	Hostname string
}

// IsHTTPS reports whether BaseURL uses the https scheme.
func (e ServiceEntry) IsHTTPS() bool {
	return strings.HasPrefix(e.BaseURL, "https://")
}

// IsHTTP reports whether BaseURL uses the http scheme.
func (e ServiceEntry) IsHTTP() bool {
	return strings.HasPrefix(e.BaseURL, "http://")
}

// ParseEntryLine parses one discovery response line into a ServiceEntry.
// Two forms are accepted, mirroring qn_rgn_svc_parse_and_add_entry byte
// for byte:
//
//	"http://host.example.com"              -> {BaseURL: "http://host.example.com"}
//	"-H virtual.example.com http://1.2.3.4" -> {BaseURL: "http://1.2.3.4", Hostname: "virtual.example.com"}
func ParseEntryLine(line string) ServiceEntry {
	if idx := strings.Index(line, "-H"); idx >= 0 {
		rest := line[idx+2:]
		rest = strings.TrimLeft(rest, " \t")

		sp := strings.IndexByte(rest, ' ')
		if sp < 0 {
			return ServiceEntry{BaseURL: strings.TrimSpace(rest)}
		}

		hostname := rest[:sp]

		urlPart := rest[sp:]
		if at := strings.Index(urlPart, "http"); at >= 0 {
			urlPart = urlPart[at:]
		}

		return ServiceEntry{BaseURL: strings.TrimSpace(urlPart), Hostname: hostname}
	}

	return ServiceEntry{BaseURL: strings.TrimSpace(line)}
}
