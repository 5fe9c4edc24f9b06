package config

import (
	"fmt"
	"io"
)

// RenderEffective writes the resolved configuration as a human-readable
// annotated summary to w. This powers the "kodo config show" command,
// giving users visibility into the effective values after all four override
// layers (defaults -> file -> env -> CLI) have been applied. The secret key
// is never printed in full, only its last four characters, since this
// output is meant to be safe to paste into a bug report.
func RenderEffective(rp *ResolvedProfile, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("# Effective configuration for profile %q\n\n", rp.Name)
	ew.printf("access_key = %q\n", rp.AccessKey)
	ew.printf("secret_key = %q\n", maskSecret(rp.SecretKey))
	ew.printf("bucket = %q\n", rp.Bucket)
	ew.printf("cache_dir = %q\n", rp.CacheDir)
	ew.printf("resumable_threshold = %d\n\n", rp.ResumableThreshold)

	ew.printf("[logging]\n")
	ew.printf("log_level = %q\n", rp.Logging.LogLevel)
	ew.printf("log_file = %q\n", rp.Logging.LogFile)
	ew.printf("log_format = %q\n\n", rp.Logging.LogFormat)

	ew.printf("[network]\n")
	ew.printf("connect_timeout = %q\n", rp.Network.ConnectTimeout)
	ew.printf("data_timeout = %q\n", rp.Network.DataTimeout)
	ew.printf("discovery_base_url = %q\n", rp.Network.DiscoveryBaseURL)

	return ew.err
}

func maskSecret(s string) string {
	const visible = 4

	if len(s) <= visible {
		return "****"
	}

	return "****" + s[len(s)-visible:]
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, so callers can chain printf
// calls without checking each one individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
