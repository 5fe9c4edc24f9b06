// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for the kodo CLI.
package config

// Config is the top-level configuration structure: zero or more named
// profiles plus the global sections every profile shares unless it
// overrides them.
type Config struct {
	Profiles map[string]Profile `toml:"profile"`
	Logging  LoggingConfig      `toml:"logging"`
	Network  NetworkConfig      `toml:"network"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`
	LogFormat string `toml:"log_format"`
}

// NetworkConfig controls HTTP client and region-discovery behavior.
type NetworkConfig struct {
	ConnectTimeout   string `toml:"connect_timeout"`
	DataTimeout      string `toml:"data_timeout"`
	UserAgent        string `toml:"user_agent"`
	DiscoveryBaseURL string `toml:"discovery_base_url"`
}
