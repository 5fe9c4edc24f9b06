package config

import (
	"errors"
	"fmt"
	"time"
)

// Validation range constants.
const (
	minConnectTimeout = 1 * time.Second
	minDataTimeout    = 5 * time.Second
)

// Validate checks all configuration values and returns all errors found. It
// accumulates every error rather than stopping at the first, so users see a
// complete report and can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateProfiles(cfg.Profiles)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateNetwork(&cfg.Network)...)

	return errors.Join(errs...)
}

// ValidateResolved checks cross-field constraints on a fully resolved
// profile, run after the four-layer override chain has been applied. It
// catches constraints that only make sense on the final merged result, such
// as a credential pair that remains empty after every layer.
func ValidateResolved(rp *ResolvedProfile) error {
	var errs []error

	if rp.AccessKey == "" {
		errs = append(errs, errors.New("access_key: must be set via config file, KODO_ACCESS_KEY, or --access-key"))
	}

	if rp.SecretKey == "" {
		errs = append(errs, errors.New("secret_key: must be set via config file, KODO_SECRET_KEY, or --secret-key"))
	}

	return errors.Join(errs...)
}

func validateProfiles(profiles map[string]Profile) []error {
	var errs []error

	for name := range profiles {
		p := profiles[name]
		errs = append(errs, validateSingleProfile(name, &p)...)
	}

	return errs
}

func validateSingleProfile(name string, p *Profile) []error {
	var errs []error

	if p.ResumableThreshold != "" {
		if _, err := ParseSize(p.ResumableThreshold); err != nil {
			errs = append(errs, fmt.Errorf("profile.%s.resumable_threshold: %w", name, err))
		}
	}

	if p.Logging != nil {
		errs = append(errs, validateLogging(p.Logging)...)
	}

	if p.Network != nil {
		errs = append(errs, validateNetwork(p.Network)...)
	}

	return errs
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	if !validLogLevels[l.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level: must be one of debug, info, warn, error; got %q", l.LogLevel))
	}

	if !validLogFormats[l.LogFormat] {
		errs = append(errs, fmt.Errorf("log_format: must be one of auto, text, json; got %q", l.LogFormat))
	}

	return errs
}

var validLogFormats = map[string]bool{
	"auto": true,
	"text": true,
	"json": true,
}

func validateNetwork(n *NetworkConfig) []error {
	var errs []error

	errs = append(errs, validateDurationMin("connect_timeout", n.ConnectTimeout, minConnectTimeout)...)
	errs = append(errs, validateDurationMin("data_timeout", n.DataTimeout, minDataTimeout)...)

	return errs
}

func validateDurationMin(field, value string, minimum time.Duration) []error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return []error{fmt.Errorf("%s: invalid duration %q: %w", field, value, err)}
	}

	if d < minimum {
		return []error{fmt.Errorf("%s: must be >= %s, got %s", field, minimum, d)}
	}

	return nil
}
