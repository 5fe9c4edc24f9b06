package config

import (
	"fmt"
	"path/filepath"
)

// Default profile name when --profile is omitted.
const defaultProfileName = "default"

// Profile represents a single Qiniu account configuration within a TOML
// config file: the credential pair a Client signs requests and upload
// tokens with, the bucket operations default to, and where resumable
// upload progress and the region-table cache live. Per-profile section
// overrides (e.g. [profile.work.network]) completely replace the
// corresponding global section — individual fields are not merged,
// mirroring the teacher's section-replace-not-merge semantics.
type Profile struct {
	AccessKey         string `toml:"access_key"`
	SecretKey         string `toml:"secret_key"`
	Bucket            string `toml:"bucket"`
	CacheDir          string `toml:"cache_dir"`
	ResumableThreshold string `toml:"resumable_threshold"`

	Logging *LoggingConfig `toml:"logging,omitempty"`
	Network *NetworkConfig `toml:"network,omitempty"`
}

// ResolvedProfile contains profile fields plus effective config sections
// after merging global defaults with per-profile overrides. This is the
// final product consumed by cmd/kodo to construct a kodo.Client.
type ResolvedProfile struct {
	Name               string
	AccessKey          string
	SecretKey          string
	Bucket             string
	CacheDir           string
	ResumableThreshold int64

	Logging LoggingConfig
	Network NetworkConfig
}

// CLIOverrides holds values set by command-line flags, the highest-priority
// layer in the defaults -> file -> env -> CLI override chain.
type CLIOverrides struct {
	ConfigPath string
	Profile    string
	AccessKey  string
	SecretKey  string
	Bucket     string
}

// ResolveProfile merges global defaults with profile-specific overrides,
// then applies env and CLI overrides in that order (CLI wins). If
// profileName is empty, the default profile is selected.
func ResolveProfile(cfg *Config, env EnvOverrides, cli CLIOverrides) (*ResolvedProfile, error) {
	name, err := resolveProfileName(cfg, firstNonEmpty(cli.Profile, env.Profile))
	if err != nil {
		return nil, err
	}

	profile := cfg.Profiles[name]

	resolved := &ResolvedProfile{
		Name:      name,
		AccessKey: profile.AccessKey,
		SecretKey: profile.SecretKey,
		Bucket:    profile.Bucket,
		CacheDir:  profile.CacheDir,
		Logging:   resolveSection(profile.Logging, cfg.Logging),
		Network:   resolveSection(profile.Network, cfg.Network),
	}

	threshold, err := ParseSize(firstNonEmpty(profile.ResumableThreshold, defaultResumableThreshold))
	if err != nil {
		return nil, fmt.Errorf("profile.%s.resumable_threshold: %w", name, err)
	}
	resolved.ResumableThreshold = threshold

	if resolved.CacheDir == "" {
		resolved.CacheDir = filepath.Join(DefaultCacheDir(), name)
	}

	resolved.AccessKey = firstNonEmpty(cli.AccessKey, env.AccessKey, resolved.AccessKey)
	resolved.SecretKey = firstNonEmpty(cli.SecretKey, env.SecretKey, resolved.SecretKey)
	resolved.Bucket = firstNonEmpty(cli.Bucket, env.Bucket, resolved.Bucket)

	return resolved, nil
}

// resolveSection returns the profile override if present, otherwise the
// global value.
func resolveSection[T any](profileOverride *T, global T) T {
	if profileOverride != nil {
		return *profileOverride
	}

	return global
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

// resolveProfileName determines which profile to use.
func resolveProfileName(cfg *Config, profileName string) (string, error) {
	if len(cfg.Profiles) == 0 {
		// Zero-config mode: the caller will rely entirely on env/CLI
		// credentials, so an unnamed "default" profile resolves to an
		// empty one rather than erroring.
		return defaultProfileName, nil
	}

	if profileName != "" {
		return lookupExplicitProfile(cfg, profileName)
	}

	return lookupDefaultProfile(cfg)
}

func lookupExplicitProfile(cfg *Config, name string) (string, error) {
	if _, ok := cfg.Profiles[name]; !ok {
		return "", fmt.Errorf("profile %q not found in config", name)
	}

	return name, nil
}

func lookupDefaultProfile(cfg *Config) (string, error) {
	if _, ok := cfg.Profiles[defaultProfileName]; ok {
		return defaultProfileName, nil
	}

	if len(cfg.Profiles) == 1 {
		for name := range cfg.Profiles {
			return name, nil
		}
	}

	return "", fmt.Errorf(
		"multiple profiles defined but none named %q; use --profile to select one",
		defaultProfileName)
}
