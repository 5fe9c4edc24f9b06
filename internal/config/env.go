package config

import "os"

// Environment variable names for overrides.
const (
	EnvConfig    = "KODO_CONFIG"
	EnvProfile   = "KODO_PROFILE"
	EnvAccessKey = "KODO_ACCESS_KEY"
	EnvSecretKey = "KODO_SECRET_KEY"
	EnvBucket    = "KODO_BUCKET"
)

// EnvOverrides holds values derived from environment variables. These are
// resolved by ReadEnvOverrides and made available to callers; credentials
// read this way are held only in memory for the process lifetime, never
// written back to the config file.
type EnvOverrides struct {
	ConfigPath string // KODO_CONFIG: override config file path
	Profile    string // KODO_PROFILE: active profile name
	AccessKey  string // KODO_ACCESS_KEY: access key override
	SecretKey  string // KODO_SECRET_KEY: secret key override
	Bucket     string // KODO_BUCKET: default bucket override
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. This does not modify the Config; callers apply the relevant fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath: os.Getenv(EnvConfig),
		Profile:    os.Getenv(EnvProfile),
		AccessKey:  os.Getenv(EnvAccessKey),
		SecretKey:  os.Getenv(EnvSecretKey),
		Bucket:     os.Getenv(EnvBucket),
	}
}
