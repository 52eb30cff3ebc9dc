// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration; defaults belong to Normalize().
func Validate(cfg *Config) error {
	b := cfg.Bridge

	// ------------------------------------------------------------
	// CREDENTIAL
	// ------------------------------------------------------------

	if b.API.Token == "" {
		return fmt.Errorf(
			"config: api token required (set bridge.api.token or %s)",
			EnvAPIKey,
		)
	}

	// ------------------------------------------------------------
	// UPSTREAM API
	// ------------------------------------------------------------

	if b.API.Endpoint != "" {
		u, err := url.Parse(b.API.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: api endpoint %q is not an absolute URL", b.API.Endpoint)
		}
	}

	if b.API.TimeoutSec < 0 {
		return fmt.Errorf("config: api timeout_sec must not be negative")
	}

	// ------------------------------------------------------------
	// POLL CADENCE
	// ------------------------------------------------------------

	if b.Poll.IntervalMs < 0 {
		return fmt.Errorf("config: poll interval_ms must not be negative")
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	if b.Log.MaxSizeMB < 0 || b.Log.MaxBackups < 0 {
		return fmt.Errorf("config: log rotation limits must not be negative")
	}

	return nil
}
