// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultPollIntervalMs = 1000
	DefaultTimeoutSec     = 60
	DefaultListen         = ":8731"
	DefaultLogMaxSizeMB   = 10
	DefaultLogMaxBackups  = 3
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	b := &cfg.Bridge

	if b.Poll.IntervalMs == 0 {
		b.Poll.IntervalMs = DefaultPollIntervalMs
	}
	if b.API.TimeoutSec == 0 {
		b.API.TimeoutSec = DefaultTimeoutSec
	}
	if b.Server.Listen == "" {
		b.Server.Listen = DefaultListen
	}
	if b.Log.File != "" {
		if b.Log.MaxSizeMB == 0 {
			b.Log.MaxSizeMB = DefaultLogMaxSizeMB
		}
		if b.Log.MaxBackups == 0 {
			b.Log.MaxBackups = DefaultLogMaxBackups
		}
	}

	// Endpoint default lives with the client package; an empty endpoint here
	// means "production API".
}
