// internal/config/config.go
package config

type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
}

type BridgeConfig struct {
	API    APIConfig    `yaml:"api"`
	Poll   PollConfig   `yaml:"poll"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// ---- UPSTREAM API ----

type APIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"` // may come from TECHDISC_API_KEY instead
	// TimeoutSec bounds one fetch. The server long-polls, so this is
	// deliberately generous.
	TimeoutSec int `yaml:"timeout_sec"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- LOCAL HTTP SERVER ----

type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// ---- LOGGING ----

type LogConfig struct {
	File       string `yaml:"file"` // empty means stderr, no rotation
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}
