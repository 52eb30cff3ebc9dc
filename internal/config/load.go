// internal/config/load.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvAPIKey overrides any token set in the config file. Keeping the
// credential out of the file entirely is the expected deployment.
const EnvAPIKey = "TECHDISC_API_KEY"

// Load reads and decodes the yaml config file and applies env overrides.
// Validation and normalization are separate, explicit steps.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.Bridge.API.Token = key
	}

	return &cfg, nil
}
