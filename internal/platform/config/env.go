package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable read by the engine
// commands, so tags stay short (`env:"DATA_DIR"`).
const EnvPrefix = "WAYPOINT_"

// ParseEnvPrefixed loads configuration from environment variables whose names
// start with prefix. Required fields are reported together.
func ParseEnvPrefixed(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env %s*: %w", prefix, err)
	}
	return nil
}
