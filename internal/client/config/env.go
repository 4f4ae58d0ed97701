package config

import "github.com/caarlos0/env/v10"

// parseEnv overlays cfg with ESCROWDECK_* environment variables. Unset
// variables leave the current value in place.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
