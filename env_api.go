package fleetconsole

import (
	"time"

	"github.com/routerfleet/FleetConsole/internal/env"
)

// EnvString reads an environment variable with a fallback default. It is a
// thin wrapper over internal/env so downstream code can avoid importing
// internal packages directly.
func EnvString(key, defaultValue string) string {
	return env.String(key, defaultValue)
}

// EnvDuration parses an environment variable as time.Duration.
func EnvDuration(key string, defaultValue time.Duration) time.Duration {
	return env.Duration(key, defaultValue)
}
