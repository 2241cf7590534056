package main

import (
	"net/http"
	"strings"

	fleetconsole "github.com/routerfleet/FleetConsole"
	"github.com/routerfleet/FleetConsole/internal/env"
)

func firstNonEmpty(values ...string) string {
	for _, val := range values {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// newSession builds a session against the configured registry. The default
// client has no timeout; $FLEET_HTTP_TIMEOUT opts into one for deployments
// that front the registry with a proxy.
func newSession() (*fleetconsole.Session, error) {
	baseURL := firstNonEmpty(rootRegistryURL,
		env.String(fleetconsole.EnvRegistryURL, fleetconsole.DefaultRegistryURL))
	var httpClient *http.Client
	if timeout := fleetconsole.EnvDuration(fleetconsole.EnvHTTPTimeout, 0); timeout > 0 {
		httpClient = &http.Client{Timeout: timeout}
	}
	client, err := fleetconsole.NewRegistryClient(baseURL, httpClient)
	if err != nil {
		return nil, err
	}
	return fleetconsole.NewSession(client), nil
}
