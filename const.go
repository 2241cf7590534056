package fleetconsole

// Status strings written into the per-batch trackers. The view layer renders
// them verbatim, so they are part of the observable contract.
const (
	// StatusUpdating marks a device whose update request is in flight.
	StatusUpdating = "Updating..."
	// StatusPackageNotFound marks the device whose update halted the batch
	// because the registry has no firmware artifact for its architecture.
	StatusPackageNotFound = "Package not found"
	// StatusRefreshed marks a device whose info refresh succeeded.
	StatusRefreshed = "Updated successfully"
)

// ImportStatusSuccess is the per-row status the registry reports for a
// successfully created device during a bulk import. Any other value is a
// failure and its error text is displayed.
const ImportStatusSuccess = "success"

// Environment variable names shared by the CLI and the TUI. Flags override
// these; a .env file discovered by internal/env may supply them.
const (
	// EnvRegistryURL points at the device registry service.
	EnvRegistryURL = "FLEET_REGISTRY_URL"
	// EnvHTTPTimeout bounds a single registry request. Empty means no
	// timeout: firmware pushes can take minutes and the registry offers no
	// async handle to poll instead.
	EnvHTTPTimeout = "FLEET_HTTP_TIMEOUT"
	// EnvLogLevel sets the zerolog level for the CLI.
	EnvLogLevel = "FLEET_LOG_LEVEL"
)

// DefaultRegistryURL matches the registry service's development listener.
const DefaultRegistryURL = "http://localhost:5000"
