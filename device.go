package fleetconsole

// Device is one managed appliance known to the registry service. The ip is
// the primary key: selection membership, status tracking and registry
// lookups are all keyed by it, and it must stay stable for the lifetime of
// the entry.
type Device struct {
	IP       string `json:"ip"`
	Username string `json:"username"`
	Password string `json:"password"`

	// Ports stay string-typed so imports tolerate leading zeros and blank
	// cells without mangling them.
	APIPort string `json:"api_port"`
	SSHPort string `json:"ssh_port"`

	// Architecture names the firmware artifact family this appliance needs.
	Architecture string `json:"architecture"`

	// CurrentVersion is the last value reported by the registry; refreshed
	// by the refresh batch, never computed locally.
	CurrentVersion string `json:"current_version"`

	// DesiredVersion is a per-operation parameter, not fleet truth. A bulk
	// update overwrites it with the batch-wide target before each request.
	DesiredVersion string `json:"desired_version"`
}

// WithDesiredVersion returns a copy of the device targeting the given
// firmware version. The receiver is left untouched.
func (d Device) WithDesiredVersion(version string) Device {
	d.DesiredVersion = version
	return d
}
