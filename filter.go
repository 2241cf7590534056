package fleetconsole

import "strings"

// Filter derives the visible subset of the fleet. It is a pure value: no
// method here mutates session state.
//
// Precedence is intentional and user-observable: a non-empty search term is
// the sole inclusion criterion and bypasses the architecture/version
// matches entirely. Most UIs would AND all active criteria; this one never
// did, and the behavior is kept as-is.
type Filter struct {
	Architecture string
	Version      string
	Search       string
}

// Visible returns the devices passing the filter, preserving input order.
func (f Filter) Visible(devices []Device) []Device {
	out := make([]Device, 0, len(devices))
	for _, d := range devices {
		if f.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

// Matches reports whether one device passes the filter.
func (f Filter) Matches(d Device) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(d.IP), q) ||
			strings.Contains(strings.ToLower(d.Username), q) ||
			strings.Contains(strings.ToLower(d.Architecture), q) ||
			strings.Contains(strings.ToLower(d.CurrentVersion), q)
	}
	if f.Architecture != "" && d.Architecture != f.Architecture {
		return false
	}
	if f.Version != "" && d.CurrentVersion != f.Version {
		return false
	}
	return true
}

// Architectures lists the distinct non-empty architectures in first-seen
// order, for the architecture dropdown.
func Architectures(devices []Device) []string {
	return distinct(devices, func(d Device) string { return d.Architecture })
}

// Versions lists the distinct non-empty current versions in first-seen
// order, for the version dropdown.
func Versions(devices []Device) []string {
	return distinct(devices, func(d Device) string { return d.CurrentVersion })
}

func distinct(devices []Device, field func(Device) string) []string {
	seen := make(map[string]struct{}, len(devices))
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		val := field(d)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}
