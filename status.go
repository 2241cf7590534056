package fleetconsole

// statusTracker is the ephemeral per-ip status map behind one orchestrator
// kind. It is reset at the start of each batch of that kind, so a missing
// entry means "not attempted in the current batch", distinct from an
// attempted-and-failed entry. The session's mutex guards all access.
type statusTracker struct {
	entries map[string]string
}

func newStatusTracker() *statusTracker {
	return &statusTracker{entries: make(map[string]string)}
}

func (t *statusTracker) Reset() {
	t.entries = make(map[string]string)
}

func (t *statusTracker) Set(ip, status string) {
	t.entries[ip] = status
}

func (t *statusTracker) Get(ip string) (string, bool) {
	status, ok := t.entries[ip]
	return status, ok
}

func (t *statusTracker) Snapshot() map[string]string {
	out := make(map[string]string, len(t.entries))
	for ip, status := range t.entries {
		out[ip] = status
	}
	return out
}
