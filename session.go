package fleetconsole

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Session is the explicit state store behind one console session: the cached
// device list, the selection set, the per-batch status trackers, the import
// pipeline state and the recovery context. Every mutation goes through a
// method here; the view layer only reads.
//
// A session tolerates concurrent reads, but at most one batch may run at a
// time. A second orchestrator started while busy is rejected with
// ErrBatchInFlight rather than interleaving.
type Session struct {
	client RegistryClient

	mu        sync.Mutex
	devices   []Device
	selected  map[string]struct{}
	updates   *statusTracker
	refreshes *statusTracker

	importPreview []Device
	importResults []ImportResult
	importError   string

	recovery   *RecoveryContext
	statusLine string
	busy       bool

	onChange func()
}

// RecoveryContext is the architecture/version pair captured when an update
// hit a missing firmware artifact. It parameterizes the package upload and
// is cleared on successful upload or explicit cancel.
type RecoveryContext struct {
	Architecture string
	Version      string
}

// NewSession builds an empty session over the given registry client.
func NewSession(client RegistryClient) *Session {
	return &Session{
		client:    client,
		selected:  make(map[string]struct{}),
		updates:   newStatusTracker(),
		refreshes: newStatusTracker(),
	}
}

// SetOnChange registers a callback fired after every observable mutation.
// The bundled console uses it to repaint mid-batch; it may be called from
// the batch goroutine.
func (s *Session) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Client exposes the underlying registry client for callers that need raw
// wire access (the CLI's ping command).
func (s *Session) Client() RegistryClient {
	return s.client
}

// FetchDevices replaces the cached device list with the registry's current
// view. Selection membership is deliberately not pruned: an ip that vanished
// from the registry stays selected (and invisible) until explicitly cleared.
func (s *Session) FetchDevices(ctx context.Context) error {
	devices, err := s.client.ListDevices(ctx)
	if err != nil {
		s.setStatusLine("Error fetching devices: " + err.Error())
		return err
	}
	s.mu.Lock()
	s.devices = devices
	s.mu.Unlock()
	s.notify()
	return nil
}

// Devices returns a copy of the cached device list in registry order.
func (s *Session) Devices() []Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Device, len(s.devices))
	copy(out, s.devices)
	return out
}

// Device looks up one cached device by ip.
func (s *Session) Device(ip string) (Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.devices {
		if d.IP == ip {
			return d, true
		}
	}
	return Device{}, false
}

// StatusLine returns the session-wide human-readable status message.
func (s *Session) StatusLine() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLine
}

func (s *Session) setStatusLine(msg string) {
	s.mu.Lock()
	s.statusLine = msg
	s.mu.Unlock()
	s.notify()
}

// DisplayStatus is what the device table shows for one row: the update
// tracker wins over the refresh tracker, matching how the two batches'
// results overlay.
func (s *Session) DisplayStatus(ip string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.updates.Get(ip); ok {
		return status
	}
	if status, ok := s.refreshes.Get(ip); ok {
		return status
	}
	return ""
}

// UpdateStatuses snapshots the bulk/single update tracker.
func (s *Session) UpdateStatuses() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates.Snapshot()
}

// RefreshStatuses snapshots the refresh tracker.
func (s *Session) RefreshStatuses() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshes.Snapshot()
}

// Recovery returns a copy of the open recovery context, if any.
func (s *Session) Recovery() *RecoveryContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recovery == nil {
		return nil
	}
	rc := *s.recovery
	return &rc
}

func (s *Session) openRecovery(architecture, version string) {
	s.mu.Lock()
	s.recovery = &RecoveryContext{Architecture: architecture, Version: version}
	s.mu.Unlock()
	s.notify()
}

// ClearRecovery discards the recovery context, e.g. when the user cancels
// the upload dialog.
func (s *Session) ClearRecovery() {
	s.mu.Lock()
	s.recovery = nil
	s.mu.Unlock()
	s.notify()
}

// Busy reports whether a batch currently owns the session.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) beginBatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBatchInFlight
	}
	s.busy = true
	return nil
}

func (s *Session) endBatch() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
	s.notify()
}

// AddDevice registers a new device and refetches the fleet on success.
func (s *Session) AddDevice(ctx context.Context, device Device) error {
	if err := s.client.CreateDevice(ctx, device); err != nil {
		s.setStatusLine("Error adding device: " + err.Error())
		return err
	}
	s.setStatusLine("Device added successfully")
	if err := s.FetchDevices(ctx); err != nil {
		log.Warn().Err(err).Msg("device list refetch after add failed")
	}
	return nil
}

// RemoveDevice deletes a device by ip and refetches the fleet on success.
func (s *Session) RemoveDevice(ctx context.Context, ip string) error {
	if err := s.client.DeleteDevice(ctx, ip); err != nil {
		s.setStatusLine("Error deleting device: " + err.Error())
		return err
	}
	s.setStatusLine("Device deleted successfully")
	if err := s.FetchDevices(ctx); err != nil {
		log.Warn().Err(err).Msg("device list refetch after delete failed")
	}
	return nil
}

// SaveDevice writes edited credentials/ports back to the registry and
// refetches the fleet on success.
func (s *Session) SaveDevice(ctx context.Context, device Device) error {
	if err := s.client.EditDevice(ctx, device); err != nil {
		s.setStatusLine("Error updating device: " + err.Error())
		return err
	}
	if err := s.FetchDevices(ctx); err != nil {
		log.Warn().Err(err).Msg("device list refetch after edit failed")
	}
	return nil
}

func (s *Session) resetUpdates() {
	s.mu.Lock()
	s.updates.Reset()
	s.mu.Unlock()
	s.notify()
}

func (s *Session) setUpdateStatus(ip, status string) {
	s.mu.Lock()
	s.updates.Set(ip, status)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) resetRefreshes() {
	s.mu.Lock()
	s.refreshes.Reset()
	s.mu.Unlock()
	s.notify()
}

func (s *Session) setRefreshStatus(ip, status string) {
	s.mu.Lock()
	s.refreshes.Set(ip, status)
	s.mu.Unlock()
	s.notify()
}
