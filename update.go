package fleetconsole

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// BulkRunState is the lifecycle of one sequential update batch.
type BulkRunState int

const (
	// BulkIdle is the zero value; no batch has run.
	BulkIdle BulkRunState = iota
	// BulkRunning means the batch loop is between devices.
	BulkRunning
	// BulkHalted means a missing firmware package stopped the batch early,
	// leaving a tail of devices unattempted.
	BulkHalted
	// BulkCompleted means every device in the sequence was attempted.
	BulkCompleted
)

func (s BulkRunState) String() string {
	switch s {
	case BulkIdle:
		return "idle"
	case BulkRunning:
		return "running"
	case BulkHalted:
		return "halted"
	case BulkCompleted:
		return "completed"
	default:
		return fmt.Sprintf("BulkRunState(%d)", int(s))
	}
}

// BulkUpdateRun records one batch: its input sequence, the batch-wide
// target version, and where the loop stopped. After a halt, Index is the
// position of the device that triggered it and Devices[Index+1:] were
// never attempted; they carry no status entry at all, which is how "not
// yet attempted" stays distinguishable from "attempted and failed".
type BulkUpdateRun struct {
	State   BulkRunState
	Index   int
	Devices []Device
	Version string

	// Recovery is set when State is BulkHalted: the architecture of the
	// halting device paired with the batch-wide version.
	Recovery *RecoveryContext
}

// Attempted returns the devices the batch actually issued requests for.
func (r *BulkUpdateRun) Attempted() []Device {
	if r.State == BulkHalted || r.State == BulkCompleted {
		n := r.Index + 1
		if n > len(r.Devices) {
			n = len(r.Devices)
		}
		return r.Devices[:n]
	}
	return nil
}

// RunBulkUpdate drives a sequential firmware update over the given device
// sequence, overriding each desired version with the batch-wide value.
//
// The loop is deliberately sequential: each request must finish before the
// next is issued, so a missing package is detected before wasting requests
// on devices sharing the same artifact, and no appliance ever receives
// concurrent flashing commands from this session.
//
// Classification per device: a missing package marks the device
// "Package not found", captures the recovery context and halts the whole
// batch; any other failure marks the device with the server's error text
// and continues; success stores the server-reported status. The registry is
// refetched after the loop whether it completed or halted.
func (s *Session) RunBulkUpdate(ctx context.Context, devices []Device, version string) (*BulkUpdateRun, error) {
	if version == "" {
		s.setStatusLine("Please enter a desired version")
		return nil, ErrDesiredVersionRequired
	}
	if err := s.beginBatch(); err != nil {
		return nil, err
	}
	defer s.endBatch()

	s.resetUpdates()
	run := &BulkUpdateRun{State: BulkRunning, Devices: devices, Version: version}
	log.Info().Int("devices", len(devices)).Str("version", version).Msg("bulk update started")

	for i, device := range devices {
		run.Index = i
		s.setUpdateStatus(device.IP, StatusUpdating)

		status, err := s.client.UpdateFirmware(ctx, device.WithDesiredVersion(version))
		if _, ok := AsPackageNotFound(err); ok {
			s.setUpdateStatus(device.IP, StatusPackageNotFound)
			s.openRecovery(device.Architecture, version)
			run.State = BulkHalted
			run.Recovery = &RecoveryContext{Architecture: device.Architecture, Version: version}
			log.Warn().Str("ip", device.IP).Str("architecture", device.Architecture).
				Str("version", version).Msg("bulk update halted: package not found")
			break
		}
		if err != nil {
			s.setUpdateStatus(device.IP, "Error: "+err.Error())
			log.Error().Err(err).Str("ip", device.IP).Msg("device update failed")
			continue
		}
		s.setUpdateStatus(device.IP, status)
	}

	if run.State != BulkHalted {
		run.State = BulkCompleted
	}
	if err := s.FetchDevices(ctx); err != nil {
		log.Warn().Err(err).Msg("device list refetch after bulk update failed")
	}
	log.Info().Stringer("state", run.State).Int("index", run.Index).Msg("bulk update finished")
	return run, nil
}

// MissingPackages checks, per distinct architecture in the device sequence,
// whether the registry holds a firmware artifact for the target version.
// Returned architectures are in first-seen order. A batch that would halt
// on its first device can be caught here before any appliance is touched;
// the in-batch halt classification stays authoritative, since an artifact
// can vanish between the check and the push.
func (s *Session) MissingPackages(ctx context.Context, devices []Device, version string) ([]string, error) {
	if version == "" {
		return nil, ErrDesiredVersionRequired
	}
	var missing []string
	seen := make(map[string]struct{})
	for _, d := range devices {
		arch := d.Architecture
		if arch == "" {
			continue
		}
		if _, ok := seen[arch]; ok {
			continue
		}
		seen[arch] = struct{}{}
		exists, err := s.client.CheckPackage(ctx, arch, version)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, arch)
		}
	}
	return missing, nil
}

// UpdateSelected runs a bulk update over the current selection in registry
// order.
func (s *Session) UpdateSelected(ctx context.Context, version string) (*BulkUpdateRun, error) {
	return s.RunBulkUpdate(ctx, s.SelectedDevices(), version)
}

// UpdateDevice pushes one device's own desired version, with the same
// classification as one bulk iteration: a missing package opens the
// recovery context instead of failing, any other error lands in the status
// line, and success refetches the registry.
func (s *Session) UpdateDevice(ctx context.Context, device Device) error {
	status, err := s.client.UpdateFirmware(ctx, device)
	if pnf, ok := AsPackageNotFound(err); ok {
		s.openRecovery(pnf.Architecture, pnf.Version)
		s.setStatusLine(fmt.Sprintf(
			"Package not found for architecture %s and version %s. Please upload the package file.",
			pnf.Architecture, pnf.Version))
		return nil
	}
	if err != nil {
		s.setStatusLine("Error updating device: " + err.Error())
		return err
	}
	s.setStatusLine("Device update status: " + status)
	if err := s.FetchDevices(ctx); err != nil {
		log.Warn().Err(err).Msg("device list refetch after update failed")
	}
	return nil
}
