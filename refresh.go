package fleetconsole

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RefreshSummary is the derived outcome of one refresh batch.
type RefreshSummary struct {
	Refreshed int
	Failed    int
}

func (r RefreshSummary) String() string {
	msg := fmt.Sprintf("Refreshed %d devices", r.Refreshed)
	if r.Failed > 0 {
		msg += fmt.Sprintf(" (%d failed)", r.Failed)
	}
	return msg
}

// RefreshDevices re-probes device info in one server-aggregated request:
// the client sends the target ip list (empty for the whole fleet) and the
// registry fans out on its side. The refresh tracker is rebuilt from the
// two result lists, and the registry is refetched whether or not any
// per-device probe failed. Partial failure is a normal outcome here, not an
// abort.
func (s *Session) RefreshDevices(ctx context.Context, selectedOnly bool) (*RefreshSummary, error) {
	var ips []string
	if selectedOnly {
		ips = s.SelectedIPs()
	}
	return s.refresh(ctx, ips)
}

// RefreshNamed re-probes an explicit ip list. Every ip must name a
// registered device and the batch fails before any network activity when
// one does not: an empty wire list means "refresh the whole fleet", so a
// typo that silently resolved to nothing would widen the batch to every
// device. Duplicates collapse to one probe.
func (s *Session) RefreshNamed(ctx context.Context, ips []string) (*RefreshSummary, error) {
	targets := make([]string, 0, len(ips))
	seen := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		if _, ok := s.Device(ip); !ok {
			return nil, errors.Errorf("device %s is not registered", ip)
		}
		if _, dup := seen[ip]; dup {
			continue
		}
		seen[ip] = struct{}{}
		targets = append(targets, ip)
	}
	if len(targets) == 0 {
		return nil, errors.New("no devices to refresh")
	}
	return s.refresh(ctx, targets)
}

func (s *Session) refresh(ctx context.Context, ips []string) (*RefreshSummary, error) {
	if err := s.beginBatch(); err != nil {
		return nil, err
	}
	defer s.endBatch()

	s.resetRefreshes()
	log.Info().Int("ips", len(ips)).Msg("device info refresh started")

	report, err := s.client.RefreshInfo(ctx, ips)
	if err != nil {
		s.setStatusLine("Error refreshing devices: " + err.Error())
		return nil, err
	}

	for _, ip := range report.Updated {
		s.setRefreshStatus(ip, StatusRefreshed)
	}
	for _, failure := range report.Errors {
		s.setRefreshStatus(failure.IP, "Error: "+failure.Error)
	}

	summary := &RefreshSummary{Refreshed: len(report.Updated), Failed: len(report.Errors)}
	s.setStatusLine(summary.String())
	if err := s.FetchDevices(ctx); err != nil {
		log.Warn().Err(err).Msg("device list refetch after refresh failed")
	}
	return summary, nil
}
