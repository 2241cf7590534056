package fleetconsole

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Import pipeline, commit side. Stage 1 (parsing a spreadsheet into
// normalized candidates) lives in internal/sheet; the view layer feeds the
// result into SetImportPreview, mirroring where the file actually gets
// opened. The candidate list is held verbatim, blank fields included, and
// is not validated against the registry: duplicate ips surface as per-row
// failures from the bulk create, not as a pre-check.

// SetImportPreview replaces the candidate list and clears any previous
// results and parse error.
func (s *Session) SetImportPreview(devices []Device) {
	s.mu.Lock()
	s.importPreview = devices
	s.importResults = nil
	s.importError = ""
	s.mu.Unlock()
	s.notify()
}

// SetImportError records a pipeline-level parse failure. The candidate list
// is emptied: a partial parse is never surfaced.
func (s *Session) SetImportError(msg string) {
	s.mu.Lock()
	s.importError = msg
	s.importPreview = nil
	s.importResults = nil
	s.mu.Unlock()
	s.notify()
}

// ImportPreview returns the held candidate list.
func (s *Session) ImportPreview() []Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Device, len(s.importPreview))
	copy(out, s.importPreview)
	return out
}

// ImportResults returns the per-row results of the last commit, nil before
// any commit.
func (s *Session) ImportResults() []ImportResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.importResults == nil {
		return nil
	}
	out := make([]ImportResult, len(s.importResults))
	copy(out, s.importResults)
	return out
}

// ImportError returns the pipeline-level error message, "" when none.
func (s *Session) ImportError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importError
}

// ClearImport discards candidates, results and error; the cancel/close
// action of the import dialog.
func (s *Session) ClearImport() {
	s.mu.Lock()
	s.importPreview = nil
	s.importResults = nil
	s.importError = ""
	s.mu.Unlock()
	s.notify()
}

// CommitImport submits the whole candidate list as one bulk-create request.
// The response carries one result per row in request order; results replace
// the preview in the view. The registry is refetched afterward so created
// devices appear in the fleet.
func (s *Session) CommitImport(ctx context.Context) ([]ImportResult, error) {
	candidates := s.ImportPreview()
	if len(candidates) == 0 {
		return nil, ErrNothingToImport
	}
	if err := s.beginBatch(); err != nil {
		return nil, err
	}
	defer s.endBatch()

	log.Info().Int("devices", len(candidates)).Msg("bulk import commit started")
	results, err := s.client.BulkCreate(ctx, candidates)
	if err != nil {
		s.mu.Lock()
		s.importError = "Import failed: " + err.Error()
		s.mu.Unlock()
		s.notify()
		return nil, err
	}

	s.mu.Lock()
	s.importResults = results
	s.importError = ""
	s.mu.Unlock()
	s.notify()

	if err := s.FetchDevices(ctx); err != nil {
		log.Warn().Err(err).Msg("device list refetch after import failed")
	}
	return results, nil
}
