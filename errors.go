package fleetconsole

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDesiredVersionRequired rejects a bulk update before any network
	// activity when no target version was supplied.
	ErrDesiredVersionRequired = errors.New("desired version is required")

	// ErrBatchInFlight rejects starting a batch while another one owns the
	// session. Callers are expected to disable their triggers while busy;
	// this guard makes the misuse loud instead of undefined.
	ErrBatchInFlight = errors.New("another batch is already running")

	// ErrNoRecoveryContext means a package upload was requested without a
	// captured architecture/version pair to parameterize it.
	ErrNoRecoveryContext = errors.New("no recovery context is open")

	// ErrNothingToImport means a commit was requested with an empty
	// candidate list.
	ErrNothingToImport = errors.New("no imported devices to commit")
)

// PackageNotFoundError reports that the registry holds no firmware artifact
// for an architecture/version pair. It is the only failure classification
// that halts a running bulk update and opens the recovery workflow; every
// other error is terminal for its own device only.
type PackageNotFoundError struct {
	Architecture string
	Version      string
}

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("package not found for architecture %s and version %s", e.Architecture, e.Version)
}

// AsPackageNotFound unwraps err as a *PackageNotFoundError when it carries
// one.
func AsPackageNotFound(err error) (*PackageNotFoundError, bool) {
	var pnf *PackageNotFoundError
	if errors.As(err, &pnf) {
		return pnf, true
	}
	return nil, false
}
