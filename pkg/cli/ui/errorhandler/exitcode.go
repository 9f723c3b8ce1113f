package errorhandler

import (
	"errors"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/svc/provider"
	"github.com/geostack-dev/geostack/pkg/svc/registry"
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitProvider      = 3
	ExitTimeout       = 4
	ExitCorruptStore  = 5
)

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, v1alpha1.ErrInvalidConfiguration):
		return ExitConfiguration
	case errors.Is(err, provider.ErrProvisioningTimeout):
		return ExitTimeout
	case errors.Is(err, provider.ErrProviderFailure), errors.Is(err, provider.ErrProviderUnavailable):
		return ExitProvider
	case errors.Is(err, registry.ErrStoreCorrupt):
		return ExitCorruptStore
	default:
		return ExitFailure
	}
}
