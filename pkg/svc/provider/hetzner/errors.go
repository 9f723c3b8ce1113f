package hetzner

import (
	"errors"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// Sentinel errors for Hetzner-specific failure modes.
var (
	// ErrInvalidServerID is returned for instance IDs that are not Hetzner server IDs,
	// e.g. an EC2 ID left in the registry after switching providers.
	ErrInvalidServerID = errors.New("not a Hetzner server ID")
	// ErrSSHKeyNotFound is returned when the configured SSH key name does not exist in the project.
	ErrSSHKeyNotFound = errors.New("hetzner SSH key not found")
)

// retryableErrorCodes are Hetzner API error codes that warrant a retry.
//
//nolint:gochecknoglobals // Package-level constant for error code classification
var retryableErrorCodes = []hcloud.ErrorCode{
	hcloud.ErrorCodeResourceUnavailable,
	hcloud.ErrorCodeConflict,
	hcloud.ErrorCodeTimeout,
	hcloud.ErrorCodeRateLimitExceeded,
	hcloud.ErrorCodeLocked,
}

// IsRetryableHetznerError returns true if the error is a transient Hetzner API error
// that may succeed on retry.
func IsRetryableHetznerError(err error) bool {
	if err == nil {
		return false
	}

	return hcloud.IsError(err, retryableErrorCodes...)
}
