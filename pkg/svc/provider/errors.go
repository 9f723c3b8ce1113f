package provider

import (
	"errors"
	"fmt"
)

// Common errors for provider operations.
var (
	// ErrProviderFailure matches every failed provider API call.
	ErrProviderFailure = errors.New("provider request failed")

	// ErrProvisioningTimeout is returned when an instance does not reach the
	// running state within the wait policy's timeout.
	ErrProvisioningTimeout = errors.New("timed out waiting for instance to run")

	// ErrInstanceNotFound is returned when the provider does not know an instance ID.
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrInstanceTerminated is returned when an instance being waited for
	// stops or terminates instead of becoming ready.
	ErrInstanceTerminated = fmt.Errorf("%w: instance stopped before it became ready", ErrProviderFailure)

	// ErrProviderUnavailable is returned when a backend has no API client.
	ErrProviderUnavailable = errors.New("provider is not available")

	// ErrTransient marks a failed status poll that should be retried rather
	// than abort the wait, e.g. a rate limit.
	ErrTransient = errors.New("transient provider error")

	// ErrNoInstance is returned when a create call succeeds without returning an instance.
	ErrNoInstance = fmt.Errorf("%w: no instance returned", ErrProviderFailure)
)

// OperationError is a failed provider API call.
type OperationError struct {
	// Op is the API operation, e.g. "RunInstances".
	Op         string
	InstanceID string
	Err        error
}

// Error implements error.
func (e *OperationError) Error() string {
	if e.InstanceID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s %s: %v", e.Op, e.InstanceID, e.Err)
}

// Unwrap returns the underlying API error.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is makes every OperationError match ErrProviderFailure.
func (e *OperationError) Is(target error) bool {
	return target == ErrProviderFailure //nolint:errorlint,err113 // identity check is the point
}

// Wrap returns an *OperationError for err, or nil when err is nil.
func Wrap(op, instanceID string, err error) error {
	if err == nil {
		return nil
	}

	return &OperationError{Op: op, InstanceID: instanceID, Err: err}
}

// Transient marks err as retryable by WaitForRunning.
func Transient(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrTransient, err)
}
