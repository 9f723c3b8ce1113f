package target

import (
	"errors"
	"fmt"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
)

// ErrUnknownEnvironment is returned when a selector names no configured environment.
var ErrUnknownEnvironment = fmt.Errorf("%w: unknown environment", v1alpha1.ErrInvalidConfiguration)

// ErrLocalQuery is returned when the local virtualization tool cannot be queried.
var ErrLocalQuery = errors.New("local query failed")

// ErrIncompleteSSHConfig is returned when ssh-config output lacks a required field.
var ErrIncompleteSSHConfig = errors.New("incomplete ssh-config")
