package v1alpha1

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is the root of every configuration error. Commands
// map it to the configuration exit code.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrInvalidProvider is returned when an unknown provider is specified.
var ErrInvalidProvider = fmt.Errorf("%w: invalid provider", ErrInvalidConfiguration)

// ErrInvalidEnvironmentKind is returned when an environment kind is neither local nor remote.
var ErrInvalidEnvironmentKind = fmt.Errorf("%w: invalid environment kind", ErrInvalidConfiguration)

// ErrMissingSetting is returned when a setting required by the selected provider
// or by a remote environment is empty.
var ErrMissingSetting = fmt.Errorf("%w: missing setting", ErrInvalidConfiguration)

// ErrInvalidDuration is returned for negative or zero wait durations.
var ErrInvalidDuration = fmt.Errorf("%w: invalid duration", ErrInvalidConfiguration)
