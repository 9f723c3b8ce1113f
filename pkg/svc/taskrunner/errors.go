package taskrunner

import (
	"errors"
	"fmt"
)

// ErrInvalidRecipe is returned for recipes that cannot be run.
var ErrInvalidRecipe = errors.New("invalid recipe")

// ErrUnknownVariable is returned when a step references a variable that is not defined.
var ErrUnknownVariable = fmt.Errorf("%w: unknown variable", ErrInvalidRecipe)

// ErrStepFailed is returned when a step exits with an error.
var ErrStepFailed = errors.New("step failed")

// ErrNoSSHAuth is returned when neither a key file nor an ssh-agent is available.
var ErrNoSSHAuth = errors.New("no ssh key or agent available")

// ErrHostKeyMismatch is returned when a host presents a key other than the
// one recorded in the known hosts file.
var ErrHostKeyMismatch = errors.New("host key mismatch")
