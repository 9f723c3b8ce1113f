package provider

import "context"

// State is the lifecycle state of an instance, normalised across backends.
type State string

// Instance states.
const (
	StatePending      State = "pending"
	StateRunning      State = "running"
	StateStopping     State = "stopping"
	StateStopped      State = "stopped"
	StateShuttingDown State = "shutting-down"
	StateTerminated   State = "terminated"
	StateUnknown      State = "unknown"
)

// Gone reports whether the instance is terminated or on its way there.
func (s State) Gone() bool {
	return s == StateTerminated || s == StateShuttingDown
}

// Terminal reports whether an instance in this state will never become
// running without operator action.
func (s State) Terminal() bool {
	return s.Gone() || s == StateStopped || s == StateStopping
}

// Instance is a compute instance as reported by a provider.
type Instance struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	State State  `json:"state"`
	// Address is the public DNS name, or the public IP when there is no DNS name.
	Address string `json:"address,omitempty"`
}

// CreateOpts are the parameters for a new instance. Empty fields fall back to
// the backend's configured defaults.
type CreateOpts struct {
	// Name is the logical node name; backends that can name an instance at
	// creation time use it, the others rely on Tag.
	Name         string
	ImageID      string
	KeyName      string
	InstanceType string
}

// Provider is a cloud compute backend.
type Provider interface {
	// CreateInstance requests a new instance and returns it as soon as the
	// provider has assigned an ID. The instance is usually not running yet.
	CreateInstance(ctx context.Context, opts CreateOpts) (*Instance, error)

	// AwaitRunning blocks until the instance is running and has a public
	// address. It returns ErrProvisioningTimeout when the wait policy's
	// bound is exceeded and the context error when ctx is cancelled.
	AwaitRunning(ctx context.Context, id string) (*Instance, error)

	// Tag attaches the logical node name to the instance.
	Tag(ctx context.Context, id, name string) error

	// Describe returns the current state of the instance, or
	// ErrInstanceNotFound if the provider no longer knows it.
	Describe(ctx context.Context, id string) (*Instance, error)

	// Terminate requests termination without waiting for it to complete.
	// An instance that is already gone counts as terminated.
	Terminate(ctx context.Context, id string) error

	// ListInstances returns every instance visible to the credentials in use.
	ListInstances(ctx context.Context) ([]Instance, error)

	// TerminateAll terminates every instance visible to the credentials in
	// use that is not already gone, and returns their IDs.
	TerminateAll(ctx context.Context) ([]string, error)
}
