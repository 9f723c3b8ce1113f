package provider

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of the Provider interface for testing.
type MockProvider struct {
	mock.Mock
}

// NewMockProvider creates a new MockProvider instance.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// CreateInstance mocks creating an instance.
func (m *MockProvider) CreateInstance(ctx context.Context, opts CreateOpts) (*Instance, error) {
	args := m.Called(ctx, opts)

	return instanceArg(args)
}

// AwaitRunning mocks waiting for an instance.
func (m *MockProvider) AwaitRunning(ctx context.Context, id string) (*Instance, error) {
	args := m.Called(ctx, id)

	return instanceArg(args)
}

// Tag mocks tagging an instance.
func (m *MockProvider) Tag(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

// Describe mocks describing an instance.
func (m *MockProvider) Describe(ctx context.Context, id string) (*Instance, error) {
	args := m.Called(ctx, id)

	return instanceArg(args)
}

// Terminate mocks terminating an instance.
func (m *MockProvider) Terminate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ListInstances mocks listing instances.
func (m *MockProvider) ListInstances(ctx context.Context) ([]Instance, error) {
	args := m.Called(ctx)

	result, ok := args.Get(0).([]Instance)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// TerminateAll mocks terminating every instance.
func (m *MockProvider) TerminateAll(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)

	result, ok := args.Get(0).([]string)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

func instanceArg(args mock.Arguments) (*Instance, error) {
	result, ok := args.Get(0).(*Instance)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}
