package provider_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/geostack-dev/geostack/pkg/svc/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errThrottled = errors.New("throttled")

func fastPolicy() provider.WaitPolicy {
	return provider.WaitPolicy{Interval: 2 * time.Millisecond, Timeout: 200 * time.Millisecond}
}

// sequence returns a DescribeFunc yielding states in order and repeating the last one.
func sequence(calls *atomic.Int32, states ...provider.Instance) provider.DescribeFunc {
	return func(context.Context) (*provider.Instance, error) {
		n := int(calls.Add(1)) - 1
		if n >= len(states) {
			n = len(states) - 1
		}

		instance := states[n]

		return &instance, nil
	}
}

func TestWaitForRunningReturnsOnceRunningWithAddress(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	describe := sequence(&calls,
		provider.Instance{ID: "i-1", State: provider.StatePending},
		provider.Instance{ID: "i-1", State: provider.StateRunning},
		provider.Instance{ID: "i-1", State: provider.StateRunning, Address: "host"},
	)

	instance, err := provider.WaitForRunning(context.Background(), fastPolicy(), "i-1", describe)

	require.NoError(t, err)
	assert.Equal(t, "host", instance.Address)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWaitForRunningTimesOut(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	policy := provider.WaitPolicy{Interval: 2 * time.Millisecond, Timeout: 20 * time.Millisecond}
	describe := sequence(&calls, provider.Instance{ID: "i-1", State: provider.StatePending})

	_, err := provider.WaitForRunning(context.Background(), policy, "i-1", describe)

	require.ErrorIs(t, err, provider.ErrProvisioningTimeout)
	assert.NotErrorIs(t, err, provider.ErrProviderFailure)
	assert.Greater(t, calls.Load(), int32(1))
}

func TestWaitForRunningRetriesNotFound(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	describe := func(context.Context) (*provider.Instance, error) {
		if calls.Add(1) < 3 {
			return nil, provider.ErrInstanceNotFound
		}

		return &provider.Instance{ID: "i-1", State: provider.StateRunning, Address: "host"}, nil
	}

	instance, err := provider.WaitForRunning(context.Background(), fastPolicy(), "i-1", describe)

	require.NoError(t, err)
	assert.Equal(t, "host", instance.Address)
}

func TestWaitForRunningAbortsOnProviderError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	describe := func(context.Context) (*provider.Instance, error) {
		calls.Add(1)

		return nil, provider.Wrap("DescribeInstances", "i-1", errThrottled)
	}

	_, err := provider.WaitForRunning(context.Background(), fastPolicy(), "i-1", describe)

	require.ErrorIs(t, err, provider.ErrProviderFailure)
	require.ErrorIs(t, err, errThrottled)
	assert.NotErrorIs(t, err, provider.ErrProvisioningTimeout)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWaitForRunningAbortsOnTerminalState(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	describe := sequence(&calls,
		provider.Instance{ID: "i-1", State: provider.StatePending},
		provider.Instance{ID: "i-1", State: provider.StateTerminated},
	)

	_, err := provider.WaitForRunning(context.Background(), fastPolicy(), "i-1", describe)

	require.ErrorIs(t, err, provider.ErrInstanceTerminated)
	require.ErrorIs(t, err, provider.ErrProviderFailure)
}

func TestWaitForRunningCancelledDuringInitialDelay(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := provider.WaitPolicy{InitialDelay: time.Hour, Interval: time.Millisecond, Timeout: time.Second}
	describe := func(context.Context) (*provider.Instance, error) {
		t.Fatal("describe must not be called after cancellation")

		return nil, nil //nolint:nilnil // unreachable
	}

	_, err := provider.WaitForRunning(ctx, policy, "i-1", describe)

	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, provider.ErrProvisioningTimeout)
}

func TestWaitForRunningCancelledWhilePolling(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32

	describe := func(context.Context) (*provider.Instance, error) {
		if calls.Add(1) == 2 {
			cancel()
		}

		return &provider.Instance{ID: "i-1", State: provider.StatePending}, nil
	}

	policy := provider.WaitPolicy{Interval: time.Millisecond, Timeout: time.Minute}

	_, err := provider.WaitForRunning(ctx, policy, "i-1", describe)

	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, provider.ErrProvisioningTimeout)
}

func TestDefaultWaitPolicy(t *testing.T) {
	t.Parallel()

	policy := provider.DefaultWaitPolicy()

	assert.Equal(t, 20*time.Second, policy.InitialDelay)
	assert.Equal(t, 10*time.Second, policy.Interval)
	assert.Equal(t, 10*time.Minute, policy.Timeout)
}

func TestWaitForRunningRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	describe := func(context.Context) (*provider.Instance, error) {
		if calls.Add(1) == 1 {
			return nil, provider.Transient(errThrottled)
		}

		return &provider.Instance{ID: "i-1", State: provider.StateRunning, Address: "host"}, nil
	}

	_, err := provider.WaitForRunning(context.Background(), fastPolicy(), "i-1", describe)

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestWaitForRunningRetriesDroppedConnection(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	describe := func(context.Context) (*provider.Instance, error) {
		if calls.Add(1) == 1 {
			return nil, provider.Wrap("DescribeInstances", "i-1", errConnReset)
		}

		return &provider.Instance{ID: "i-1", State: provider.StateRunning, Address: "203.0.113.9"}, nil
	}

	instance, err := provider.WaitForRunning(context.Background(), fastPolicy(), "i-1", describe)

	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", instance.Address)
	assert.Equal(t, int32(2), calls.Load())
}
