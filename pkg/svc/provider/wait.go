package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siderolabs/go-retry/retry"
	log "github.com/sirupsen/logrus"
)

// Default wait policy values.
const (
	DefaultInitialDelay = 20 * time.Second
	DefaultPollInterval = 10 * time.Second
	DefaultWaitTimeout  = 10 * time.Minute
)

// WaitPolicy bounds the wait for a new instance. InitialDelay is waited once
// before the first poll; Timeout starts counting after it.
type WaitPolicy struct {
	InitialDelay time.Duration
	Interval     time.Duration
	Timeout      time.Duration
}

// DefaultWaitPolicy returns the 20s / 10s / 10m policy.
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{
		InitialDelay: DefaultInitialDelay,
		Interval:     DefaultPollInterval,
		Timeout:      DefaultWaitTimeout,
	}
}

// withDefaults fills zero fields from DefaultWaitPolicy. A zero InitialDelay
// is kept.
func (p WaitPolicy) withDefaults() WaitPolicy {
	if p.Interval <= 0 {
		p.Interval = DefaultPollInterval
	}

	if p.Timeout <= 0 {
		p.Timeout = DefaultWaitTimeout
	}

	if p.InitialDelay < 0 {
		p.InitialDelay = 0
	}

	return p
}

// DescribeFunc fetches the current state of one instance.
type DescribeFunc func(ctx context.Context) (*Instance, error)

// WaitForRunning polls describe at a fixed interval, with no backoff, until
// the instance is running and has an address.
//
// ErrInstanceNotFound from describe is retried, since providers may not list
// a freshly created instance right away. Errors IsRetryable accepts are
// retried too. Any other describe error and any terminal state abort the wait.
func WaitForRunning(ctx context.Context, policy WaitPolicy, id string, describe DescribeFunc) (*Instance, error) {
	policy = policy.withDefaults()

	if policy.InitialDelay > 0 {
		log.Debugf("waiting %s before polling instance %s", policy.InitialDelay, id)

		timer := time.NewTimer(policy.InitialDelay)

		select {
		case <-ctx.Done():
			timer.Stop()

			return nil, fmt.Errorf("wait for instance %s: %w", id, ctx.Err())
		case <-timer.C:
		}
	}

	var (
		ready *Instance
		fatal error
	)

	err := retry.Constant(policy.Timeout, retry.WithUnits(policy.Interval)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			instance, describeErr := describe(ctx)

			// A describe cut short by the retry deadline is a timeout, not a failure.
			if errors.Is(describeErr, ErrInstanceNotFound) || IsRetryable(describeErr) ||
				(describeErr != nil && ctx.Err() != nil) {
				return retry.ExpectedError(describeErr)
			}

			if describeErr != nil {
				fatal = describeErr

				return describeErr
			}

			switch {
			case instance.State == StateRunning && instance.Address != "":
				ready = instance

				return nil
			case instance.State.Terminal():
				fatal = fmt.Errorf("%w: %s is %s", ErrInstanceTerminated, id, instance.State)

				return fatal
			case instance.State == StateRunning:
				log.Debugf("instance %s is running but has no public address yet", id)

				return retry.ExpectedError(fmt.Errorf("instance %s has no public address yet", id))
			default:
				log.Debugf("instance %s is %s", id, instance.State)

				return retry.ExpectedError(fmt.Errorf("instance %s is %s", id, instance.State))
			}
		})

	switch {
	case ready != nil:
		return ready, nil
	case fatal != nil:
		return nil, fatal
	case ctx.Err() != nil:
		return nil, fmt.Errorf("wait for instance %s: %w", id, ctx.Err())
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrProvisioningTimeout, id)
	default:
		return nil, fmt.Errorf("%w: %s not ready after %s: %w", ErrProvisioningTimeout, id, policy.Timeout, err)
	}
}
