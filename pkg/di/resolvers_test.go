package di_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/geostack-dev/geostack/pkg/di"
	"github.com/geostack-dev/geostack/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errHandlerExecutionFailed = errors.New("handler execution failed")

func TestResolversOnEmptyInjector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resolve func(di.Injector) error
		message string
	}{
		{
			name:    "timer",
			resolve: func(i di.Injector) error { _, err := di.ResolveTimer(i); return err },
			message: "resolve timer dependency",
		},
		{
			name:    "config",
			resolve: func(i di.Injector) error { _, err := di.ResolveConfig(i); return err },
			message: "resolve config dependency",
		},
		{
			name:    "provider factory",
			resolve: func(i di.Injector) error { _, err := di.ResolveProviderFactory(i); return err },
			message: "resolve provider factory dependency",
		},
		{
			name:    "provider",
			resolve: func(i di.Injector) error { _, err := di.ResolveProvider(i); return err },
			message: "resolve provider dependency",
		},
		{
			name:    "provisioner",
			resolve: func(i di.Injector) error { _, err := di.ResolveProvisioner(i); return err },
			message: "resolve provisioner dependency",
		},
		{
			name:    "resolver",
			resolve: func(i di.Injector) error { _, err := di.ResolveResolver(i); return err },
			message: "resolve target resolver dependency",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := testCase.resolve(do.New())

			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.message)
		})
	}
}

func TestWithTimer(t *testing.T) {
	t.Parallel()

	injector := do.New()
	do.Provide(injector, func(_ do.Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	handlerCalled := false
	wrapped := di.WithTimer(func(_ *cobra.Command, _ di.Injector, tmr timer.Timer) error {
		handlerCalled = true

		tmr.Start()

		return nil
	})

	require.NoError(t, wrapped(&cobra.Command{}, injector))
	assert.True(t, handlerCalled)

	failing := di.WithTimer(func(*cobra.Command, di.Injector, timer.Timer) error {
		return fmt.Errorf("handler failed: %w", errHandlerExecutionFailed)
	})
	require.ErrorIs(t, failing(&cobra.Command{}, injector), errHandlerExecutionFailed)
}

func TestWithTimerResolveError(t *testing.T) {
	t.Parallel()

	wrapped := di.WithTimer(func(*cobra.Command, di.Injector, timer.Timer) error {
		return nil
	})

	err := wrapped(&cobra.Command{}, do.New())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve timer dependency")
}
