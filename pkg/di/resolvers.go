package di

import (
	"context"
	"fmt"
	"io"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/svc/provider"
	providerfactory "github.com/geostack-dev/geostack/pkg/svc/provider/factory"
	"github.com/geostack-dev/geostack/pkg/svc/provisioner"
	"github.com/geostack-dev/geostack/pkg/svc/registry"
	"github.com/geostack-dev/geostack/pkg/svc/target"
	"github.com/geostack-dev/geostack/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Dependency resolvers.

// ResolveTimer retrieves the timer dependency from the injector with consistent error handling.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveConfig retrieves the configuration supplied with WithConfig.
func ResolveConfig(injector Injector) (*v1alpha1.Config, error) {
	config, err := do.Invoke[*v1alpha1.Config](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve config dependency: %w", err)
	}

	return config, nil
}

// ResolveProviderFactory retrieves the provider factory.
func ResolveProviderFactory(injector Injector) (providerfactory.Factory, error) {
	factory, err := do.Invoke[providerfactory.Factory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve provider factory dependency: %w", err)
	}

	return factory, nil
}

// ResolveStore retrieves the registry store.
func ResolveStore(injector Injector) (*registry.Store, error) {
	store, err := do.Invoke[*registry.Store](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve registry store dependency: %w", err)
	}

	return store, nil
}

// ResolveProvider retrieves the provider backend.
func ResolveProvider(injector Injector) (provider.Provider, error) {
	prov, err := do.Invoke[provider.Provider](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve provider dependency: %w", err)
	}

	return prov, nil
}

// ResolveProvisioner retrieves the provisioner.
func ResolveProvisioner(injector Injector) (*provisioner.Provisioner, error) {
	prov, err := do.Invoke[*provisioner.Provisioner](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve provisioner dependency: %w", err)
	}

	return prov, nil
}

// ResolveResolver retrieves the target resolver.
func ResolveResolver(injector Injector) (*target.Resolver, error) {
	resolver, err := do.Invoke[*target.Resolver](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve target resolver dependency: %w", err)
	}

	return resolver, nil
}

// resolveContext returns the context supplied with WithContext, or Background.
func resolveContext(injector Injector) context.Context {
	ctx, err := do.Invoke[context.Context](injector)
	if err != nil || ctx == nil {
		return context.Background()
	}

	return ctx
}

// resolveOutput returns the writer supplied with WithOutput, or io.Discard.
func resolveOutput(injector Injector) io.Writer {
	out, err := do.Invoke[io.Writer](injector)
	if err != nil || out == nil {
		return io.Discard
	}

	return out
}

// Handler decorators.

// WithTimer decorates a handler to automatically resolve the timer dependency.
// This higher-order function simplifies command handlers that need timer access.
func WithTimer(
	handler func(cmd *cobra.Command, injector Injector, tmr timer.Timer) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		tmr, err := ResolveTimer(injector)
		if err != nil {
			return err
		}

		return handler(cmd, injector, tmr)
	}
}
