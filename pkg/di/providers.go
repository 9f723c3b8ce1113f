package di

import (
	"context"
	"io"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/svc/provider"
	providerfactory "github.com/geostack-dev/geostack/pkg/svc/provider/factory"
	"github.com/geostack-dev/geostack/pkg/svc/provisioner"
	"github.com/geostack-dev/geostack/pkg/svc/registry"
	"github.com/geostack-dev/geostack/pkg/svc/target"
	"github.com/geostack-dev/geostack/pkg/utils/timer"
	"github.com/samber/do/v2"
)

// Dependency providers.

// NewRuntime constructs the shared runtime container used by the root command
// and tests. Services that need the configuration, context or output writer
// expect them from the WithConfig, WithContext and WithOutput modules.
// Overrides such as WithProvider are applied after the defaults.
func NewRuntime(overrides ...Module) *Runtime {
	return New(append([]Module{
		provideTimer,
		provideProviderFactory,
		provideStore,
		provideProvider,
		provideProvisioner,
		provideLocalQuerier,
		provideResolver,
	}, overrides...)...)
}

// WithConfig supplies the loaded configuration.
func WithConfig(config *v1alpha1.Config) Module {
	return func(i Injector) error {
		do.ProvideValue(i, config)

		return nil
	}
}

// WithContext supplies the context provider calls run under.
func WithContext(ctx context.Context) Module {
	return func(i Injector) error {
		do.ProvideValue[context.Context](i, ctx)

		return nil
	}
}

// WithOutput supplies the writer for operator-facing progress messages.
func WithOutput(out io.Writer) Module {
	return func(i Injector) error {
		do.ProvideValue[io.Writer](i, out)

		return nil
	}
}

// WithProvider overrides the provider backend, bypassing the factory.
func WithProvider(prov provider.Provider) Module {
	return func(i Injector) error {
		do.Override(i, func(Injector) (provider.Provider, error) {
			return prov, nil
		})

		return nil
	}
}

// WithLocalQuerier overrides the local virtual machine querier.
func WithLocalQuerier(querier target.LocalQuerier) Module {
	return func(i Injector) error {
		do.Override(i, func(Injector) (target.LocalQuerier, error) {
			return querier, nil
		})

		return nil
	}
}

// provideTimer registers the timer dependency with the injector.
func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

// provideProviderFactory registers the provider backend factory.
func provideProviderFactory(i Injector) error {
	do.Provide(i, func(Injector) (providerfactory.Factory, error) {
		return providerfactory.DefaultFactory{}, nil
	})

	return nil
}

// provideStore registers the registry store at the configured path.
func provideStore(i Injector) error {
	do.Provide(i, func(i Injector) (*registry.Store, error) {
		config, err := ResolveConfig(i)
		if err != nil {
			return nil, err
		}

		return registry.NewStore(config.RegistryPath)
	})

	return nil
}

// provideProvider registers the provider backend. It is built on first use,
// so commands that never reach the provider need no credentials.
func provideProvider(i Injector) error {
	do.Provide(i, func(i Injector) (provider.Provider, error) {
		factory, err := ResolveProviderFactory(i)
		if err != nil {
			return nil, err
		}

		config, err := ResolveConfig(i)
		if err != nil {
			return nil, err
		}

		return factory.Create(resolveContext(i), config)
	})

	return nil
}

// provideProvisioner registers the provisioner. The provider is resolved on
// the first operation that calls it, so registry-only operations need no
// provider settings.
func provideProvisioner(i Injector) error {
	do.Provide(i, func(i Injector) (*provisioner.Provisioner, error) {
		store, err := ResolveStore(i)
		if err != nil {
			return nil, err
		}

		config, err := ResolveConfig(i)
		if err != nil {
			return nil, err
		}

		build := func() (provider.Provider, error) {
			return ResolveProvider(i)
		}

		return provisioner.NewLazy(build, store, provisioner.Options{
			VerifyCached: config.VerifyCachedNodes,
			Output:       resolveOutput(i),
		}), nil
	})

	return nil
}

// provideLocalQuerier registers the Vagrant querier.
func provideLocalQuerier(i Injector) error {
	do.Provide(i, func(Injector) (target.LocalQuerier, error) {
		return target.VagrantQuerier{}, nil
	})

	return nil
}

// provideResolver registers the target resolver. The provisioner is resolved
// only when a remote environment is selected.
func provideResolver(i Injector) error {
	do.Provide(i, func(i Injector) (*target.Resolver, error) {
		config, err := ResolveConfig(i)
		if err != nil {
			return nil, err
		}

		local, err := do.Invoke[target.LocalQuerier](i)
		if err != nil {
			return nil, err
		}

		nodes := target.NodeProvisionerFunc(func(ctx context.Context, name string) (*provisioner.Node, error) {
			prov, err := ResolveProvisioner(i)
			if err != nil {
				return nil, err
			}

			return prov.Provision(ctx, name)
		})

		return target.NewResolver(config, local, nodes), nil
	})

	return nil
}
