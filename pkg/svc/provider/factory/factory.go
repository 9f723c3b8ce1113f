// Package providerfactory builds the provider backend selected by the configuration.
package providerfactory

import (
	"context"
	"errors"
	"fmt"

	"github.com/geostack-dev/geostack/internal/buildmeta"
	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/svc/provider"
	awsprovider "github.com/geostack-dev/geostack/pkg/svc/provider/aws"
	hetznerprovider "github.com/geostack-dev/geostack/pkg/svc/provider/hetzner"
)

// ErrNoConfiguration is returned when Create is called without a configuration.
var ErrNoConfiguration = errors.New("provider configuration is required")

// Factory creates the provider backend for a configuration.
type Factory interface {
	Create(ctx context.Context, config *v1alpha1.Config) (provider.Provider, error)
}

// DefaultFactory creates the real AWS and Hetzner backends.
type DefaultFactory struct{}

// Create validates the provider settings and builds the selected backend.
func (DefaultFactory) Create(ctx context.Context, config *v1alpha1.Config) (provider.Provider, error) {
	if config == nil {
		return nil, ErrNoConfiguration
	}

	err := config.ValidateProvider()
	if err != nil {
		return nil, err
	}

	wait := WaitPolicy(config.Wait)

	switch config.Provider {
	case v1alpha1.ProviderAWS:
		client, clientErr := awsprovider.NewClient(ctx, awsprovider.ClientOptions{
			Region:          config.AWS.Region,
			AccessKeyID:     config.AWS.AccessKeyID,
			SecretAccessKey: config.AWS.SecretAccessKey,
		})
		if clientErr != nil {
			return nil, fmt.Errorf("%w: %w", provider.ErrProviderUnavailable, clientErr)
		}

		return awsprovider.NewProvider(client, provider.CreateOpts{
			ImageID:      config.AWS.ImageID,
			KeyName:      config.AWS.KeyName,
			InstanceType: config.AWS.InstanceType,
		}, wait), nil
	case v1alpha1.ProviderHetzner:
		return hetznerprovider.NewProviderFromToken(config.Hetzner.Token, buildmeta.Version, hetznerprovider.Options{
			Location: config.Hetzner.Location,
			Defaults: provider.CreateOpts{
				ImageID:      config.Hetzner.Image,
				KeyName:      config.Hetzner.SSHKeyName,
				InstanceType: config.Hetzner.ServerType,
			},
			Wait: wait,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", v1alpha1.ErrInvalidProvider, config.Provider)
	}
}

// WaitPolicy converts the configured wait settings.
func WaitPolicy(spec v1alpha1.WaitSpec) provider.WaitPolicy {
	return provider.WaitPolicy{
		InitialDelay: spec.InitialDelay,
		Interval:     spec.Interval,
		Timeout:      spec.Timeout,
	}
}
