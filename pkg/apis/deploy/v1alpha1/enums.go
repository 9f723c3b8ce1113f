package v1alpha1

import (
	"fmt"
	"strings"
)

// EnumValuer is implemented by string-based enum types to list their valid values.
type EnumValuer interface {
	ValidValues() []string
}

// --- Provider ---

// Provider selects the cloud backend instances are provisioned on.
type Provider string

const (
	// ProviderAWS provisions EC2 instances.
	ProviderAWS Provider = "AWS"
	// ProviderHetzner provisions Hetzner Cloud servers.
	ProviderHetzner Provider = "Hetzner"
)

// ValidProviders returns supported provider values.
func ValidProviders() []Provider {
	return []Provider{ProviderAWS, ProviderHetzner}
}

// Set for Provider (pflag.Value interface). Matching is case-insensitive.
func (p *Provider) Set(value string) error {
	for _, prov := range ValidProviders() {
		if strings.EqualFold(value, string(prov)) {
			*p = prov

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s)",
		ErrInvalidProvider,
		value,
		ProviderAWS,
		ProviderHetzner,
	)
}

// String returns the string representation of the Provider.
func (p *Provider) String() string {
	return string(*p)
}

// Type returns the type of the Provider.
func (p *Provider) Type() string {
	return "Provider"
}

// Default returns the default value for Provider (AWS).
func (p *Provider) Default() any {
	return ProviderAWS
}

// ValidValues returns all valid Provider values as strings.
func (p *Provider) ValidValues() []string {
	return []string{string(ProviderAWS), string(ProviderHetzner)}
}

// --- Environment kind ---

// EnvironmentKind decides how a target is resolved for an environment.
type EnvironmentKind string

const (
	// EnvironmentLocal resolves the target from the local Vagrant machine.
	EnvironmentLocal EnvironmentKind = "local"
	// EnvironmentRemote provisions (or reuses) a cloud node.
	EnvironmentRemote EnvironmentKind = "remote"
)

// ValidEnvironmentKinds returns supported environment kinds.
func ValidEnvironmentKinds() []EnvironmentKind {
	return []EnvironmentKind{EnvironmentLocal, EnvironmentRemote}
}

// Set for EnvironmentKind (pflag.Value interface).
func (k *EnvironmentKind) Set(value string) error {
	for _, kind := range ValidEnvironmentKinds() {
		if strings.EqualFold(value, string(kind)) {
			*k = kind

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s)",
		ErrInvalidEnvironmentKind,
		value,
		EnvironmentLocal,
		EnvironmentRemote,
	)
}

// String returns the string representation of the EnvironmentKind.
func (k *EnvironmentKind) String() string {
	return string(*k)
}

// Type returns the type of the EnvironmentKind.
func (k *EnvironmentKind) Type() string {
	return "EnvironmentKind"
}

// Default returns the default value for EnvironmentKind (remote).
func (k *EnvironmentKind) Default() any {
	return EnvironmentRemote
}

// ValidValues returns all valid EnvironmentKind values as strings.
func (k *EnvironmentKind) ValidValues() []string {
	return []string{string(EnvironmentLocal), string(EnvironmentRemote)}
}
