package v1alpha1

import (
	"errors"
	"fmt"
)

// Normalize canonicalises enum values written in any case, so "aws" in a
// config file becomes ProviderAWS.
func (c *Config) Normalize() error {
	if c.Provider == "" {
		c.Provider = ProviderAWS
	} else {
		err := c.Provider.Set(string(c.Provider))
		if err != nil {
			return err
		}
	}

	for name, env := range c.Environments {
		if env.Kind == "" {
			env.Kind = EnvironmentRemote
		} else {
			err := env.Kind.Set(string(env.Kind))
			if err != nil {
				return fmt.Errorf("environment %q: %w", name, err)
			}
		}

		c.Environments[name] = env
	}

	return nil
}

// Validate checks the settings every command depends on: enums, wait
// durations, and that every remote environment names a node. Provider
// credentials are checked separately by ValidateProvider, so purely local
// commands work without them.
func (c *Config) Validate() error {
	var errs []error

	if c.RegistryPath == "" {
		errs = append(errs, fmt.Errorf("%w: registryPath", ErrMissingSetting))
	}

	if c.Wait.InitialDelay < 0 {
		errs = append(errs, fmt.Errorf("%w: wait.initialDelay must not be negative", ErrInvalidDuration))
	}

	if c.Wait.Interval <= 0 {
		errs = append(errs, fmt.Errorf("%w: wait.interval must be positive", ErrInvalidDuration))
	}

	if c.Wait.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: wait.timeout must be positive", ErrInvalidDuration))
	}

	for _, name := range c.EnvironmentNames() {
		env := c.Environments[name]

		switch env.Kind {
		case EnvironmentLocal:
		case EnvironmentRemote:
			if env.Node == "" {
				errs = append(errs, fmt.Errorf("%w: environments.%s.node", ErrMissingSetting, name))
			}
		default:
			errs = append(errs, fmt.Errorf("environment %q: %w: %q", name, ErrInvalidEnvironmentKind, env.Kind))
		}
	}

	return errors.Join(errs...)
}

// ValidateProvider checks the settings needed to talk to the selected
// provider and to log in to the nodes it creates.
func (c *Config) ValidateProvider() error {
	var missing []string

	switch c.Provider {
	case ProviderAWS:
		missing = appendMissing(missing,
			"aws.region", c.AWS.Region,
			"aws.imageID", c.AWS.ImageID,
			"aws.instanceType", c.AWS.InstanceType,
			"aws.keyName", c.AWS.KeyName,
		)

		if (c.AWS.AccessKeyID == "") != (c.AWS.SecretAccessKey == "") {
			missing = append(missing, "aws.accessKeyID and aws.secretAccessKey must be set together")
		}
	case ProviderHetzner:
		missing = appendMissing(missing,
			"hetzner.token", c.Hetzner.Token,
			"hetzner.serverType", c.Hetzner.ServerType,
			"hetzner.image", c.Hetzner.Image,
			"hetzner.location", c.Hetzner.Location,
		)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProvider, c.Provider)
	}

	missing = appendMissing(missing, "ssh.user", c.SSH.User, "ssh.keyPath", c.SSH.KeyPath)

	if len(missing) == 0 {
		return nil
	}

	errs := make([]error, 0, len(missing))
	for _, key := range missing {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingSetting, key))
	}

	return errors.Join(errs...)
}

// appendMissing takes key/value pairs and appends the keys whose value is empty.
func appendMissing(missing []string, pairs ...string) []string {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			missing = append(missing, pairs[i])
		}
	}

	return missing
}
