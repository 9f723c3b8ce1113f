package flags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/geostack-dev/geostack/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// Flag names shared between commands.
const (
	ConfigFlagName      = "config"
	CredentialsFlagName = "credentials"
	RegistryFlagName    = "registry"
	ProviderFlagName    = "provider"
	VerboseFlagName     = "verbose"
	TimingFlagName      = "timing"
	VerifyFlagName      = "verify"
	OutputFlagName      = "output"
	RecipeFlagName      = "recipe"
	DryRunFlagName      = "dry-run"
	ForceFlagName       = "force"
)

// ErrNilCommand is returned when a nil command is inspected.
var ErrNilCommand = errors.New("command is nil")

// ErrInvalidOutputFormat is returned for unknown --output values.
var ErrInvalidOutputFormat = errors.New("invalid output format")

// IsTimingEnabled reports whether --timing is set on cmd or inherited from a parent.
func IsTimingEnabled(cmd *cobra.Command) (bool, error) {
	if cmd == nil {
		return false, ErrNilCommand
	}

	enabled, err := cmd.Flags().GetBool(TimingFlagName)
	if err == nil {
		return enabled, nil
	}

	enabled, inheritedErr := cmd.InheritedFlags().GetBool(TimingFlagName)
	if inheritedErr == nil {
		return enabled, nil
	}

	return false, fmt.Errorf("get --%s flag: %w", TimingFlagName, err)
}

// MaybeTimer returns tmr when --timing is enabled, and nil otherwise.
func MaybeTimer(cmd *cobra.Command, tmr timer.Timer) timer.Timer {
	if cmd == nil || tmr == nil {
		return nil
	}

	enabled, err := IsTimingEnabled(cmd)
	if err != nil || !enabled {
		return nil
	}

	return tmr
}

// OutputFormat selects how commands print results.
type OutputFormat string

const (
	// OutputText prints human-readable lines.
	OutputText OutputFormat = "text"
	// OutputJSON prints indented JSON.
	OutputJSON OutputFormat = "json"
)

// Set for OutputFormat (pflag.Value interface).
func (o *OutputFormat) Set(value string) error {
	switch format := OutputFormat(strings.ToLower(value)); format {
	case OutputText, OutputJSON:
		*o = format

		return nil
	default:
		return fmt.Errorf("%w: %s (valid options: %s, %s)", ErrInvalidOutputFormat, value, OutputText, OutputJSON)
	}
}

// String returns the string representation of the OutputFormat.
func (o *OutputFormat) String() string {
	return string(*o)
}

// Type returns the type name for pflag.
func (o *OutputFormat) Type() string {
	return "format"
}
