package cmd

import (
	"fmt"
	"io"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/cli/flags"
	"github.com/geostack-dev/geostack/pkg/di"
	"github.com/geostack-dev/geostack/pkg/io/configmanager"
	"github.com/geostack-dev/geostack/pkg/utils/notify"
	"github.com/geostack-dev/geostack/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// session is what a command handler works with once the configuration is loaded.
type session struct {
	cmd      *cobra.Command
	injector di.Injector
	config   *v1alpha1.Config
	// timer is nil unless --timing is set.
	timer timer.Timer
	// progress receives operator-facing notifications.
	progress io.Writer
}

// runSession loads the configuration and calls handler with an injector
// wired to it. Progress goes to stdout, or to stderr when quiet is set so
// that stdout carries only the command's result.
func runSession(
	cmd *cobra.Command,
	runtimeContainer *di.Runtime,
	quiet bool,
	handler func(s *session) error,
) error {
	progressTarget := cmd.OutOrStdout()
	if quiet {
		progressTarget = cmd.ErrOrStderr()
	}

	progress := notify.NewStageSeparatingWriter(progressTarget)

	return runtimeContainer.Invoke(func(injector di.Injector) error {
		tmr, err := di.ResolveTimer(injector)
		if err != nil {
			return err
		}

		tmr.Start()

		tmr = flags.MaybeTimer(cmd, tmr)

		config, err := loadConfig(cmd, progress, tmr)
		if err != nil {
			return err
		}

		err = di.WithConfig(config)(injector)
		if err != nil {
			return err
		}

		if tmr != nil {
			tmr.NewStage()
		}

		return handler(&session{
			cmd:      cmd,
			injector: injector,
			config:   config,
			timer:    tmr,
			progress: progress,
		})
	}, di.WithContext(cmd.Context()), di.WithOutput(progress))
}

// loadConfig loads the configuration honoring --config, --credentials and
// the flags in configmanager.FlagKeys.
func loadConfig(cmd *cobra.Command, progress io.Writer, tmr timer.Timer) (*v1alpha1.Config, error) {
	manager := configmanager.NewManager(progress)
	manager.ConfigFile = stringFlag(cmd, flags.ConfigFlagName)
	manager.CredentialsFile = stringFlag(cmd, flags.CredentialsFlagName)

	err := manager.BindFlags(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	return manager.Load(configmanager.LoadOptions{Timer: tmr})
}

// stringFlag returns the value of a string flag, or "" when cmd does not define it.
func stringFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return ""
	}

	return flag.Value.String()
}

// addOutputFlag registers -o/--output on cmd.
func addOutputFlag(cmd *cobra.Command, format *flags.OutputFormat) {
	*format = flags.OutputText

	cmd.Flags().VarP(format, flags.OutputFlagName, "o",
		fmt.Sprintf("Output format (%s, %s)", flags.OutputText, flags.OutputJSON))
}

// addVerifyFlag registers --verify on cmd.
func addVerifyFlag(cmd *cobra.Command) {
	cmd.Flags().Bool(flags.VerifyFlagName, false,
		"Check that a recorded instance still exists before reusing it")
}
