package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/geostack-dev/geostack/internal/buildmeta"
	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/cli/flags"
	"github.com/geostack-dev/geostack/pkg/cli/ui/errorhandler"
	"github.com/geostack-dev/geostack/pkg/di"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const rootLongDesc = `geostack provisions cloud nodes for deployment environments and runs
task recipes against them over SSH.

Configuration is read from ./geostack.yaml or ~/.geostack/geostack.yaml,
merged with the credentials file, GEOSTACK_* environment variables and flags.`

//nolint:gochecknoglobals // logrus is configured once per process
var logOutputOnce sync.Once

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return NewRootCmdWithRuntime(di.NewRuntime(), version, commit, date)
}

// NewRootCmdWithRuntime creates the root command on top of runtimeContainer.
func NewRootCmdWithRuntime(runtimeContainer *di.Runtime, version, commit, date string) *cobra.Command {
	var providerFlag v1alpha1.Provider

	cmd := &cobra.Command{
		Use:               "geostack",
		Short:             "Provision cloud nodes and deploy to them",
		Long:              rootLongDesc,
		SilenceUsage:      true,
		PersistentPreRunE: configureLogging,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = buildmeta.Describe(version, commit, date)

	persistent := cmd.PersistentFlags()
	persistent.StringP(flags.ConfigFlagName, "c", "",
		"Config file (default ./geostack.yaml, then ~/.geostack/geostack.yaml)")
	persistent.String(flags.CredentialsFlagName, "",
		"Credentials overrides file (default "+v1alpha1.DefaultCredentialsPath+")")
	persistent.String(flags.RegistryFlagName, "", "Path of the node registry file")
	persistent.Var(&providerFlag, flags.ProviderFlagName,
		fmt.Sprintf("Cloud provider (%s)", strings.Join(providerFlag.ValidValues(), ", ")))
	persistent.BoolP(flags.VerboseFlagName, "v", false, "Enable debug logging")
	persistent.Bool(flags.TimingFlagName, false, "Show per-activity timing output")

	cmd.AddCommand(NewTargetCmd(runtimeContainer))
	cmd.AddCommand(NewProvisionCmd(runtimeContainer))
	cmd.AddCommand(NewDeployCmd(runtimeContainer))
	cmd.AddCommand(NewNodesCmd(runtimeContainer))
	cmd.AddCommand(NewCleanupCmd(runtimeContainer))
	cmd.AddCommand(NewDestroyCmd(runtimeContainer))

	return cmd
}

// Execute runs the provided root command under ctx and handles errors.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(ctx, cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// configureLogging sets the logrus level from --verbose. Debug logs go to stderr.
func configureLogging(cmd *cobra.Command, _ []string) error {
	logOutputOnce.Do(func() {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&log.TextFormatter{
			DisableTimestamp: true,
		})
	})

	verbose, err := cmd.Flags().GetBool(flags.VerboseFlagName)
	if err != nil {
		return fmt.Errorf("get --%s flag: %w", flags.VerboseFlagName, err)
	}

	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	return nil
}
