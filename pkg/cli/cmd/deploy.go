package cmd

import (
	"path/filepath"

	"github.com/geostack-dev/geostack/pkg/cli/flags"
	"github.com/geostack-dev/geostack/pkg/di"
	"github.com/geostack-dev/geostack/pkg/svc/taskrunner"
	"github.com/geostack-dev/geostack/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const deployLongDesc = `Run a task recipe against an environment.

The environment is resolved like "geostack target" does, provisioning its node
when needed. Every step of the recipe is rendered first, so a reference to an
unknown variable fails before anything runs. Steps then run in order over SSH
and the first failing step stops the deploy unless it sets ignoreErrors.

Examples:
  # Deploy to staging
  geostack deploy staging --recipe deploy.yaml

  # Print the commands a production deploy would run
  geostack deploy production --recipe deploy.yaml --dry-run`

// NewDeployCmd creates the deploy command.
func NewDeployCmd(runtimeContainer *di.Runtime) *cobra.Command {
	var (
		recipePath string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:          "deploy <environment>",
		Short:        "Run a task recipe against an environment",
		Long:         deployLongDesc,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, runtimeContainer, false, func(s *session) error {
				return runDeployAction(s, args[0], recipePath, dryRun)
			})
		},
	}

	cmd.Flags().StringVarP(&recipePath, flags.RecipeFlagName, "r", "", "Recipe file to run")
	cmd.Flags().BoolVar(&dryRun, flags.DryRunFlagName, false, "Print the commands instead of running them")
	addVerifyFlag(cmd)

	_ = cmd.MarkFlagRequired(flags.RecipeFlagName)

	return cmd
}

func runDeployAction(s *session, environment, recipePath string, dryRun bool) error {
	recipe, err := taskrunner.LoadRecipe(recipePath)
	if err != nil {
		return err
	}

	notify.Titlef(s.progress, "🎯", "Resolve target...")

	tgt, err := resolveTarget(s, environment)
	if err != nil {
		return err
	}

	notify.SuccessWithTimerf(s.progress, s.timer, "%s resolved to %s@%s", environment, tgt.User, tgt.Address())

	if s.timer != nil {
		s.timer.NewStage()
	}

	name := recipe.Name
	if name == "" {
		name = filepath.Base(recipePath)
	}

	notify.Titlef(s.progress, "📦", "Deploy %s...", name)

	var executor taskrunner.Executor = taskrunner.NewDryRunExecutor(s.cmd.OutOrStdout())

	if !dryRun {
		sshExecutor := taskrunner.NewSSHExecutor(tgt, s.cmd.OutOrStdout(), s.cmd.ErrOrStderr())
		defer sshExecutor.Close() //nolint:errcheck // connection teardown after the recipe

		executor = sshExecutor
	}

	err = taskrunner.NewRunner(executor, s.progress, s.timer).Run(s.cmd.Context(), recipe, tgt)
	if err != nil {
		return err
	}

	notify.SuccessWithTimerf(s.progress, s.timer, "deployed %s to %s", name, environment)

	return nil
}
