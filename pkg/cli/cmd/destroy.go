package cmd

import (
	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/cli/flags"
	"github.com/geostack-dev/geostack/pkg/cli/ui/confirm"
	"github.com/geostack-dev/geostack/pkg/di"
	"github.com/geostack-dev/geostack/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const destroyLongDesc = `Terminate every instance the configured credentials can see and delete
the registry.

This is not limited to recorded nodes. Instances created by other tools in the
same account, region or project are terminated too. An interactive terminal is
asked to confirm unless --force is set.

Examples:
  # Destroy after confirming
  geostack destroy

  # Destroy without a prompt
  geostack destroy --force`

// NewDestroyCmd creates the destroy command.
func NewDestroyCmd(runtimeContainer *di.Runtime) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:          "destroy",
		Short:        "Terminate every instance and delete the registry",
		Long:         destroyLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, runtimeContainer, false, func(s *session) error {
				return runDestroyAction(s, force)
			})
		},
	}

	cmd.Flags().BoolVarP(&force, flags.ForceFlagName, "f", false, "Skip the confirmation prompt")

	return cmd
}

func runDestroyAction(s *session, force bool) error {
	notify.Titlef(s.progress, "🔥", "Destroy...")

	if !confirm.ShouldSkipPrompt(force) {
		err := confirmDestroy(s)
		if err != nil {
			return err
		}
	}

	prov, err := di.ResolveProvisioner(s.injector)
	if err != nil {
		return err
	}

	ids, err := prov.TeardownAll(s.cmd.Context())

	for _, id := range ids {
		notify.Activityf(s.progress, "%s terminated", id)
	}

	if err != nil {
		return err
	}

	notify.SuccessWithTimerf(s.progress, s.timer, "%d instance(s) terminated, registry deleted", len(ids))

	return nil
}

func confirmDestroy(s *session) error {
	store, err := di.ResolveStore(s.injector)
	if err != nil {
		return err
	}

	records, err := store.Records()
	if err != nil {
		return err
	}

	region := s.config.AWS.Region
	if s.config.Provider == v1alpha1.ProviderHetzner {
		region = s.config.Hetzner.Location
	}

	confirm.ShowDeletionPreview(s.progress, &confirm.DeletionPreview{
		Provider:     s.config.Provider,
		Region:       region,
		Nodes:        records,
		RegistryPath: store.Path(),
	})

	if !confirm.PromptForConfirmation() {
		return confirm.ErrDeletionCancelled
	}

	return nil
}
