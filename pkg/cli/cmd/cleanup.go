package cmd

import (
	"github.com/geostack-dev/geostack/pkg/di"
	"github.com/geostack-dev/geostack/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const cleanupLongDesc = `Terminate recorded nodes and remove them from the registry.

With a node name only that node is torn down; an unknown name does nothing.
Without arguments every node in the registry is torn down. A node whose
instance cannot be terminated stays recorded so the cleanup can be retried.

Examples:
  # Tear down the staging node
  geostack cleanup staging

  # Tear down every recorded node
  geostack cleanup`

// NewCleanupCmd creates the cleanup command.
func NewCleanupCmd(runtimeContainer *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:          "cleanup [node]",
		Short:        "Terminate recorded nodes",
		Long:         cleanupLongDesc,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, runtimeContainer, false, func(s *session) error {
				if len(args) == 1 {
					return runCleanupNodeAction(s, args[0])
				}

				return runCleanupAllAction(s)
			})
		},
	}
}

func runCleanupNodeAction(s *session, name string) error {
	notify.Titlef(s.progress, "🧹", "Clean up %s...", name)

	prov, err := di.ResolveProvisioner(s.injector)
	if err != nil {
		return err
	}

	found, err := prov.Teardown(s.cmd.Context(), name)
	if err != nil {
		return err
	}

	if !found {
		notify.Infof(s.progress, "no node named %s in the registry", name)

		return nil
	}

	notify.SuccessWithTimerf(s.progress, s.timer, "%s terminated", name)

	return nil
}

func runCleanupAllAction(s *session) error {
	notify.Titlef(s.progress, "🧹", "Clean up nodes...")

	prov, err := di.ResolveProvisioner(s.injector)
	if err != nil {
		return err
	}

	removed, err := prov.TeardownKnown(s.cmd.Context())

	for _, record := range removed {
		notify.Activityf(s.progress, "%s (%s) terminated", record.Name, record.InstanceID)
	}

	if err != nil {
		return err
	}

	if len(removed) == 0 {
		notify.Infof(s.progress, "no nodes in the registry")

		return nil
	}

	notify.SuccessWithTimerf(s.progress, s.timer, "%d node(s) terminated", len(removed))

	return nil
}
