package cmd

import (
	"github.com/geostack-dev/geostack/pkg/di"
	"github.com/geostack-dev/geostack/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const provisionLongDesc = `Provision a named node, or reuse the one recorded in the registry.

A new instance is tagged with the node name, recorded in the registry once it
is running with a public address, and reused by later runs.

Examples:
  # Create or reuse the staging node
  geostack provision staging

  # Check that the recorded instance still exists before reusing it
  geostack provision staging --verify`

// NewProvisionCmd creates the provision command.
func NewProvisionCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "provision <node>",
		Short:        "Create or reuse a named node",
		Long:         provisionLongDesc,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, runtimeContainer, false, func(s *session) error {
				return runProvisionAction(s, args[0])
			})
		},
	}

	addVerifyFlag(cmd)

	return cmd
}

func runProvisionAction(s *session, name string) error {
	notify.Titlef(s.progress, "🚀", "Provision node...")

	prov, err := di.ResolveProvisioner(s.injector)
	if err != nil {
		return err
	}

	node, err := prov.Provision(s.cmd.Context(), name)
	if err != nil {
		return err
	}

	if node.Reused {
		notify.SuccessWithTimerf(s.progress, s.timer, "reusing %s (%s) at %s", node.Name, node.InstanceID, node.Address)

		return nil
	}

	notify.SuccessWithTimerf(s.progress, s.timer, "%s (%s) is ready at %s", node.Name, node.InstanceID, node.Address)

	return nil
}
