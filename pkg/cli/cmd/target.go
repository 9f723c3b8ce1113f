package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/geostack-dev/geostack/pkg/cli/flags"
	"github.com/geostack-dev/geostack/pkg/di"
	"github.com/geostack-dev/geostack/pkg/svc/target"
	"github.com/geostack-dev/geostack/pkg/utils/notify"
	"github.com/spf13/cobra"
)

const targetLongDesc = `Resolve an environment to the SSH destination deploys run against.

Local environments are read from the running Vagrant machine. Remote
environments are backed by a named node: the node recorded in the registry is
reused, otherwise a new instance is created and recorded.

Examples:
  # Show where staging deploys go
  geostack target staging

  # Print the local target as JSON
  geostack target local -o json`

// NewTargetCmd creates the target command.
func NewTargetCmd(runtimeContainer *di.Runtime) *cobra.Command {
	var output flags.OutputFormat

	cmd := &cobra.Command{
		Use:          "target <environment>",
		Short:        "Resolve an environment to its SSH target",
		Long:         targetLongDesc,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, runtimeContainer, output == flags.OutputJSON, func(s *session) error {
				return runTargetAction(s, args[0], output)
			})
		},
	}

	addOutputFlag(cmd, &output)
	addVerifyFlag(cmd)

	return cmd
}

func runTargetAction(s *session, environment string, output flags.OutputFormat) error {
	notify.Titlef(s.progress, "🎯", "Resolve target...")

	tgt, err := resolveTarget(s, environment)
	if err != nil {
		return err
	}

	notify.SuccessWithTimerf(s.progress, s.timer, "%s resolved to %s@%s", environment, tgt.User, tgt.Address())

	return printTarget(s.cmd.OutOrStdout(), tgt, output)
}

func resolveTarget(s *session, environment string) (*target.Target, error) {
	resolver, err := di.ResolveResolver(s.injector)
	if err != nil {
		return nil, err
	}

	return resolver.Resolve(s.cmd.Context(), environment)
}

func printTarget(out io.Writer, tgt *target.Target, output flags.OutputFormat) error {
	if output == flags.OutputJSON {
		return writeJSON(out, tgt)
	}

	lines := [][2]string{
		{"environment", tgt.Environment},
		{"kind", string(tgt.Kind)},
		{"node", tgt.Node},
		{"instance", tgt.InstanceID},
		{"address", tgt.Address()},
		{"user", tgt.User},
		{"key", tgt.KeyPath},
		{"origin", tgt.Repository.Origin},
		{"repo", tgt.Repository.Repo},
		{"remote", tgt.Repository.Remote},
		{"branch", tgt.Repository.Branch},
		{"base dir", tgt.BaseDir},
		{"virtualenv", tgt.Virtualenv},
	}

	for _, line := range lines {
		if line[1] == "" {
			continue
		}

		_, err := fmt.Fprintf(out, "%-12s %s\n", line[0]+":", line[1])
		if err != nil {
			return fmt.Errorf("print target: %w", err)
		}
	}

	return nil
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}
