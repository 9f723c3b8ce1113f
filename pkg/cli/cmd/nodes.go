package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/geostack-dev/geostack/pkg/cli/flags"
	"github.com/geostack-dev/geostack/pkg/di"
	"github.com/geostack-dev/geostack/pkg/svc/registry"
	"github.com/spf13/cobra"
)

// NewNodesCmd creates the nodes command.
func NewNodesCmd(runtimeContainer *di.Runtime) *cobra.Command {
	var output flags.OutputFormat

	cmd := &cobra.Command{
		Use:          "nodes",
		Short:        "List the nodes in the registry",
		Long:         "List the nodes recorded in the registry. The provider is not contacted.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, runtimeContainer, true, func(s *session) error {
				return runNodesAction(s, output)
			})
		},
	}

	addOutputFlag(cmd, &output)

	return cmd
}

func runNodesAction(s *session, output flags.OutputFormat) error {
	store, err := di.ResolveStore(s.injector)
	if err != nil {
		return err
	}

	records, err := store.Records()
	if err != nil {
		return err
	}

	if output == flags.OutputJSON {
		if records == nil {
			records = []registry.Record{}
		}

		return writeJSON(s.cmd.OutOrStdout(), records)
	}

	return printNodes(s.cmd.OutOrStdout(), records)
}

func printNodes(out io.Writer, records []registry.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "no nodes")
		if err != nil {
			return fmt.Errorf("print nodes: %w", err)
		}

		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(writer, "NAME\tINSTANCE\tADDRESS")

	for _, record := range records {
		_, _ = fmt.Fprintf(writer, "%s\t%s\t%s\n", record.Name, record.InstanceID, record.Address)
	}

	err := writer.Flush()
	if err != nil {
		return fmt.Errorf("print nodes: %w", err)
	}

	return nil
}
