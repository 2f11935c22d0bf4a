package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"legalsim-backend/internal/simulator"
)

func newSamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "List the bundled sample contracts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCOMPLEXITY\tCLAUSES")
			for _, s := range simulator.Samples() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.ID, s.Title, s.Complexity, s.Clauses)
			}
			return tw.Flush()
		},
	}
}
