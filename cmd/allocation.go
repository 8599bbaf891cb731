package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/output"
	"folio/internal/valuation"
)

func init() {
	allocationCmd := &cobra.Command{
		Use:   "allocation FILE",
		Short: "Print the asset class allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, warnings, err := valueFile(args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			printWarnings(cmd, warnings)
			return renderAllocationReport(output.New(cmd.OutOrStdout(), GetJSONMode()), snap)
		},
	}
	allocationCmd.SilenceUsage = true
	rootCmd.AddCommand(allocationCmd)
}

// renderAllocationReport writes the per-class values and percentages,
// largest class first.
func renderAllocationReport(f *output.Formatter, snap valuation.Snapshot) error {
	headers := []string{"Class", "Value", "Percent"}
	rows := make([][]string, 0, len(snap.Allocation))
	for _, a := range snap.Allocation {
		rows = append(rows, []string{
			a.Class,
			"$" + a.Value.StringFixed(2),
			a.Percent.StringFixed(2) + "%",
		})
	}
	return f.Table(headers, rows)
}

// printWarnings surfaces per-symbol resolution warnings on stderr so they
// never pollute JSON output.
func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}
