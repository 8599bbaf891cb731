package cmd

import (
	"github.com/spf13/cobra"

	"folio/internal/output"
	"folio/internal/valuation"
)

func init() {
	performanceCmd := &cobra.Command{
		Use:   "performance FILE",
		Short: "Print the change versus the stored baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, warnings, err := valueFile(args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			printWarnings(cmd, warnings)
			return renderPerformanceReport(output.New(cmd.OutOrStdout(), GetJSONMode()), snap)
		},
	}
	performanceCmd.SilenceUsage = true
	rootCmd.AddCommand(performanceCmd)
}

// renderPerformanceReport writes the total and its change versus the
// baseline as label/value pairs.
func renderPerformanceReport(f *output.Formatter, snap valuation.Snapshot) error {
	pairs := [][2]string{
		{"Total", "$" + snap.Total.StringFixed(2)},
	}
	perf := snap.Performance
	if !perf.HasBaseline {
		pairs = append(pairs, [2]string{"Change", "no baseline yet"})
		return f.KeyValues(pairs)
	}

	delta := "+$" + perf.Delta.StringFixed(2)
	if perf.Delta.IsNegative() {
		delta = "-$" + perf.Delta.Neg().StringFixed(2)
	}
	percent := perf.Percent.StringFixed(2) + "%"
	if !perf.Percent.IsNegative() {
		percent = "+" + percent
	}
	pairs = append(pairs,
		[2]string{"Change", delta},
		[2]string{"Change %", percent},
	)
	return f.KeyValues(pairs)
}
