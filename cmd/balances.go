package cmd

import (
	"github.com/spf13/cobra"

	"folio/internal/output"
	"folio/internal/valuation"
)

func init() {
	balancesCmd := &cobra.Command{
		Use:   "balances FILE",
		Short: "Print per-position balances",
		Long: `Print every position with its current price and balance.

Positions whose quotes could not be resolved are listed with "—" and
excluded from the total.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, warnings, err := valueFile(args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			printWarnings(cmd, warnings)
			return renderBalancesReport(output.New(cmd.OutOrStdout(), GetJSONMode()), snap)
		},
	}
	balancesCmd.SilenceUsage = true
	rootCmd.AddCommand(balancesCmd)
}

// renderBalancesReport writes the balances table including a TOTAL row.
func renderBalancesReport(f *output.Formatter, snap valuation.Snapshot) error {
	headers := []string{"Name", "Class", "Amount", "Price", "Balance"}
	rows := make([][]string, 0, len(snap.Balances)+1)
	for _, b := range snap.Balances {
		price, balance := "—", "—"
		if !b.Unknown {
			price = "$" + b.Price.StringFixed(2)
			if b.Stale {
				price += "*"
			}
			balance = "$" + b.Balance.StringFixed(2)
		}
		rows = append(rows, []string{
			b.Name,
			b.AssetClass,
			b.Amount.StringFixed(2),
			price,
			balance,
		})
	}
	rows = append(rows, []string{"TOTAL", "", "", "", "$" + snap.Total.StringFixed(2)})
	return f.Table(headers, rows)
}
