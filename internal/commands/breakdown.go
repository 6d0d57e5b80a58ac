package commands

import (
	"github.com/spf13/cobra"

	"github.com/carson-networks/budget-import/internal/breakdown"
)

func newBreakdownCommand(a *app) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "breakdown <account>",
		Short: "Show spending per category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.selectAccount(cmd.Context(), args[0]); err != nil {
				return err
			}

			var (
				totals []breakdown.CategoryTotal
				err    error
			)
			if local {
				totals, err = a.session.LocalBreakdown()
			} else {
				totals, err = a.session.Breakdown(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printBreakdown(a.out, totals)
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "aggregate the fetched transactions instead of asking the ledger")

	return cmd
}
