package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carson-networks/budget-import/internal/workflow"
)

func newTransactionsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transactions <account>",
		Short: "List the committed transactions of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.selectAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			acc, txs, ok := a.session.State().Snapshot(acc.ID)
			if !ok {
				return workflow.ErrTransactionsNotLoaded
			}
			fmt.Fprintf(a.out, "%s balance %s\n", acc.Name, money(acc.Balance))
			return printTransactions(a.out, txs)
		},
	}
}
