package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newAccountsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List or create ledger accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := a.session.LoadAccounts(cmd.Context())
			if err != nil {
				return err
			}
			return printAccounts(a.out, accounts)
		},
	})

	var startingBalance string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := decimal.NewFromString(startingBalance)
			if err != nil {
				return fmt.Errorf("invalid --starting-balance %q: %w", startingBalance, err)
			}
			acc, err := a.ledger.CreateAccount(cmd.Context(), args[0], balance)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created %s (%s) with balance %s\n", acc.Name, acc.ID, money(acc.Balance))
			return nil
		},
	}
	create.Flags().StringVar(&startingBalance, "starting-balance", "0", "opening balance")
	cmd.AddCommand(create)

	return cmd
}
