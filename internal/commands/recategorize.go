package commands

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/carson-networks/budget-import/internal/category"
)

func newRecategorizeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize <transaction-id> <category>",
		Short: "Change the category of a committed transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.FromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction id %q: %w", args[0], err)
			}
			cat, err := category.Parse(args[1])
			if err != nil {
				return err
			}
			tx, err := a.session.Recategorize(cmd.Context(), id, cat)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %q is now %s\n", tx.ID, tx.Description, tx.Category)
			return nil
		},
	}
}
