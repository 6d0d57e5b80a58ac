package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/storage"
	"github.com/carson-networks/budget-import/internal/storage/account"
)

type CreateAccount struct {
	Name            string
	StartingBalance decimal.Decimal

	// Result is set once Perform succeeds.
	Result *account.Account
}

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := writer.Account.Create(ctx, &account.AccountCreate{
		Name:            c.Name,
		StartingBalance: c.StartingBalance,
	})
	if err != nil {
		return err
	}

	c.Result = created
	return nil
}
