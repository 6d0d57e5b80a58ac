package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/storage"
	"github.com/carson-networks/budget-import/internal/storage/account"
	"github.com/carson-networks/budget-import/internal/storage/transaction"
)

// ImportTransactions records a batch against one account and moves the
// account balance by the batch's credits minus its debits. Either all rows
// and the balance change land, or nothing does.
type ImportTransactions struct {
	AccountID    uuid.UUID
	Transactions []*transaction.TransactionCreate

	Result *account.Account
}

func (t *ImportTransactions) Perform(ctx context.Context, writer *storage.Writer) error {
	acc, err := writer.Account.FindByIDForUpdate(ctx, t.AccountID)
	if err != nil {
		return err
	}

	delta := decimal.Zero
	for _, create := range t.Transactions {
		create.AccountID = t.AccountID
		if create.Credit.Valid {
			delta = delta.Add(create.Credit.Decimal)
		}
		if create.Debit.Valid {
			delta = delta.Sub(create.Debit.Decimal)
		}
	}

	if _, err = writer.Transaction.InsertMany(ctx, t.Transactions); err != nil {
		return err
	}

	updated, err := writer.Account.UpdateBalance(ctx, t.AccountID, acc.Balance.Add(delta))
	if err != nil {
		return err
	}

	t.Result = updated
	return nil
}
