package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-import/internal/category"
	"github.com/carson-networks/budget-import/internal/storage"
	"github.com/carson-networks/budget-import/internal/storage/transaction"
)

type UpdateCategory struct {
	TransactionID uuid.UUID
	Category      category.Category

	Result *transaction.Transaction
}

func (u *UpdateCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	if !u.Category.Valid() {
		return category.ErrUnknownCategory
	}

	updated, err := writer.Transaction.UpdateCategory(ctx, u.TransactionID, u.Category.String())
	if err != nil {
		return err
	}

	u.Result = updated
	return nil
}
