package transaction

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/operator/actions"
	"github.com/carson-networks/budget-import/internal/service"
	"github.com/carson-networks/budget-import/internal/staging"
	"github.com/carson-networks/budget-import/internal/storage/account"
	storagetransaction "github.com/carson-networks/budget-import/internal/storage/transaction"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string  `json:"id" doc:"Transaction UUID"`
	AccountID   string  `json:"account_id" doc:"Account UUID"`
	Date        string  `json:"date" doc:"Calendar date, YYYY-MM-DD"`
	Description string  `json:"description" doc:"Statement description"`
	Credit      *string `json:"credit,omitempty" doc:"Money in, absent when none"`
	Debit       *string `json:"debit,omitempty" doc:"Money out, absent when none"`
	Category    string  `json:"category" enum:"Food,Auto,Rent,Other" doc:"Spending category"`
}

// actionProcessor runs write actions in a database transaction.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

func fromService(tx service.Transaction) Transaction {
	return Transaction{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID.String(),
		Date:        tx.Date.Format(staging.DateLayout),
		Description: tx.Description,
		Credit:      amountText(tx.Credit),
		Debit:       amountText(tx.Debit),
		Category:    tx.Category.String(),
	}
}

func amountText(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(2)
	return &s
}

func parseID(name, value string) (uuid.UUID, error) {
	id, err := uuid.FromString(value)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+name, err)
	}
	return id, nil
}

func lookupError(msg string, err error) error {
	switch {
	case errors.Is(err, account.ErrAccountNotFound), errors.Is(err, storagetransaction.ErrTransactionNotFound):
		return huma.NewError(http.StatusNotFound, err.Error())
	default:
		return huma.NewError(http.StatusInternalServerError, msg, err)
	}
}
