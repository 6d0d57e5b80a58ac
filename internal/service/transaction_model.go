package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/category"
	"github.com/carson-networks/budget-import/internal/storage/transaction"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Date        time.Time
	Description string
	Credit      decimal.NullDecimal
	Debit       decimal.NullDecimal
	Category    category.Category
	CreatedAt   time.Time
}

func TransactionFromStorage(row *transaction.Transaction) Transaction {
	y, m, d := row.Date.Date()
	return Transaction{
		ID:          row.ID,
		AccountID:   row.AccountID,
		Date:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Description: row.Description,
		Credit:      row.Credit,
		Debit:       row.Debit,
		Category:    category.Normalize(row.Category),
		CreatedAt:   row.CreatedAt,
	}
}
