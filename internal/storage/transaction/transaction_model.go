package transaction

import (
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

var ErrTransactionNotFound = errors.New("transaction not found")

const tableName = "transactions"

var columns = []any{"id", "account_id", "date", "description", "credit", "debit", "category", "created_at"}

// Transaction represents a transaction record. Credit and debit are stored
// independently; either may be NULL.
type Transaction struct {
	ID          uuid.UUID           `db:"id"`
	AccountID   uuid.UUID           `db:"account_id"`
	Date        time.Time           `db:"date"`
	Description string              `db:"description"`
	Credit      decimal.NullDecimal `db:"credit"`
	Debit       decimal.NullDecimal `db:"debit"`
	Category    string              `db:"category"`
	CreatedAt   time.Time           `db:"created_at"`
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	AccountID   uuid.UUID
	Date        time.Time
	Description string
	Credit      decimal.NullDecimal
	Debit       decimal.NullDecimal
	Category    string
}
