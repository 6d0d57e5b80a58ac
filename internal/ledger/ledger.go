package ledger

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/breakdown"
	"github.com/carson-networks/budget-import/internal/category"
)

// Account is the ledger's view of an account. Balance is authoritative on the
// ledger side and is never recomputed by clients.
type Account struct {
	ID      uuid.UUID
	Name    string
	Balance decimal.Decimal
}

// Transaction is a committed ledger transaction.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Date        time.Time
	Description string
	Credit      decimal.NullDecimal
	Debit       decimal.NullDecimal
	Category    category.Category
}

// Lines converts transactions into breakdown input.
func Lines(txs []Transaction) []breakdown.Line {
	lines := make([]breakdown.Line, len(txs))
	for i, tx := range txs {
		lines[i] = breakdown.Line{
			Category: string(tx.Category),
			Credit:   tx.Credit.Decimal,
			Debit:    tx.Debit.Decimal,
		}
	}
	return lines
}
