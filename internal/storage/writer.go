package storage

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/budget-import/internal/storage/account"
	"github.com/carson-networks/budget-import/internal/storage/transaction"
)

// AccountWriter is the account half of a Writer.
type AccountWriter interface {
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error)
	Create(ctx context.Context, create *account.AccountCreate) (*account.Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) (*account.Account, error)
}

// TransactionWriter is the transaction half of a Writer.
type TransactionWriter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	InsertMany(ctx context.Context, creates []*transaction.TransactionCreate) ([]*transaction.Transaction, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, category string) (*transaction.Transaction, error)
}

// Committer ends a database transaction.
type Committer interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Writer struct {
	tx          Committer
	Account     AccountWriter
	Transaction TransactionWriter
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:          tx,
		Account:     account.NewWriter(tx),
		Transaction: transaction.NewWriter(tx),
	}
}

// NewWriterFrom assembles a Writer from its parts.
func NewWriterFrom(tx Committer, accounts AccountWriter, transactions TransactionWriter) *Writer {
	return &Writer{
		tx:          tx,
		Account:     accounts,
		Transaction: transactions,
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
