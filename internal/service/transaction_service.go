package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-import/internal/breakdown"
	"github.com/carson-networks/budget-import/internal/storage/transaction"
)

type transactionReader interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
}

// TransactionService handles transaction reads and reports.
type TransactionService struct {
	accounts     accountReader
	transactions transactionReader
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(accounts accountReader, transactions transactionReader) *TransactionService {
	return &TransactionService{accounts: accounts, transactions: transactions}
}

// ListTransactions returns every transaction of an account ordered by date.
// An unknown account is an error rather than an empty list.
func (s *TransactionService) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]Transaction, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return nil, err
	}

	rows, err := s.transactions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	txs := make([]Transaction, len(rows))
	for i, row := range rows {
		txs[i] = TransactionFromStorage(row)
	}
	return txs, nil
}

// GetTransaction retrieves a transaction by ID.
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	row, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tx := TransactionFromStorage(row)
	return &tx, nil
}

// CategoryBreakdown totals an account's transactions per category.
func (s *TransactionService) CategoryBreakdown(ctx context.Context, accountID uuid.UUID) ([]breakdown.CategoryTotal, error) {
	txs, err := s.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, err
	}

	lines := make([]breakdown.Line, len(txs))
	for i, tx := range txs {
		lines[i] = breakdown.Line{Category: tx.Category.String()}
		if tx.Credit.Valid {
			lines[i].Credit = tx.Credit.Decimal
		}
		if tx.Debit.Valid {
			lines[i].Debit = tx.Debit.Decimal
		}
	}
	return breakdown.Aggregate(lines), nil
}
