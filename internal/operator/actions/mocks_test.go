package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/budget-import/internal/storage"
	"github.com/carson-networks/budget-import/internal/storage/account"
	"github.com/carson-networks/budget-import/internal/storage/transaction"
)

type mockAccountWriter struct {
	mock.Mock
}

func (m *mockAccountWriter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*account.Account)
	return acc, args.Error(1)
}

func (m *mockAccountWriter) Create(ctx context.Context, create *account.AccountCreate) (*account.Account, error) {
	args := m.Called(ctx, create)
	acc, _ := args.Get(0).(*account.Account)
	return acc, args.Error(1)
}

func (m *mockAccountWriter) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) (*account.Account, error) {
	args := m.Called(ctx, id, balance)
	acc, _ := args.Get(0).(*account.Account)
	return acc, args.Error(1)
}

type mockTransactionWriter struct {
	mock.Mock
}

func (m *mockTransactionWriter) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*transaction.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionWriter) InsertMany(ctx context.Context, creates []*transaction.TransactionCreate) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, creates)
	txs, _ := args.Get(0).([]*transaction.Transaction)
	return txs, args.Error(1)
}

func (m *mockTransactionWriter) UpdateCategory(ctx context.Context, id uuid.UUID, category string) (*transaction.Transaction, error) {
	args := m.Called(ctx, id, category)
	tx, _ := args.Get(0).(*transaction.Transaction)
	return tx, args.Error(1)
}

func newTestWriter() (*storage.Writer, *mockAccountWriter, *mockTransactionWriter) {
	accounts := &mockAccountWriter{}
	transactions := &mockTransactionWriter{}
	return storage.NewWriterFrom(nil, accounts, transactions), accounts, transactions
}
