package service

import (
	"github.com/carson-networks/budget-import/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
	Statement   *StatementService
}

// NewService creates a new Service on top of the storage readers.
func NewService(reader *storage.Reader) *Service {
	return &Service{
		Transaction: NewTransactionService(reader.Accounts, reader.Transactions),
		Account:     NewAccountService(reader.Accounts),
		Statement:   NewStatementService(reader.Accounts),
	}
}
