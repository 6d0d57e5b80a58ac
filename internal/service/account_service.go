package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-import/internal/storage/account"
)

const defaultAccountLimit = 20

type accountReader interface {
	List(ctx context.Context, filter *account.AccountFilter) (*account.AccountListResult, error)
	FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// AccountService handles account reads. Writes go through the operator.
type AccountService struct {
	accounts accountReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts accountReader) *AccountService {
	return &AccountService{accounts: accounts}
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	row, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	acc := AccountFromStorage(row)
	return &acc, nil
}

// ListAccounts returns a page of accounts using cursor pagination.
func (s *AccountService) ListAccounts(ctx context.Context, cursor *AccountCursor) ([]Account, *AccountCursor, error) {
	filter := &account.AccountFilter{Limit: defaultAccountLimit}
	if cursor != nil {
		if cursor.Limit > 0 {
			filter.Limit = cursor.Limit
		}
		filter.Offset = cursor.Position
	}

	result, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	accounts := make([]Account, len(result.Accounts))
	for i, row := range result.Accounts {
		accounts[i] = AccountFromStorage(row)
	}

	var next *AccountCursor
	if result.NextCursor != nil {
		next = &AccountCursor{
			Position: result.NextCursor.Position,
			Limit:    result.NextCursor.Limit,
		}
	}
	return accounts, next, nil
}
