package account

import (
	"context"

	"github.com/carson-networks/budget-import/internal/operator/actions"
	"github.com/carson-networks/budget-import/internal/service"
	storageaccount "github.com/carson-networks/budget-import/internal/storage/account"
)

// Account is the API response model for an account.
type Account struct {
	ID      string `json:"id" doc:"Account UUID"`
	Name    string `json:"name" doc:"Account name"`
	Balance string `json:"balance" doc:"Decimal balance"`
}

// actionProcessor runs write actions in a database transaction.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

func fromService(acc service.Account) Account {
	return Account{
		ID:      acc.ID.String(),
		Name:    acc.Name,
		Balance: acc.Balance.StringFixed(2),
	}
}

func fromStorage(row *storageaccount.Account) Account {
	return fromService(service.AccountFromStorage(row))
}
