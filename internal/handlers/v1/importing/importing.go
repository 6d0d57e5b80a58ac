package importing

import (
	"context"

	"github.com/carson-networks/budget-import/internal/operator/actions"
	"github.com/carson-networks/budget-import/internal/storage/account"
)

// Account is the updated account returned by an import.
type Account struct {
	ID      string `json:"id" doc:"Account UUID"`
	Name    string `json:"name" doc:"Account name"`
	Balance string `json:"balance" doc:"Decimal balance after the import"`
}

// actionProcessor runs write actions in a database transaction.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

func fromStorage(row *account.Account) Account {
	return Account{
		ID:      row.ID.String(),
		Name:    row.Name,
		Balance: row.Balance.StringFixed(2),
	}
}
