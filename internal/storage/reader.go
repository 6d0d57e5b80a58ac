package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/budget-import/internal/storage/account"
	"github.com/carson-networks/budget-import/internal/storage/transaction"
)

type Reader struct {
	Accounts     *account.Reader
	Transactions *transaction.Reader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Accounts:     account.NewReader(exec),
		Transactions: transaction.NewReader(exec),
	}
}
