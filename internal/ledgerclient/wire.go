package ledgerclient

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/breakdown"
	"github.com/carson-networks/budget-import/internal/category"
	"github.com/carson-networks/budget-import/internal/ledger"
	"github.com/carson-networks/budget-import/internal/staging"
)

type accountJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

type cursorJSON struct {
	Position int `json:"position"`
	Limit    int `json:"limit"`
}

type accountPageJSON struct {
	Accounts   []accountJSON `json:"accounts"`
	NextCursor *cursorJSON   `json:"nextCursor,omitempty"`
}

type createAccountJSON struct {
	Name            string `json:"name"`
	StartingBalance string `json:"startingBalance,omitempty"`
}

type transactionJSON struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"account_id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Credit      *string `json:"credit,omitempty"`
	Debit       *string `json:"debit,omitempty"`
	Category    string  `json:"category"`
}

type commitRequestJSON struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Credit      *string `json:"credit,omitempty"`
	Debit       *string `json:"debit,omitempty"`
	Category    string  `json:"category"`
	AccountID   string  `json:"account_id"`
}

type importJSON struct {
	Transactions []commitRequestJSON `json:"transactions"`
}

type updateCategoryJSON struct {
	Category string `json:"category"`
}

type categoryTotalJSON struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

type breakdownJSON struct {
	Totals []categoryTotalJSON `json:"totals"`
}

func (a accountJSON) toLedger() (ledger.Account, error) {
	id, err := uuid.FromString(a.ID)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("account id %q: %w", a.ID, err)
	}
	balance, err := decimal.NewFromString(a.Balance)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("account balance %q: %w", a.Balance, err)
	}
	return ledger.Account{ID: id, Name: a.Name, Balance: balance}, nil
}

func (t transactionJSON) toLedger() (ledger.Transaction, error) {
	id, err := uuid.FromString(t.ID)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("transaction id %q: %w", t.ID, err)
	}
	accountID, err := uuid.FromString(t.AccountID)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("transaction account_id %q: %w", t.AccountID, err)
	}
	date, err := staging.ParseDate(t.Date)
	if err != nil {
		return ledger.Transaction{}, err
	}
	credit, err := nullDecimal(t.Credit)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("transaction credit: %w", err)
	}
	debit, err := nullDecimal(t.Debit)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("transaction debit: %w", err)
	}
	return ledger.Transaction{
		ID:          id,
		AccountID:   accountID,
		Date:        date,
		Description: t.Description,
		Credit:      credit,
		Debit:       debit,
		Category:    category.Normalize(t.Category),
	}, nil
}

func (c categoryTotalJSON) toBreakdown() (breakdown.CategoryTotal, error) {
	total, err := decimal.NewFromString(c.Total)
	if err != nil {
		return breakdown.CategoryTotal{}, fmt.Errorf("total for %s: %w", c.Category, err)
	}
	return breakdown.CategoryTotal{Category: category.Normalize(c.Category), Total: total}, nil
}

func commitRequestToJSON(req staging.CommitRequest) commitRequestJSON {
	return commitRequestJSON{
		Date:        req.Date.Format(staging.DateLayout),
		Description: req.Description,
		Credit:      decimalText(req.Credit),
		Debit:       decimalText(req.Debit),
		Category:    req.Category.String(),
		AccountID:   req.AccountID.String(),
	}
}

func nullDecimal(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func decimalText(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
