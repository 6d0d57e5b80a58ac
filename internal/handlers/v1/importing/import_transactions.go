package importing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-import/internal/category"
	"github.com/carson-networks/budget-import/internal/logging"
	"github.com/carson-networks/budget-import/internal/operator/actions"
	"github.com/carson-networks/budget-import/internal/staging"
	"github.com/carson-networks/budget-import/internal/storage/account"
	"github.com/carson-networks/budget-import/internal/storage/transaction"
)

// ImportRow is one transaction in an import request.
type ImportRow struct {
	Date        string  `json:"date" doc:"Calendar date, YYYY-MM-DD"`
	Description string  `json:"description" doc:"Transaction description"`
	Credit      *string `json:"credit,omitempty" doc:"Money in, non-negative decimal"`
	Debit       *string `json:"debit,omitempty" doc:"Money out, non-negative decimal"`
	Category    string  `json:"category,omitempty" doc:"Category name; empty means Other"`
	AccountID   string  `json:"account_id,omitempty" doc:"Must match the path account when present"`
}

// ImportTransactionsInput is the Huma input for an import.
type ImportTransactionsInput struct {
	AccountID string `path:"accountId" doc:"Account UUID"`
	Body      struct {
		Transactions []ImportRow `json:"transactions" minItems:"1" doc:"Rows to record"`
	}
}

// ImportTransactionsOutput is the Huma output for an import.
type ImportTransactionsOutput struct {
	Body Account
}

// ImportTransactionsHandler handles POST /import-transactions/{accountId}.
type ImportTransactionsHandler struct {
	Operator actionProcessor
}

func NewImportTransactionsHandler(op actionProcessor) *ImportTransactionsHandler {
	return &ImportTransactionsHandler{Operator: op}
}

// Register registers the import endpoint with the Huma API.
func (h *ImportTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "import-transactions",
		Method:      http.MethodPost,
		Path:        "/import-transactions/{accountId}",
		Summary:     "Import transactions",
		Description: "Records a batch of transactions against one account and updates its balance atomically.",
		Tags:        []string{"Import"},
	}, h.handle)
}

func (h *ImportTransactionsHandler) handle(ctx context.Context, input *ImportTransactionsInput) (*ImportTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)

	accountID, err := uuid.FromString(input.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountId", err)
	}

	creates, details := parseImportRows(accountID, input.Body.Transactions)
	if len(details) > 0 {
		return nil, huma.NewError(http.StatusBadRequest, "invalid transactions", details...)
	}

	if logData != nil {
		logData.AddData("accountID", accountID.String())
		logData.AddData("rowCount", len(creates))
	}

	action := &actions.ImportTransactions{
		AccountID:    accountID,
		Transactions: creates,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, huma.NewError(http.StatusNotFound, err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to import transactions", err)
	}

	return &ImportTransactionsOutput{Body: fromStorage(action.Result)}, nil
}

// parseImportRows validates every row and reports all problems at once; a
// batch with any bad row is rejected whole.
func parseImportRows(accountID uuid.UUID, rows []ImportRow) ([]*transaction.TransactionCreate, []error) {
	var details []error
	fail := func(i int, field string, value any, err error) {
		details = append(details, &huma.ErrorDetail{
			Message:  err.Error(),
			Location: fmt.Sprintf("body.transactions[%d].%s", i, field),
			Value:    value,
		})
	}

	creates := make([]*transaction.TransactionCreate, 0, len(rows))
	for i, row := range rows {
		before := len(details)

		date, err := staging.ParseDate(row.Date)
		if err != nil {
			fail(i, "date", row.Date, err)
		}

		create := &transaction.TransactionCreate{
			AccountID:   accountID,
			Date:        date,
			Description: row.Description,
		}
		if row.Credit != nil {
			if create.Credit, err = staging.ParseAmount(*row.Credit); err != nil {
				fail(i, "credit", *row.Credit, err)
			}
		}
		if row.Debit != nil {
			if create.Debit, err = staging.ParseAmount(*row.Debit); err != nil {
				fail(i, "debit", *row.Debit, err)
			}
		}
		if len(details) == before && !create.Credit.Valid && !create.Debit.Valid {
			fail(i, "credit", nil, staging.ErrMissingAmount)
		}

		cat := category.Other
		if strings.TrimSpace(row.Category) != "" {
			if cat, err = category.Parse(row.Category); err != nil {
				fail(i, "category", row.Category, err)
			}
		}
		create.Category = cat.String()

		if row.AccountID != "" {
			rowAccount, err := uuid.FromString(row.AccountID)
			if err != nil || rowAccount != accountID {
				fail(i, "account_id", row.AccountID, errors.New("account_id does not match the path account"))
			}
		}

		creates = append(creates, create)
	}
	return creates, details
}
