package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-import/internal/breakdown"
	"github.com/carson-networks/budget-import/internal/logging"
)

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Category string `json:"category" doc:"Spending category"`
	Total    string `json:"total" doc:"Debits minus credits for the category"`
}

// CategoryBreakdownInput is the Huma input for the breakdown report.
type CategoryBreakdownInput struct {
	AccountID string `path:"accountId" doc:"Account UUID"`
}

// CategoryBreakdownOutput is the Huma output for the breakdown report.
type CategoryBreakdownOutput struct {
	Body struct {
		Totals []CategoryTotal `json:"totals" doc:"Totals ordered by category name"`
	}
}

type breakdownReporter interface {
	CategoryBreakdown(ctx context.Context, accountID uuid.UUID) ([]breakdown.CategoryTotal, error)
}

// CategoryBreakdownHandler handles GET /accounts/{accountId}/category-breakdown.
type CategoryBreakdownHandler struct {
	TransactionService breakdownReporter
}

func NewCategoryBreakdownHandler(svc breakdownReporter) *CategoryBreakdownHandler {
	return &CategoryBreakdownHandler{TransactionService: svc}
}

// Register registers the breakdown endpoint with the Huma API.
func (h *CategoryBreakdownHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "category-breakdown",
		Method:      http.MethodGet,
		Path:        "/accounts/{accountId}/category-breakdown",
		Summary:     "Category breakdown",
		Description: "Totals an account's transactions per category.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *CategoryBreakdownHandler) handle(ctx context.Context, input *CategoryBreakdownInput) (*CategoryBreakdownOutput, error) {
	logData := logging.GetLogData(ctx)

	accountID, err := parseID("accountId", input.AccountID)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("categoryBreakdownMs")
	}
	totals, err := h.TransactionService.CategoryBreakdown(ctx, accountID)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, lookupError("failed to build category breakdown", err)
	}

	out := &CategoryBreakdownOutput{}
	out.Body.Totals = make([]CategoryTotal, len(totals))
	for i, total := range totals {
		out.Body.Totals[i] = CategoryTotal{
			Category: total.Category.String(),
			Total:    total.Total.StringFixed(2),
		}
	}
	return out, nil
}
