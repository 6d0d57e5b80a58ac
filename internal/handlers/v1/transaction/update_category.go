package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-import/internal/category"
	"github.com/carson-networks/budget-import/internal/logging"
	"github.com/carson-networks/budget-import/internal/operator/actions"
	"github.com/carson-networks/budget-import/internal/service"
)

// UpdateCategoryInput is the Huma input for recategorizing a transaction.
type UpdateCategoryInput struct {
	TransactionID string `path:"id" doc:"Transaction UUID"`
	Body          struct {
		Category string `json:"category" doc:"New category: Food, Auto, Rent or Other"`
	}
}

// UpdateCategoryOutput is the Huma output for recategorizing a transaction.
type UpdateCategoryOutput struct {
	Body Transaction
}

// UpdateCategoryHandler handles PATCH /transactions/{id}.
type UpdateCategoryHandler struct {
	Operator actionProcessor
}

// NewUpdateCategoryHandler creates a new UpdateCategoryHandler.
func NewUpdateCategoryHandler(op actionProcessor) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{Operator: op}
}

// Register registers the update category endpoint with the Huma API.
func (h *UpdateCategoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction-category",
		Method:      http.MethodPatch,
		Path:        "/transactions/{id}",
		Summary:     "Recategorize a transaction",
		Description: "Changes the category of a persisted transaction.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *UpdateCategoryHandler) handle(ctx context.Context, input *UpdateCategoryInput) (*UpdateCategoryOutput, error) {
	logData := logging.GetLogData(ctx)

	id, err := parseID("id", input.TransactionID)
	if err != nil {
		return nil, err
	}
	cat, err := category.Parse(input.Body.Category)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid category", err)
	}

	action := &actions.UpdateCategory{TransactionID: id, Category: cat}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("updateCategoryMs")
	}
	err = h.Operator.Process(ctx, action)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, lookupError("failed to update category", err)
	}

	if logData != nil {
		logData.AddData("transactionID", id.String())
		logData.AddData("category", cat.String())
	}

	return &UpdateCategoryOutput{Body: fromService(service.TransactionFromStorage(action.Result))}, nil
}
