package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-import/internal/logging"
	"github.com/carson-networks/budget-import/internal/service"
	storageaccount "github.com/carson-networks/budget-import/internal/storage/account"
)

type GetAccountInput struct {
	AccountID string `path:"accountId" doc:"Account UUID"`
}

type GetAccountOutput struct {
	Body Account
}

type accountGetter interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*service.Account, error)
}

// GetAccountHandler handles GET /accounts/{accountId}. Clients use it to
// re-read an authoritative balance after an import.
type GetAccountHandler struct {
	AccountService accountGetter
}

func NewGetAccountHandler(svc accountGetter) *GetAccountHandler {
	return &GetAccountHandler{AccountService: svc}
}

func (h *GetAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/accounts/{accountId}",
		Summary:     "Get an account",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *GetAccountHandler) handle(ctx context.Context, input *GetAccountInput) (*GetAccountOutput, error) {
	id, err := uuid.FromString(input.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountId", err)
	}

	acc, err := h.AccountService.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, storageaccount.ErrAccountNotFound) {
			return nil, huma.NewError(http.StatusNotFound, err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to get account", err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("accountID", id.String())
	}
	return &GetAccountOutput{Body: fromService(*acc)}, nil
}
