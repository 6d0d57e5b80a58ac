package importing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-import/internal/logging"
	"github.com/carson-networks/budget-import/internal/staging"
	"github.com/carson-networks/budget-import/internal/statement"
	"github.com/carson-networks/budget-import/internal/storage/account"
)

// multipartOverhead leaves room for part headers and boundaries on top of
// the file itself.
const multipartOverhead = 64 << 10

// PreviewRow is one parsed statement row.
type PreviewRow struct {
	Date        string  `json:"date" doc:"Calendar date, YYYY-MM-DD"`
	Description string  `json:"description" doc:"Statement description"`
	Credit      *string `json:"credit,omitempty" doc:"Money in"`
	Debit       *string `json:"debit,omitempty" doc:"Money out"`
	Category    string  `json:"category,omitempty" doc:"Category carried by the statement, if any"`
}

// PreviewTransactionsInput is the Huma input for a statement preview.
type PreviewTransactionsInput struct {
	AccountID string `path:"accountId" doc:"Account UUID"`
	RawBody   multipart.Form
}

// PreviewTransactionsOutput is the Huma output for a statement preview.
type PreviewTransactionsOutput struct {
	Body []PreviewRow
}

type statementPreviewer interface {
	Preview(ctx context.Context, accountID uuid.UUID, file io.Reader) ([]staging.RawRow, error)
}

// PreviewTransactionsHandler handles POST /preview-transactions/{accountId}.
type PreviewTransactionsHandler struct {
	StatementService statementPreviewer
	MaxUploadBytes   int64
}

func NewPreviewTransactionsHandler(svc statementPreviewer, maxUploadBytes int64) *PreviewTransactionsHandler {
	return &PreviewTransactionsHandler{StatementService: svc, MaxUploadBytes: maxUploadBytes}
}

// Register registers the preview endpoint with the Huma API.
func (h *PreviewTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:  "preview-transactions",
		Method:       http.MethodPost,
		Path:         "/preview-transactions/{accountId}",
		Summary:      "Preview a statement",
		Description:  "Parses an uploaded CSV statement into rows without storing anything.",
		Tags:         []string{"Import"},
		MaxBodyBytes: h.MaxUploadBytes + multipartOverhead,
	}, h.handle)
}

func (h *PreviewTransactionsHandler) handle(ctx context.Context, input *PreviewTransactionsInput) (*PreviewTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)

	accountID, err := uuid.FromString(input.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountId", err)
	}

	files := input.RawBody.File["file"]
	if len(files) == 0 {
		return nil, huma.NewError(http.StatusBadRequest, "missing file part")
	}
	header := files[0]
	if header.Size > h.MaxUploadBytes {
		return nil, huma.NewError(http.StatusBadRequest, fmt.Sprintf("file exceeds %d bytes", h.MaxUploadBytes))
	}

	file, err := header.Open()
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "unreadable file", err)
	}
	defer file.Close()

	if logData != nil {
		logData.AddData("accountID", accountID.String())
		logData.AddData("fileBytes", header.Size)
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("previewMs")
	}
	rows, err := h.StatementService.Preview(ctx, accountID, file)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, previewError(err)
	}

	if logData != nil {
		logData.AddData("rowCount", len(rows))
	}

	resp := make([]PreviewRow, len(rows))
	for i, row := range rows {
		resp[i] = PreviewRow{
			Date:        row.Date,
			Description: row.Description,
			Category:    row.Category,
		}
		if row.Credit != nil {
			s := row.Credit.String()
			resp[i].Credit = &s
		}
		if row.Debit != nil {
			s := row.Debit.String()
			resp[i].Debit = &s
		}
	}
	return &PreviewTransactionsOutput{Body: resp}, nil
}

func previewError(err error) error {
	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		return huma.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, statement.ErrEmptyFile),
		errors.Is(err, statement.ErrNoDateColumn),
		errors.Is(err, statement.ErrNoAmountColumn):
		return huma.NewError(http.StatusBadRequest, err.Error())
	default:
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return huma.NewError(http.StatusBadRequest, "malformed statement", err)
		}
		return huma.NewError(http.StatusInternalServerError, "failed to preview statement", err)
	}
}
