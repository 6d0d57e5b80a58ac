// Package ledgerclient talks to the ledger HTTP API.
package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/breakdown"
	"github.com/carson-networks/budget-import/internal/category"
	"github.com/carson-networks/budget-import/internal/ledger"
	"github.com/carson-networks/budget-import/internal/staging"
)

const accountPageSize = 100

// APIError is a non-2xx answer from the ledger.
type APIError struct {
	Status int
	Title  string
	Detail string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("ledger responded %d", e.Status)
	if e.Title != "" {
		msg += ": " + e.Title
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IsClientError reports whether err is an APIError with a 4xx status.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}

// Client is a ledger API client. The zero value is not usable; use New.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// DefaultTimeout bounds every request made through a client built without
// its own http.Client.
const DefaultTimeout = 30 * time.Second

// New returns a client for the ledger at baseURL. A nil httpClient gets a
// default with DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListAccounts reads every page of the account list.
func (c *Client) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	var accounts []ledger.Account
	position := 0
	for {
		query := url.Values{}
		query.Set("position", strconv.Itoa(position))
		query.Set("limit", strconv.Itoa(accountPageSize))

		var page accountPageJSON
		if err := c.doJSON(ctx, http.MethodGet, "/accounts/?"+query.Encode(), nil, &page); err != nil {
			return nil, err
		}
		for _, a := range page.Accounts {
			acc, err := a.toLedger()
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, acc)
		}
		if page.NextCursor == nil {
			return accounts, nil
		}
		position = page.NextCursor.Position
	}
}

// CreateAccount creates an account with the given opening balance.
func (c *Client) CreateAccount(ctx context.Context, name string, startingBalance decimal.Decimal) (*ledger.Account, error) {
	body := createAccountJSON{Name: name, StartingBalance: startingBalance.String()}

	var out accountJSON
	if err := c.doJSON(ctx, http.MethodPost, "/accounts/", body, &out); err != nil {
		return nil, err
	}
	acc, err := out.toLedger()
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// PreviewTransactions uploads a statement file and returns the parsed rows.
func (c *Client) PreviewTransactions(ctx context.Context, accountID uuid.UUID, filename string, file io.Reader) ([]staging.RawRow, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/preview-transactions/"+accountID.String(), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var rows []staging.RawRow
	if err := c.do(req, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ImportTransactions commits requests to accountID in one call and returns
// the updated account.
func (c *Client) ImportTransactions(ctx context.Context, accountID uuid.UUID, requests []staging.CommitRequest) (*ledger.Account, error) {
	body := importJSON{Transactions: make([]commitRequestJSON, len(requests))}
	for i, req := range requests {
		body.Transactions[i] = commitRequestToJSON(req)
	}

	var out accountJSON
	if err := c.doJSON(ctx, http.MethodPost, "/import-transactions/"+accountID.String(), body, &out); err != nil {
		return nil, err
	}
	acc, err := out.toLedger()
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// ListTransactions returns every transaction recorded against accountID.
func (c *Client) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]ledger.Transaction, error) {
	var out []transactionJSON
	if err := c.doJSON(ctx, http.MethodGet, "/accounts/"+accountID.String()+"/transactions/", nil, &out); err != nil {
		return nil, err
	}

	txs := make([]ledger.Transaction, len(out))
	for i, t := range out {
		tx, err := t.toLedger()
		if err != nil {
			return nil, err
		}
		txs[i] = tx
	}
	return txs, nil
}

// UpdateCategory recategorizes a persisted transaction.
func (c *Client) UpdateCategory(ctx context.Context, transactionID uuid.UUID, cat category.Category) (*ledger.Transaction, error) {
	var out transactionJSON
	body := updateCategoryJSON{Category: cat.String()}
	if err := c.doJSON(ctx, http.MethodPatch, "/transactions/"+transactionID.String(), body, &out); err != nil {
		return nil, err
	}
	tx, err := out.toLedger()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// CategoryBreakdown returns the ledger's per-category totals for accountID.
func (c *Client) CategoryBreakdown(ctx context.Context, accountID uuid.UUID) ([]breakdown.CategoryTotal, error) {
	var out breakdownJSON
	if err := c.doJSON(ctx, http.MethodGet, "/accounts/"+accountID.String()+"/category-breakdown", nil, &out); err != nil {
		return nil, err
	}

	totals := make([]breakdown.CategoryTotal, len(out.Totals))
	for i, t := range out.Totals {
		total, err := t.toBreakdown()
		if err != nil {
			return nil, err
		}
		totals[i] = total
	}
	return totals, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &problem); err == nil {
		apiErr.Title = problem.Title
		apiErr.Detail = problem.Detail
	} else {
		apiErr.Detail = strings.TrimSpace(string(raw))
	}
	if apiErr.Title == "" {
		apiErr.Title = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
