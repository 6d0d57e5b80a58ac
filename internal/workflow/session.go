// Package workflow drives one interactive import session: choose an account,
// preview a statement into a staging batch, edit it, and commit it.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/budget-import/internal/breakdown"
	"github.com/carson-networks/budget-import/internal/category"
	"github.com/carson-networks/budget-import/internal/ledger"
	"github.com/carson-networks/budget-import/internal/ledgerclient"
	"github.com/carson-networks/budget-import/internal/logging"
	"github.com/carson-networks/budget-import/internal/reconciler"
	"github.com/carson-networks/budget-import/internal/staging"
)

var (
	ErrNoAccountSelected = errors.New("workflow: no account selected")
	ErrUnknownAccount    = errors.New("workflow: account not found")
	ErrNoBatch           = errors.New("workflow: no import in progress")
	ErrNothingToImport   = errors.New("workflow: statement contained no transactions")

	// ErrTransactionsNotLoaded means the cached history was dropped after a
	// commit whose re-read failed. Select the account again to refresh it.
	ErrTransactionsNotLoaded = errors.New("workflow: transactions not loaded")
)

// ParseInputError means the statement could not be turned into rows. No
// batch was created.
type ParseInputError struct {
	Err error
}

func (e *ParseInputError) Error() string { return "statement rejected: " + e.Err.Error() }

func (e *ParseInputError) Unwrap() error { return e.Err }

// Ledger is everything a session asks of the ledger.
type Ledger interface {
	reconciler.Ledger
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
	PreviewTransactions(ctx context.Context, accountID uuid.UUID, filename string, file io.Reader) ([]staging.RawRow, error)
	UpdateCategory(ctx context.Context, transactionID uuid.UUID, cat category.Category) (*ledger.Transaction, error)
	CategoryBreakdown(ctx context.Context, accountID uuid.UUID) ([]breakdown.CategoryTotal, error)
}

// Session holds the cached ledger views and at most one staging batch.
type Session struct {
	ledger     Ledger
	reconciler *reconciler.Reconciler
	state      *reconciler.State
	logger     *logrus.Logger

	mu         sync.Mutex
	accountID  uuid.UUID
	batch      *staging.Batch
	committing bool
}

func NewSession(l Ledger, logger *logrus.Logger) *Session {
	return &Session{
		ledger:     l,
		reconciler: reconciler.New(l, logger),
		state:      reconciler.NewState(),
		logger:     logger,
	}
}

// State exposes the cached account and transaction views.
func (s *Session) State() *reconciler.State {
	return s.state
}

// LoadAccounts refreshes the cached account list.
func (s *Session) LoadAccounts(ctx context.Context) ([]ledger.Account, error) {
	accounts, err := s.ledger.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	s.state.SetAccounts(accounts)
	return accounts, nil
}

// SelectAccount makes accountID the import target and refreshes both cached
// views. Choosing a different account discards any open batch.
func (s *Session) SelectAccount(ctx context.Context, accountID uuid.UUID) error {
	s.mu.Lock()
	if s.committing {
		s.mu.Unlock()
		return reconciler.ErrCommitInFlight
	}
	s.mu.Unlock()

	logData := logging.NewLogData(s.logger)
	logData.AddData("accountID", accountID.String())

	var (
		accounts []ledger.Account
		txs      []ledger.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer logData.AddTiming("listAccountsMs")()
		var err error
		accounts, err = s.ledger.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		defer logData.AddTiming("listTransactionsMs")()
		var err error
		txs, err = s.ledger.ListTransactions(gctx, accountID)
		return err
	})
	if err := g.Wait(); err != nil {
		logData.Log().WithError(err).Error("Session.SelectAccount.Failed")
		return fmt.Errorf("selecting account %s: %w", accountID, err)
	}

	found := false
	for _, acc := range accounts {
		if acc.ID == accountID {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownAccount
	}

	s.state.SetAccounts(accounts)
	s.state.SetTransactions(accountID, txs)

	s.mu.Lock()
	if s.accountID != accountID {
		s.batch = nil
	}
	s.accountID = accountID
	s.mu.Unlock()

	logData.AddData("transactionCount", len(txs))
	logData.Log().Info("Session.SelectAccount.Complete")
	return nil
}

// SelectedAccount returns the current import target.
func (s *Session) SelectedAccount() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountID, s.accountID != uuid.Nil
}

// Preview sends a statement to the parser and stages the result, replacing
// any uncommitted batch.
func (s *Session) Preview(ctx context.Context, filename string, file io.Reader) ([]staging.Entry, error) {
	s.mu.Lock()
	accountID := s.accountID
	committing := s.committing
	s.mu.Unlock()

	if accountID == uuid.Nil {
		return nil, ErrNoAccountSelected
	}
	if committing {
		return nil, reconciler.ErrCommitInFlight
	}

	rows, err := s.ledger.PreviewTransactions(ctx, accountID, filename, file)
	if err != nil {
		if ledgerclient.IsClientError(err) {
			return nil, &ParseInputError{Err: err}
		}
		return nil, fmt.Errorf("previewing statement: %w", err)
	}

	batch, err := staging.NewBatch(rows)
	if errors.Is(err, staging.ErrEmptyBatch) {
		return nil, ErrNothingToImport
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committing {
		return nil, reconciler.ErrCommitInFlight
	}
	s.batch = batch
	return batch.Entries(), nil
}

// Entries returns a snapshot of the open batch.
func (s *Session) Entries() ([]staging.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.batch == nil {
		return nil, ErrNoBatch
	}
	return s.batch.Entries(), nil
}

// Edit runs fn against the open batch. Edits are refused while that batch is
// being committed.
func (s *Session) Edit(fn func(b *staging.Batch)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.batch == nil {
		return ErrNoBatch
	}
	if s.committing {
		return reconciler.ErrCommitInFlight
	}
	fn(s.batch)
	return nil
}

// Cancel discards the open batch without touching the ledger.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.committing {
		return reconciler.ErrCommitInFlight
	}
	s.batch = nil
	return nil
}

// Commit submits the selected entries of the open batch. The batch is
// discarded once the ledger has accepted it, including when only the
// follow-up refresh failed. Any other failure keeps the batch for retry.
func (s *Session) Commit(ctx context.Context) (*reconciler.Result, error) {
	s.mu.Lock()
	if s.batch == nil {
		s.mu.Unlock()
		return nil, ErrNoBatch
	}
	if s.committing {
		s.mu.Unlock()
		return nil, reconciler.ErrCommitInFlight
	}
	s.committing = true
	batch := s.batch
	accountID := s.accountID
	s.mu.Unlock()

	result, err := s.reconciler.Commit(ctx, batch, accountID, s.state)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.committing = false

	landed := err == nil || errors.Is(err, reconciler.ErrRefreshFailed)
	if landed && result != nil && result.Committed > 0 && s.batch == batch {
		s.batch = nil
	}
	return result, err
}

// Recategorize changes the category of a persisted transaction and updates
// the cached row in place.
func (s *Session) Recategorize(ctx context.Context, transactionID uuid.UUID, cat category.Category) (*ledger.Transaction, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: %q", category.ErrUnknownCategory, cat)
	}

	updated, err := s.ledger.UpdateCategory(ctx, transactionID, cat)
	if err != nil {
		return nil, fmt.Errorf("recategorizing %s: %w", transactionID, err)
	}

	if txs, ok := s.state.Transactions(updated.AccountID); ok {
		for i := range txs {
			if txs[i].ID == updated.ID {
				txs[i] = *updated
				break
			}
		}
		s.state.SetTransactions(updated.AccountID, txs)
	}
	return updated, nil
}

// Breakdown asks the ledger for per-category totals of the selected account.
func (s *Session) Breakdown(ctx context.Context) ([]breakdown.CategoryTotal, error) {
	accountID, ok := s.SelectedAccount()
	if !ok {
		return nil, ErrNoAccountSelected
	}
	return s.ledger.CategoryBreakdown(ctx, accountID)
}

// LocalBreakdown aggregates the cached transactions of the selected account.
func (s *Session) LocalBreakdown() ([]breakdown.CategoryTotal, error) {
	accountID, ok := s.SelectedAccount()
	if !ok {
		return nil, ErrNoAccountSelected
	}
	txs, ok := s.state.Transactions(accountID)
	if !ok {
		return nil, ErrTransactionsNotLoaded
	}
	return breakdown.Aggregate(ledger.Lines(txs)), nil
}
