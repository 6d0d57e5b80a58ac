package reconciler

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-import/internal/ledger"
	"github.com/carson-networks/budget-import/internal/logging"
	"github.com/carson-networks/budget-import/internal/staging"
)

// Ledger is the part of the ledger API a commit needs.
type Ledger interface {
	ImportTransactions(ctx context.Context, accountID uuid.UUID, requests []staging.CommitRequest) (*ledger.Account, error)
	ListTransactions(ctx context.Context, accountID uuid.UUID) ([]ledger.Transaction, error)
}

// Result describes a finished commit.
type Result struct {
	Committed    int
	Account      *ledger.Account
	Transactions []ledger.Transaction
}

// Reconciler commits the selected part of a staging batch and reconciles the
// caller's State with what the ledger returns.
type Reconciler struct {
	ledger Ledger
	logger *logrus.Logger

	mu       sync.Mutex
	inFlight map[*staging.Batch]struct{}
}

func New(l Ledger, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		ledger:   l,
		logger:   logger,
		inFlight: make(map[*staging.Batch]struct{}),
	}
}

// Commit submits the selected entries of batch to accountID as one import.
//
// The batch is never modified. State is untouched unless the import lands.
// When the import lands but the re-read of the account's transactions fails,
// the ledger's account replaces the cached one, the cached transactions are
// dropped, and Commit returns the Result together with an error wrapping
// ErrRefreshFailed; the batch must not be committed again.
func (r *Reconciler) Commit(ctx context.Context, batch *staging.Batch, accountID uuid.UUID, state *State) (*Result, error) {
	if !r.acquire(batch) {
		return nil, ErrCommitInFlight
	}
	defer r.release(batch)

	logData := logging.NewLogData(r.logger)
	logData.AddData("accountID", accountID.String())
	logData.AddData("batchSize", batch.Len())

	requests, err := batch.Project(accountID)
	if err != nil {
		logData.Log().WithError(err).Warn("Reconciler.Commit.Invalid")
		return nil, err
	}
	logData.AddData("selected", len(requests))

	if len(requests) == 0 {
		logData.Log().Info("Reconciler.Commit.NothingSelected")
		return &Result{}, nil
	}

	stopImport := logData.AddTiming("importMs")
	account, err := r.ledger.ImportTransactions(ctx, accountID, requests)
	stopImport()
	if err != nil {
		logData.Log().WithError(err).Error("Reconciler.Commit.ImportFailed")
		return nil, &CommitTransportError{AccountID: accountID, Err: err}
	}
	if account == nil || account.ID != accountID {
		got := uuid.Nil
		if account != nil {
			got = account.ID
		}
		staleErr := &ReconciliationStaleError{Expected: accountID, Got: got}
		logData.Log().WithError(staleErr).Error("Reconciler.Commit.Stale")
		return nil, staleErr
	}

	result := &Result{Committed: len(requests), Account: account}

	stopRefresh := logData.AddTiming("refreshMs")
	txs, err := r.ledger.ListTransactions(ctx, accountID)
	stopRefresh()
	if err != nil {
		state.applyBalanceOnly(*account)
		logData.Log().WithError(err).Error("Reconciler.Commit.RefreshFailed")
		return result, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	result.Transactions = txs

	state.apply(*account, txs)

	logData.AddData("balance", account.Balance.String())
	logData.Log().Info("Reconciler.Commit.Complete")
	return result, nil
}

func (r *Reconciler) acquire(batch *staging.Batch) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, busy := r.inFlight[batch]; busy {
		return false
	}
	r.inFlight[batch] = struct{}{}
	return true
}

func (r *Reconciler) release(batch *staging.Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, batch)
}
