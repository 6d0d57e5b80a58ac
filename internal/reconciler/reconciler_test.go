package reconciler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-import/internal/category"
	"github.com/carson-networks/budget-import/internal/ledger"
	"github.com/carson-networks/budget-import/internal/staging"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) ImportTransactions(ctx context.Context, accountID uuid.UUID, requests []staging.CommitRequest) (*ledger.Account, error) {
	args := m.Called(ctx, accountID, requests)
	acc, _ := args.Get(0).(*ledger.Account)
	return acc, args.Error(1)
}

func (m *mockLedger) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]ledger.Transaction, error) {
	args := m.Called(ctx, accountID)
	txs, _ := args.Get(0).([]ledger.Transaction)
	return txs, args.Error(1)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newTestReconciler(t *testing.T) (*Reconciler, *mockLedger) {
	t.Helper()
	l := &mockLedger{}
	t.Cleanup(func() { l.AssertExpectations(t) })
	return New(l, quietLogger()), l
}

func threeRowBatch(t *testing.T) *staging.Batch {
	t.Helper()
	batch, err := staging.NewBatch([]staging.RawRow{
		{Date: "2025-01-01", Description: "Grocer", Debit: amount("20.00"), Category: "Food"},
		{Date: "2025-01-02", Description: "Refund", Credit: amount("5.00"), Category: "Food"},
		{Date: "2025-01-03", Description: "Gas", Debit: amount("40.00"), Category: "Auto"},
	})
	require.NoError(t, err)
	return batch
}

func seededState(accountID uuid.UUID, balance string) *State {
	state := NewState()
	state.SetAccounts([]ledger.Account{
		{ID: accountID, Name: "Checking", Balance: decimal.RequireFromString(balance)},
	})
	state.SetTransactions(accountID, []ledger.Transaction{})
	return state
}

// -- Commit tests --

func TestCommit_NothingSelectedIsNoOp(t *testing.T) {
	r, l := newTestReconciler(t)
	accountID := uuid.Must(uuid.NewV4())
	state := seededState(accountID, "100.00")

	batch := threeRowBatch(t)
	batch.SetAllSelected(false)

	result, err := r.Commit(context.Background(), batch, accountID, state)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Committed)
	assert.Nil(t, result.Account)
	l.AssertNotCalled(t, "ImportTransactions", mock.Anything, mock.Anything, mock.Anything)

	acc, _ := state.Account(accountID)
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("100.00")))
}

func TestCommit_SubmitsOnlySelectedEntries(t *testing.T) {
	r, l := newTestReconciler(t)
	accountID := uuid.Must(uuid.NewV4())
	state := seededState(accountID, "100.00")

	batch := threeRowBatch(t)
	batch.ToggleSelected(1)
	batch.SetField(2, staging.FieldCategory, "Rent")

	// No arithmetic over the cached 100.00 and the selected rows gives this.
	updated := &ledger.Account{ID: accountID, Name: "Checking", Balance: decimal.RequireFromString("1234.56")}
	fresh := []ledger.Transaction{
		{ID: uuid.Must(uuid.NewV4()), AccountID: accountID, Description: "Grocer", Category: category.Food},
		{ID: uuid.Must(uuid.NewV4()), AccountID: accountID, Description: "Gas", Category: category.Rent},
	}

	l.On("ImportTransactions", mock.Anything, accountID, mock.MatchedBy(func(reqs []staging.CommitRequest) bool {
		return len(reqs) == 2 &&
			reqs[0].Description == "Grocer" &&
			reqs[0].Category == category.Food &&
			reqs[0].Debit.Decimal.Equal(decimal.RequireFromString("20.00")) &&
			!reqs[0].Credit.Valid &&
			reqs[1].Description == "Gas" &&
			reqs[1].Category == category.Rent &&
			reqs[1].Debit.Decimal.Equal(decimal.RequireFromString("40.00")) &&
			reqs[1].Date.Equal(time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC))
	})).Return(updated, nil).Once()
	l.On("ListTransactions", mock.Anything, accountID).Return(fresh, nil).Once()

	result, err := r.Commit(context.Background(), batch, accountID, state)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Committed)
	assert.Equal(t, updated, result.Account)
	assert.Equal(t, fresh, result.Transactions)

	acc, ok := state.Account(accountID)
	require.True(t, ok)
	assert.Equal(t, "1234.56", acc.Balance.StringFixed(2))

	txs, ok := state.Transactions(accountID)
	require.True(t, ok)
	assert.Equal(t, fresh, txs)

	// The batch itself is left as edited.
	assert.False(t, batch.Entry(1).Selected)
	assert.Equal(t, category.Rent, batch.Entry(2).Category)
}

func TestCommit_TransportFailureLeavesEverythingIntact(t *testing.T) {
	r, l := newTestReconciler(t)
	accountID := uuid.Must(uuid.NewV4())
	state := seededState(accountID, "100.00")

	batch := threeRowBatch(t)
	batch.SetField(2, staging.FieldCategory, "Rent")
	before := batch.Entries()

	transportErr := errors.New("connection refused")
	l.On("ImportTransactions", mock.Anything, accountID, mock.Anything).Return(nil, transportErr).Once()

	result, err := r.Commit(context.Background(), batch, accountID, state)

	assert.Nil(t, result)
	var commitErr *CommitTransportError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, accountID, commitErr.AccountID)
	assert.ErrorIs(t, err, transportErr)

	assert.Equal(t, before, batch.Entries())
	acc, _ := state.Account(accountID)
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("100.00")))
	l.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything)
}

func TestCommit_StaleAccountRejected(t *testing.T) {
	r, l := newTestReconciler(t)
	accountID := uuid.Must(uuid.NewV4())
	otherID := uuid.Must(uuid.NewV4())
	state := seededState(accountID, "100.00")

	l.On("ImportTransactions", mock.Anything, accountID, mock.Anything).
		Return(&ledger.Account{ID: otherID, Balance: decimal.Zero}, nil).Once()

	result, err := r.Commit(context.Background(), threeRowBatch(t), accountID, state)

	assert.Nil(t, result)
	var staleErr *ReconciliationStaleError
	require.ErrorAs(t, err, &staleErr)
	assert.Equal(t, accountID, staleErr.Expected)
	assert.Equal(t, otherID, staleErr.Got)

	acc, _ := state.Account(accountID)
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("100.00")))
}

func TestCommit_ValidationErrorMakesNoCall(t *testing.T) {
	r, l := newTestReconciler(t)
	accountID := uuid.Must(uuid.NewV4())
	state := seededState(accountID, "100.00")

	batch := threeRowBatch(t)
	batch.SetField(0, staging.FieldDate, "not a date")
	batch.SetField(2, staging.FieldDebit, "abc")

	_, err := r.Commit(context.Background(), batch, accountID, state)

	var validationErr *staging.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Entries, 2)
	l.AssertNotCalled(t, "ImportTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommit_RefreshFailureTakesLedgerBalanceAndDropsHistory(t *testing.T) {
	r, l := newTestReconciler(t)
	accountID := uuid.Must(uuid.NewV4())
	state := seededState(accountID, "100.00")
	state.SetTransactions(accountID, []ledger.Transaction{{ID: uuid.Must(uuid.NewV4()), Description: "old"}})

	updated := &ledger.Account{ID: accountID, Name: "Checking", Balance: decimal.RequireFromString("987.65")}
	l.On("ImportTransactions", mock.Anything, accountID, mock.Anything).Return(updated, nil).Once()
	l.On("ListTransactions", mock.Anything, accountID).Return(nil, errors.New("timeout")).Once()

	result, err := r.Commit(context.Background(), threeRowBatch(t), accountID, state)

	assert.ErrorIs(t, err, ErrRefreshFailed)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.Committed)
	assert.Equal(t, updated, result.Account)

	acc, ok := state.Account(accountID)
	require.True(t, ok)
	assert.Equal(t, "987.65", acc.Balance.StringFixed(2))

	txs, ok := state.Transactions(accountID)
	assert.False(t, ok)
	assert.Nil(t, txs)

	_, _, ok = state.Snapshot(accountID)
	assert.False(t, ok)
}

func TestCommit_SecondCommitWhileInFlightRejected(t *testing.T) {
	r, l := newTestReconciler(t)
	accountID := uuid.Must(uuid.NewV4())
	state := seededState(accountID, "100.00")
	batch := threeRowBatch(t)

	started := make(chan struct{})
	unblock := make(chan struct{})
	updated := &ledger.Account{ID: accountID, Balance: decimal.RequireFromString("35.00")}

	l.On("ImportTransactions", mock.Anything, accountID, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-unblock
		}).
		Return(updated, nil).Once()
	l.On("ListTransactions", mock.Anything, accountID).Return([]ledger.Transaction{}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := r.Commit(context.Background(), batch, accountID, state)
		done <- err
	}()

	<-started
	_, err := r.Commit(context.Background(), batch, accountID, state)
	assert.ErrorIs(t, err, ErrCommitInFlight)

	close(unblock)
	assert.NoError(t, <-done)
}

// -- State tests --

func TestState_ReplaceAccountAppendsUnknown(t *testing.T) {
	state := NewState()
	id := uuid.Must(uuid.NewV4())

	state.ReplaceAccount(ledger.Account{ID: id, Name: "Savings"})

	acc, ok := state.Account(id)
	assert.True(t, ok)
	assert.Equal(t, "Savings", acc.Name)
	assert.Len(t, state.Accounts(), 1)
}

func TestState_TransactionsReturnsCopy(t *testing.T) {
	state := NewState()
	id := uuid.Must(uuid.NewV4())
	state.SetTransactions(id, []ledger.Transaction{{Description: "a"}})

	txs, ok := state.Transactions(id)
	require.True(t, ok)
	txs[0].Description = "changed"

	again, _ := state.Transactions(id)
	assert.Equal(t, "a", again[0].Description)
}

func TestState_SnapshotReadsAccountAndHistoryTogether(t *testing.T) {
	state := NewState()
	id := uuid.Must(uuid.NewV4())
	state.SetAccounts([]ledger.Account{{ID: id, Name: "Checking", Balance: decimal.NewFromInt(5)}})

	_, _, ok := state.Snapshot(id)
	assert.False(t, ok, "no history cached yet")

	state.apply(ledger.Account{ID: id, Name: "Checking", Balance: decimal.NewFromInt(7)},
		[]ledger.Transaction{{Description: "new"}})

	acc, txs, ok := state.Snapshot(id)
	require.True(t, ok)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(7)))
	require.Len(t, txs, 1)
	assert.Equal(t, "new", txs[0].Description)
}

func TestState_SnapshotUnknownAccount(t *testing.T) {
	state := NewState()
	id := uuid.Must(uuid.NewV4())
	state.SetTransactions(id, nil)

	_, _, ok := state.Snapshot(id)
	assert.False(t, ok)
}

func TestState_MissingTransactions(t *testing.T) {
	_, ok := NewState().Transactions(uuid.Must(uuid.NewV4()))
	assert.False(t, ok)
}
