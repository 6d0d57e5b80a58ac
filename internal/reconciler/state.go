package reconciler

import (
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/patrickmn/go-cache"

	"github.com/carson-networks/budget-import/internal/ledger"
)

// State is the caller-owned view of ledger data: the account list and the
// transaction list of each account that has been read. Views are refreshed
// only at explicit reconciliation points, so reads between refreshes may be
// stale.
type State struct {
	mu           sync.RWMutex
	accounts     []ledger.Account
	transactions *cache.Cache
}

func NewState() *State {
	return &State{
		transactions: cache.New(cache.NoExpiration, 0),
	}
}

// Accounts returns a copy of the cached account list.
func (s *State) Accounts() []ledger.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// SetAccounts replaces the cached account list.
func (s *State) SetAccounts(accounts []ledger.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = make([]ledger.Account, len(accounts))
	copy(s.accounts, accounts)
}

// Account returns the cached account with the given id.
func (s *State) Account(id uuid.UUID) (ledger.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return ledger.Account{}, false
}

// ReplaceAccount overwrites the cached account with the same id, or appends
// it when the account was not cached yet.
func (s *State) ReplaceAccount(account ledger.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceAccountLocked(account)
}

func (s *State) replaceAccountLocked(account ledger.Account) {
	for i := range s.accounts {
		if s.accounts[i].ID == account.ID {
			s.accounts[i] = account
			return
		}
	}
	s.accounts = append(s.accounts, account)
}

// Transactions returns a copy of the cached transactions for an account.
// ok is false when the list was never read or has been invalidated.
func (s *State) Transactions(accountID uuid.UUID) ([]ledger.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.transactionsLocked(accountID)
}

// SetTransactions replaces the cached transactions for an account.
func (s *State) SetTransactions(accountID uuid.UUID, txs []ledger.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setTransactionsLocked(accountID, txs)
}

// Snapshot reads an account and its transactions under one lock. ok is false
// unless both are cached.
func (s *State) Snapshot(accountID uuid.UUID) (ledger.Account, []ledger.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.accounts {
		if acc.ID == accountID {
			txs, ok := s.transactionsLocked(accountID)
			return acc, txs, ok
		}
	}
	return ledger.Account{}, nil, false
}

func (s *State) transactionsLocked(accountID uuid.UUID) ([]ledger.Transaction, bool) {
	cached, ok := s.transactions.Get(accountID.String())
	if !ok {
		return nil, false
	}
	txs := cached.([]ledger.Transaction)
	out := make([]ledger.Transaction, len(txs))
	copy(out, txs)
	return out, true
}

func (s *State) setTransactionsLocked(accountID uuid.UUID, txs []ledger.Transaction) {
	stored := make([]ledger.Transaction, len(txs))
	copy(stored, txs)
	s.transactions.Set(accountID.String(), stored, cache.NoExpiration)
}

// apply installs a reconciled account and its fresh transaction list under
// one lock. Snapshot never returns the new balance with the old history.
func (s *State) apply(account ledger.Account, txs []ledger.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceAccountLocked(account)
	s.setTransactionsLocked(account.ID, txs)
}

// applyBalanceOnly installs the ledger's account after a commit whose
// transaction re-read failed. The cached history no longer matches that
// balance, so it is dropped in the same step.
func (s *State) applyBalanceOnly(account ledger.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceAccountLocked(account)
	s.transactions.Delete(account.ID.String())
}
