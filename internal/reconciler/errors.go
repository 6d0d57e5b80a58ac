package reconciler

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
)

var (
	// ErrCommitInFlight is returned when a batch is committed again before the
	// previous commit of the same batch resolved.
	ErrCommitInFlight = errors.New("reconciler: commit already in flight for this batch")

	// ErrRefreshFailed means the ledger accepted the import but the follow-up
	// read failed. The cached views were left as they were.
	ErrRefreshFailed = errors.New("reconciler: import committed but refresh failed")
)

// CommitTransportError wraps a failed ledger import call. Nothing was
// reconciled and the batch is intact.
type CommitTransportError struct {
	AccountID uuid.UUID
	Err       error
}

func (e *CommitTransportError) Error() string {
	return fmt.Sprintf("commit to account %s failed: %v", e.AccountID, e.Err)
}

func (e *CommitTransportError) Unwrap() error { return e.Err }

// ReconciliationStaleError is returned when the ledger answers an import with
// a different account than the one the batch was committed to.
type ReconciliationStaleError struct {
	Expected uuid.UUID
	Got      uuid.UUID
}

func (e *ReconciliationStaleError) Error() string {
	return fmt.Sprintf("ledger returned account %s, expected %s", e.Got, e.Expected)
}
