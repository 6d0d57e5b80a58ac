package actions

import (
	"context"

	"github.com/carson-networks/budget-import/internal/storage"
)

// IAction is one unit of write work. Perform runs inside a database
// transaction that is committed only if it returns nil.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
