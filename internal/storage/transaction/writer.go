package transaction

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

// Writer performs transaction writes inside one database transaction.
type Writer struct {
	Reader
}

func NewWriter(exec bob.Executor) *Writer {
	return &Writer{
		Reader: Reader{
			exec: exec,
		},
	}
}

// InsertMany inserts all creates with a single statement and returns the
// stored rows in input order.
func (w *Writer) InsertMany(ctx context.Context, creates []*TransactionCreate) ([]*Transaction, error) {
	if len(creates) == 0 {
		return nil, nil
	}

	queryMods := []bob.Mod[*dialect.InsertQuery]{
		im.Into(tableName, "account_id", "date", "description", "credit", "debit", "category"),
	}
	for _, c := range creates {
		queryMods = append(queryMods, im.Values(
			psql.Arg(c.AccountID),
			psql.Arg(c.Date),
			psql.Arg(c.Description),
			psql.Arg(c.Credit),
			psql.Arg(c.Debit),
			psql.Arg(c.Category),
		))
	}
	queryMods = append(queryMods, im.Returning(columns...))

	return bob.All(ctx, w.exec, psql.Insert(queryMods...), scan.StructMapper[*Transaction]())
}

func (w *Writer) UpdateCategory(ctx context.Context, id uuid.UUID, category string) (*Transaction, error) {
	query := psql.Update(
		um.Table(tableName),
		um.SetCol("category").ToArg(category),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(columns...),
	)
	row, err := bob.One(ctx, w.exec, query, scan.StructMapper[*Transaction]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	return row, err
}
