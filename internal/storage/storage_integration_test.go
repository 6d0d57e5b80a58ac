package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carson-networks/budget-import/internal/storage/account"
	"github.com/carson-networks/budget-import/internal/storage/transaction"
)

// newIntegrationStorage starts a throwaway Postgres, migrates it, and returns
// a Storage on top of it. Set BUDGET_IMPORT_INTEGRATION=1 to run.
func newIntegrationStorage(t *testing.T) *Storage {
	t.Helper()
	if os.Getenv("BUDGET_IMPORT_INTEGRATION") != "1" {
		t.Skip("set BUDGET_IMPORT_INTEGRATION=1 to run storage integration tests")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("budget"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("testpassword"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)

	migrations, err := filepath.Abs("../../scripts/db_migrations/migrations")
	require.NoError(t, err)
	result, err := Migrate(db, "file://"+migrations)
	require.NoError(t, err)
	assert.Equal(t, uint(2), result.PostMigrationVersion)

	store := NewStorageFromDB(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func money(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestIntegration_ImportRoundTrip(t *testing.T) {
	store := newIntegrationStorage(t)
	ctx := context.Background()

	writer, err := store.Write(ctx)
	require.NoError(t, err)
	acc, err := writer.Account.Create(ctx, &account.AccountCreate{
		Name:            "Checking",
		StartingBalance: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)
	require.NoError(t, writer.Commit(ctx))

	writer, err = store.Write(ctx)
	require.NoError(t, err)
	locked, err := writer.Account.FindByIDForUpdate(ctx, acc.ID)
	require.NoError(t, err)

	rows, err := writer.Transaction.InsertMany(ctx, []*transaction.TransactionCreate{
		{AccountID: acc.ID, Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Description: "Gas", Debit: money("40.00"), Category: "Auto"},
		{AccountID: acc.ID, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Description: "Pay", Credit: money("15.00"), Category: "Other"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Gas", rows[0].Description)

	updated, err := writer.Account.UpdateBalance(ctx, acc.ID, locked.Balance.Add(decimal.RequireFromString("-25.00")))
	require.NoError(t, err)
	require.NoError(t, writer.Commit(ctx))
	assert.True(t, updated.Balance.Equal(decimal.RequireFromString("75.00")))

	listed, err := store.Reader.Transactions.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Pay", listed[0].Description)
	assert.False(t, listed[0].Debit.Valid)
	assert.True(t, listed[1].Debit.Decimal.Equal(decimal.RequireFromString("40")))

	writer, err = store.Write(ctx)
	require.NoError(t, err)
	recategorized, err := writer.Transaction.UpdateCategory(ctx, listed[0].ID, "Food")
	require.NoError(t, err)
	require.NoError(t, writer.Commit(ctx))
	assert.Equal(t, "Food", recategorized.Category)
}

func TestIntegration_RollbackDiscardsImport(t *testing.T) {
	store := newIntegrationStorage(t)
	ctx := context.Background()

	writer, err := store.Write(ctx)
	require.NoError(t, err)
	acc, err := writer.Account.Create(ctx, &account.AccountCreate{Name: "Savings", StartingBalance: decimal.Zero})
	require.NoError(t, err)
	require.NoError(t, writer.Commit(ctx))

	writer, err = store.Write(ctx)
	require.NoError(t, err)
	_, err = writer.Transaction.InsertMany(ctx, []*transaction.TransactionCreate{
		{AccountID: acc.ID, Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Description: "Rent", Debit: money("900"), Category: "Rent"},
	})
	require.NoError(t, err)
	require.NoError(t, writer.Rollback(ctx))

	listed, err := store.Reader.Transactions.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestIntegration_FindMissingAccount(t *testing.T) {
	store := newIntegrationStorage(t)

	_, err := store.Reader.Accounts.FindByID(context.Background(), uuid.Must(uuid.NewV4()))

	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}
