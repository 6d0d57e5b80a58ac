package staging

import (
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-import/internal/category"
)

func TestProject_DefaultsCategoryAndSkipsDeselected(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	b, err := NewBatch([]RawRow{
		{Date: "2025-03-01", Description: "Paycheck", Credit: amount("50")},
		{Date: "2025-03-02", Description: "Refund", Credit: amount("100")},
	})
	require.NoError(t, err)
	b.ToggleSelected(1)

	reqs, err := b.Project(accountID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	req := reqs[0]
	assert.Equal(t, category.Other, req.Category)
	assert.True(t, req.Credit.Valid)
	assert.True(t, req.Credit.Decimal.Equal(*amount("50")))
	assert.False(t, req.Debit.Valid)
	assert.Equal(t, accountID, req.AccountID)
	assert.Equal(t, "Paycheck", req.Description)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), req.Date)
}

func TestProject_EmptySelection(t *testing.T) {
	b, err := NewBatch(makeRows(3))
	require.NoError(t, err)
	b.SetAllSelected(false)

	reqs, err := b.Project(uuid.Must(uuid.NewV4()))
	assert.NoError(t, err)
	assert.Nil(t, reqs)
}

func TestProject_EditedCategory(t *testing.T) {
	b, err := NewBatch(makeRows(3))
	require.NoError(t, err)
	b.ToggleSelected(1)
	b.SetField(2, FieldCategory, "Rent")

	reqs, err := b.Project(uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, category.Other, reqs[0].Category)
	assert.Equal(t, category.Rent, reqs[1].Category)
}

func TestProject_BlankCategoryDefaultsToOther(t *testing.T) {
	b, err := NewBatch(makeRows(1))
	require.NoError(t, err)
	b.SetField(0, FieldCategory, "")

	reqs, err := b.Project(uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	assert.Equal(t, category.Other, reqs[0].Category)
}

func TestProject_RejectsWholeBatch(t *testing.T) {
	b, err := NewBatch(makeRows(4))
	require.NoError(t, err)
	b.SetField(1, FieldCredit, "twelve")
	b.SetField(2, FieldDate, "31/31/2025")
	b.SetField(3, FieldCategory, "Travel")

	reqs, err := b.Project(uuid.Must(uuid.NewV4()))
	assert.Nil(t, reqs)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Entries, 3)

	assert.Equal(t, 1, verr.Entries[0].SequenceID)
	assert.Equal(t, FieldCredit, verr.Entries[0].Field)
	assert.ErrorIs(t, verr.Entries[0], ErrInvalidAmount)

	assert.Equal(t, 2, verr.Entries[1].SequenceID)
	assert.Equal(t, FieldDate, verr.Entries[1].Field)
	assert.ErrorIs(t, verr.Entries[1], ErrInvalidDate)

	assert.Equal(t, 3, verr.Entries[2].SequenceID)
	assert.ErrorIs(t, verr.Entries[2], category.ErrUnknownCategory)

	assert.Contains(t, err.Error(), "entry 1 credit")
}

func TestProject_IgnoresInvalidDeselectedEntries(t *testing.T) {
	b, err := NewBatch(makeRows(2))
	require.NoError(t, err)
	b.SetField(1, FieldDebit, "n/a")
	b.ToggleSelected(1)

	reqs, err := b.Project(uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	assert.Len(t, reqs, 1)
}

func TestProject_MissingAmount(t *testing.T) {
	b, err := NewBatch(makeRows(1))
	require.NoError(t, err)
	b.SetField(0, FieldDebit, "  ")

	_, err = b.Project(uuid.Must(uuid.NewV4()))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, verr.Entries[0], ErrMissingAmount)
}

func TestProject_DoesNotAliasBatch(t *testing.T) {
	b, err := NewBatch(makeRows(1))
	require.NoError(t, err)

	reqs, err := b.Project(uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	b.SetField(0, FieldDescription, "edited after projection")
	b.SetField(0, FieldDebit, "99")
	assert.Equal(t, "Item", reqs[0].Description)
	assert.True(t, reqs[0].Debit.Decimal.Equal(*amount("5")))
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount(" $1,234.50 ")
	require.NoError(t, err)
	assert.True(t, got.Valid)
	assert.Equal(t, "1234.5", got.Decimal.String())

	got, err = ParseAmount("")
	require.NoError(t, err)
	assert.False(t, got.Valid)

	_, err = ParseAmount("-4")
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ParseAmount("4..0")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2025-01-15", "2025-01-15T10:30:00Z", "2025-01-15T10:30:00", "01/15/2025"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDate("yesterday")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
