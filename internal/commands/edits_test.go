package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-import/internal/category"
	"github.com/carson-networks/budget-import/internal/staging"
)

func newTestBatch(t *testing.T) *staging.Batch {
	t.Helper()
	amount := decimal.RequireFromString("4.50")
	b, err := staging.NewBatch([]staging.RawRow{
		{Date: "2025-01-03", Description: "Coffee", Debit: &amount},
		{Date: "2025-01-04", Description: "Groceries", Debit: &amount, Category: "Food"},
		{Date: "2025-01-05", Description: "Paycheck", Credit: &amount},
	})
	require.NoError(t, err)
	return b
}

func TestParseEdits(t *testing.T) {
	edits, err := ParseEdits([]byte(`
select_all: false
toggle: [0, 2]
set:
  - id: 2
    description: Salary
    category: other
`))
	require.NoError(t, err)
	require.NotNil(t, edits.SelectAll)
	assert.False(t, *edits.SelectAll)
	assert.Equal(t, []int{0, 2}, edits.Toggle)
	require.Len(t, edits.Set, 1)
	assert.Equal(t, 2, edits.Set[0].ID)
	require.NotNil(t, edits.Set[0].Description)
	assert.Equal(t, "Salary", *edits.Set[0].Description)
	assert.Nil(t, edits.Set[0].Date)
}

func TestParseEdits_Empty(t *testing.T) {
	edits, err := ParseEdits(nil)
	require.NoError(t, err)
	assert.Nil(t, edits.SelectAll)
	assert.Empty(t, edits.Toggle)
}

func TestParseEdits_UnknownKey(t *testing.T) {
	_, err := ParseEdits([]byte("toggel: [1]\n"))
	assert.Error(t, err)
}

func TestLoadEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.yaml")
	require.NoError(t, os.WriteFile(path, []byte("toggle: [1]\n"), 0o644))

	edits, err := LoadEdits(path)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, edits.Toggle)

	_, err = LoadEdits(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEdits_ApplyOrder(t *testing.T) {
	b := newTestBatch(t)
	deselect := false
	salary := "Salary"
	rent := "Rent"
	edits := &Edits{
		SelectAll: &deselect,
		Toggle:    []int{0, 2},
		Set: []FieldEdit{
			{ID: 2, Description: &salary},
			{ID: 0, Category: &rent},
		},
	}

	require.NoError(t, edits.Apply(b))

	entries := b.Entries()
	assert.True(t, entries[0].Selected)
	assert.False(t, entries[1].Selected)
	assert.True(t, entries[2].Selected)
	assert.Equal(t, "Salary", entries[2].Description)
	assert.Equal(t, category.Category("Rent"), entries[0].Category)
	assert.Equal(t, "4.5", entries[2].Credit)
}

func TestEdits_ApplyUnknownEntryChangesNothing(t *testing.T) {
	b := newTestBatch(t)
	deselect := false
	edits := &Edits{SelectAll: &deselect, Toggle: []int{7}}

	assert.ErrorContains(t, edits.Apply(b), "no entry 7")
	assert.Equal(t, 3, b.SelectedCount())
}

func TestEdits_ApplyUnknownCategory(t *testing.T) {
	b := newTestBatch(t)
	travel := "Travel"
	edits := &Edits{Set: []FieldEdit{{ID: 1, Category: &travel}}}

	assert.ErrorIs(t, edits.Apply(b), category.ErrUnknownCategory)
	assert.Equal(t, category.Food, b.Entry(1).Category)
}
