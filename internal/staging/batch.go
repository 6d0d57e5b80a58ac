package staging

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/category"
)

// ErrEmptyBatch is returned when a statement produced no rows to stage.
var ErrEmptyBatch = errors.New("staging: no rows to import")

// RawRow is one transaction row as produced by the statement parser.
// Credit and debit are independent amounts and are never netted.
type RawRow struct {
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Credit      *decimal.Decimal `json:"credit,omitempty"`
	Debit       *decimal.Decimal `json:"debit,omitempty"`
	Category    string           `json:"category,omitempty"`
}

// Entry is the editable, staged copy of a RawRow. Amounts are kept as text
// until commit so partially typed values can be represented.
type Entry struct {
	SequenceID  int
	Date        string
	Description string
	Credit      string
	Debit       string
	Category    category.Category
	Selected    bool
}

// Batch is the ordered set of staged entries for one import attempt.
//
// SequenceIDs are assigned from input order when the batch is built and are
// never reassigned. They are batch-local keys, not persistent identifiers.
type Batch struct {
	entries []Entry
	index   map[int]int
}

// NewBatch stages rows. Every entry starts selected with a normalized category.
func NewBatch(rows []RawRow) (*Batch, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}

	b := &Batch{
		entries: make([]Entry, len(rows)),
		index:   make(map[int]int, len(rows)),
	}
	for i, row := range rows {
		b.entries[i] = Entry{
			SequenceID:  i,
			Date:        row.Date,
			Description: row.Description,
			Credit:      amountText(row.Credit),
			Debit:       amountText(row.Debit),
			Category:    category.Normalize(row.Category),
			Selected:    true,
		}
		b.index[i] = i
	}
	return b, nil
}

func amountText(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// Len returns the number of staged entries.
func (b *Batch) Len() int {
	return len(b.entries)
}

// Entries returns a copy of the entries in batch order.
func (b *Batch) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Entry returns a copy of the entry with the given SequenceID.
func (b *Batch) Entry(id int) Entry {
	return *b.mustFind(id)
}

// mustFind panics on an unknown id: callers only ever hold ids handed out by
// this batch.
func (b *Batch) mustFind(id int) *Entry {
	pos, ok := b.index[id]
	if !ok {
		panic(fmt.Sprintf("staging: unknown sequence id %d", id))
	}
	return &b.entries[pos]
}
