package staging

import (
	"github.com/carson-networks/budget-import/internal/category"
)

// Field names an editable column of a staged entry.
type Field string

const (
	FieldDate        Field = "date"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldCredit      Field = "credit"
	FieldDebit       Field = "debit"
)

// SetAllSelected sets the selection flag on every entry.
func (b *Batch) SetAllSelected(selected bool) {
	for i := range b.entries {
		b.entries[i].Selected = selected
	}
}

// ToggleSelected flips the selection flag of one entry.
func (b *Batch) ToggleSelected(id int) {
	e := b.mustFind(id)
	e.Selected = !e.Selected
}

// SetField overwrites one editable field. Values are stored as given;
// validation happens when the batch is projected for commit.
func (b *Batch) SetField(id int, field Field, value string) {
	e := b.mustFind(id)
	switch field {
	case FieldDate:
		e.Date = value
	case FieldDescription:
		e.Description = value
	case FieldCategory:
		e.Category = category.Category(value)
	case FieldCredit:
		e.Credit = value
	case FieldDebit:
		e.Debit = value
	default:
		panic("staging: unknown field " + string(field))
	}
}

// SelectedCount returns how many entries are currently selected.
func (b *Batch) SelectedCount() int {
	n := 0
	for _, e := range b.entries {
		if e.Selected {
			n++
		}
	}
	return n
}

// AllSelected reports whether every entry is selected. It is false for a
// batch without entries.
func (b *Batch) AllSelected() bool {
	return len(b.entries) > 0 && b.SelectedCount() == len(b.entries)
}
