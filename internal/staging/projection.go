package staging

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/category"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
}

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrMissingAmount  = errors.New("entry has neither credit nor debit")
)

// CommitRequest is a selected entry projected into the shape the ledger
// accepts.
type CommitRequest struct {
	Date        time.Time
	Description string
	Credit      decimal.NullDecimal
	Debit       decimal.NullDecimal
	Category    category.Category
	AccountID   uuid.UUID
}

// EntryError describes why one staged entry could not be projected.
type EntryError struct {
	SequenceID int
	Field      Field
	Err        error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("entry %d %s: %v", e.SequenceID, e.Field, e.Err)
}

func (e EntryError) Unwrap() error { return e.Err }

// ValidationError reports every selected entry that failed coercion. A batch
// with any failing entry is rejected as a whole.
type ValidationError struct {
	Entries []EntryError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Entries))
	for i, ee := range e.Entries {
		msgs[i] = ee.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Project builds the commit requests for the currently selected entries.
// The result shares no state with the batch. An empty selection yields nil
// without error.
func (b *Batch) Project(accountID uuid.UUID) ([]CommitRequest, error) {
	var (
		requests []CommitRequest
		failures []EntryError
	)

	for _, e := range b.entries {
		if !e.Selected {
			continue
		}
		req, errs := projectEntry(e, accountID)
		if len(errs) > 0 {
			failures = append(failures, errs...)
			continue
		}
		requests = append(requests, req)
	}

	if len(failures) > 0 {
		return nil, &ValidationError{Entries: failures}
	}
	return requests, nil
}

func projectEntry(e Entry, accountID uuid.UUID) (CommitRequest, []EntryError) {
	var errs []EntryError
	fail := func(field Field, err error) {
		errs = append(errs, EntryError{SequenceID: e.SequenceID, Field: field, Err: err})
	}

	date, err := ParseDate(e.Date)
	if err != nil {
		fail(FieldDate, err)
	}

	credit, err := ParseAmount(e.Credit)
	if err != nil {
		fail(FieldCredit, err)
	}
	debit, err := ParseAmount(e.Debit)
	if err != nil {
		fail(FieldDebit, err)
	}
	if len(errs) == 0 && !credit.Valid && !debit.Valid {
		fail(FieldCredit, ErrMissingAmount)
	}

	cat := category.Other
	if strings.TrimSpace(string(e.Category)) != "" {
		cat, err = category.Parse(string(e.Category))
		if err != nil {
			fail(FieldCategory, err)
		}
	}

	if len(errs) > 0 {
		return CommitRequest{}, errs
	}
	return CommitRequest{
		Date:        date,
		Description: e.Description,
		Credit:      credit,
		Debit:       debit,
		Category:    cat,
		AccountID:   accountID,
	}, nil
}

// ParseDate accepts the calendar date forms a statement or an edit may carry
// and returns the date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseAmount coerces edited amount text. Blank text is a missing amount.
// Currency symbols and thousands separators are ignored.
func ParseAmount(s string) (decimal.NullDecimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q", ErrNegativeAmount, s)
	}
	return decimal.NewNullDecimal(d), nil
}
