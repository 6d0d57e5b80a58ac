// Package statement turns an uploaded bank statement export into staging rows.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/staging"
)

var (
	ErrEmptyFile      = errors.New("statement: no transaction rows found")
	ErrNoDateColumn   = errors.New("statement: no date column found")
	ErrNoAmountColumn = errors.New("statement: no amount column found")
)

const noColumn = -1

// dateLayouts are tried in order against statement date cells.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Mapping records which column feeds each row field. Amount is a single
// signed column that is split into credit and debit by sign.
type Mapping struct {
	Date        int
	Description int
	Credit      int
	Debit       int
	Amount      int
	Category    int
}

func emptyMapping() Mapping {
	return Mapping{
		Date:        noColumn,
		Description: noColumn,
		Credit:      noColumn,
		Debit:       noColumn,
		Amount:      noColumn,
		Category:    noColumn,
	}
}

func (m Mapping) used(col int) bool {
	return col == m.Date || col == m.Description || col == m.Credit ||
		col == m.Debit || col == m.Amount || col == m.Category
}

// Parse reads a CSV statement with a header row. Rows whose date cell does
// not parse are skipped.
func Parse(r io.Reader) ([]staging.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	records = dropBlank(records)
	if len(records) <= 1 {
		return nil, ErrEmptyFile
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	body := pad(records[1:], len(header))

	mapping, err := Detect(header, body)
	if err != nil {
		return nil, err
	}

	rows := make([]staging.RawRow, 0, len(body))
	for _, rec := range body {
		row, ok := parseRow(rec, mapping)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// Detect works out the column mapping from the header and the cell contents.
func Detect(header []string, body [][]string) (Mapping, error) {
	m := emptyMapping()
	cols := len(header)

	for c := 0; c < cols; c++ {
		if v, ok := firstValue(body, c); ok {
			if _, err := parseDate(v); err == nil {
				m.Date = c
				break
			}
		}
	}
	if m.Date == noColumn {
		return m, ErrNoDateColumn
	}

	numeric := make([]bool, cols)
	for c := 0; c < cols; c++ {
		numeric[c] = c != m.Date && isNumericColumn(body, c)
	}

	nextNumeric := func(start int) int {
		for c := start; c < cols; c++ {
			if numeric[c] && !m.used(c) {
				return c
			}
		}
		return noColumn
	}

	for c := 0; c < cols; c++ {
		if m.used(c) || !numeric[c] {
			continue
		}
		name := strings.ToLower(header[c])
		switch {
		case strings.Contains(name, "credit") || strings.Contains(name, "deposit"):
			m.Credit = c
			if isEmptyColumn(body, c) {
				if next := nextNumeric(c + 1); next != noColumn {
					m.Credit = next
				}
			}
		case strings.Contains(name, "debit") || strings.Contains(name, "withdrawal"):
			m.Debit = c
			if isEmptyColumn(body, c) {
				if next := nextNumeric(c + 1); next != noColumn {
					m.Debit = next
				}
			}
		}
	}

	var remaining []int
	for c := 0; c < cols; c++ {
		if numeric[c] && !m.used(c) {
			remaining = append(remaining, c)
		}
	}

	if m.Credit == noColumn && m.Debit == noColumn {
		for _, c := range remaining {
			if strings.Contains(strings.ToLower(header[c]), "amount") {
				m.Amount = c
				break
			}
		}
		if m.Amount == noColumn && len(remaining) == 1 {
			m.Amount = remaining[0]
		}
	}
	if m.Amount == noColumn {
		for _, c := range remaining {
			if m.used(c) {
				continue
			}
			if m.Credit == noColumn {
				m.Credit = c
			} else if m.Debit == noColumn {
				m.Debit = c
			}
		}
	}
	if m.Credit == noColumn && m.Debit == noColumn && m.Amount == noColumn {
		return m, ErrNoAmountColumn
	}

	for c := 0; c < cols; c++ {
		if !m.used(c) && strings.EqualFold(strings.TrimSpace(header[c]), "category") {
			m.Category = c
			break
		}
	}

	best := -1.0
	for c := 0; c < cols; c++ {
		if m.used(c) || numeric[c] {
			continue
		}
		if avg := averageLength(body, c); avg > best {
			best = avg
			m.Description = c
		}
	}
	if m.Description == noColumn {
		for c := 0; c < cols; c++ {
			if !m.used(c) {
				m.Description = c
				break
			}
		}
	}

	return m, nil
}

func parseRow(rec []string, m Mapping) (staging.RawRow, bool) {
	date, err := parseDate(rec[m.Date])
	if err != nil {
		return staging.RawRow{}, false
	}

	row := staging.RawRow{
		Date:        date.Format(staging.DateLayout),
		Description: "Unknown",
	}
	if m.Description != noColumn {
		row.Description = strings.TrimSpace(rec[m.Description])
	}
	if m.Category != noColumn {
		row.Category = strings.TrimSpace(rec[m.Category])
	}

	switch {
	case m.Amount != noColumn:
		if amt, ok := parseAmount(rec[m.Amount]); ok {
			abs := amt.Abs()
			if amt.IsNegative() {
				row.Debit = &abs
			} else {
				row.Credit = &abs
			}
		}
	default:
		if m.Credit != noColumn {
			if amt, ok := parseAmount(rec[m.Credit]); ok {
				abs := amt.Abs()
				row.Credit = &abs
			}
		}
		if m.Debit != noColumn {
			if amt, ok := parseAmount(rec[m.Debit]); ok {
				abs := amt.Abs()
				row.Debit = &abs
			}
		}
	}

	// Rows with no amount, such as pending authorisations, are not
	// transactions yet.
	if row.Credit == nil && row.Debit == nil {
		return staging.RawRow{}, false
	}
	return row, true
}

func parseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseAmount(s string) (decimal.Decimal, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// isNumericColumn reports whether every non-empty cell is an amount. A
// column with no values at all counts as numeric.
func isNumericColumn(body [][]string, col int) bool {
	for _, rec := range body {
		v := strings.TrimSpace(rec[col])
		if v == "" {
			continue
		}
		if _, ok := parseAmount(v); !ok {
			return false
		}
	}
	return true
}

func isEmptyColumn(body [][]string, col int) bool {
	_, ok := firstValue(body, col)
	return !ok
}

func firstValue(body [][]string, col int) (string, bool) {
	for _, rec := range body {
		if v := strings.TrimSpace(rec[col]); v != "" {
			return v, true
		}
	}
	return "", false
}

func averageLength(body [][]string, col int) float64 {
	if len(body) == 0 {
		return 0
	}
	total := 0
	for _, rec := range body {
		total += len(strings.TrimSpace(rec[col]))
	}
	return float64(total) / float64(len(body))
}

func dropBlank(records [][]string) [][]string {
	out := records[:0]
	for _, rec := range records {
		blank := true
		for _, v := range rec {
			if strings.TrimSpace(v) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}

func pad(records [][]string, width int) [][]string {
	for i, rec := range records {
		if len(rec) < width {
			padded := make([]string, width)
			copy(padded, rec)
			records[i] = padded
		}
	}
	return records
}
