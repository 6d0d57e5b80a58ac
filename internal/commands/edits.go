package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carson-networks/budget-import/internal/category"
	"github.com/carson-networks/budget-import/internal/staging"
)

// Edits is a scripted review of a staged batch. Steps apply in field order:
// select_all, then toggle, then set.
type Edits struct {
	SelectAll *bool       `yaml:"select_all"`
	Toggle    []int       `yaml:"toggle"`
	Set       []FieldEdit `yaml:"set"`
}

// FieldEdit overwrites the given fields of one entry. Omitted fields are
// left alone.
type FieldEdit struct {
	ID          int     `yaml:"id"`
	Date        *string `yaml:"date"`
	Description *string `yaml:"description"`
	Category    *string `yaml:"category"`
	Credit      *string `yaml:"credit"`
	Debit       *string `yaml:"debit"`
}

// LoadEdits reads an edits file.
func LoadEdits(path string) (*Edits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading edits: %w", err)
	}
	return ParseEdits(data)
}

// ParseEdits decodes edits YAML. Unknown keys are rejected so a typo does not
// silently skip an edit.
func ParseEdits(data []byte) (*Edits, error) {
	var edits Edits
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&edits); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing edits: %w", err)
	}
	return &edits, nil
}

// Apply checks every referenced entry exists, then applies the edits. Nothing
// is changed when the check fails.
func (e *Edits) Apply(b *staging.Batch) error {
	known := make(map[int]bool, b.Len())
	for _, entry := range b.Entries() {
		known[entry.SequenceID] = true
	}
	for _, id := range e.Toggle {
		if !known[id] {
			return fmt.Errorf("toggle: no entry %d", id)
		}
	}
	for _, set := range e.Set {
		if !known[set.ID] {
			return fmt.Errorf("set: no entry %d", set.ID)
		}
		if set.Category != nil && strings.TrimSpace(*set.Category) != "" {
			if _, err := category.Parse(*set.Category); err != nil {
				return fmt.Errorf("set: entry %d: %w", set.ID, err)
			}
		}
	}

	if e.SelectAll != nil {
		b.SetAllSelected(*e.SelectAll)
	}
	for _, id := range e.Toggle {
		b.ToggleSelected(id)
	}
	for _, set := range e.Set {
		apply := func(field staging.Field, value *string) {
			if value != nil {
				b.SetField(set.ID, field, *value)
			}
		}
		apply(staging.FieldDate, set.Date)
		apply(staging.FieldDescription, set.Description)
		apply(staging.FieldCategory, set.Category)
		apply(staging.FieldCredit, set.Credit)
		apply(staging.FieldDebit, set.Debit)
	}
	return nil
}
