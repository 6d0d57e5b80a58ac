package category

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies a transaction for the spending breakdown.
type Category string

const (
	Food  Category = "Food"
	Auto  Category = "Auto"
	Rent  Category = "Rent"
	Other Category = "Other"
)

// ErrUnknownCategory is returned when a value is not part of the category set.
var ErrUnknownCategory = errors.New("unknown category")

var all = []Category{Food, Auto, Rent, Other}

// All returns the closed category set in display order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Valid reports whether c is one of the canonical categories.
func (c Category) Valid() bool {
	for _, known := range all {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// Parse matches s case-insensitively against the category set and returns the
// canonical value.
func Parse(s string) (Category, error) {
	trimmed := strings.TrimSpace(s)
	for _, known := range all {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Normalize is the single defaulting step for categories: empty or unknown
// values become Other.
func Normalize(s string) Category {
	c, err := Parse(s)
	if err != nil {
		return Other
	}
	return c
}
