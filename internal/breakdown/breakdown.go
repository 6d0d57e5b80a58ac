package breakdown

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/category"
)

// Line is the part of a committed transaction the breakdown needs.
// A missing amount is the zero decimal.
type Line struct {
	Category string
	Credit   decimal.Decimal
	Debit    decimal.Decimal
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category category.Category
	Total    decimal.Decimal
}

// Aggregate groups lines by category and sums the amount spent in each.
//
// Spent is debit minus credit: a debit increases spending, a credit reduces
// it. Lines without a known category count as Other. Totals are returned in
// ascending category name order and only for categories that occur.
func Aggregate(lines []Line) []CategoryTotal {
	totals := make(map[category.Category]decimal.Decimal)
	for _, line := range lines {
		c := category.Normalize(line.Category)
		totals[c] = totals[c].Add(line.Debit).Sub(line.Credit)
	}

	result := make([]CategoryTotal, 0, len(totals))
	for c, total := range totals {
		result = append(result, CategoryTotal{Category: c, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})
	return result
}
