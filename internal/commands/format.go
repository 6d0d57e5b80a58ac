package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-import/internal/breakdown"
	"github.com/carson-networks/budget-import/internal/ledger"
	"github.com/carson-networks/budget-import/internal/staging"
)

// money renders an amount with thousands separators and two decimals.
func money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).Round(0).IntPart()
	if cents == 100 {
		whole = whole.Add(decimal.NewFromInt(1))
		cents = 0
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(whole.IntPart()), cents)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return money(d.Decimal)
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printAccounts(out io.Writer, accounts []ledger.Account) error {
	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tBALANCE")
	for _, acc := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\n", acc.ID, acc.Name, money(acc.Balance))
	}
	return w.Flush()
}

func printTransactions(out io.Writer, txs []ledger.Transaction) error {
	w := newTable(out)
	fmt.Fprintln(w, "ID\tDATE\tDESCRIPTION\tCREDIT\tDEBIT\tCATEGORY")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date.Format(staging.DateLayout), tx.Description,
			nullMoney(tx.Credit), nullMoney(tx.Debit), tx.Category)
	}
	return w.Flush()
}

func printEntries(out io.Writer, entries []staging.Entry) error {
	w := newTable(out)
	fmt.Fprintln(w, "#\tSEL\tDATE\tDESCRIPTION\tCREDIT\tDEBIT\tCATEGORY")
	for _, e := range entries {
		sel := "[ ]"
		if e.Selected {
			sel = "[x]"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.SequenceID, sel, e.Date, e.Description, e.Credit, e.Debit, e.Category)
	}
	return w.Flush()
}

func printBreakdown(out io.Writer, totals []breakdown.CategoryTotal) error {
	w := newTable(out)
	fmt.Fprintln(w, "CATEGORY\tSPENT")
	for _, t := range totals {
		fmt.Fprintf(w, "%s\t%s\n", t.Category, money(t.Total))
	}
	return w.Flush()
}
