// Package ledger normalizes raw financial tables (actuals, budget, fx, cash)
// into a unified, currency-converted ledger. The ledger is built wholesale on
// each load and is immutable afterwards; downstream aggregation holds
// read-only references.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Currency is the display currency for ledger amounts. Every entry carries
// both variants; selection happens through Entry.Amount, never through a
// dynamic column lookup.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// ParseCurrency maps a user-supplied currency token to a supported display
// currency. An empty token defaults to USD.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "USD", "$", "DOLLAR", "DOLLARS":
		return USD, nil
	case "EUR", "€", "EURO", "EUROS":
		return EUR, nil
	}
	return "", fmt.Errorf("unsupported display currency %q (supported: USD, EUR)", s)
}

// Month is a calendar month. Day-of-month is never meaningful in this system.
type Month struct {
	Year int        `json:"year"`
	Mon  time.Month `json:"month"`
}

// MonthOf truncates a time to its calendar month.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

// String renders the source-data convention, e.g. "2025-06".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// Label renders the user-facing convention, e.g. "June 2025".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Mon.String(), m.Year)
}

// Index maps the month onto a continuous axis so calendar arithmetic is
// plain integer arithmetic.
func (m Month) Index() int {
	return m.Year*12 + int(m.Mon) - 1
}

// AddMonths returns the month n calendar steps away (n may be negative).
func (m Month) AddMonths(n int) Month {
	idx := m.Index() + n
	year := idx / 12
	mon := idx%12 + 1
	if mon <= 0 { // Go integer division truncates toward zero
		year--
		mon += 12
	}
	return Month{Year: year, Mon: time.Month(mon)}
}

// Before reports calendar order.
func (m Month) Before(o Month) bool {
	return m.Index() < o.Index()
}

// IsZero reports whether the month is unset.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

// Account category taxonomy. Only the Opex prefix is structural; the
// subcategory set is derived from data, never hardcoded.
const (
	CategoryRevenue = "Revenue"
	CategoryCOGS    = "COGS"
	OpexPrefix      = "Opex:"
)

// OpexSubcategory splits an "Opex:<Subcategory>" label on the first colon.
// The second return is false for non-opex categories.
func OpexSubcategory(category string) (string, bool) {
	if !strings.HasPrefix(category, OpexPrefix) {
		return "", false
	}
	return category[len(OpexPrefix):], true
}

// Entry is a single actuals or budget line item after normalization.
// Amounts are present in both display currencies.
type Entry struct {
	Month     Month   `json:"month"`
	Category  string  `json:"category"`
	AmountUSD float64 `json:"amount_usd"`
	AmountEUR float64 `json:"amount_eur"`
}

// Amount selects the display-currency variant.
func (e Entry) Amount(c Currency) float64 {
	if c == EUR {
		return e.AmountEUR
	}
	return e.AmountUSD
}

// CashEntry is one month of the cash time series. The builder guarantees
// exactly one entry per month, sorted ascending.
type CashEntry struct {
	Month   Month   `json:"month"`
	CashUSD float64 `json:"cash_usd"`
	CashEUR float64 `json:"cash_eur"`
}

// Cash selects the display-currency variant.
func (e CashEntry) Cash(c Currency) float64 {
	if c == EUR {
		return e.CashEUR
	}
	return e.CashUSD
}

// Ledger is the unified result of a data load. It is never mutated after
// Build returns; reloads build a fresh value and swap it in at the boundary.
type Ledger struct {
	Actuals []Entry     `json:"actuals"`
	Budget  []Entry     `json:"budget"`
	Cash    []CashEntry `json:"cash"`
}

// LatestActualsMonth returns the most recent calendar month present in
// actuals, or a zero Month when there are no actuals.
func (l *Ledger) LatestActualsMonth() Month {
	var latest Month
	for _, e := range l.Actuals {
		if latest.IsZero() || latest.Before(e.Month) {
			latest = e.Month
		}
	}
	return latest
}

// LatestCash returns the most recent cash entry. The second return is false
// when the cash series is empty.
func (l *Ledger) LatestCash() (CashEntry, bool) {
	if len(l.Cash) == 0 {
		return CashEntry{}, false
	}
	return l.Cash[len(l.Cash)-1], true
}

// sortEntries orders entries by month, then category, so identical inputs
// always produce identical ledgers.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Month != entries[j].Month {
			return entries[i].Month.Before(entries[j].Month)
		}
		return entries[i].Category < entries[j].Category
	})
}
