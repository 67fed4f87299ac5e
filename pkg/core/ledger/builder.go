package ledger

import (
	"fmt"
	"sort"
	"strings"
)

type rateKey struct {
	month    Month
	currency string
}

// rateTable holds the parsed FX table: (month, currency) -> rate to USD.
// EUR cross rates are derived per month via USD as the pivot currency.
type rateTable struct {
	toUSD map[rateKey]float64
}

// usdRate returns the currency-to-USD multiplier for the month. USD's own
// rate is implicitly 1.0 unless the table overrides it.
func (rt *rateTable) usdRate(m Month, currency string) (float64, error) {
	if r, ok := rt.toUSD[rateKey{m, currency}]; ok {
		return r, nil
	}
	if currency == string(USD) {
		return 1.0, nil
	}
	return 0, &MissingRateError{Month: m, Currency: currency}
}

// eurRate returns the currency-to-EUR multiplier for the month:
// rate_to_usd(currency) / rate_to_usd(EUR). A missing EUR row for the month
// makes EUR conversion impossible and fails the load.
func (rt *rateTable) eurRate(m Month, currency string) (float64, error) {
	eurToUSD, ok := rt.toUSD[rateKey{m, string(EUR)}]
	if !ok {
		return 0, &MissingRateError{Month: m, Currency: string(EUR)}
	}
	r, err := rt.usdRate(m, currency)
	if err != nil {
		return 0, err
	}
	return r / eurToUSD, nil
}

func parseRates(fx *RawTable, monthLayout string) (*rateTable, error) {
	rt := &rateTable{toUSD: make(map[rateKey]float64)}
	for i, row := range fx.Rows {
		m, err := ParseMonth(row.Get("month"), monthLayout)
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", fx.Name, i+1, err)
		}
		rate, err := ParseAmount(row.Get("rate_to_usd"))
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", fx.Name, i+1, err)
		}
		if rate <= 0 {
			return nil, fmt.Errorf("table %s row %d: rate_to_usd must be positive, got %v", fx.Name, i+1, rate)
		}
		key := rateKey{m, normalizeCurrency(row.Get("currency"))}
		if _, dup := rt.toUSD[key]; dup {
			return nil, fmt.Errorf("table %s row %d: duplicate rate for %s %s", fx.Name, i+1, key.currency, key.month)
		}
		rt.toUSD[key] = rate
	}
	return rt, nil
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return string(USD)
	}
	return code
}

// Build normalizes the four raw tables into a unified ledger.
//
// Any unparseable row, missing table, or missing FX coverage fails the whole
// build: downstream aggregates have no way to signal "incomplete", so a
// partial ledger is never returned. Build is a pure function of its inputs;
// identical raw tables yield identical ledgers.
func Build(actuals, budget, fx, cash *RawTable, monthLayout string) (*Ledger, error) {
	for name, t := range map[string]*RawTable{"actuals": actuals, "budget": budget, "fx": fx, "cash": cash} {
		if t == nil {
			return nil, fmt.Errorf("source table %s is missing", name)
		}
	}

	rates, err := parseRates(fx, monthLayout)
	if err != nil {
		return nil, err
	}

	ledger := &Ledger{}
	if ledger.Actuals, err = buildEntries(actuals, rates, monthLayout); err != nil {
		return nil, err
	}
	if ledger.Budget, err = buildEntries(budget, rates, monthLayout); err != nil {
		return nil, err
	}
	if ledger.Cash, err = buildCash(cash, rates, monthLayout); err != nil {
		return nil, err
	}
	return ledger, nil
}

// buildEntries converts one actuals/budget table, joining each row to its
// month's rates and expressing the amount in both display currencies. The
// raw amount and currency columns are dropped from the result.
func buildEntries(t *RawTable, rates *rateTable, monthLayout string) ([]Entry, error) {
	entries := make([]Entry, 0, len(t.Rows))
	for i, row := range t.Rows {
		m, err := ParseMonth(row.Get("month"), monthLayout)
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", t.Name, i+1, err)
		}
		amount, err := ParseAmount(row.Get("amount"))
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", t.Name, i+1, err)
		}
		currency := normalizeCurrency(row.Get("currency"))

		toUSD, err := rates.usdRate(m, currency)
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", t.Name, i+1, err)
		}
		toEUR, err := rates.eurRate(m, currency)
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", t.Name, i+1, err)
		}

		entries = append(entries, Entry{
			Month:     m,
			Category:  row.Get("account_category"),
			AmountUSD: amount * toUSD,
			AmountEUR: amount * toEUR,
		})
	}
	sortEntries(entries)
	return entries, nil
}

// buildCash converts the cash table. Cash is always natively USD, so it only
// needs the per-month USD-to-EUR cross rate. Sorted ascending order and
// one-row-per-month are post-conditions the metrics layer relies on.
func buildCash(t *RawTable, rates *rateTable, monthLayout string) ([]CashEntry, error) {
	seen := make(map[Month]bool, len(t.Rows))
	entries := make([]CashEntry, 0, len(t.Rows))
	for i, row := range t.Rows {
		m, err := ParseMonth(row.Get("month"), monthLayout)
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", t.Name, i+1, err)
		}
		if seen[m] {
			return nil, fmt.Errorf("table %s row %d: duplicate cash entry for %s", t.Name, i+1, m)
		}
		seen[m] = true

		cashUSD, err := ParseAmount(row.Get("cash_usd"))
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", t.Name, i+1, err)
		}
		usdToEUR, err := rates.eurRate(m, string(USD))
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", t.Name, i+1, err)
		}

		entries = append(entries, CashEntry{Month: m, CashUSD: cashUSD, CashEUR: cashUSD * usdToEUR})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Month.Before(entries[j].Month) })
	return entries, nil
}
