package metrics

import (
	"fmt"
	"math"
	"sort"

	"cfocopilot/pkg/core/ledger"
)

// sumCategory sums entries matching an exact category within a month.
// The bool reports whether any row matched, so callers can tell "no rows"
// apart from "rows summing to zero".
func sumCategory(entries []ledger.Entry, m ledger.Month, category string, c ledger.Currency) (float64, bool) {
	total, matched := 0.0, false
	for _, e := range entries {
		if e.Month == m && e.Category == category {
			total += e.Amount(c)
			matched = true
		}
	}
	return total, matched
}

// Revenue sums actual and budgeted revenue for the month and computes the
// variance. Both legs summing to exactly zero is a no-data signal, not a
// zero-valued metric.
func Revenue(l *ledger.Ledger, m ledger.Month, c ledger.Currency) (*RevenueResult, error) {
	actual, hasActual := sumCategory(l.Actuals, m, ledger.CategoryRevenue, c)
	budget, hasBudget := sumCategory(l.Budget, m, ledger.CategoryRevenue, c)
	if !hasActual && !hasBudget {
		return nil, ErrNoData
	}
	if actual == 0 && budget == 0 {
		return nil, ErrNoData
	}

	variance := actual - budget
	var variancePct float64
	switch {
	case budget != 0:
		variancePct = variance / budget * 100
	default: // budget == 0, actual != 0
		variancePct = math.Inf(1)
	}

	return &RevenueResult{
		Month:       m,
		Currency:    c,
		Actual:      actual,
		Budget:      budget,
		Variance:    variance,
		VariancePct: variancePct,
	}, nil
}

// GrossMarginTrend computes the revenue/COGS margin for the most recent
// lastN distinct calendar months in actuals. Margins are always computed on
// the USD basis, regardless of the caller's display currency. "Most recent
// N" follows calendar order, not insertion order; the returned series is
// ascending.
func GrossMarginTrend(l *ledger.Ledger, lastN int) (*MarginTrend, error) {
	if lastN < 1 {
		return nil, fmt.Errorf("lookback must be at least 1 month, got %d", lastN)
	}

	revenue := make(map[ledger.Month]float64)
	cogs := make(map[ledger.Month]float64)
	for _, e := range l.Actuals {
		switch e.Category {
		case ledger.CategoryRevenue:
			revenue[e.Month] += e.AmountUSD
		case ledger.CategoryCOGS:
			cogs[e.Month] += e.AmountUSD
		}
	}

	months := make([]ledger.Month, 0, len(revenue)+len(cogs))
	seen := make(map[ledger.Month]bool)
	for m := range revenue {
		seen[m] = true
		months = append(months, m)
	}
	for m := range cogs {
		if !seen[m] {
			months = append(months, m)
		}
	}
	if len(months) == 0 {
		return nil, ErrNoData
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	if len(months) > lastN {
		months = months[len(months)-lastN:]
	}

	trend := &MarginTrend{Points: make([]MarginPoint, 0, len(months))}
	for _, m := range months {
		rev := revenue[m]
		// COGS absent for an observed month is a plain zero in the
		// subtraction; the month itself still has data.
		cg := cogs[m]
		margin := rev - cg
		pct := 0.0
		if rev != 0 {
			pct = margin / rev * 100
		}
		trend.Points = append(trend.Points, MarginPoint{Month: m, Revenue: rev, COGS: cg, Margin: margin, MarginPct: pct})
	}

	latest := trend.Points[len(trend.Points)-1]
	trend.LatestMonth = latest.Month
	trend.LatestPct = latest.MarginPct
	return trend, nil
}

// OpexBreakdownFor groups the month's "Opex:*" actuals by subcategory. The
// subcategory is the label after the first colon; the set of subcategories
// comes entirely from the data.
func OpexBreakdownFor(l *ledger.Ledger, m ledger.Month, c ledger.Currency) (*OpexBreakdown, error) {
	totals := make(map[string]float64)
	for _, e := range l.Actuals {
		if e.Month != m {
			continue
		}
		if sub, ok := ledger.OpexSubcategory(e.Category); ok {
			totals[sub] += e.Amount(c)
		}
	}
	if len(totals) == 0 {
		return nil, ErrNoData
	}

	breakdown := &OpexBreakdown{Month: m, Currency: c, Items: make([]OpexItem, 0, len(totals))}
	for sub, amount := range totals {
		breakdown.Items = append(breakdown.Items, OpexItem{Subcategory: sub, Amount: amount})
		breakdown.Total += amount
	}
	sort.Slice(breakdown.Items, func(i, j int) bool {
		if breakdown.Items[i].Amount != breakdown.Items[j].Amount {
			return breakdown.Items[i].Amount > breakdown.Items[j].Amount
		}
		return breakdown.Items[i].Subcategory < breakdown.Items[j].Subcategory
	})
	return breakdown, nil
}

// EBITDA computes revenue - COGS - total opex over the month, each leg
// summed with the same selection rule as its standalone metric. The result
// is structured numbers; nothing downstream ever re-parses formatted text.
func EBITDA(l *ledger.Ledger, m ledger.Month, c ledger.Currency) *EBITDAResult {
	rev, _ := sumCategory(l.Actuals, m, ledger.CategoryRevenue, c)
	cogs, _ := sumCategory(l.Actuals, m, ledger.CategoryCOGS, c)

	opex := 0.0
	for _, e := range l.Actuals {
		if e.Month != m {
			continue
		}
		if _, ok := ledger.OpexSubcategory(e.Category); ok {
			opex += e.Amount(c)
		}
	}

	return &EBITDAResult{
		Month:    m,
		Currency: c,
		Revenue:  rev,
		COGS:     cogs,
		Opex:     opex,
		EBITDA:   rev - cogs - opex,
	}
}
