// Package metrics implements the aggregation routines over a built ledger:
// revenue vs budget, gross-margin trend, opex breakdown, EBITDA, and cash
// runway. Every routine is a pure function of (ledger, parameters) and never
// mutates the ledger.
package metrics

import (
	"errors"

	"cfocopilot/pkg/core/ledger"
)

// ErrNoData marks a query whose selection matched no rows. It is a distinct
// result, never conflated with a computed zero: a month with no Revenue rows
// is "nothing recorded", not "zero revenue".
var ErrNoData = errors.New("no matching data for the requested period")

// RevenueResult compares actual against budgeted revenue for one month.
// VariancePct is +Inf when budget is zero and actual is not.
type RevenueResult struct {
	Month       ledger.Month    `json:"month"`
	Currency    ledger.Currency `json:"currency"`
	Actual      float64         `json:"actual"`
	Budget      float64         `json:"budget"`
	Variance    float64         `json:"variance"`
	VariancePct float64         `json:"variance_pct"`
}

// MarginPoint is one month of the gross-margin series (USD basis).
type MarginPoint struct {
	Month     ledger.Month `json:"month"`
	Revenue   float64      `json:"revenue"`
	COGS      float64      `json:"cogs"`
	Margin    float64      `json:"margin"`
	MarginPct float64      `json:"margin_pct"`
}

// MarginTrend is the ordered monthly gross-margin series plus the latest
// month's headline.
type MarginTrend struct {
	Points      []MarginPoint `json:"points"`
	LatestMonth ledger.Month  `json:"latest_month"`
	LatestPct   float64       `json:"latest_pct"`
}

// OpexItem is one operating-expense subcategory total.
type OpexItem struct {
	Subcategory string  `json:"subcategory"`
	Amount      float64 `json:"amount"`
}

// OpexBreakdown groups a month's Opex:* spend by subcategory. The
// subcategory set is derived from the data.
type OpexBreakdown struct {
	Month    ledger.Month    `json:"month"`
	Currency ledger.Currency `json:"currency"`
	Items    []OpexItem      `json:"items"`
	Total    float64         `json:"total"`
}

// EBITDAResult approximates EBITDA as revenue - COGS - total opex for one
// month. A month with zero activity in all three legs is a plain zero, not a
// no-data case.
type EBITDAResult struct {
	Month    ledger.Month    `json:"month"`
	Currency ledger.Currency `json:"currency"`
	Revenue  float64         `json:"revenue"`
	COGS     float64         `json:"cogs"`
	Opex     float64         `json:"opex"`
	EBITDA   float64         `json:"ebitda"`
}

// CashPoint is one month of cash, historical or projected.
type CashPoint struct {
	Month ledger.Month `json:"month"`
	Cash  float64      `json:"cash"`
}

// RunwayResult carries the burn analysis and projection. When average net
// burn is zero or negative, RunwayDefined is false and Projection holds a
// fixed-length growth series instead of a depletion series.
type RunwayResult struct {
	Currency       ledger.Currency `json:"currency"`
	ReferenceMonth ledger.Month    `json:"reference_month"`
	LookbackMonths int             `json:"lookback_months"`
	MonthlyEBITDA  []EBITDAResult  `json:"monthly_ebitda"`
	AvgNetBurn     float64         `json:"avg_net_burn"`
	CashMonth      ledger.Month    `json:"cash_month"`
	CurrentCash    float64         `json:"current_cash"`
	RunwayDefined  bool            `json:"runway_defined"`
	RunwayMonths   float64         `json:"runway_months"`
	Projection     []CashPoint     `json:"projection"`
	History        []CashPoint     `json:"history"`
}
