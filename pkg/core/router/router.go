// Package router maps a classified intent plus extracted parameters onto the
// correct metrics routine. It supplies defaults, validates user input, and
// never transforms data itself.
package router

import (
	"errors"
	"fmt"

	"cfocopilot/pkg/core/ledger"
	"cfocopilot/pkg/core/metrics"
)

// Intent is the closed set of question classes the system answers.
type Intent string

const (
	IntentRevenue          Intent = "revenue"
	IntentGrossMarginTrend Intent = "gross_margin_trend"
	IntentOpexBreakdown    Intent = "opex_breakdown"
	IntentEBITDA           Intent = "ebitda"
	IntentCashRunway       Intent = "cash_runway"
	IntentUnknown          Intent = "unknown"
)

// DefaultLookbackMonths applies when a trend or runway question does not
// name a window.
const DefaultLookbackMonths = 3

// Params are the classifier-extracted query parameters. Month is zero when
// the question named no month.
type Params struct {
	Month          ledger.Month `json:"month,omitempty"`
	LookbackMonths int          `json:"lookback_months,omitempty"`
	Currency       string       `json:"currency,omitempty"`
}

// Query is the router-facing contract: a classified intent and its params.
type Query struct {
	Intent Intent `json:"intent"`
	Params Params `json:"params"`
}

// Status classifies a query outcome.
type Status string

const (
	StatusOK      Status = "ok"       // Data holds the metric result
	StatusNoData  Status = "no_data"  // valid request, nothing matched
	StatusClarify Status = "clarify"  // user input incomplete, Message asks for detail
	StatusError   Status = "error"    // request failed
)

// Result is the uniform dispatch outcome. Data is the metric-specific
// structure for StatusOK, nil otherwise.
type Result struct {
	Status  Status      `json:"status"`
	Intent  Intent      `json:"intent"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

const capabilities = "I can help with:\n" +
	"- Revenue vs budget for a specific month\n" +
	"- Gross margin trends\n" +
	"- Opex breakdowns\n" +
	"- EBITDA\n" +
	"- Cash runway"

// Dispatch routes a classified query to its metrics routine. Query-time
// failures are scoped to this one query; the ledger is read-only here and is
// never affected.
func Dispatch(l *ledger.Ledger, q Query) Result {
	if l == nil {
		return Result{Status: StatusError, Intent: q.Intent, Message: "no financial data is loaded"}
	}

	currency, err := ledger.ParseCurrency(q.Params.Currency)
	if err != nil {
		return Result{Status: StatusClarify, Intent: q.Intent, Message: err.Error()}
	}
	lookback := q.Params.LookbackMonths
	if lookback <= 0 {
		lookback = DefaultLookbackMonths
	}

	switch q.Intent {
	case IntentRevenue:
		if q.Params.Month.IsZero() {
			return clarifyMonth(q.Intent, "revenue")
		}
		res, err := metrics.Revenue(l, q.Params.Month, currency)
		return outcome(q.Intent, res, err)

	case IntentGrossMarginTrend:
		res, err := metrics.GrossMarginTrend(l, lookback)
		return outcome(q.Intent, res, err)

	case IntentOpexBreakdown:
		if q.Params.Month.IsZero() {
			return clarifyMonth(q.Intent, "the opex breakdown")
		}
		res, err := metrics.OpexBreakdownFor(l, q.Params.Month, currency)
		return outcome(q.Intent, res, err)

	case IntentEBITDA:
		if q.Params.Month.IsZero() {
			return clarifyMonth(q.Intent, "EBITDA")
		}
		return outcome(q.Intent, metrics.EBITDA(l, q.Params.Month, currency), nil)

	case IntentCashRunway:
		res, err := metrics.CashRunway(l, currency, lookback, q.Params.Month)
		return outcome(q.Intent, res, err)

	default:
		return Result{
			Status:  StatusClarify,
			Intent:  IntentUnknown,
			Message: "Sorry, I can't answer that question. " + capabilities,
		}
	}
}

func clarifyMonth(intent Intent, topic string) Result {
	return Result{
		Status:  StatusClarify,
		Intent:  intent,
		Message: fmt.Sprintf("You asked about %s, but didn't specify a month. Please be more specific.", topic),
	}
}

func outcome(intent Intent, data interface{}, err error) Result {
	switch {
	case errors.Is(err, metrics.ErrNoData):
		return Result{Status: StatusNoData, Intent: intent, Message: "Nothing was recorded for that selection."}
	case err != nil:
		return Result{Status: StatusError, Intent: intent, Message: err.Error()}
	default:
		return Result{Status: StatusOK, Intent: intent, Data: data}
	}
}
