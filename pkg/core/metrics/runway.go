package metrics

import (
	"fmt"
	"math"

	"cfocopilot/pkg/core/ledger"
)

const (
	// runwayCapExtra bounds the depletion projection at
	// ceil(runway)+runwayCapExtra points for pathological inputs.
	runwayCapExtra = 3
	// maxProjectionPoints hard-bounds the depletion series. A near-zero burn
	// (e.g. a float-cancellation residual) makes runway astronomically large;
	// converting that to an int point count would overflow.
	maxProjectionPoints = 120
	// growthProjectionPoints is the fixed series length when cash is flat
	// or growing and runway is undefined.
	growthProjectionPoints = 6
	// historyMonths is how much trailing cash history both branches return
	// for charting context.
	historyMonths = 10
)

// CashRunway averages EBITDA over the lookback window ending at the
// reference month and projects cash forward at that burn rate.
//
// The window is calendar-sequential: a month absent from the ledger is still
// a calendar step (its EBITDA legs simply sum to zero). Net burn is the
// negated average, so positive burn means cash outflow. When the reference
// month is zero, the latest actuals month is used, falling back to the
// latest cash month.
func CashRunway(l *ledger.Ledger, c ledger.Currency, lookback int, reference ledger.Month) (*RunwayResult, error) {
	if lookback < 1 {
		return nil, fmt.Errorf("lookback must be at least 1 month, got %d", lookback)
	}
	currentCash, ok := l.LatestCash()
	if !ok {
		return nil, ErrNoData
	}
	if reference.IsZero() {
		reference = l.LatestActualsMonth()
		if reference.IsZero() {
			reference = currentCash.Month
		}
	}

	result := &RunwayResult{
		Currency:       c,
		ReferenceMonth: reference,
		LookbackMonths: lookback,
		CashMonth:      currentCash.Month,
		CurrentCash:    currentCash.Cash(c),
	}

	sum := 0.0
	for i := lookback - 1; i >= 0; i-- {
		e := EBITDA(l, reference.AddMonths(-i), c)
		result.MonthlyEBITDA = append(result.MonthlyEBITDA, *e)
		sum += e.EBITDA
	}
	result.AvgNetBurn = -sum / float64(lookback)

	for _, h := range tail(l.Cash, historyMonths) {
		result.History = append(result.History, CashPoint{Month: h.Month, Cash: h.Cash(c)})
	}

	if result.AvgNetBurn > 0 {
		result.RunwayDefined = true
		result.RunwayMonths = result.CurrentCash / result.AvgNetBurn
		result.Projection = depletionSeries(currentCash.Month, result.CurrentCash, result.AvgNetBurn, result.RunwayMonths)
	} else {
		// Flat or growing cash: runway is not applicable, project growth
		// at the observed rate instead.
		result.Projection = growthSeries(currentCash.Month, result.CurrentCash, -result.AvgNetBurn)
	}
	return result, nil
}

// depletionSeries walks cash down month by month from the current month
// until it reaches zero or the safety cap, whichever comes first.
func depletionSeries(start ledger.Month, cash, burn, runway float64) []CashPoint {
	// Compare in float: the ceil can exceed the int range.
	maxPoints := maxProjectionPoints
	if c := math.Ceil(runway) + runwayCapExtra; c < float64(maxPoints) {
		maxPoints = int(c)
	}
	points := make([]CashPoint, 0, maxPoints)
	for i := 0; i < maxPoints; i++ {
		v := math.Max(0, cash-float64(i)*burn)
		points = append(points, CashPoint{Month: start.AddMonths(i), Cash: v})
		if v == 0 {
			break
		}
	}
	return points
}

func growthSeries(start ledger.Month, cash, growth float64) []CashPoint {
	points := make([]CashPoint, 0, growthProjectionPoints)
	for i := 0; i < growthProjectionPoints; i++ {
		points = append(points, CashPoint{Month: start.AddMonths(i), Cash: cash + float64(i)*growth})
	}
	return points
}

func tail(entries []ledger.CashEntry, n int) []ledger.CashEntry {
	if len(entries) > n {
		return entries[len(entries)-n:]
	}
	return entries
}
