package router

import (
	"strings"
	"testing"
	"time"

	"cfocopilot/pkg/core/ledger"
	"cfocopilot/pkg/core/metrics"
)

func june() ledger.Month { return ledger.Month{Year: 2025, Mon: time.June} }

func testLedger() *ledger.Ledger {
	return &ledger.Ledger{
		Actuals: []ledger.Entry{
			{Month: june(), Category: ledger.CategoryRevenue, AmountUSD: 100000, AmountEUR: 92000},
			{Month: june(), Category: "Opex:Marketing", AmountUSD: 30000, AmountEUR: 27600},
		},
		Budget: []ledger.Entry{
			{Month: june(), Category: ledger.CategoryRevenue, AmountUSD: 90000, AmountEUR: 82800},
		},
		Cash: []ledger.CashEntry{
			{Month: june(), CashUSD: 200000, CashEUR: 184000},
		},
	}
}

func TestDispatchRevenue(t *testing.T) {
	res := Dispatch(testLedger(), Query{Intent: IntentRevenue, Params: Params{Month: june()}})
	if res.Status != StatusOK {
		t.Fatalf("status = %s (%s)", res.Status, res.Message)
	}
	rev, ok := res.Data.(*metrics.RevenueResult)
	if !ok {
		t.Fatalf("data type %T", res.Data)
	}
	// Currency defaults to USD when unspecified.
	if rev.Currency != ledger.USD || rev.Actual != 100000 {
		t.Errorf("got %+v", rev)
	}
}

func TestDispatchMissingMonthClarifies(t *testing.T) {
	for _, intent := range []Intent{IntentRevenue, IntentOpexBreakdown, IntentEBITDA} {
		res := Dispatch(testLedger(), Query{Intent: intent})
		if res.Status != StatusClarify {
			t.Errorf("%s without month: status = %s, want clarify", intent, res.Status)
		}
		if !strings.Contains(res.Message, "month") {
			t.Errorf("%s clarification does not mention month: %q", intent, res.Message)
		}
	}
}

func TestDispatchNoData(t *testing.T) {
	q := Query{Intent: IntentRevenue, Params: Params{Month: ledger.Month{Year: 2030, Mon: time.January}}}
	res := Dispatch(testLedger(), q)
	if res.Status != StatusNoData {
		t.Errorf("status = %s, want no_data", res.Status)
	}
}

func TestDispatchUnknownIntent(t *testing.T) {
	res := Dispatch(testLedger(), Query{Intent: IntentUnknown})
	if res.Status != StatusClarify {
		t.Errorf("status = %s", res.Status)
	}
	if !strings.Contains(res.Message, "Cash runway") {
		t.Errorf("unknown-intent reply should list capabilities, got %q", res.Message)
	}
}

func TestDispatchUnsupportedCurrency(t *testing.T) {
	q := Query{Intent: IntentRevenue, Params: Params{Month: june(), Currency: "GBP"}}
	res := Dispatch(testLedger(), q)
	if res.Status != StatusClarify {
		t.Errorf("status = %s, want clarify for unsupported currency", res.Status)
	}
}

func TestDispatchRunwayDefaults(t *testing.T) {
	res := Dispatch(testLedger(), Query{Intent: IntentCashRunway})
	if res.Status != StatusOK {
		t.Fatalf("status = %s (%s)", res.Status, res.Message)
	}
	run := res.Data.(*metrics.RunwayResult)
	if run.LookbackMonths != DefaultLookbackMonths {
		t.Errorf("lookback = %d, want default %d", run.LookbackMonths, DefaultLookbackMonths)
	}
}

func TestDispatchNilLedger(t *testing.T) {
	res := Dispatch(nil, Query{Intent: IntentRevenue, Params: Params{Month: june()}})
	if res.Status != StatusError {
		t.Errorf("status = %s, want error", res.Status)
	}
}
