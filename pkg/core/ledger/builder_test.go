package ledger

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func decode(t *testing.T, name, csvText string, required []string) *RawTable {
	t.Helper()
	table, err := DecodeTable(name, strings.NewReader(csvText), required)
	if err != nil {
		t.Fatalf("DecodeTable(%s): %v", name, err)
	}
	return table
}

const fxCSV = `month,currency,rate_to_usd
2025-06,USD,1.0
2025-06,EUR,1.08
2025-05,USD,1.0
2025-05,EUR,1.10
`

func testTables(t *testing.T) (actuals, budget, fx, cash *RawTable) {
	actuals = decode(t, "actuals", `entity,account_category,month,currency,amount
EMEA,Revenue,2025-06,USD,"100,000"
EMEA,COGS,2025-06,USD,"40,000"
EMEA,Opex:Marketing,2025-06,EUR,"10,000"
`, ActualsColumns)
	budget = decode(t, "budget", `entity,account_category,month,currency,amount
EMEA,Revenue,2025-06,USD,"90,000"
`, BudgetColumns)
	fx = decode(t, "fx", fxCSV, FXColumns)
	cash = decode(t, "cash", `entity,month,currency,cash_usd
EMEA,2025-06,USD,"200,000"
EMEA,2025-05,USD,"220,000"
`, CashColumns)
	return
}

func TestDecodeTableRequiresColumns(t *testing.T) {
	_, err := DecodeTable("actuals", strings.NewReader("entity,month\nA,2025-06\n"), ActualsColumns)
	if err == nil || !strings.Contains(err.Error(), "account_category") {
		t.Fatalf("expected missing-column error, got %v", err)
	}
}

func TestBuildConversions(t *testing.T) {
	actuals, budget, fx, cash := testTables(t)
	l, err := Build(actuals, budget, fx, cash, DefaultMonthLayout)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// USD revenue row: usd = 100000*1.0, eur = 100000*(1.0/1.08)
	var rev Entry
	for _, e := range l.Actuals {
		if e.Category == CategoryRevenue {
			rev = e
		}
	}
	if rev.AmountUSD != 100000 {
		t.Errorf("revenue usd = %v", rev.AmountUSD)
	}
	if math.Abs(rev.AmountEUR-100000/1.08) > 1e-9 {
		t.Errorf("revenue eur = %v, want %v", rev.AmountEUR, 100000/1.08)
	}

	// EUR opex row: usd = 10000*1.08, eur = 10000*(1.08/1.08) = 10000 exactly.
	var opex Entry
	for _, e := range l.Actuals {
		if e.Category == "Opex:Marketing" {
			opex = e
		}
	}
	if math.Abs(opex.AmountUSD-10800) > 1e-9 {
		t.Errorf("opex usd = %v", opex.AmountUSD)
	}
	if opex.AmountEUR != 10000 {
		// Cross-rate invariant: rate_to_eur(EUR) must be exactly 1.0.
		t.Errorf("opex eur = %v, want 10000 exactly", opex.AmountEUR)
	}

	// Cash: sorted ascending, eur = usd/1.08 for June.
	if len(l.Cash) != 2 || l.Cash[0].Month.String() != "2025-05" {
		t.Fatalf("cash series not sorted ascending: %+v", l.Cash)
	}
	june := l.Cash[1]
	if math.Abs(june.CashEUR-200000/1.08) > 1e-9 {
		t.Errorf("cash eur = %v", june.CashEUR)
	}
}

func TestBuildMissingRateIsFatal(t *testing.T) {
	actuals, budget, _, cash := testTables(t)
	// FX table with no EUR row for June: every June row needs the EUR cross
	// rate, so the whole load must fail.
	fx := decode(t, "fx", "month,currency,rate_to_usd\n2025-06,USD,1.0\n2025-05,EUR,1.10\n", FXColumns)
	_, err := Build(actuals, budget, fx, cash, DefaultMonthLayout)
	var mre *MissingRateError
	if !errors.As(err, &mre) {
		t.Fatalf("expected MissingRateError, got %v", err)
	}
	if mre.Currency != "EUR" {
		t.Errorf("missing currency = %s", mre.Currency)
	}
}

func TestBuildUnknownCurrencyIsFatal(t *testing.T) {
	_, budget, fx, cash := testTables(t)
	actuals := decode(t, "actuals", "entity,account_category,month,currency,amount\nEMEA,Revenue,2025-06,GBP,100\n", ActualsColumns)
	_, err := Build(actuals, budget, fx, cash, DefaultMonthLayout)
	var mre *MissingRateError
	if !errors.As(err, &mre) {
		t.Fatalf("expected MissingRateError for GBP, got %v", err)
	}
}

func TestBuildBadAmountAbortsLoad(t *testing.T) {
	_, budget, fx, cash := testTables(t)
	actuals := decode(t, "actuals", "entity,account_category,month,currency,amount\nEMEA,Revenue,2025-06,USD,garbage\n", ActualsColumns)
	_, err := Build(actuals, budget, fx, cash, DefaultMonthLayout)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestBuildDuplicateCashMonth(t *testing.T) {
	actuals, budget, fx, _ := testTables(t)
	cash := decode(t, "cash", "entity,month,currency,cash_usd\nEMEA,2025-06,USD,1\nEMEA,2025-06,USD,2\n", CashColumns)
	if _, err := Build(actuals, budget, fx, cash, DefaultMonthLayout); err == nil {
		t.Fatal("expected duplicate cash month error")
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	actuals, budget, fx, cash := testTables(t)
	a, err := Build(actuals, budget, fx, cash, DefaultMonthLayout)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(actuals, budget, fx, cash, DefaultMonthLayout)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two builds from identical input differ")
	}
}
