// metrics-engine runs one metric against a data directory and prints the
// raw result as JSON. It exists for scripting and for checking numbers
// without the language layer in between:
//
//	metrics-engine -mode revenue -data fixtures -month 2025-06
//	metrics-engine -mode runway -data fixtures -lookback 3
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"cfocopilot/pkg/core/dataset"
	"cfocopilot/pkg/core/ledger"
	"cfocopilot/pkg/core/metrics"
)

func main() {
	mode := flag.String("mode", "", "Metric: revenue, margin, opex, ebitda or runway")
	dataDir := flag.String("data", "fixtures", "Data directory with the source CSVs")
	monthStr := flag.String("month", "", "Month (e.g. 2025-06)")
	lookback := flag.Int("lookback", 3, "Lookback window in months")
	currencyStr := flag.String("currency", "USD", "Reporting currency: USD or EUR")
	layout := flag.String("month-layout", "", "Month column layout override")
	flag.Parse()

	currency, err := ledger.ParseCurrency(*currencyStr)
	if err != nil {
		fatal(err)
	}

	var month ledger.Month
	if *monthStr != "" {
		if month, err = ledger.ParseMonth(*monthStr, ""); err != nil {
			fatal(err)
		}
	}

	l, err := dataset.NewLoader(*dataDir, *layout).Load()
	if err != nil {
		fatal(err)
	}

	var result interface{}
	switch *mode {
	case "revenue":
		result, err = metrics.Revenue(l, requireMonth(month), currency)
	case "margin":
		result, err = metrics.GrossMarginTrend(l, *lookback)
	case "opex":
		result, err = metrics.OpexBreakdownFor(l, requireMonth(month), currency)
	case "ebitda":
		result = metrics.EBITDA(l, requireMonth(month), currency)
	case "runway":
		result, err = metrics.CashRunway(l, currency, *lookback, month)
	default:
		fatal(fmt.Errorf("unknown mode %q (want revenue, margin, opex, ebitda or runway)", *mode))
	}
	if err != nil {
		fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fatal(err)
	}
}

func requireMonth(m ledger.Month) ledger.Month {
	if m.IsZero() {
		fatal(fmt.Errorf("this mode requires -month"))
	}
	return m
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
