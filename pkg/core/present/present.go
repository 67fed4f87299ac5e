// Package present turns the router's structured results into chat-ready
// markdown plus a chart description. It is the only layer that formats
// numbers as text; nothing here feeds back into the metrics engine.
package present

import (
	"fmt"
	"math"
	"strings"

	"cfocopilot/pkg/core/ledger"
	"cfocopilot/pkg/core/metrics"
	"cfocopilot/pkg/core/router"
	"cfocopilot/pkg/core/utils"
)

// Chart describes a figure for the UI to render. The core emits plain
// labels and values; chart rendering itself is out of scope.
type Chart struct {
	Kind   string    `json:"kind"` // "bar", "line" or "pie"
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Answer is a rendered query outcome.
type Answer struct {
	Text  string `json:"text"`
	Chart *Chart `json:"chart,omitempty"`
}

// Money renders an amount with its currency symbol in the accounting style
// the value parser accepts.
func Money(v float64, c ledger.Currency) string {
	symbol := "$"
	if c == ledger.EUR {
		symbol = "€"
	}
	return symbol + ledger.FormatAmount(math.Round(v))
}

// Pct renders a percentage to one decimal, with a readable form for the
// infinite variance case (budget zero, actual not).
func Pct(v float64) string {
	if math.IsInf(v, 1) {
		return "n/a (no budget)"
	}
	return fmt.Sprintf("%.1f%%", v)
}

// Render turns a dispatch result into an answer. Non-ok statuses become
// plain-text replies; ok results are rendered per metric.
func Render(res router.Result) Answer {
	if res.Status != router.StatusOK {
		return Answer{Text: res.Message}
	}

	var a Answer
	switch data := res.Data.(type) {
	case *metrics.RevenueResult:
		a = renderRevenue(data)
	case *metrics.MarginTrend:
		a = renderMarginTrend(data)
	case *metrics.OpexBreakdown:
		a = renderOpex(data)
	case *metrics.EBITDAResult:
		a = renderEBITDA(data)
	case *metrics.RunwayResult:
		a = renderRunway(data)
	default:
		a = Answer{Text: fmt.Sprintf("Unrenderable result type %T.", res.Data)}
	}

	if !utils.ValidateMarkdown(a.Text) {
		a.Text = strings.ReplaceAll(a.Text, "*", "")
	}
	return a
}

func renderRevenue(r *metrics.RevenueResult) Answer {
	text := fmt.Sprintf("**Revenue for %s**\n- Actual: %s\n- Budget: %s\n- Variance: %s (%s)",
		r.Month.Label(), Money(r.Actual, r.Currency), Money(r.Budget, r.Currency),
		Money(r.Variance, r.Currency), Pct(r.VariancePct))
	return Answer{
		Text: text,
		Chart: &Chart{
			Kind:   "bar",
			Title:  "Revenue vs Budget — " + r.Month.Label(),
			Labels: []string{"Actual", "Budget"},
			Values: []float64{r.Actual, r.Budget},
		},
	}
}

func renderMarginTrend(t *metrics.MarginTrend) Answer {
	chart := &Chart{Kind: "line", Title: "Gross Margin %"}
	for _, p := range t.Points {
		chart.Labels = append(chart.Labels, p.Month.Label())
		chart.Values = append(chart.Values, p.MarginPct)
	}
	text := fmt.Sprintf("The latest gross margin for %s was %s.", t.LatestMonth.Label(), Pct(t.LatestPct))
	return Answer{Text: text, Chart: chart}
}

func renderOpex(b *metrics.OpexBreakdown) Answer {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Opex breakdown for %s**\n", b.Month.Label())
	chart := &Chart{Kind: "pie", Title: "Opex — " + b.Month.Label()}
	for _, item := range b.Items {
		fmt.Fprintf(&sb, "- %s: %s\n", item.Subcategory, Money(item.Amount, b.Currency))
		chart.Labels = append(chart.Labels, item.Subcategory)
		chart.Values = append(chart.Values, item.Amount)
	}
	fmt.Fprintf(&sb, "- Total Opex: %s", Money(b.Total, b.Currency))
	return Answer{Text: sb.String(), Chart: chart}
}

func renderEBITDA(e *metrics.EBITDAResult) Answer {
	text := fmt.Sprintf("EBITDA for %s: %s (revenue %s − COGS %s − opex %s)",
		e.Month.Label(), Money(e.EBITDA, e.Currency), Money(e.Revenue, e.Currency),
		Money(e.COGS, e.Currency), Money(e.Opex, e.Currency))
	return Answer{
		Text: text,
		Chart: &Chart{
			Kind:   "bar",
			Title:  "EBITDA — " + e.Month.Label(),
			Labels: []string{"Revenue", "COGS", "Opex", "EBITDA"},
			Values: []float64{e.Revenue, e.COGS, e.Opex, e.EBITDA},
		},
	}
}

func renderRunway(r *metrics.RunwayResult) Answer {
	chart := &Chart{Kind: "line", Title: "Cash projection"}
	for _, p := range r.History {
		chart.Labels = append(chart.Labels, p.Month.Label())
		chart.Values = append(chart.Values, p.Cash)
	}
	// Projection continues from the history; skip its first point, which
	// repeats the current month.
	for i, p := range r.Projection {
		if i == 0 && len(r.History) > 0 {
			continue
		}
		chart.Labels = append(chart.Labels, p.Month.Label())
		chart.Values = append(chart.Values, p.Cash)
	}

	var text string
	if r.RunwayDefined {
		text = fmt.Sprintf("Current cash is %s with an average net burn of %s/month over the last %d months: about %.1f months of runway.",
			Money(r.CurrentCash, r.Currency), Money(r.AvgNetBurn, r.Currency), r.LookbackMonths, r.RunwayMonths)
	} else {
		text = fmt.Sprintf("Cash is not being burned: current cash is %s and grew by about %s/month over the last %d months.",
			Money(r.CurrentCash, r.Currency), Money(-r.AvgNetBurn, r.Currency), r.LookbackMonths)
	}
	return Answer{Text: text, Chart: chart}
}
