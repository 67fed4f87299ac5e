// Package classifier turns a free-text financial question into the router's
// structured query contract. The LLM call is a network round trip and is the
// only potentially slow operation in the system, so it runs under a timeout;
// any failure or malformed response degrades to keyword matching and finally
// to the unknown intent, never to a propagated error.
package classifier

import (
	"bytes"
	"context"
	"text/template"
	"time"

	"cfocopilot/pkg/core/agent"
	"cfocopilot/pkg/core/ledger"
	"cfocopilot/pkg/core/prompt"
	"cfocopilot/pkg/core/router"
	"cfocopilot/pkg/core/utils"
)

// AgentRole is the agent name used for provider resolution.
const AgentRole = "classifier"

// PromptID is the registry key for the classification prompt; a YAML
// resource file with this ID overrides the built-in template.
const PromptID = "intent_classifier"

const defaultSystemPrompt = `You are a helpful financial assistant. Classify the user's question
into exactly one of the following intents and extract any relevant parameters.

The current date is {{.CurrentMonth}}. If the user asks about "this month" or
"last month", resolve it against this date.

Intents:
- revenue: questions about revenue vs budget.
- gross_margin_trend: questions about gross margin trends.
- opex_breakdown: questions about operating expense breakdowns.
- ebitda: questions about EBITDA.
- cash_runway: questions about cash runway or burn.
- unknown: anything else.

Parameters:
- month: the full month and year (e.g. "June 2025").
- lookback_months: the number of trailing months to consider (e.g. 3).
- currency: the display currency ("USD" or "EUR").

Respond ONLY with a JSON object, no markdown and no extra text:
{"intent": "...", "params": {"month": "...", "lookback_months": 0, "currency": "..."}}`

// rawClassification mirrors the JSON contract the model is asked to emit.
// lookback_months is decoded loosely since models emit it as number or
// string interchangeably.
type rawClassification struct {
	Intent string `json:"intent"`
	Params struct {
		Month          string      `json:"month"`
		LookbackMonths interface{} `json:"lookback_months"`
		Currency       string      `json:"currency"`
	} `json:"params"`
}

// Classifier resolves questions through the configured LLM provider.
type Classifier struct {
	mgr     *agent.Manager
	timeout time.Duration
	now     func() time.Time
}

// New builds a classifier. A non-positive timeout falls back to 10s.
func New(mgr *agent.Manager, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Classifier{mgr: mgr, timeout: timeout, now: time.Now}
}

// Classify maps a question to a router query. It never returns an error:
// classification failures yield the keyword fallback or the unknown intent.
func (c *Classifier) Classify(ctx context.Context, question string) router.Query {
	if c.mgr == nil {
		return Fallback(question)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	systemPrompt, err := c.systemPrompt()
	if err != nil {
		return Fallback(question)
	}
	resp, err := c.mgr.ExecutePrompt(ctx, AgentRole, question, systemPrompt, nil)
	if err != nil {
		return Fallback(question)
	}

	var raw rawClassification
	if err := utils.DecodeLenient(resp, &raw); err != nil {
		return Fallback(question)
	}
	return toQuery(raw)
}

func (c *Classifier) systemPrompt() (string, error) {
	text := defaultSystemPrompt
	if t, err := prompt.Get().Lookup(PromptID); err == nil && t.SystemPrompt != "" {
		text = t.SystemPrompt
	}

	tmpl, err := template.New(PromptID).Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	data := struct{ CurrentMonth string }{CurrentMonth: ledger.MonthOf(c.now()).Label()}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// toQuery validates the model's output against the closed intent set and
// parses the extracted parameters. An unparseable month is left zero so the
// router can ask for clarification instead of crashing.
func toQuery(raw rawClassification) router.Query {
	q := router.Query{Intent: router.IntentUnknown}
	switch router.Intent(raw.Intent) {
	case router.IntentRevenue, router.IntentGrossMarginTrend, router.IntentOpexBreakdown,
		router.IntentEBITDA, router.IntentCashRunway:
		q.Intent = router.Intent(raw.Intent)
	default:
		return q
	}

	if m, ok := parseMonthParam(raw.Params.Month); ok {
		q.Params.Month = m
	}
	q.Params.LookbackMonths = coerceInt(raw.Params.LookbackMonths)
	q.Params.Currency = raw.Params.Currency
	return q
}

// parseMonthParam accepts both the user-facing ("June 2025") and the
// source-data ("2025-06") month conventions.
func parseMonthParam(s string) (ledger.Month, bool) {
	if s == "" {
		return ledger.Month{}, false
	}
	if m, err := ledger.ParseMonthLabel(s); err == nil {
		return m, true
	}
	if m, err := ledger.ParseMonth(s, ledger.DefaultMonthLayout); err == nil {
		return m, true
	}
	return ledger.Month{}, false
}

func coerceInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		var out int
		for _, r := range n {
			if r < '0' || r > '9' {
				return 0
			}
			out = out*10 + int(r-'0')
		}
		return out
	}
	return 0
}
