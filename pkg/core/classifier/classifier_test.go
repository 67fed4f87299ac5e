package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"cfocopilot/pkg/core/agent"
	"cfocopilot/pkg/core/ledger"
	"cfocopilot/pkg/core/router"
)

// scriptedProvider returns a fixed response (or error) for every prompt.
type scriptedProvider struct {
	response string
	err      error
}

func (p *scriptedProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	return p.response, p.err
}

func newTestClassifier(p *scriptedProvider) *Classifier {
	mgr := agent.NewManager(agent.Config{ActiveProvider: "scripted"})
	mgr.RegisterProvider("scripted", p)
	c := New(mgr, time.Second)
	c.now = func() time.Time { return time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestClassifyWellFormedResponse(t *testing.T) {
	c := newTestClassifier(&scriptedProvider{
		response: `{"intent":"revenue","params":{"month":"June 2025","lookback_months":0,"currency":"EUR"}}`,
	})
	q := c.Classify(context.Background(), "What was June 2025 revenue vs budget in EUR?")
	if q.Intent != router.IntentRevenue {
		t.Fatalf("intent = %s", q.Intent)
	}
	if q.Params.Month != (ledger.Month{Year: 2025, Mon: time.June}) {
		t.Errorf("month = %v", q.Params.Month)
	}
	if q.Params.Currency != "EUR" {
		t.Errorf("currency = %q", q.Params.Currency)
	}
}

func TestClassifyFencedAndSloppyJSON(t *testing.T) {
	// Models fence their JSON and drift from strict syntax; both must
	// still decode.
	c := newTestClassifier(&scriptedProvider{
		response: "```json\n{'intent': 'cash_runway', 'params': {'lookback_months': '6',},}\n```",
	})
	q := c.Classify(context.Background(), "how long is our runway?")
	if q.Intent != router.IntentCashRunway {
		t.Fatalf("intent = %s", q.Intent)
	}
	if q.Params.LookbackMonths != 6 {
		t.Errorf("lookback = %d", q.Params.LookbackMonths)
	}
}

func TestClassifyProviderErrorFallsBack(t *testing.T) {
	c := newTestClassifier(&scriptedProvider{err: errors.New("network down")})
	q := c.Classify(context.Background(), "show me the opex breakdown for June 2025")
	if q.Intent != router.IntentOpexBreakdown {
		t.Fatalf("fallback intent = %s", q.Intent)
	}
	if q.Params.Month.IsZero() {
		t.Error("fallback should extract the month")
	}
}

func TestClassifyGarbageResponseFallsBack(t *testing.T) {
	c := newTestClassifier(&scriptedProvider{response: "Sure! Revenue is going great this quarter."})
	q := c.Classify(context.Background(), "what's the weather like?")
	if q.Intent != router.IntentUnknown {
		t.Fatalf("intent = %s, want unknown", q.Intent)
	}
}

func TestClassifyUnknownIntentName(t *testing.T) {
	c := newTestClassifier(&scriptedProvider{response: `{"intent":"stock_price","params":{}}`})
	q := c.Classify(context.Background(), "what is our stock price?")
	if q.Intent != router.IntentUnknown {
		t.Fatalf("intent = %s, want unknown", q.Intent)
	}
}

func TestFallbackKeywords(t *testing.T) {
	cases := map[string]router.Intent{
		"what was revenue in June 2025":       router.IntentRevenue,
		"show gross margin over last 6 months": router.IntentGrossMarginTrend,
		"opex breakdown please":               router.IntentOpexBreakdown,
		"ebitda for June 2025":                router.IntentEBITDA,
		"when do we run out of cash":          router.IntentCashRunway,
		"tell me a joke":                      router.IntentUnknown,
	}
	for question, want := range cases {
		if got := Fallback(question).Intent; got != want {
			t.Errorf("Fallback(%q) = %s, want %s", question, got, want)
		}
	}

	q := Fallback("show gross margin over the last 6 months in eur")
	if q.Params.LookbackMonths != 6 {
		t.Errorf("lookback = %d", q.Params.LookbackMonths)
	}
	if q.Params.Currency != "EUR" {
		t.Errorf("currency = %q", q.Params.Currency)
	}
}
