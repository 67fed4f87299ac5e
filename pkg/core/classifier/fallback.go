package classifier

import (
	"regexp"
	"strconv"
	"strings"

	"cfocopilot/pkg/core/ledger"
	"cfocopilot/pkg/core/router"
)

var (
	monthLabelRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})\b`)
	lookbackRe   = regexp.MustCompile(`(?i)\b(?:last|past|latest)\s+(\d{1,2})\s+months?\b`)
)

// intentKeywords are checked in order; the first hit wins. "cash"/"runway"
// outrank "revenue" so "how long does our cash last" routes correctly.
var intentKeywords = []struct {
	keyword string
	intent  router.Intent
}{
	{"runway", router.IntentCashRunway},
	{"burn", router.IntentCashRunway},
	{"cash", router.IntentCashRunway},
	{"margin", router.IntentGrossMarginTrend},
	{"opex", router.IntentOpexBreakdown},
	{"operating expense", router.IntentOpexBreakdown},
	{"ebitda", router.IntentEBITDA},
	{"revenue", router.IntentRevenue},
	{"sales", router.IntentRevenue},
	{"budget", router.IntentRevenue},
}

// Fallback classifies a question by keyword matching when no LLM backend is
// available. Parameters are extracted with plain regexes; anything it cannot
// find is left for the router to clarify.
func Fallback(question string) router.Query {
	lower := strings.ToLower(question)

	q := router.Query{Intent: router.IntentUnknown}
	for _, kw := range intentKeywords {
		if strings.Contains(lower, kw.keyword) {
			q.Intent = kw.intent
			break
		}
	}
	if q.Intent == router.IntentUnknown {
		return q
	}

	if match := monthLabelRe.FindStringSubmatch(question); match != nil {
		name := strings.ToUpper(match[1][:1]) + strings.ToLower(match[1][1:])
		if m, err := ledger.ParseMonthLabel(name + " " + match[2]); err == nil {
			q.Params.Month = m
		}
	}
	if match := lookbackRe.FindStringSubmatch(question); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil {
			q.Params.LookbackMonths = n
		}
	}
	if strings.Contains(lower, "eur") || strings.Contains(question, "€") {
		q.Params.Currency = string(ledger.EUR)
	}
	return q
}
