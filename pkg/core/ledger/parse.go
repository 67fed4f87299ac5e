package ledger

import (
	"strconv"
	"strings"
	"time"
)

// DefaultMonthLayout is the source-data month convention ("2025-06").
// Legacy exports using "Jun-25" tokens can be loaded with layout "Jan-06".
const DefaultMonthLayout = "2006-01"

// ParseAmount normalizes a textual monetary token into a signed float.
//
// Accepted forms: plain decimals, thousands separators ("1,234.50"),
// currency symbols ("$1,200", "€950"), and the accounting-negative
// convention "(1,234)" for -1234. Empty, whitespace-only, or placeholder
// dash tokens mean absence of activity and parse to 0.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" || s == "–" {
		return 0, nil
	}

	for _, sym := range []string{"$", "€", "£"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Field: "amount", Value: raw, Msg: "not a decimal number"}
	}
	if negative {
		v = -v
	}
	return v, nil
}

// FormatAmount renders a float in the accounting style ParseAmount accepts:
// thousands separators and parentheses for negatives. The rendering is
// lossless, so ParseAmount(FormatAmount(x)) == x.
func FormatAmount(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + fracPart
	if negative {
		return "(" + out + ")"
	}
	return out
}

// ParseMonth converts a textual month token into a calendar month using the
// given Go time layout. A mismatch is fatal for the row's load, not
// recoverable per row.
func ParseMonth(raw, layout string) (Month, error) {
	if layout == "" {
		layout = DefaultMonthLayout
	}
	t, err := time.Parse(layout, strings.TrimSpace(raw))
	if err != nil {
		return Month{}, &ParseError{Field: "month", Value: raw, Msg: "does not match layout " + layout}
	}
	return MonthOf(t), nil
}

// ParseMonthLabel parses the user-facing convention ("June 2025"). The
// classifier boundary uses it to turn extracted month references into
// calendar months.
func ParseMonthLabel(raw string) (Month, error) {
	return ParseMonth(raw, "January 2006")
}
