package ledger

import "fmt"

// ParseError reports a malformed amount or month token encountered during a
// load. Any ParseError aborts the whole load: a partial ledger would produce
// silently wrong aggregates.
type ParseError struct {
	Field string // column the token came from
	Value string // offending raw token
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q: %s", e.Field, e.Value, e.Msg)
}

// MissingRateError reports a ledger row whose (month, currency) pair has no
// FX coverage. Silent zero-fill would corrupt every downstream aggregate, so
// this is fatal to the load.
type MissingRateError struct {
	Month    Month
	Currency string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no fx rate for currency %s in %s", e.Currency, e.Month)
}
