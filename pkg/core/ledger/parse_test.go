package ledger

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1234.5", 1234.5},
		{"1,234", 1234},
		{"$1,234,567.89", 1234567.89},
		{"€950", 950},
		{"(1,234)", -1234},
		{"( 500 )", -500},
		{"-42.5", -42.5},
		{"", 0},
		{"   ", 0},
		{"-", 0}, // placeholder dash means no activity
		{"0", 0},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	for _, in := range []string{"abc", "12x", "(12", "1.2.3"} {
		_, err := ParseAmount(in)
		if err == nil {
			t.Errorf("ParseAmount(%q): expected error, got nil", in)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParseAmount(%q): error %v is not a ParseError", in, err)
		}
	}
}

func TestFormatAmountRoundTrip(t *testing.T) {
	// Round-trip must recover the exact value, including accounting
	// negatives and zero.
	for _, v := range []float64{0, 1, -1, 1234, -1234, 1234567.89, -0.5, 999999999.25} {
		s := FormatAmount(v)
		got, err := ParseAmount(s)
		if err != nil {
			t.Fatalf("ParseAmount(FormatAmount(%v) = %q): %v", v, s, err)
		}
		if got != v {
			t.Errorf("round trip %v -> %q -> %v", v, s, got)
		}
	}
	if s := FormatAmount(-1234); s != "(1,234)" {
		t.Errorf("FormatAmount(-1234) = %q, want (1,234)", s)
	}
	if s := FormatAmount(1234567.5); s != "1,234,567.5" {
		t.Errorf("FormatAmount(1234567.5) = %q", s)
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2025-06", DefaultMonthLayout)
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}
	if m.String() != "2025-06" || m.Label() != "June 2025" {
		t.Errorf("got %q / %q", m.String(), m.Label())
	}

	// Legacy Mon-YY exports are supported by configuring the layout.
	m, err = ParseMonth("Jun-25", "Jan-06")
	if err != nil {
		t.Fatalf("ParseMonth legacy layout: %v", err)
	}
	if m.String() != "2025-06" {
		t.Errorf("legacy layout parsed to %s", m)
	}

	if _, err := ParseMonth("June 2025", DefaultMonthLayout); err == nil {
		t.Error("expected layout mismatch error")
	}
}

func TestMonthArithmetic(t *testing.T) {
	m := Month{2025, 1}
	if got := m.AddMonths(-1); got.String() != "2024-12" {
		t.Errorf("Jan 2025 - 1 = %s", got)
	}
	if got := m.AddMonths(11); got.String() != "2025-12" {
		t.Errorf("Jan 2025 + 11 = %s", got)
	}
	if got := m.AddMonths(12); got.String() != "2026-01" {
		t.Errorf("Jan 2025 + 12 = %s", got)
	}
	if !m.Before(Month{2025, 2}) || m.Before(Month{2024, 12}) {
		t.Error("Before ordering wrong")
	}
}

func TestOpexSubcategory(t *testing.T) {
	if sub, ok := OpexSubcategory("Opex:R&D"); !ok || sub != "R&D" {
		t.Errorf("got %q, %v", sub, ok)
	}
	if _, ok := OpexSubcategory("Revenue"); ok {
		t.Error("Revenue should not be opex")
	}
}
