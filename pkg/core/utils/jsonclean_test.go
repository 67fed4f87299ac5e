package utils

import "testing"

type intentPayload struct {
	Intent string `json:"intent"`
	Params struct {
		Month string `json:"month"`
	} `json:"params"`
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		`{"a":1}`:                 `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripCodeFences(in); got != want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeLenient(t *testing.T) {
	inputs := []string{
		`{"intent":"revenue","params":{"month":"June 2025"}}`,
		"```json\n{\"intent\":\"revenue\",\"params\":{\"month\":\"June 2025\"}}\n```",
		// Single quotes and trailing comma: repairable.
		`{'intent': 'revenue', 'params': {'month': 'June 2025'},}`,
		// Hjson: unquoted keys.
		"{\n  intent: revenue\n  params: {month: June 2025}\n}",
	}
	for _, in := range inputs {
		var p intentPayload
		if err := DecodeLenient(in, &p); err != nil {
			t.Errorf("DecodeLenient(%q): %v", in, err)
			continue
		}
		if p.Intent != "revenue" || p.Params.Month != "June 2025" {
			t.Errorf("DecodeLenient(%q) = %+v", in, p)
		}
	}
}

func TestDecodeLenientGarbage(t *testing.T) {
	var p intentPayload
	if err := DecodeLenient("I'm sorry, I cannot answer: that.", &p); err == nil && p.Intent != "" {
		t.Errorf("garbage decoded to %+v", p)
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("**Revenue** for June 2025:\n- Actual: $100,000\n") {
		t.Error("well-formed markdown rejected")
	}
}
