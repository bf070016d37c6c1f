package panel

import "testing"

func TestClassifyUseCasePriority(t *testing.T) {
	// A payload carrying both use-case and analyzer keys must classify as
	// use case: the predicate order is contractual.
	payload := map[string]any{
		"scenario":            "ijara lease",
		"accounting_guidance": "recognize right-of-use asset",
		"analysis":            "should be ignored",
	}
	v := Classify(payload)
	if v.Kind != KindUseCase {
		t.Errorf("Kind = %v, want KindUseCase", v.Kind)
	}
}

func TestClassifyAnalyzerDetailed(t *testing.T) {
	v := Classify(map[string]any{
		"analysis":             "full analysis",
		"correct_standard":     "FAS 32",
		"applicable_standards": []any{"FAS 32", "FAS 28"},
	})
	if v.Kind != KindAnalyzer || !v.Detailed {
		t.Errorf("got %+v, want detailed analyzer", v)
	}
}

func TestClassifyAnalyzerSimple(t *testing.T) {
	v := Classify(map[string]any{
		"analysis":  "short analysis",
		"compliant": true,
		"rationale": "follows FAS 28",
	})
	if v.Kind != KindAnalyzer || v.Detailed {
		t.Errorf("got %+v, want simple analyzer", v)
	}
}

func TestClassifyStringJSON(t *testing.T) {
	v := Classify(`{"scenario": "s", "accounting_guidance": "g"}`)
	if v.Kind != KindUseCase {
		t.Errorf("Kind = %v, want KindUseCase", v.Kind)
	}
}

func TestClassifyStringNotJSON(t *testing.T) {
	v := Classify("Scenario: lease\nGuidance: recognize asset")
	if v.Kind != KindPlainText {
		t.Errorf("Kind = %v, want KindPlainText", v.Kind)
	}
	if v.Text == "" {
		t.Error("Text not preserved")
	}
}

func TestClassifyGenericFallback(t *testing.T) {
	v := Classify(map[string]any{"review": "text", "proposal": "more text"})
	if v.Kind != KindGeneric {
		t.Errorf("Kind = %v, want KindGeneric", v.Kind)
	}
}

func TestClassifyStructRoundTrip(t *testing.T) {
	type resp struct {
		Analysis  string `json:"analysis"`
		Compliant bool   `json:"compliant"`
	}
	v := Classify(resp{Analysis: "a", Compliant: false})
	if v.Kind != KindAnalyzer || v.Detailed {
		t.Errorf("got %+v, want simple analyzer", v)
	}
}

func TestLooksLikeMarkdown(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"plain sentence with nothing special", false},
		{"has **bold** text", true},
		{"# A Header", true},
		{"- a list item\n- another", true},
		{"> a quote", true},
		{"run `go env` first", true},
		{"see [docs](https://example.com)", true},
		{"```\ncode\n```", true},
	}
	for _, c := range cases {
		if got := LooksLikeMarkdown(c.in); got != c.want {
			t.Errorf("LooksLikeMarkdown(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
