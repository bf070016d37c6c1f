package llm

import "testing"

func TestParseDetection(t *testing.T) {
	text := "Here is my classification:\n```json\n{\"agentId\": \"analyzer\", \"reason\": \"transaction analysis request\", \"requiredInputs\": [\"transaction details\"]}\n```"
	det := parseDetection(text)
	if det == nil {
		t.Fatal("expected a detection")
	}
	if det.AgentID != "analyzer" {
		t.Errorf("AgentID = %q, want analyzer", det.AgentID)
	}
	if det.Reason != "transaction analysis request" {
		t.Errorf("Reason = %q", det.Reason)
	}
	if len(det.RequiredInputs) != 1 || det.RequiredInputs[0] != "transaction details" {
		t.Errorf("RequiredInputs = %v", det.RequiredInputs)
	}
}

func TestParseDetectionNoJSON(t *testing.T) {
	if det := parseDetection("I cannot classify this."); det != nil {
		t.Errorf("expected nil, got %+v", det)
	}
}

func TestParseDetectionEmptyAgent(t *testing.T) {
	if det := parseDetection(`{"agentId": "", "reason": "none"}`); det != nil {
		t.Errorf("expected nil for empty agentId, got %+v", det)
	}
}

func TestStringListFieldCoercesScalar(t *testing.T) {
	m := map[string]any{"requiredInputs": "a single input"}
	got := stringListField(m, "requiredInputs")
	if len(got) != 1 || got[0] != "a single input" {
		t.Errorf("stringListField = %v", got)
	}
}

func TestExtractJSONObjectSurroundingProse(t *testing.T) {
	m, err := extractJSONObject("Sure! {\"a\": 1, \"b\": \"x\"} hope that helps")
	if err != nil {
		t.Fatal(err)
	}
	if m["b"] != "x" {
		t.Errorf("m = %v", m)
	}
}
