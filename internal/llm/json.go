package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSONObject pulls the first top-level JSON object out of model text.
// Models frequently wrap the object in prose or code fences, so the match is
// from the first '{' to the last '}'.
func extractJSONObject(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return obj, nil
}

// stringField reads a string value from a decoded JSON object.
func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

// stringListField reads a list of strings from a decoded JSON object,
// coercing a bare string into a single-element list.
func stringListField(obj map[string]any, key string) []string {
	switch v := obj[key].(type) {
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// parseDetection converts model text into an AgentDetection, or nil when no
// usable JSON object is present.
func parseDetection(text string) *AgentDetection {
	obj, err := extractJSONObject(text)
	if err != nil {
		return nil
	}

	agentID := stringField(obj, "agentId")
	if agentID == "" {
		return nil
	}

	return &AgentDetection{
		AgentID:        agentID,
		Reason:         stringField(obj, "reason"),
		RequiredInputs: stringListField(obj, "requiredInputs"),
	}
}
