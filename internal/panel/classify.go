// Package panel classifies and renders raw tool results for the detail
// panel. Classification is duck typed over the payload shape; the priority
// order of the predicates is contractual.
package panel

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Kind identifies the display variant for a tool result payload.
type Kind int

const (
	// KindPlainText renders the payload as an opaque string.
	KindPlainText Kind = iota
	// KindUseCase renders a journaling scenario/guidance pair.
	KindUseCase
	// KindAnalyzer renders a transaction analysis.
	KindAnalyzer
	// KindGeneric renders arbitrary key/value structure.
	KindGeneric
)

// Variant is the classified view of a payload.
type Variant struct {
	Kind   Kind
	Text   string         // set for KindPlainText
	Fields map[string]any // set for the object kinds

	// Detailed distinguishes the full analyzer response (standards and
	// rationale) from the simple compliant/rationale shape.
	Detailed bool
}

// Classify resolves a raw tool result into a display variant. A string
// payload gets one JSON parse attempt; failure means plain text. Objects are
// tested in fixed priority order: use case, analyzer, then generic.
func Classify(payload any) Variant {
	switch v := payload.(type) {
	case nil:
		return Variant{Kind: KindPlainText}
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return Variant{Kind: KindPlainText, Text: v}
		}
		obj, ok := parsed.(map[string]any)
		if !ok {
			return Variant{Kind: KindPlainText, Text: v}
		}
		return classifyObject(obj)
	case map[string]any:
		return classifyObject(v)
	default:
		// Typed structs arrive from the gateway; round-trip through JSON to
		// get the wire field names.
		data, err := json.Marshal(v)
		if err != nil {
			return Variant{Kind: KindPlainText, Text: fmt.Sprint(v)}
		}
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			return Variant{Kind: KindPlainText, Text: string(data)}
		}
		return classifyObject(obj)
	}
}

func classifyObject(obj map[string]any) Variant {
	if _, hasScenario := obj["scenario"]; hasScenario {
		if _, hasGuidance := obj["accounting_guidance"]; hasGuidance {
			return Variant{Kind: KindUseCase, Fields: obj}
		}
	}
	if _, hasAnalysis := obj["analysis"]; hasAnalysis {
		return Variant{Kind: KindAnalyzer, Fields: obj, Detailed: analyzerDetailed(obj)}
	}
	return Variant{Kind: KindGeneric, Fields: obj}
}

func analyzerDetailed(obj map[string]any) bool {
	if _, ok := obj["correct_standard"]; ok {
		return true
	}
	_, ok := obj["applicable_standards"]
	return ok
}

var markdownPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\*\*[^*]+\*\*`),          // bold
	regexp.MustCompile(`\*[^*\n]+\*`),            // italic
	regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`),    // link
	regexp.MustCompile(`(?m)^#{1,6} `),           // header
	regexp.MustCompile(`(?m)^\s*[-*+] `),         // list
	regexp.MustCompile(`(?m)^> `),                // blockquote
	regexp.MustCompile("```"),                    // code fence
	regexp.MustCompile("`[^`\n]+`"),              // inline code
}

// LooksLikeMarkdown reports whether a string payload should be rendered as
// rich text rather than verbatim.
func LooksLikeMarkdown(s string) bool {
	for _, p := range markdownPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
