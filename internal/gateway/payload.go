package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mizan/internal/backend"
	"mizan/internal/logging"
)

// Extraction defaults for required fields the model could not pull out of
// free text. Direct JSON payloads never receive these; a missing field there
// is a MissingFieldsError instead.
const (
	defaultRiskAppetite   = "Medium"
	defaultTenor          = "Medium-term"
	defaultTargetAudience = "Muslim investors"
	defaultDocumentName   = "Unnamed Document"
)

var (
	defaultFeatures   = []string{"Shariah compliance"}
	defaultExclusions = []string{"Interest-based components"}
)

// productDesignPayload resolves free-form content into a ProductDesignPayload.
// JSON-shaped content is parsed strictly and validated without defaulting;
// anything else goes through LLM extraction with defaults for the gaps.
func (g *Gateway) productDesignPayload(ctx context.Context, content string) (*backend.ProductDesignPayload, error) {
	if looksLikeJSON(content) {
		var payload backend.ProductDesignPayload
		if err := json.Unmarshal([]byte(content), &payload); err != nil {
			return nil, fmt.Errorf("invalid product design payload: %w", err)
		}
		if missing := missingProductFields(&payload); len(missing) > 0 {
			return nil, &MissingFieldsError{Tool: ToolProduct, Fields: missing}
		}
		return &payload, nil
	}

	fields, err := g.llm.Extract(ctx, content, ToolProduct)
	if err != nil {
		return nil, fmt.Errorf("product design extraction failed: %w", err)
	}

	payload := &backend.ProductDesignPayload{
		ProductObjective:   stringValue(fields, "product_objective"),
		RiskAppetite:       stringValue(fields, "risk_appetite"),
		InvestmentTenor:    stringValue(fields, "investment_tenor"),
		TargetAudience:     stringValue(fields, "target_audience"),
		AssetFocus:         stringValue(fields, "asset_focus"),
		DesiredFeatures:    listValue(fields, "desired_features"),
		SpecificExclusions: listValue(fields, "specific_exclusions"),
		AdditionalNotes:    stringValue(fields, "additional_notes"),
	}
	applyProductDefaults(payload, content)
	return payload, nil
}

func missingProductFields(p *backend.ProductDesignPayload) []string {
	var missing []string
	if strings.TrimSpace(p.ProductObjective) == "" {
		missing = append(missing, "product_objective")
	}
	if strings.TrimSpace(p.RiskAppetite) == "" {
		missing = append(missing, "risk_appetite")
	}
	if strings.TrimSpace(p.InvestmentTenor) == "" {
		missing = append(missing, "investment_tenor")
	}
	if strings.TrimSpace(p.TargetAudience) == "" {
		missing = append(missing, "target_audience")
	}
	if len(p.DesiredFeatures) == 0 {
		missing = append(missing, "desired_features")
	}
	if len(p.SpecificExclusions) == 0 {
		missing = append(missing, "specific_exclusions")
	}
	return missing
}

func applyProductDefaults(p *backend.ProductDesignPayload, userInput string) {
	if strings.TrimSpace(p.ProductObjective) == "" {
		p.ProductObjective = userInput
	}
	if strings.TrimSpace(p.RiskAppetite) == "" {
		p.RiskAppetite = defaultRiskAppetite
	}
	if strings.TrimSpace(p.InvestmentTenor) == "" {
		p.InvestmentTenor = defaultTenor
	}
	if strings.TrimSpace(p.TargetAudience) == "" {
		p.TargetAudience = defaultTargetAudience
	}
	if len(p.DesiredFeatures) == 0 {
		p.DesiredFeatures = append([]string(nil), defaultFeatures...)
	}
	if len(p.SpecificExclusions) == 0 {
		p.SpecificExclusions = append([]string(nil), defaultExclusions...)
	}
	if strings.TrimSpace(p.AdditionalNotes) == "" {
		p.AdditionalNotes = userInput
	}
}

// compliancePayload resolves content into a CompliancePayload. Content
// starting with "@" names document files by glob pattern; JSON-shaped content
// is parsed strictly; everything else goes through LLM extraction.
func (g *Gateway) compliancePayload(ctx context.Context, content string) (*backend.CompliancePayload, error) {
	if strings.HasPrefix(strings.TrimSpace(content), "@") {
		return loadDocumentPayload(strings.TrimSpace(content))
	}

	if looksLikeJSON(content) {
		var payload backend.CompliancePayload
		if err := json.Unmarshal([]byte(content), &payload); err != nil {
			return nil, fmt.Errorf("invalid compliance payload: %w", err)
		}
		if strings.TrimSpace(payload.DocumentContent) == "" {
			return nil, &MissingFieldsError{Tool: ToolCompliance, Fields: []string{"document_content"}}
		}
		return &payload, nil
	}

	fields, err := g.llm.Extract(ctx, content, ToolCompliance)
	if err != nil {
		return nil, fmt.Errorf("compliance extraction failed: %w", err)
	}

	payload := &backend.CompliancePayload{
		DocumentContent: stringValue(fields, "document_content"),
		DocumentName:    stringValue(fields, "document_name"),
	}
	if strings.TrimSpace(payload.DocumentContent) == "" {
		payload.DocumentContent = content
	}
	if strings.TrimSpace(payload.DocumentName) == "" {
		payload.DocumentName = defaultDocumentName
	}
	return payload, nil
}

// looksLikeJSON reports whether content should take the strict parse path.
func looksLikeJSON(content string) bool {
	trimmed := strings.TrimSpace(content)
	return strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")
}

func stringValue(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func listValue(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		if v != nil {
			logging.Debug("Unexpected list field shape", "key", key, "type", fmt.Sprintf("%T", v))
		}
		return nil
	}
}
