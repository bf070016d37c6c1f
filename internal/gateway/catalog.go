package gateway

import "mizan/internal/chat"

// Tool identifiers understood by the gateway.
const (
	ToolJournaling = "journaling"
	ToolAnalyzer   = "analyzer"
	ToolEnhancer   = "enhancer"
	ToolProduct    = "product-design"
	ToolCompliance = "compliance-verification"
)

var catalog = []chat.Tool{
	{
		ID:          ToolJournaling,
		Name:        "Journaling",
		Description: "Document and process use case scenarios",
		Icon:        "\U0001F4DD",
	},
	{
		ID:          ToolAnalyzer,
		Name:        "Analyzer",
		Description: "Analyze transactions and financial details",
		Icon:        "\U0001F50D",
	},
	{
		ID:          ToolEnhancer,
		Name:        "Enhancer",
		Description: "Enhance and improve standards and documentation",
		Icon:        "✨",
	},
	{
		ID:          ToolProduct,
		Name:        "Product Design",
		Description: "Design Shariah-compliant financial products",
		Icon:        "\U0001F3E6",
	},
	{
		ID:          ToolCompliance,
		Name:        "Compliance Verification",
		Description: "Verify documents against AAOIFI standards",
		Icon:        "✅",
	},
}

// Catalog returns the static tool catalog.
func Catalog() []chat.Tool {
	out := make([]chat.Tool, len(catalog))
	copy(out, catalog)
	return out
}

// LookupTool returns the catalog entry for id.
func LookupTool(id string) (chat.Tool, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return chat.Tool{}, false
}

// ToolName returns the display name for id, falling back to the id itself.
func ToolName(id string) string {
	if t, ok := LookupTool(id); ok {
		return t.Name
	}
	return id
}
