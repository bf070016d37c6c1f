package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mizan/internal/backend"
	"mizan/internal/chat"
	"mizan/internal/llm"
	"mizan/internal/logging"

	"github.com/google/uuid"
)

// Result is the outcome of a tool invocation: the text shown as the
// assistant's reply plus the raw tool results attached to it.
type Result struct {
	ID          string
	Content     string
	ToolResults []chat.ToolResult
}

// Gateway dispatches tool invocations to the backend. Network failures are
// converted into tool-named error results; only missing-field validation
// errors cross the boundary as errors.
type Gateway struct {
	backend *backend.Client
	llm     llm.Client
}

func New(client *backend.Client, llmClient llm.Client) *Gateway {
	return &Gateway{backend: client, llm: llmClient}
}

// Invoke runs the tool identified by toolID against content. threadID is
// forwarded only on the generic chat path.
func (g *Gateway) Invoke(ctx context.Context, content, toolID, threadID string) (*Result, error) {
	logging.Debug("Invoking tool", "tool", toolID, "thread", threadID)

	result, err := g.dispatch(ctx, content, toolID, threadID)
	if err == nil {
		return result, nil
	}

	var missing *MissingFieldsError
	if errors.As(err, &missing) {
		return nil, missing
	}

	name := ToolName(toolID)
	logging.Error("Tool invocation failed", "tool", toolID, "error", err)
	return &Result{
		ID:      uuid.NewString(),
		Content: fmt.Sprintf("Sorry, I encountered an error when using the %s tool. Please try again later.", name),
		ToolResults: []chat.ToolResult{{
			ID:       uuid.NewString(),
			ToolName: name,
			Result:   fmt.Sprintf("Error: %s", err),
		}},
	}, nil
}

func (g *Gateway) dispatch(ctx context.Context, content, toolID, threadID string) (*Result, error) {
	switch toolID {
	case ToolJournaling:
		return g.invokeJournaling(ctx, content)
	case ToolAnalyzer:
		return g.invokeAnalyzer(ctx, content)
	case ToolEnhancer:
		return g.invokeEnhancer(ctx, content)
	case ToolProduct:
		return g.invokeProductDesign(ctx, content)
	case ToolCompliance:
		return g.invokeCompliance(ctx, content)
	default:
		return g.invokeChat(ctx, content, threadID)
	}
}

func (g *Gateway) invokeJournaling(ctx context.Context, content string) (*Result, error) {
	resp, err := g.backend.ProcessUseCase(ctx, backend.UseCasePayload{Scenario: content})
	if err != nil {
		return nil, err
	}
	return &Result{
		ID:      uuid.NewString(),
		Content: resp.AccountingGuidance,
		ToolResults: []chat.ToolResult{{
			ID:       uuid.NewString(),
			ToolName: "Journaling",
			Result:   fmt.Sprintf("Scenario: %s\nGuidance: %s", resp.Scenario, resp.AccountingGuidance),
		}},
	}, nil
}

func (g *Gateway) invokeAnalyzer(ctx context.Context, content string) (*Result, error) {
	resp, err := g.backend.AnalyzeTransaction(ctx, backend.TransactionPayload{TransactionDetails: content})
	if err != nil {
		return nil, err
	}
	return &Result{
		ID:      uuid.NewString(),
		Content: resp.Analysis,
		ToolResults: []chat.ToolResult{{
			ID:       uuid.NewString(),
			ToolName: "Analyzer",
			Result:   resp,
		}},
	}, nil
}

func (g *Gateway) invokeEnhancer(ctx context.Context, content string) (*Result, error) {
	standardID, scenario := splitEnhancerInput(content)
	resp, err := g.backend.EnhanceStandards(ctx, backend.EnhancementPayload{
		StandardID:      standardID,
		TriggerScenario: scenario,
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		ID:      uuid.NewString(),
		Content: resp.Review,
		ToolResults: []chat.ToolResult{{
			ID:       uuid.NewString(),
			ToolName: "Enhancer",
			Result: map[string]any{
				"review":   resp.Review,
				"proposal": resp.Proposal,
				"original": resp.OriginalText,
				"proposed": resp.ProposedText,
			},
		}},
	}, nil
}

// splitEnhancerInput divides "standardId|scenario" input. Without a pipe the
// id falls back to "unknown" and the whole input becomes the scenario.
func splitEnhancerInput(content string) (standardID, scenario string) {
	before, after, found := strings.Cut(content, "|")
	if !found {
		return "unknown", content
	}
	standardID = strings.TrimSpace(before)
	if standardID == "" {
		standardID = "unknown"
	}
	scenario = strings.TrimSpace(after)
	if scenario == "" {
		scenario = content
	}
	return standardID, scenario
}

func (g *Gateway) invokeProductDesign(ctx context.Context, content string) (*Result, error) {
	payload, err := g.productDesignPayload(ctx, content)
	if err != nil {
		return nil, err
	}
	resp, err := g.backend.DesignProduct(ctx, *payload)
	if err != nil {
		return nil, err
	}
	return &Result{
		ID:      uuid.NewString(),
		Content: fmt.Sprintf("Product Design: %s\n\n%s", resp.SuggestedProductConceptName, resp.RationaleForContractSelection),
		ToolResults: []chat.ToolResult{{
			ID:       uuid.NewString(),
			ToolName: "Product Design",
			Result:   resp,
		}},
	}, nil
}

func (g *Gateway) invokeCompliance(ctx context.Context, content string) (*Result, error) {
	payload, err := g.compliancePayload(ctx, content)
	if err != nil {
		return nil, err
	}
	resp, err := g.backend.VerifyCompliance(ctx, *payload)
	if err != nil {
		return nil, err
	}
	return &Result{
		ID:      uuid.NewString(),
		Content: fmt.Sprintf("Compliance Verification Report for %s\n\n%s", resp.DocumentName, resp.ComplianceReport),
		ToolResults: []chat.ToolResult{{
			ID:       uuid.NewString(),
			ToolName: "Compliance Verification",
			Result:   resp,
		}},
	}, nil
}

func (g *Gateway) invokeChat(ctx context.Context, content, threadID string) (*Result, error) {
	resp, err := g.backend.ChatMessage(ctx, backend.ChatPayload{Content: content, ThreadID: threadID})
	if err != nil {
		return nil, err
	}
	result := &Result{ID: resp.ID, Content: resp.Content}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if len(resp.Metadata) > 0 {
		result.ToolResults = []chat.ToolResult{{
			ID:       uuid.NewString(),
			ToolName: "Chat Agent",
			Result:   resp.Metadata,
		}}
	}
	return result, nil
}
