package router

import (
	"context"
	"strings"
	"time"

	"mizan/internal/chat"
	"mizan/internal/config"
	"mizan/internal/llm"
	"mizan/internal/logging"
)

// AgentChat is the fallback agent identifier for plain conversation.
const AgentChat = "chat"

// validAgents is the closed set of identifiers the detector may return.
var validAgents = map[string]bool{
	"journaling":              true,
	"analyzer":                true,
	"compliance-verification": true,
	"product-design":          true,
	AgentChat:                 true,
}

// Detector classifies free-text user input into an agent identifier.
// Detection is best effort: any failure or unusable result yields nil so
// the caller falls through to plain chat.
type Detector struct {
	llm     llm.Client
	timeout time.Duration
}

func NewDetector(client llm.Client, cfg config.DetectConfig) *Detector {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultDetectTimeout
	}
	return &Detector{llm: client, timeout: timeout}
}

// Detect returns the suggested agent selection for the given user text, or
// nil when no specialized agent applies. It never returns an error to the
// send path; failures are logged and swallowed.
func (d *Detector) Detect(ctx context.Context, text string) *chat.AgentSelection {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	det, err := d.llm.DetectAgent(ctx, text)
	if err != nil {
		logging.Warn("Agent detection failed", "error", err)
		return nil
	}
	if det == nil || !validAgents[det.AgentID] {
		if det != nil {
			logging.Warn("Agent detection returned unknown agent", "agentId", det.AgentID)
		}
		return nil
	}

	det = rejectDefaultJournaling(det)
	logging.Debug("Agent detected", "agentId", det.AgentID, "reason", det.Reason)

	return &chat.AgentSelection{
		AgentID:        det.AgentID,
		Reason:         det.Reason,
		RequiredInputs: det.RequiredInputs,
		Status:         chat.StatusSuggested,
	}
}

// rejectDefaultJournaling substitutes the analyzer agent when the model
// picked journaling with a default-sounding justification, or with none at
// all. Journaling is the most narrative-specific tool and should never win by
// fallback.
func rejectDefaultJournaling(det *llm.AgentDetection) *llm.AgentDetection {
	if det.AgentID != "journaling" {
		return det
	}
	reason := strings.ToLower(strings.TrimSpace(det.Reason))
	if reason != "" && !strings.Contains(reason, "default") && !strings.Contains(reason, "unclear") {
		return det
	}
	return &llm.AgentDetection{
		AgentID: "analyzer",
		Reason:  "Selected as a more general-purpose agent when the query intent is unclear",
	}
}
