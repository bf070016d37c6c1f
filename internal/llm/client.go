package llm

import "context"

// Turn is one entry of conversation history in provider-neutral form.
type Turn struct {
	Role    string // "user" or "model"
	Content string
}

// Chunk is a single piece of a streaming response.
type Chunk struct {
	Text string
	Err  error
}

// StreamingResponse represents a streaming response from the model.
type StreamingResponse struct {
	// Chunks is a channel that receives response chunks. It is closed when
	// the response is complete.
	Chunks <-chan Chunk
}

// AgentDetection is the raw classification of free text into an agent id.
// Policy filtering (default-journaling rejection) happens in the router, not
// here.
type AgentDetection struct {
	AgentID        string
	Reason         string
	RequiredInputs []string
}

// Client defines the generative-model capabilities the conversation core
// depends on.
type Client interface {
	// Generate returns a single non-streaming completion for a prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateStream streams a conversational reply for a message with
	// history context.
	GenerateStream(ctx context.Context, history []Turn, message string) (*StreamingResponse, error)

	// SummarizeStream streams a summary of an opaque tool response, with the
	// original user query as context.
	SummarizeStream(ctx context.Context, payload, userQuery string) (*StreamingResponse, error)

	// DetectAgent classifies free text into an agent identifier. A nil
	// result with nil error means the model produced no usable classification.
	DetectAgent(ctx context.Context, text string) (*AgentDetection, error)

	// Extract populates a tool's field schema from free text.
	Extract(ctx context.Context, text, agentID string) (map[string]any, error)

	// Close releases provider resources.
	Close() error
}
