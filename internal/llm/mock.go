package llm

import "context"

// Mock is a scripted Client for tests. Unset function fields fall back to
// empty successful results.
type Mock struct {
	GenerateFn        func(ctx context.Context, prompt string) (string, error)
	GenerateStreamFn  func(ctx context.Context, history []Turn, message string) (*StreamingResponse, error)
	SummarizeStreamFn func(ctx context.Context, payload, userQuery string) (*StreamingResponse, error)
	DetectAgentFn     func(ctx context.Context, text string) (*AgentDetection, error)
	ExtractFn         func(ctx context.Context, text, agentID string) (map[string]any, error)
}

var _ Client = (*Mock)(nil)

func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}
	return "", nil
}

func (m *Mock) GenerateStream(ctx context.Context, history []Turn, message string) (*StreamingResponse, error) {
	if m.GenerateStreamFn != nil {
		return m.GenerateStreamFn(ctx, history, message)
	}
	return ScriptedStream(), nil
}

func (m *Mock) SummarizeStream(ctx context.Context, payload, userQuery string) (*StreamingResponse, error) {
	if m.SummarizeStreamFn != nil {
		return m.SummarizeStreamFn(ctx, payload, userQuery)
	}
	return ScriptedStream(), nil
}

func (m *Mock) DetectAgent(ctx context.Context, text string) (*AgentDetection, error) {
	if m.DetectAgentFn != nil {
		return m.DetectAgentFn(ctx, text)
	}
	return nil, nil
}

func (m *Mock) Extract(ctx context.Context, text, agentID string) (map[string]any, error) {
	if m.ExtractFn != nil {
		return m.ExtractFn(ctx, text, agentID)
	}
	return map[string]any{}, nil
}

func (m *Mock) Close() error { return nil }

// ScriptedStream returns a StreamingResponse that emits the given chunks of
// text and then closes.
func ScriptedStream(parts ...string) *StreamingResponse {
	chunks := make(chan Chunk, len(parts)+1)
	for _, p := range parts {
		chunks <- Chunk{Text: p}
	}
	close(chunks)
	return &StreamingResponse{Chunks: chunks}
}

// FailingStream returns a StreamingResponse that emits the given chunks and
// then an error chunk.
func FailingStream(err error, parts ...string) *StreamingResponse {
	chunks := make(chan Chunk, len(parts)+1)
	for _, p := range parts {
		chunks <- Chunk{Text: p}
	}
	chunks <- Chunk{Err: err}
	close(chunks)
	return &StreamingResponse{Chunks: chunks}
}
