package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mizan/internal/chat"
	"mizan/internal/config"
	"mizan/internal/gateway"
	"mizan/internal/llm"
	"mizan/internal/router"

	"github.com/google/uuid"
)

type fakeInvoker struct {
	calls  []invokeCall
	result *gateway.Result
	err    error
}

type invokeCall struct {
	content, toolID, threadID string
}

func (f *fakeInvoker) Invoke(ctx context.Context, content, toolID, threadID string) (*gateway.Result, error) {
	f.calls = append(f.calls, invokeCall{content, toolID, threadID})
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &gateway.Result{ID: uuid.NewString(), Content: "tool output"}, nil
}

func journalingResult() *gateway.Result {
	return &gateway.Result{
		ID:      uuid.NewString(),
		Content: "recognize the leased asset",
		ToolResults: []chat.ToolResult{{
			ID:       uuid.NewString(),
			ToolName: "Journaling",
			Result:   "Scenario: lease\nGuidance: recognize the leased asset",
		}},
	}
}

func newTestOrchestrator(invoker ToolInvoker, mock *llm.Mock, autoDetect bool) *Orchestrator {
	if mock == nil {
		mock = &llm.Mock{
			GenerateStreamFn: func(ctx context.Context, history []llm.Turn, message string) (*llm.StreamingResponse, error) {
				return llm.ScriptedStream("chat reply"), nil
			},
			SummarizeStreamFn: func(ctx context.Context, payload, userQuery string) (*llm.StreamingResponse, error) {
				return llm.ScriptedStream("summary of the tool result"), nil
			},
		}
	}
	detector := router.NewDetector(mock, config.DetectConfig{Timeout: time.Second})
	return New(chat.NewStore(), invoker, mock, detector, autoDetect)
}

func activeThread(t *testing.T, o *Orchestrator) chat.Thread {
	t.Helper()
	thread, ok := o.Store().ActiveThread()
	if !ok {
		t.Fatal("no active thread")
	}
	return thread
}

func TestPlainChatSend(t *testing.T) {
	invoker := &fakeInvoker{}
	o := newTestOrchestrator(invoker, nil, false)

	if err := o.SendMessage(context.Background(), "Hello"); err != nil {
		t.Fatal(err)
	}

	thread := activeThread(t, o)
	if len(thread.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(thread.Messages))
	}
	if thread.Messages[0].Role != chat.RoleUser || thread.Messages[0].Content != "Hello" {
		t.Errorf("first message = %+v", thread.Messages[0])
	}
	if thread.Messages[1].Content != "chat reply" || thread.Messages[1].IsStreaming {
		t.Errorf("second message = %+v", thread.Messages[1])
	}
	if thread.UsedTools() {
		t.Error("plain chat must not mark tools used")
	}
	if len(invoker.calls) != 0 {
		t.Errorf("gateway called %d times on plain chat", len(invoker.calls))
	}
}

func TestToolPathMarksToolUsed(t *testing.T) {
	invoker := &fakeInvoker{result: journalingResult()}
	o := newTestOrchestrator(invoker, nil, false)
	o.ToggleTool("journaling")

	if err := o.SendMessage(context.Background(), "A bank leases equipment for 3 years"); err != nil {
		t.Fatal(err)
	}

	if len(invoker.calls) != 1 {
		t.Fatalf("gateway calls = %d", len(invoker.calls))
	}
	if invoker.calls[0].content != "A bank leases equipment for 3 years" || invoker.calls[0].toolID != "journaling" {
		t.Errorf("call = %+v", invoker.calls[0])
	}

	thread := activeThread(t, o)
	final := thread.Messages[len(thread.Messages)-1]
	if len(final.ToolResults) != 1 || final.ToolResults[0].ToolName != "Journaling" {
		t.Errorf("final ToolResults = %+v", final.ToolResults)
	}
	if final.Content != "summary of the tool result" {
		t.Errorf("final content = %q", final.Content)
	}
	if !thread.UsedTools() {
		t.Fatal("toolUsed should be true after a tool send")
	}

	// A second send ignores tool selection permanently.
	o.ToggleTool("journaling")
	if err := o.SendMessage(context.Background(), "and what about year two?"); err != nil {
		t.Fatal(err)
	}
	if len(invoker.calls) != 1 {
		t.Errorf("gateway called again after toolUsed, calls = %d", len(invoker.calls))
	}
}

func TestToggleToolNoopAfterUse(t *testing.T) {
	invoker := &fakeInvoker{result: journalingResult()}
	o := newTestOrchestrator(invoker, nil, false)
	o.ToggleTool("journaling")
	if err := o.SendMessage(context.Background(), "lease scenario"); err != nil {
		t.Fatal(err)
	}

	o.ToggleTool("analyzer")
	if got := o.SelectedTool(); got != "" {
		t.Errorf("SelectedTool = %q after toolUsed, want empty", got)
	}
}

func TestToggleToolReplacesSelection(t *testing.T) {
	o := newTestOrchestrator(&fakeInvoker{}, nil, false)

	o.ToggleTool("journaling")
	o.ToggleTool("analyzer")
	if got := o.SelectedTool(); got != "analyzer" {
		t.Errorf("SelectedTool = %q, want analyzer", got)
	}

	thread := activeThread(t, o)
	if thread.AgentSelection == nil || thread.AgentSelection.Status != chat.StatusOverridden {
		t.Errorf("AgentSelection = %+v", thread.AgentSelection)
	}

	o.ToggleTool("analyzer")
	if got := o.SelectedTool(); got != "" {
		t.Errorf("SelectedTool = %q after deselect", got)
	}
	if thread = activeThread(t, o); thread.AgentSelection != nil {
		t.Errorf("AgentSelection = %+v after deselect", thread.AgentSelection)
	}
}

func TestAutoDetectRunsToolImmediately(t *testing.T) {
	invoker := &fakeInvoker{result: &gateway.Result{
		ID:      uuid.NewString(),
		Content: "analysis text",
		ToolResults: []chat.ToolResult{{
			ID:       uuid.NewString(),
			ToolName: "Analyzer",
			Result:   map[string]any{"analysis": "analysis text"},
		}},
	}}
	mock := &llm.Mock{
		DetectAgentFn: func(ctx context.Context, text string) (*llm.AgentDetection, error) {
			return &llm.AgentDetection{AgentID: "analyzer", Reason: "transaction analysis request"}, nil
		},
		SummarizeStreamFn: func(ctx context.Context, payload, userQuery string) (*llm.StreamingResponse, error) {
			return llm.ScriptedStream("summarized analysis"), nil
		},
	}
	o := newTestOrchestrator(invoker, mock, true)

	if err := o.SendMessage(context.Background(), "check this murabaha transaction"); err != nil {
		t.Fatal(err)
	}

	if len(invoker.calls) != 1 || invoker.calls[0].toolID != "analyzer" {
		t.Fatalf("calls = %+v", invoker.calls)
	}
	thread := activeThread(t, o)
	if thread.AgentSelection == nil || thread.AgentSelection.Status != chat.StatusSuggested {
		t.Errorf("AgentSelection = %+v", thread.AgentSelection)
	}
	if !thread.UsedTools() {
		t.Error("toolUsed should be true")
	}
}

func TestDetectionFailureFallsThroughToChat(t *testing.T) {
	invoker := &fakeInvoker{}
	mock := &llm.Mock{
		DetectAgentFn: func(ctx context.Context, text string) (*llm.AgentDetection, error) {
			return nil, errors.New("model unavailable")
		},
		GenerateStreamFn: func(ctx context.Context, history []llm.Turn, message string) (*llm.StreamingResponse, error) {
			return llm.ScriptedStream("plain reply"), nil
		},
	}
	o := newTestOrchestrator(invoker, mock, true)

	if err := o.SendMessage(context.Background(), "Hello there"); err != nil {
		t.Fatal(err)
	}
	thread := activeThread(t, o)
	if got := thread.Messages[len(thread.Messages)-1].Content; got != "plain reply" {
		t.Errorf("reply = %q", got)
	}
	if len(invoker.calls) != 0 {
		t.Errorf("gateway called on detection failure")
	}
}

func TestMissingFieldsKeepsToolSelected(t *testing.T) {
	invoker := &fakeInvoker{err: &gateway.MissingFieldsError{Tool: "compliance-verification", Fields: []string{"document_content"}}}
	o := newTestOrchestrator(invoker, nil, false)
	o.ToggleTool("compliance-verification")

	if err := o.SendMessage(context.Background(), `{"document_content": ""}`); err != nil {
		t.Fatal(err)
	}

	thread := activeThread(t, o)
	last := thread.Messages[len(thread.Messages)-1]
	if !last.IsSystemPrompt {
		t.Errorf("last message = %+v, want missing-info prompt", last)
	}
	if !strings.Contains(last.Content, "document_content") {
		t.Errorf("prompt does not mention the field: %q", last.Content)
	}
	if thread.UsedTools() {
		t.Error("toolUsed must stay false on validation failure")
	}
	if got := o.SelectedTool(); got != "compliance-verification" {
		t.Errorf("SelectedTool = %q, want compliance-verification", got)
	}
}

func TestStreamFailureDiscardsPartial(t *testing.T) {
	boom := errors.New("connection reset")
	mock := &llm.Mock{
		GenerateStreamFn: func(ctx context.Context, history []llm.Turn, message string) (*llm.StreamingResponse, error) {
			return llm.FailingStream(boom, "partial text "), nil
		},
	}
	o := newTestOrchestrator(&fakeInvoker{}, mock, false)

	err := o.SendMessage(context.Background(), "Hello")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	thread := activeThread(t, o)
	if len(thread.Messages) != 2 {
		t.Fatalf("got %d messages, want user + error", len(thread.Messages))
	}
	last := thread.Messages[1]
	if strings.Contains(last.Content, "partial text") {
		t.Errorf("partial content survived: %q", last.Content)
	}
	if !strings.Contains(last.Content, "Sorry, I encountered an error") {
		t.Errorf("error message = %q", last.Content)
	}
	if o.IsLoading(thread.ID) || o.IsStreaming(thread.ID) {
		t.Error("loading flags not cleared after failure")
	}
}

func TestBlankInputRejected(t *testing.T) {
	o := newTestOrchestrator(&fakeInvoker{}, nil, false)
	if err := o.SendMessage(context.Background(), "   "); !errors.Is(err, ErrBlankInput) {
		t.Errorf("err = %v, want ErrBlankInput", err)
	}
	if thread := activeThread(t, o); len(thread.Messages) != 0 {
		t.Errorf("blank input appended messages: %d", len(thread.Messages))
	}
}

func TestApologyResultAppendedVerbatim(t *testing.T) {
	invoker := &fakeInvoker{result: &gateway.Result{
		ID:      uuid.NewString(),
		Content: "Sorry, I encountered an error when using the Analyzer tool. Please try again later.",
		ToolResults: []chat.ToolResult{{
			ID:       uuid.NewString(),
			ToolName: "Analyzer",
			Result:   "Error: API error 500: boom",
		}},
	}}
	o := newTestOrchestrator(invoker, nil, false)
	o.ToggleTool("analyzer")

	if err := o.SendMessage(context.Background(), "analyze this"); err != nil {
		t.Fatal(err)
	}
	thread := activeThread(t, o)
	last := thread.Messages[len(thread.Messages)-1]
	if !strings.Contains(last.Content, "Analyzer tool") {
		t.Errorf("last = %q", last.Content)
	}
}
