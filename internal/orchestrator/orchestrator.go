// Package orchestrator owns the conversation state machine: it decides per
// send whether to auto-detect an agent, run a tool, or stream plain chat,
// and it is the only writer of thread state.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"mizan/internal/chat"
	"mizan/internal/gateway"
	"mizan/internal/llm"
	"mizan/internal/logging"
	"mizan/internal/router"
	"mizan/internal/stream"
)

var (
	ErrBlankInput   = errors.New("message is blank")
	ErrNoThread     = errors.New("no active thread")
	ErrSendInFlight = errors.New("a send is already in flight for this thread")
)

// ToolInvoker is the gateway surface the orchestrator needs.
type ToolInvoker interface {
	Invoke(ctx context.Context, content, toolID, threadID string) (*gateway.Result, error)
}

// Orchestrator drives sendMessage. All exported methods are safe for
// concurrent use; sends against the same thread are interlocked, not queued.
type Orchestrator struct {
	store    *chat.Store
	gateway  ToolInvoker
	llm      llm.Client
	detector *router.Detector

	mu           sync.Mutex
	inFlight     map[string]bool
	streaming    map[string]bool
	selectedTool string
	autoDetect   bool
}

func New(store *chat.Store, gw ToolInvoker, llmClient llm.Client, detector *router.Detector, autoDetect bool) *Orchestrator {
	return &Orchestrator{
		store:      store,
		gateway:    gw,
		llm:        llmClient,
		detector:   detector,
		inFlight:   make(map[string]bool),
		streaming:  make(map[string]bool),
		autoDetect: autoDetect,
	}
}

// Store exposes the thread store for read access and thread management.
func (o *Orchestrator) Store() *chat.Store { return o.store }

// SelectedTool returns the currently selected tool id, or "".
func (o *Orchestrator) SelectedTool() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selectedTool
}

// AutoDetect reports whether agent auto-detection is enabled.
func (o *Orchestrator) AutoDetect() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.autoDetect
}

// SetAutoDetect toggles agent auto-detection.
func (o *Orchestrator) SetAutoDetect(enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.autoDetect = enabled
}

// IsLoading reports whether a send is in flight for the thread.
func (o *Orchestrator) IsLoading(threadID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight[threadID]
}

// IsStreaming reports whether a token stream is actively being consumed for
// the thread.
func (o *Orchestrator) IsStreaming(threadID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.streaming[threadID]
}

// ToggleTool selects toolID, deselects it if already selected, or replaces
// the current selection. It is a no-op once a tool has been used in the
// active thread. At most one tool is selected at a time.
func (o *Orchestrator) ToggleTool(toolID string) {
	thread, ok := o.store.ActiveThread()
	if !ok || thread.UsedTools() {
		return
	}

	o.mu.Lock()
	if o.selectedTool == toolID {
		o.selectedTool = ""
	} else {
		o.selectedTool = toolID
	}
	selected := o.selectedTool
	o.mu.Unlock()

	if selected == "" {
		o.store.SetAgentSelection(thread.ID, nil)
		return
	}
	o.store.SetAgentSelection(thread.ID, &chat.AgentSelection{
		AgentID: selected,
		Reason:  "Manually selected",
		Status:  chat.StatusOverridden,
	})
}

// SendMessage runs the full send pipeline for the active thread. It blocks
// until the reply is complete; callers run it off the UI loop.
func (o *Orchestrator) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrBlankInput
	}
	thread, ok := o.store.ActiveThread()
	if !ok {
		return ErrNoThread
	}

	o.mu.Lock()
	if o.inFlight[thread.ID] {
		o.mu.Unlock()
		return ErrSendInFlight
	}
	o.inFlight[thread.ID] = true
	selectedTool := o.selectedTool
	autoDetect := o.autoDetect
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		delete(o.inFlight, thread.ID)
		delete(o.streaming, thread.ID)
		o.mu.Unlock()
	}()

	priorMessages := thread.Messages
	o.appendMessage(thread.ID, chat.NewUserMessage(text))

	// Answering a missing-information prompt resumes the pending tool with
	// fields accumulated across turns.
	if thread.AgentSelection != nil && router.IsResponseToPrompt(priorMessages) {
		combined := router.CombinedMessage(priorMessages, text)
		res := router.ValidateRequiredFields(thread.AgentSelection, combined)
		if !res.Valid {
			o.appendMessage(thread.ID, chat.NewMissingInfoMessage(res.PromptMessage))
			return nil
		}
		return o.runTool(ctx, thread.ID, combined, thread.AgentSelection.AgentID)
	}

	if !thread.UsedTools() && selectedTool == "" && autoDetect && o.detector != nil {
		if sel := o.detector.Detect(ctx, text); sel != nil && sel.AgentID != router.AgentChat {
			o.store.SetAgentSelection(thread.ID, sel)
			o.setSelectedTool(sel.AgentID)

			if res := router.ValidateRequiredFields(sel, text); !res.Valid {
				o.appendMessage(thread.ID, chat.NewMissingInfoMessage(res.PromptMessage))
				return nil
			}
			return o.runTool(ctx, thread.ID, text, sel.AgentID)
		}
		o.setSelectedTool("")
		o.store.SetAgentSelection(thread.ID, nil)
		return o.runChat(ctx, thread.ID, text)
	}

	if thread.UsedTools() {
		return o.runChat(ctx, thread.ID, text)
	}
	if selectedTool != "" {
		return o.runTool(ctx, thread.ID, text, selectedTool)
	}
	return o.runChat(ctx, thread.ID, text)
}

func (o *Orchestrator) setSelectedTool(toolID string) {
	o.mu.Lock()
	o.selectedTool = toolID
	o.mu.Unlock()
}

// runTool invokes the gateway and streams a summarization of the result as
// the visible reply, attaching the raw tool results to the final message.
func (o *Orchestrator) runTool(ctx context.Context, threadID, content, toolID string) error {
	result, err := o.gateway.Invoke(ctx, content, toolID, threadID)
	if err != nil {
		var missing *gateway.MissingFieldsError
		if errors.As(err, &missing) {
			o.appendMessage(threadID, chat.NewMissingInfoMessage(missingFieldsPrompt(missing)))
			return nil
		}
		o.appendMessage(threadID, chat.NewErrorMessage(err))
		return err
	}

	// A tool-named apology result means the gateway already absorbed a
	// failure; show it verbatim instead of summarizing an apology.
	if isErrorResult(result) {
		o.appendMessage(threadID, chat.NewAssistantMessage(result.Content, result.ToolResults...))
		o.setSelectedTool("")
		return nil
	}

	final, err := o.streamReply(ctx, threadID, func(c context.Context) (*llm.StreamingResponse, error) {
		return o.llm.SummarizeStream(c, summarizePayload(result), content)
	})
	if err != nil {
		o.appendMessage(threadID, chat.NewErrorMessage(err))
		return err
	}

	final.ToolResults = result.ToolResults
	o.replaceMessage(threadID, final)
	o.setSelectedTool("")
	return nil
}

// runChat streams a plain conversational reply against thread history.
func (o *Orchestrator) runChat(ctx context.Context, threadID, text string) error {
	history := o.historyTurns(threadID, text)
	_, err := o.streamReply(ctx, threadID, func(c context.Context) (*llm.StreamingResponse, error) {
		return o.llm.GenerateStream(c, history, text)
	})
	if err != nil {
		o.appendMessage(threadID, chat.NewErrorMessage(err))
		return err
	}
	return nil
}

// streamReply appends a streaming placeholder, consumes the stream into it
// with full-replacement updates, and returns the final message. On failure
// the placeholder is removed so no partial text survives.
func (o *Orchestrator) streamReply(ctx context.Context, threadID string, start func(context.Context) (*llm.StreamingResponse, error)) (chat.Message, error) {
	sr, err := start(ctx)
	if err != nil {
		return chat.Message{}, err
	}

	placeholder := chat.NewAssistantMessage("")
	placeholder.IsStreaming = true
	o.appendMessage(threadID, placeholder)

	o.mu.Lock()
	o.streaming[threadID] = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.streaming, threadID)
		o.mu.Unlock()
	}()

	final, err := stream.Run(ctx, sr, placeholder, func(msg chat.Message) {
		o.replaceMessage(threadID, msg)
	})
	if err != nil {
		o.removeMessage(threadID, placeholder.ID)
		return chat.Message{}, err
	}
	return final, nil
}

func (o *Orchestrator) appendMessage(threadID string, msg chat.Message) {
	thread, ok := o.store.Thread(threadID)
	if !ok {
		logging.Warn("Appending message to missing thread", "thread", threadID)
		return
	}
	o.store.SetMessages(threadID, append(thread.Messages, msg))
}

func (o *Orchestrator) replaceMessage(threadID string, msg chat.Message) {
	thread, ok := o.store.Thread(threadID)
	if !ok {
		return
	}
	messages := append([]chat.Message(nil), thread.Messages...)
	for i := range messages {
		if messages[i].ID == msg.ID {
			messages[i] = msg
			o.store.SetMessages(threadID, messages)
			return
		}
	}
	logging.Warn("Replacing missing message", "thread", threadID, "message", msg.ID)
}

func (o *Orchestrator) removeMessage(threadID, messageID string) {
	thread, ok := o.store.Thread(threadID)
	if !ok {
		return
	}
	messages := make([]chat.Message, 0, len(thread.Messages))
	for _, m := range thread.Messages {
		if m.ID != messageID {
			messages = append(messages, m)
		}
	}
	o.store.SetMessages(threadID, messages)
}

// historyTurns converts prior thread messages into model turns, excluding
// missing-information prompts and in-flight placeholders.
func (o *Orchestrator) historyTurns(threadID, current string) []llm.Turn {
	thread, ok := o.store.Thread(threadID)
	if !ok {
		return nil
	}
	var turns []llm.Turn
	for _, m := range thread.Messages {
		if m.IsSystemPrompt || m.IsStreaming || m.Content == "" {
			continue
		}
		role := "user"
		if m.Role == chat.RoleAssistant {
			role = "model"
		}
		turns = append(turns, llm.Turn{Role: role, Content: m.Content})
	}
	// The just-appended current message is passed separately, not as history.
	if n := len(turns); n > 0 && turns[n-1].Role == "user" && turns[n-1].Content == current {
		turns = turns[:n-1]
	}
	return turns
}

func isErrorResult(r *gateway.Result) bool {
	if len(r.ToolResults) != 1 {
		return false
	}
	s, ok := r.ToolResults[0].Result.(string)
	return ok && strings.HasPrefix(s, "Error: ")
}

func missingFieldsPrompt(err *gateway.MissingFieldsError) string {
	var list strings.Builder
	for i, f := range err.Fields {
		if i > 0 {
			list.WriteByte('\n')
		}
		fmt.Fprintf(&list, "• %s", f)
	}
	return fmt.Sprintf("I need more information to run the %s tool. Please provide the following details:\n\n%s", gateway.ToolName(err.Tool), list.String())
}

// summarizePayload renders a gateway result for the summarizer prompt.
func summarizePayload(r *gateway.Result) string {
	if len(r.ToolResults) == 0 {
		return r.Content
	}
	data, err := json.MarshalIndent(r.ToolResults[0].Result, "", "  ")
	if err != nil {
		return r.Content
	}
	return fmt.Sprintf("%s\n\nRaw tool output:\n%s", r.Content, data)
}
