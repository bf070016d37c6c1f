package stream

import (
	"context"
	"errors"
	"testing"

	"mizan/internal/chat"
	"mizan/internal/llm"
)

func TestRunReplacesNotAppends(t *testing.T) {
	sr := llm.ScriptedStream("Hello", ", ", "world")
	base := chat.NewAssistantMessage("")
	base.IsStreaming = true

	var snapshots []chat.Message
	final, err := Run(context.Background(), sr, base, func(msg chat.Message) {
		snapshots = append(snapshots, msg)
	})
	if err != nil {
		t.Fatal(err)
	}

	wantContents := []string{"Hello", "Hello, ", "Hello, world", "Hello, world"}
	if len(snapshots) != len(wantContents) {
		t.Fatalf("got %d snapshots, want %d", len(snapshots), len(wantContents))
	}
	for i, want := range wantContents {
		if snapshots[i].Content != want {
			t.Errorf("snapshot %d = %q, want %q", i, snapshots[i].Content, want)
		}
		if snapshots[i].ID != base.ID {
			t.Errorf("snapshot %d changed message identity", i)
		}
	}
	for _, s := range snapshots[:len(snapshots)-1] {
		if !s.IsStreaming {
			t.Error("intermediate snapshot lost streaming flag")
		}
	}
	if final.IsStreaming {
		t.Error("final message still flagged streaming")
	}
	if final.Content != "Hello, world" {
		t.Errorf("final content = %q", final.Content)
	}
}

func TestRunDiscardsPartialOnError(t *testing.T) {
	boom := errors.New("connection reset")
	sr := llm.FailingStream(boom, "partial ")

	published := 0
	var lastFinal bool
	_, err := Run(context.Background(), sr, chat.NewAssistantMessage(""), func(msg chat.Message) {
		published++
		lastFinal = !msg.IsStreaming
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if published != 1 {
		t.Errorf("published %d snapshots, want 1 (the partial)", published)
	}
	if lastFinal {
		t.Error("a final non-streaming snapshot was published after failure")
	}
}

func TestRunEmptyStream(t *testing.T) {
	sr := llm.ScriptedStream()
	final, err := Run(context.Background(), sr, chat.NewAssistantMessage(""), func(chat.Message) {})
	if err != nil {
		t.Fatal(err)
	}
	if final.Content != "" || final.IsStreaming {
		t.Errorf("final = %+v", final)
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	blocked := make(chan llm.Chunk)
	sr := &llm.StreamingResponse{Chunks: blocked}
	_, err := Run(ctx, sr, chat.NewAssistantMessage(""), func(chat.Message) {})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
