// Package stream consumes token streams into full-replacement message
// updates. Every chunk republishes a complete copy of the in-flight message;
// consumers never see diffs.
package stream

import (
	"context"
	"strings"

	"mizan/internal/chat"
	"mizan/internal/llm"
	"mizan/internal/logging"
)

// Publish replaces the in-flight assistant message with a new snapshot.
type Publish func(msg chat.Message)

// Run consumes the streaming response into the message identified by base,
// publishing a full replacement after every chunk. On success it returns the
// final message with the streaming flag cleared, already published. On
// failure the partial text is discarded and the error returned; nothing
// final is published.
func Run(ctx context.Context, sr *llm.StreamingResponse, base chat.Message, publish Publish) (chat.Message, error) {
	var accumulated strings.Builder
	chunks := 0

	for {
		select {
		case <-ctx.Done():
			return chat.Message{}, ctx.Err()
		case chunk, ok := <-sr.Chunks:
			if !ok {
				final := base
				final.Content = accumulated.String()
				final.IsStreaming = false
				publish(final)
				logging.Debug("Stream complete", "chunks", chunks, "bytes", accumulated.Len())
				return final, nil
			}
			if chunk.Err != nil {
				return chat.Message{}, chunk.Err
			}
			if chunk.Text == "" {
				continue
			}
			accumulated.WriteString(chunk.Text)
			chunks++

			snapshot := base
			snapshot.Content = accumulated.String()
			snapshot.IsStreaming = true
			publish(snapshot)
		}
	}
}
