package devserver

import (
	"context"
	"strings"
)

// Replier produces the assistant answer to the latest user message.
// history holds the conversation so far, oldest first, including it.
type Replier interface {
	Reply(ctx context.Context, history []Message) (string, error)
}

// EchoReplier reflects the user's words back. It stands in for the
// language model of the production backend.
type EchoReplier struct{}

func (EchoReplier) Reply(_ context.Context, history []Message) (string, error) {
	var last string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == roleUser {
			last = history[i].Content
			break
		}
	}
	last = strings.TrimSpace(last)
	if last == "" {
		return "I'm here. What's on your mind?", nil
	}
	return "I hear you saying: " + last + ". How does that make you feel?", nil
}
