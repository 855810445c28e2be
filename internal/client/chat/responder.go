package chat

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/client"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/safety"
	"github.com/dmitrijs2005/cbtcompanion/internal/timex"
)

// Reply is an assistant answer. ConversationID is zero when the responder
// does not allocate conversations.
type Reply struct {
	Text           string
	ConversationID models.ConversationID
	Crisis         bool
}

// Responder produces the assistant reply to a user message.
type Responder interface {
	Respond(ctx context.Context, text string, id models.ConversationID) (Reply, error)
}

// Sender is the part of client.Client used by BackendResponder.
type Sender interface {
	Chat(ctx context.Context, text string, id models.ConversationID) (models.ChatReply, error)
}

var _ Sender = (client.Client)(nil)

// BackendResponder forwards messages to the chat backend.
type BackendResponder struct {
	api Sender
}

func NewBackendResponder(api Sender) *BackendResponder {
	return &BackendResponder{api: api}
}

func (b *BackendResponder) Respond(ctx context.Context, text string, id models.ConversationID) (Reply, error) {
	r, err := b.api.Chat(ctx, text, id)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: r.Message, ConversationID: r.ConversationID}, nil
}

// DefaultDemoDelay is how long DemoResponder pretends to think.
const DefaultDemoDelay = 1500 * time.Millisecond

// DemoResponder answers locally. It never allocates a conversation id.
type DemoResponder struct {
	detector safety.Detector
	delay    time.Duration
}

// NewDemoResponder uses safety.NewKeywordDetector when detector is nil.
func NewDemoResponder(detector safety.Detector, delay time.Duration) *DemoResponder {
	if detector == nil {
		detector = safety.NewKeywordDetector()
	}
	return &DemoResponder{detector: detector, delay: delay}
}

func (d *DemoResponder) Respond(ctx context.Context, text string, _ models.ConversationID) (Reply, error) {
	if err := timex.Sleep(ctx, d.delay); err != nil {
		return Reply{}, err
	}
	if d.detector.Detect(text) {
		return Reply{Text: CrisisText, Crisis: true}, nil
	}
	return Reply{Text: PlaceholderText}, nil
}
