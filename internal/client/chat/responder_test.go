package chat

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/clienttest"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/conversation"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/nav"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/safety"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDemoController(delay time.Duration) *Controller {
	return NewController(conversation.NewManager(&clienttest.Fake{}), NewDemoResponder(nil, delay))
}

func TestDemo_CrisisMessage(t *testing.T) {
	c := newDemoController(time.Millisecond)

	out, err := c.Send(context.Background(), "I want to end it all")
	require.NoError(t, err)
	require.NotNil(t, out.Reply)
	assert.True(t, out.Reply.Flags.IsCrisis)
	assert.False(t, out.Reply.Flags.IsError)
	assert.Equal(t, CrisisText, out.Reply.Text)
	require.NotNil(t, out.Route)
	assert.Equal(t, nav.CrisisResources, out.Route.Route)
}

func TestDemo_PlaceholderReply(t *testing.T) {
	c := newDemoController(0)

	out, err := c.Send(context.Background(), "I had a good day")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderText, out.Reply.Text)
	assert.False(t, out.Reply.Flags.IsCrisis)
	assert.Nil(t, out.Route)

	_, ok := c.ConversationID()
	assert.False(t, ok, "demo replies never bind")
	assert.Equal(t, models.SenderAssistant, c.Messages()[1].Sender)
}

func TestDemo_WaitsForDelay(t *testing.T) {
	r := NewDemoResponder(nil, 30*time.Millisecond)
	start := time.Now()
	_, err := r.Respond(context.Background(), "hi", "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestDemo_CanceledContextFallsBack(t *testing.T) {
	c := newDemoController(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := c.Send(ctx, "hello")
	require.NoError(t, err)
	require.ErrorIs(t, out.Err, context.Canceled)
	assert.True(t, out.Reply.Flags.IsError)
}

type stubDetector bool

func (s stubDetector) Detect(string) bool { return bool(s) }

func TestDemo_CustomDetector(t *testing.T) {
	var d safety.Detector = stubDetector(true)
	r := NewDemoResponder(d, 0)
	reply, err := r.Respond(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.True(t, reply.Crisis)
}

func TestBackendResponder(t *testing.T) {
	fc := &clienttest.Fake{ChatRet: models.ChatReply{Message: "m", ConversationID: "12"}}
	r := NewBackendResponder(fc)

	reply, err := r.Respond(context.Background(), "text", "11")
	require.NoError(t, err)
	assert.Equal(t, Reply{Text: "m", ConversationID: "12"}, reply)
	assert.Equal(t, models.ConversationID("11"), fc.LastChatID)
}
