// Package chat owns the message list shown on the chat screen and the
// send cycle: the user message is appended at once, the reply (or an error
// bubble) follows when the responder returns.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/client"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/conversation"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/nav"
	"github.com/dmitrijs2005/cbtcompanion/internal/logging"
	"github.com/google/uuid"
)

// HistorySource loads the user's recent messages.
type HistorySource interface {
	History(ctx context.Context) ([]models.Message, error)
}

// CredentialClearer drops the stored credential after a 401.
type CredentialClearer interface {
	Clear(ctx context.Context) error
}

// Outcome describes what one Send did. User and Reply point at the
// appended messages; Reply is nil when no assistant message was added.
// Err holds the cause of an error bubble.
type Outcome struct {
	Skipped bool
	User    *models.Message
	Reply   *models.Message
	Route   *nav.Navigation
	Err     error
}

// Controller owns the message list of the chat screen. It appends the
// user's message before the reply arrives, binds the conversation on the
// first reply and turns failures into an error bubble. One Send runs at a
// time. Safe for concurrent use.
type Controller struct {
	conv      *conversation.Manager
	responder Responder
	history   HistorySource
	creds     CredentialClearer
	log       logging.Logger
	now       func() time.Time

	sending atomic.Bool

	mu       sync.Mutex
	messages []models.Message
	// epoch changes whenever the list is replaced. A reply that arrives
	// for an older epoch is dropped.
	epoch uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithHistorySource enables LoadHistory. Without it LoadHistory is a no-op.
func WithHistorySource(h HistorySource) Option {
	return func(c *Controller) { c.history = h }
}

// WithCredentialClearer sets the store cleared on a 401.
func WithCredentialClearer(cc CredentialClearer) Option {
	return func(c *Controller) { c.creds = cc }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock overrides time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController returns an empty controller over conv, replying through
// responder.
func NewController(conv *conversation.Manager, responder Responder, opts ...Option) *Controller {
	c := &Controller{
		conv:      conv,
		responder: responder,
		log:       logging.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts text to the current conversation.
//
// Blank text is skipped. A 401 clears the credential, adds no assistant
// message and returns client.ErrUnauthenticated with a Login route. Any
// other failure adds an error bubble and returns a nil error with
// Outcome.Err set. The user message is never removed.
func (c *Controller) Send(ctx context.Context, text string) (Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{Skipped: true}, nil
	}
	if !c.sending.CompareAndSwap(false, true) {
		return Outcome{}, ErrSendInProgress
	}
	defer c.sending.Store(false)

	user := c.newMessage(text, models.SenderUser, models.MessageFlags{})
	epoch := c.append(user)
	out := Outcome{User: &user}

	id, _ := c.conv.ID()
	reply, err := c.responder.Respond(ctx, text, id)

	if errors.Is(err, client.ErrUnauthenticated) {
		c.clearCredential(ctx)
		out.Route = nav.ReplaceWith(nav.Login)
		return out, err
	}

	if err != nil {
		c.log.Warn(ctx, "chat reply failed", "conversation_id", id.String(), "error", err)
		msg := c.newMessage(FallbackText, models.SenderAssistant, models.MessageFlags{IsError: true})
		if c.appendIf(epoch, msg) {
			out.Reply = &msg
		}
		out.Err = err
		return out, nil
	}

	// The list was replaced while waiting; the reply belongs to a
	// conversation that is no longer shown.
	if !c.current(epoch) {
		c.log.Debug(ctx, "dropping reply for replaced conversation")
		return out, nil
	}

	if !reply.ConversationID.IsZero() {
		if _, err := c.conv.Bind(reply.ConversationID); err != nil {
			c.log.Warn(ctx, "server returned a different conversation id", "error", err)
		}
	}

	msg := c.newMessage(reply.Text, models.SenderAssistant, models.MessageFlags{IsCrisis: reply.Crisis})
	if c.appendIf(epoch, msg) {
		out.Reply = &msg
	}
	if reply.Crisis {
		out.Route = nav.To(nav.CrisisResources)
	}
	return out, nil
}

// Sending reports whether a Send is outstanding.
func (c *Controller) Sending() bool {
	return c.sending.Load()
}

// LoadHistory replaces the list with the user's recent history in server
// order. It leaves the conversation binding alone. Without a
// HistorySource it does nothing.
func (c *Controller) LoadHistory(ctx context.Context) error {
	if c.history == nil {
		return nil
	}
	msgs, err := c.history.History(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	c.replace(msgs)
	return nil
}

// Open binds to an existing conversation and shows its messages.
func (c *Controller) Open(ctx context.Context, id models.ConversationID) error {
	msgs, err := c.conv.Open(ctx, id)
	if err != nil {
		return c.fail(ctx, err)
	}
	c.replace(msgs)
	return nil
}

// NewConversation unbinds and empties the list.
func (c *Controller) NewConversation() {
	c.conv.Reset()
	c.replace(nil)
}

// Messages returns a copy of the list.
func (c *Controller) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// ConversationID returns the bound id, if any.
func (c *Controller) ConversationID() (models.ConversationID, bool) {
	return c.conv.ID()
}

// RouteFor maps an error from this package to the screen to show, or nil.
func RouteFor(err error) *nav.Navigation {
	if errors.Is(err, client.ErrUnauthenticated) {
		return nav.ReplaceWith(nav.Login)
	}
	return nil
}

func (c *Controller) fail(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthenticated) {
		c.clearCredential(ctx)
	}
	return err
}

func (c *Controller) clearCredential(ctx context.Context) {
	if c.creds == nil {
		return
	}
	if err := c.creds.Clear(context.WithoutCancel(ctx)); err != nil {
		c.log.Error(ctx, "failed to clear credential", "error", err)
	}
}

func (c *Controller) newMessage(text string, sender models.Sender, flags models.MessageFlags) models.Message {
	return models.Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: c.now(),
		Flags:     flags,
	}
}

func (c *Controller) append(m models.Message) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
	return c.epoch
}

func (c *Controller) appendIf(epoch uint64, m models.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	c.messages = append(c.messages, m)
	return true
}

func (c *Controller) current(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch == epoch
}

func (c *Controller) replace(msgs []models.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.messages = append([]models.Message(nil), msgs...)
}
