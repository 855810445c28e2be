// Package clienttest provides a scriptable in-memory client.Client for
// service and presentation tests.
package clienttest

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/client"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
)

var _ client.Client = (*Fake)(nil)

// Fake records the arguments of the last call per method and returns the
// configured results. ChatFunc, when set, takes precedence over ChatRet and
// ChatErr.
type Fake struct {
	mu sync.Mutex

	PingErr error

	LoginRet  models.Credential
	LoginErr  error
	SignupRet models.Credential
	SignupErr error

	ForgotErr error
	VerifyErr error
	ResetErr  error

	MeRet models.User
	MeErr error

	HistoryRet []models.Message
	HistoryErr error

	ConversationsRet []models.Conversation
	ConversationsErr error

	MessagesRet map[models.ConversationID][]models.Message
	MessagesErr error

	ChatRet  models.ChatReply
	ChatErr  error
	ChatFunc func(ctx context.Context, text string, id models.ConversationID) (models.ChatReply, error)

	LastLoginEmail    string
	LastLoginPassword string
	LastSignupEmail   string
	LastForgotEmail   string
	LastVerifyCode    string
	LastResetCode     string
	LastResetPassword string
	LastMessagesID    models.ConversationID
	LastChatText      string
	LastChatID        models.ConversationID

	Calls map[string]int

	chatIDs []models.ConversationID
}

func (f *Fake) record(name string) {
	if f.Calls == nil {
		f.Calls = map[string]int{}
	}
	f.Calls[name]++
}

// CallCount reports how many times method name was invoked.
func (f *Fake) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

// ChatIDs is every conversation id passed to Chat, in call order.
func (f *Fake) ChatIDs() []models.ConversationID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ConversationID(nil), f.chatIDs...)
}

func (f *Fake) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Ping")
	return f.PingErr
}

func (f *Fake) Login(_ context.Context, email, password string) (models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Login")
	f.LastLoginEmail, f.LastLoginPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *Fake) Signup(_ context.Context, email, _ string) (models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Signup")
	f.LastSignupEmail = email
	return f.SignupRet, f.SignupErr
}

func (f *Fake) ForgotPassword(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ForgotPassword")
	f.LastForgotEmail = email
	return f.ForgotErr
}

func (f *Fake) VerifyResetCode(_ context.Context, _, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("VerifyResetCode")
	f.LastVerifyCode = code
	return f.VerifyErr
}

func (f *Fake) ResetPassword(_ context.Context, _, code, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ResetPassword")
	f.LastResetCode, f.LastResetPassword = code, newPassword
	return f.ResetErr
}

func (f *Fake) Me(context.Context) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Me")
	return f.MeRet, f.MeErr
}

func (f *Fake) History(context.Context) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("History")
	return append([]models.Message(nil), f.HistoryRet...), f.HistoryErr
}

func (f *Fake) Conversations(context.Context) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Conversations")
	return append([]models.Conversation(nil), f.ConversationsRet...), f.ConversationsErr
}

func (f *Fake) ConversationMessages(_ context.Context, id models.ConversationID) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ConversationMessages")
	f.LastMessagesID = id
	if f.MessagesErr != nil {
		return nil, f.MessagesErr
	}
	return append([]models.Message(nil), f.MessagesRet[id]...), nil
}

func (f *Fake) Chat(ctx context.Context, text string, id models.ConversationID) (models.ChatReply, error) {
	f.mu.Lock()
	f.record("Chat")
	f.LastChatText, f.LastChatID = text, id
	f.chatIDs = append(f.chatIDs, id)
	fn := f.ChatFunc
	ret, err := f.ChatRet, f.ChatErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, text, id)
	}
	return ret, err
}
