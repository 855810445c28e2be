package client

import (
	"context"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
)

// Client is the backend contract consumed by the services. Authenticated
// methods attach the stored bearer token.
type Client interface {
	Ping(ctx context.Context) error

	Login(ctx context.Context, email, password string) (models.Credential, error)
	Signup(ctx context.Context, email, password string) (models.Credential, error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	Me(ctx context.Context) (models.User, error)

	History(ctx context.Context) ([]models.Message, error)
	Conversations(ctx context.Context) ([]models.Conversation, error)
	ConversationMessages(ctx context.Context, id models.ConversationID) ([]models.Message, error)
	Chat(ctx context.Context, text string, id models.ConversationID) (models.ChatReply, error)
}

// CredentialSource is the part of the credential store the transport needs:
// reading the token to attach and clearing it when the server refuses it.
type CredentialSource interface {
	Load(ctx context.Context) (models.Credential, error)
	Clear(ctx context.Context) error
}
