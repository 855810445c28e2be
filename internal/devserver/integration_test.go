package devserver_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/chat"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/client"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/conversation"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/credentials"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/services"
	"github.com/dmitrijs2005/cbtcompanion/internal/devserver"
	"github.com/dmitrijs2005/cbtcompanion/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	store *credentials.MemoryStore
	api   *client.HTTPClient
	auth  services.AuthService
	chat  *chat.Controller
	conv  *conversation.Manager
}

func newStack(t *testing.T, opts ...devserver.Option) stack {
	t.Helper()
	var cfg devserver.Config
	cfg.LoadDefaults()
	cfg.SecretKey = "integration-secret"
	srv := devserver.NewServer(cfg, devserver.NewStore(), logging.Nop(), opts...)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	store := credentials.NewMemoryStore()
	api, err := client.NewHTTPClient(ts.URL+"/api", store)
	require.NoError(t, err)
	conv := conversation.NewManager(api)
	return stack{
		store: store,
		api:   api,
		auth:  services.NewAuthService(api, store),
		chat: chat.NewController(conv, chat.NewBackendResponder(api),
			chat.WithHistorySource(api), chat.WithCredentialClearer(store)),
		conv: conv,
	}
}

func TestSignupThenLogin(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	cred, err := s.auth.Signup(ctx, "new@user.io", "secret1", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, cred.Token)
	assert.Equal(t, "1", cred.UserID)

	require.NoError(t, s.auth.Logout(ctx))

	cred, err = s.auth.Login(ctx, "new@user.io", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, cred.Token)

	u, err := s.auth.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new@user.io", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = s.auth.Login(ctx, "new@user.io", "wrong1")
	require.ErrorIs(t, err, client.ErrInvalidCredentials)

	_, err = s.auth.Signup(ctx, "new@user.io", "secret1", "secret1")
	require.ErrorIs(t, err, client.ErrRejected)
	assert.Equal(t, "Email already registered", client.Detail(err))
}

func TestConversationLifecycle(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	_, err := s.auth.Signup(ctx, "a@b.c", "secret1", "secret1")
	require.NoError(t, err)

	_, err = s.chat.Send(ctx, "I keep worrying about work")
	require.NoError(t, err)
	first, ok := s.chat.ConversationID()
	require.True(t, ok)

	out, err := s.chat.Send(ctx, "and sleep")
	require.NoError(t, err)
	require.NotNil(t, out.Reply)
	again, _ := s.chat.ConversationID()
	assert.Equal(t, first, again)

	s.chat.NewConversation()
	_, err = s.chat.Send(ctx, "a different topic")
	require.NoError(t, err)
	second, _ := s.chat.ConversationID()
	assert.NotEqual(t, first, second)

	convs, err := s.conv.List(ctx)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, second, convs[0].ID)
	assert.Equal(t, "I keep worrying about work", convs[1].Title)

	require.NoError(t, s.chat.Open(ctx, first))
	msgs := s.chat.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, models.SenderUser, msgs[0].Sender)
	assert.Equal(t, models.SenderAssistant, msgs[1].Sender)
	assert.Equal(t, "and sleep", msgs[2].Text)

	require.NoError(t, s.chat.LoadHistory(ctx))
	assert.Len(t, s.chat.Messages(), 6)
}

func TestPasswordResetAgainstServer(t *testing.T) {
	s := newStack(t, devserver.WithCodeGenerator(func() (string, error) { return "5555", nil }))
	ctx := context.Background()
	_, err := s.auth.Signup(ctx, "a@b.c", "secret1", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.auth.RequestPasswordReset(ctx, "a@b.c"))
	require.ErrorIs(t, s.auth.VerifyResetCode(ctx, "a@b.c", "1111"), client.ErrInvalidCode)
	require.NoError(t, s.auth.VerifyResetCode(ctx, "a@b.c", "5555"))
	require.NoError(t, s.auth.SetNewPassword(ctx, "a@b.c", "5555", "changed1", "changed1"))

	_, err = s.auth.Login(ctx, "a@b.c", "changed1")
	require.NoError(t, err)
}

func TestForgedTokenClearsCredential(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	require.NoError(t, s.store.Save(ctx, models.Credential{Token: "forged", UserID: "1"}))

	out, err := s.chat.Send(ctx, "hello")
	require.ErrorIs(t, err, client.ErrUnauthenticated)
	require.NotNil(t, out.Route)
	assert.Len(t, s.chat.Messages(), 1)

	_, err = s.store.Load(ctx)
	require.ErrorIs(t, err, credentials.ErrNoCredential)
}
