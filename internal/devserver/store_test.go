package devserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Users(t *testing.T) {
	s := NewStore()
	now := time.Now()

	u, err := s.CreateUser("a@b.c", []byte("h"), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = s.CreateUser("a@b.c", []byte("h"), now)
	require.ErrorIs(t, err, ErrEmailTaken)

	got, err := s.UserByEmail("a@b.c")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.UserByID(99)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetPassword("a@b.c", []byte("h2")))
	require.ErrorIs(t, s.SetPassword("x@y.z", nil), ErrNotFound)
}

func TestStore_ResetCodes(t *testing.T) {
	s := NewStore()
	now := time.Now()

	s.SaveResetCode("a@b.c", "1111", now.Add(time.Minute))
	s.SaveResetCode("a@b.c", "2222", now.Add(time.Minute))

	require.ErrorIs(t, s.CheckResetCode("a@b.c", "1111", now), ErrInvalidCode, "latest code wins")
	require.NoError(t, s.CheckResetCode("a@b.c", "2222", now))
	require.ErrorIs(t, s.CheckResetCode("a@b.c", "2222", now.Add(2*time.Minute)), ErrInvalidCode)

	s.DeleteResetCode("a@b.c")
	require.ErrorIs(t, s.CheckResetCode("a@b.c", "2222", now), ErrInvalidCode)
}

func TestStore_Conversations(t *testing.T) {
	s := NewStore()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	c1 := s.CreateConversation(1, t0)
	c2 := s.CreateConversation(1, t0.Add(time.Minute))
	s.CreateConversation(2, t0)

	s.Touch(c1.ID, "this is a fairly long first message for a title", t0.Add(time.Hour))

	convs := s.Conversations(1)
	require.Len(t, convs, 2)
	assert.Equal(t, c1.ID, convs[0].ID, "most recently updated first")
	assert.Equal(t, "this is a fairly long first me...", convs[0].Title)
	assert.Equal(t, c2.ID, convs[1].ID)
	assert.Equal(t, defaultConversationTitle, convs[1].Title)

	_, err := s.Conversation(2, c1.ID)
	require.ErrorIs(t, err, ErrNotFound, "foreign conversation")
}

func TestStore_MessagesKeepOrder(t *testing.T) {
	s := NewStore()
	now := time.Now()

	s.AddMessage(1, 1, roleUser, "a", now)
	s.AddMessage(1, 2, roleUser, "b", now)
	s.AddMessage(1, 1, roleAssistant, "c", now)

	var texts []string
	for _, m := range s.ConversationMessages(1) {
		texts = append(texts, m.Content)
	}
	assert.Equal(t, []string{"a", "c"}, texts)
	assert.Len(t, s.UserMessages(1), 3)
	assert.Empty(t, s.UserMessages(2))
}

func TestEchoReplier(t *testing.T) {
	got, err := EchoReplier{}.Reply(context.Background(), []Message{{Role: roleUser, Content: " rough day "}, {Role: roleAssistant, Content: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "I hear you saying: rough day. How does that make you feel?", got)

	got, err = EchoReplier{}.Reply(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
