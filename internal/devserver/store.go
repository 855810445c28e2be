package devserver

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultConversationTitle = "New Chat"

type User struct {
	ID           int64
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

type Conversation struct {
	ID        int64
	UserID    int64
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	ID             string
	UserID         int64
	ConversationID int64
	Role           string
	Content        string
	CreatedAt      time.Time
}

type resetCode struct {
	code      string
	expiresAt time.Time
}

// Store is the in-memory state of the reference backend. It is safe for
// concurrent use.
type Store struct {
	mu sync.RWMutex

	nextUserID int64
	nextConvID int64

	users         map[int64]*User
	usersByEmail  map[string]int64
	conversations map[int64]*Conversation
	messages      []*Message
	resetCodes    map[string]resetCode
}

func NewStore() *Store {
	return &Store{
		users:         map[int64]*User{},
		usersByEmail:  map[string]int64{},
		conversations: map[int64]*Conversation{},
		resetCodes:    map[string]resetCode{},
	}
}

func (s *Store) CreateUser(email string, hash []byte, now time.Time) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByEmail[email]; ok {
		return User{}, ErrEmailTaken
	}
	s.nextUserID++
	u := &User{ID: s.nextUserID, Email: email, PasswordHash: hash, CreatedAt: now}
	s.users[u.ID] = u
	s.usersByEmail[email] = u.ID
	return *u, nil
}

func (s *Store) UserByEmail(email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return *s.users[id], nil
}

func (s *Store) UserByID(id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return *u, nil
}

func (s *Store) SetPassword(email string, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.usersByEmail[email]
	if !ok {
		return ErrNotFound
	}
	s.users[id].PasswordHash = hash
	return nil
}

// SaveResetCode replaces any earlier code for email.
func (s *Store) SaveResetCode(email, code string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCodes[email] = resetCode{code: code, expiresAt: expiresAt}
}

// CheckResetCode reports ErrInvalidCode unless code is the latest
// unexpired code for email.
func (s *Store) CheckResetCode(email, code string, now time.Time) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rc, ok := s.resetCodes[email]
	if !ok || rc.code != code || !now.Before(rc.expiresAt) {
		return ErrInvalidCode
	}
	return nil
}

func (s *Store) DeleteResetCode(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resetCodes, email)
}

func (s *Store) CreateConversation(userID int64, now time.Time) Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextConvID++
	c := &Conversation{ID: s.nextConvID, UserID: userID, Title: defaultConversationTitle, CreatedAt: now, UpdatedAt: now}
	s.conversations[c.ID] = c
	return *c
}

// Conversation returns the conversation only if userID owns it.
func (s *Store) Conversation(userID, id int64) (Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[id]
	if !ok || c.UserID != userID {
		return Conversation{}, ErrNotFound
	}
	return *c, nil
}

// Touch bumps UpdatedAt and, while the title is still the default, sets
// it from the first message.
func (s *Store) Touch(id int64, firstMessage string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return
	}
	c.UpdatedAt = now
	if c.Title == defaultConversationTitle && firstMessage != "" {
		c.Title = titleFrom(firstMessage)
	}
}

func titleFrom(msg string) string {
	r := []rune(msg)
	if len(r) <= 30 {
		return msg
	}
	return string(r[:30]) + "..."
}

// Conversations lists userID's conversations, most recently updated first.
func (s *Store) Conversations(userID int64) []Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Conversation, 0)
	for _, c := range s.conversations {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func (s *Store) AddMessage(userID, convID int64, role, content string, now time.Time) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &Message{
		ID:             uuid.NewString(),
		UserID:         userID,
		ConversationID: convID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}
	s.messages = append(s.messages, m)
	return *m
}

// messagesWhere returns the messages matching keep in creation order.
func (s *Store) messagesWhere(keep func(*Message) bool) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, 0)
	for _, m := range s.messages {
		if keep(m) {
			out = append(out, *m)
		}
	}
	return out
}

func (s *Store) ConversationMessages(convID int64) []Message {
	return s.messagesWhere(func(m *Message) bool { return m.ConversationID == convID })
}

func (s *Store) UserMessages(userID int64) []Message {
	return s.messagesWhere(func(m *Message) bool { return m.UserID == userID })
}
