// Package conversation tracks which server-side conversation the chat
// screen is talking to.
//
// A Manager starts Unbound: the next message goes out with a null
// conversation id and the server allocates one. The first reply binds the
// manager to that id and every later message carries it. Reset returns to
// Unbound for a fresh conversation; Open jumps straight to Bound for an
// existing one. The client never invents ids.
package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
)

// State of a Manager.
type State int

const (
	Unbound State = iota
	Bound
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Bound:
		return "bound"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// HistoryFetcher loads conversations and their messages from the backend.
// client.Client satisfies it.
type HistoryFetcher interface {
	Conversations(ctx context.Context) ([]models.Conversation, error)
	ConversationMessages(ctx context.Context, id models.ConversationID) ([]models.Message, error)
}

// Manager is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	id      models.ConversationID
	fetcher HistoryFetcher
}

func NewManager(fetcher HistoryFetcher) *Manager {
	return &Manager{fetcher: fetcher}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.id.IsZero() {
		return Unbound
	}
	return Bound
}

// ID returns the bound id and true, or the zero id and false when Unbound.
func (m *Manager) ID() (models.ConversationID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id, !m.id.IsZero()
}

// Bind moves an Unbound manager to Bound. It reports whether the state
// changed. Binding the id already held is a no-op.
func (m *Manager) Bind(id models.ConversationID) (bool, error) {
	if id.IsZero() {
		return false, ErrEmptyID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.id.IsZero():
		m.id = id
		return true, nil
	case m.id == id:
		return false, nil
	default:
		return false, fmt.Errorf("%w: bound to %s, got %s", ErrAlreadyBound, m.id, id)
	}
}

// Reset discards the binding.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = ""
}

// Open binds to id, replacing any existing binding, and returns the
// conversation's messages in server order. On a fetch error the previous
// state is kept.
func (m *Manager) Open(ctx context.Context, id models.ConversationID) ([]models.Message, error) {
	if id.IsZero() {
		return nil, ErrEmptyID
	}
	msgs, err := m.fetcher.ConversationMessages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open conversation %s: %w", id, err)
	}

	m.mu.Lock()
	m.id = id
	m.mu.Unlock()
	return msgs, nil
}

// List returns the user's conversations as the server orders them.
func (m *Manager) List(ctx context.Context) ([]models.Conversation, error) {
	convs, err := m.fetcher.Conversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}
