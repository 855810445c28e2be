// Package credentials owns the process-wide bearer credential. It is the
// only place the token and user id are written, read and deleted.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cbtcompanion/internal/client/models"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cbtcompanion/internal/dbx"
	"github.com/dmitrijs2005/cbtcompanion/internal/logging"
)

var (
	// ErrNoCredential is returned by Load when nothing is stored.
	ErrNoCredential = errors.New("no stored credential")
	// ErrStorageUnavailable wraps every storage I/O failure.
	ErrStorageUnavailable = errors.New("credential storage unavailable")
)

const (
	keyAccessToken = "access_token"
	keyUserID      = "user_id"
)

// Store persists a single Credential.
type Store interface {
	Save(ctx context.Context, c models.Credential) error
	Load(ctx context.Context) (models.Credential, error)
	Clear(ctx context.Context) error
}

// SQLiteStore keeps the credential in the metadata table so it outlives
// process restarts.
type SQLiteStore struct {
	db  *sql.DB
	log logging.Logger
}

func NewSQLiteStore(db *sql.DB, log logging.Logger) *SQLiteStore {
	if log == nil {
		log = logging.Nop()
	}
	return &SQLiteStore{db: db, log: log.With("component", "credentials")}
}

// Save writes token and user id in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, c models.Credential) error {
	if c.Empty() {
		return errors.New("refusing to save empty credential")
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(c.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUserID, []byte(c.UserID))
	})
	if err != nil {
		s.log.Error(ctx, "failed to save credential", "error", err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (models.Credential, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, keyAccessToken)
	if err != nil {
		s.log.Error(ctx, "failed to load credential", "error", err)
		return models.Credential{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if len(token) == 0 {
		return models.Credential{}, ErrNoCredential
	}

	userID, err := repo.Get(ctx, keyUserID)
	if err != nil {
		s.log.Error(ctx, "failed to load credential", "error", err)
		return models.Credential{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return models.Credential{Token: string(token), UserID: string(userID)}, nil
}

// Clear removes the credential. Clearing an empty store is not an error.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := metadata.NewSQLiteRepository(s.db).Delete(ctx, keyAccessToken, keyUserID); err != nil {
		s.log.Error(ctx, "failed to clear credential", "error", err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// MemoryStore keeps the credential in process memory. It backs demo mode
// and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	cred models.Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, c models.Credential) error {
	if c.Empty() {
		return errors.New("refusing to save empty credential")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = c
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (models.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cred.Empty() {
		return models.Credential{}, ErrNoCredential
	}
	return m.cred, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = models.Credential{}
	return nil
}
