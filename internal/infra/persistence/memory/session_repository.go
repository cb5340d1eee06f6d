package memory

import (
	"context"
	"time"

	"warden/internal/domain/entity"
	"warden/internal/domain/repository"

	"github.com/google/uuid"
)

// sessionRepository implements repository.SessionRepository on the shared
// in-memory store.
type sessionRepository struct {
	store *Store
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(store *Store) repository.SessionRepository {
	return &sessionRepository{store: store}
}

// CreateSession persists a new session record, representing a login.
func (repo *sessionRepository) CreateSession(_ context.Context, session *entity.Session) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	clone := *session
	repo.store.sessions[session.TokenHash] = &clone

	return nil
}

// FindSessionByTokenHash retrieves a session record by its stored token hash.
// An expired record is reported as expired rather than found.
func (repo *sessionRepository) FindSessionByTokenHash(_ context.Context, tokenHash string) (*entity.Session, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	session, ok := repo.store.sessions[tokenHash]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	if !session.Active(time.Now()) {
		return nil, repository.ErrSessionExpired
	}

	clone := *session

	return &clone, nil
}

// DeleteSessionByTokenHash deletes a session by its token hash. Deleting a
// session that does not exist is not an error, which makes logout idempotent.
func (repo *sessionRepository) DeleteSessionByTokenHash(_ context.Context, tokenHash string) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	delete(repo.store.sessions, tokenHash)

	return nil
}

// DeleteSessionsByAccountID removes all sessions for an account.
func (repo *sessionRepository) DeleteSessionsByAccountID(_ context.Context, accountID uuid.UUID) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	for hash, session := range repo.store.sessions {
		if session.AccountID == accountID {
			delete(repo.store.sessions, hash)
		}
	}

	return nil
}

// DeleteExpiredSessions removes all expired session records.
func (repo *sessionRepository) DeleteExpiredSessions(_ context.Context) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	now := time.Now()
	for hash, session := range repo.store.sessions {
		if !session.Active(now) {
			delete(repo.store.sessions, hash)
		}
	}

	return nil
}

// CountActiveSessionsByAccountID returns the number of unexpired sessions
// for an account.
func (repo *sessionRepository) CountActiveSessionsByAccountID(_ context.Context, accountID uuid.UUID) (int, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	now := time.Now()
	count := 0
	for _, session := range repo.store.sessions {
		if session.AccountID == accountID && session.Active(now) {
			count++
		}
	}

	return count, nil
}
