package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"warden/internal/domain/entity"
	"warden/internal/domain/repository"

	"github.com/google/uuid"
)

// accountRepository implements repository.AccountRepository on the shared
// in-memory store.
type accountRepository struct {
	store *Store
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface,
// adhering to dependency inversion.
func NewAccountRepository(store *Store) repository.AccountRepository {
	return &accountRepository{store: store}
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	account, ok := repo.store.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return cloneAccount(account), nil
}

// FindByEmail retrieves a single account by its email address. The lookup is
// case-insensitive.
func (repo *accountRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(email))
	for _, account := range repo.store.accounts {
		if strings.ToLower(account.Email) == needle {
			return cloneAccount(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

// FindByUsername retrieves a single account by its username. The lookup is
// case-insensitive.
func (repo *accountRepository) FindByUsername(_ context.Context, username string) (*entity.Account, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(username))
	for _, account := range repo.store.accounts {
		if strings.ToLower(account.Username) == needle {
			return cloneAccount(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

// Create persists a new account. Both alias-uniqueness checks and the
// insert happen under the write lock, so exactly one of two concurrent
// registrations for the same alias can succeed.
func (repo *accountRepository) Create(_ context.Context, account *entity.Account) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	email := strings.ToLower(account.Email)
	username := strings.ToLower(account.Username)
	for _, existing := range repo.store.accounts {
		if strings.ToLower(existing.Email) == email {
			return repository.ErrDuplicateEmail
		}
		if strings.ToLower(existing.Username) == username {
			return repository.ErrDuplicateUsername
		}
	}

	now := time.Now()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	repo.store.accounts[account.ID] = cloneAccount(account)

	return nil
}

// Update modifies an existing account.
func (repo *accountRepository) Update(_ context.Context, account *entity.Account) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if _, ok := repo.store.accounts[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = time.Now()
	repo.store.accounts[account.ID] = cloneAccount(account)

	return nil
}

// List returns all accounts in the directory, ordered by creation time so
// output is stable across calls.
func (repo *accountRepository) List(_ context.Context) ([]*entity.Account, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	accounts := make([]*entity.Account, 0, len(repo.store.accounts))
	for _, account := range repo.store.accounts {
		accounts = append(accounts, cloneAccount(account))
	}

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID.String() < accounts[j].ID.String()
		}

		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})

	return accounts, nil
}

// cloneAccount copies an account so callers never share map-backed memory.
func cloneAccount(account *entity.Account) *entity.Account {
	if account == nil {
		return nil
	}

	clone := *account

	return &clone
}
