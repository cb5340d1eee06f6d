package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"warden/internal/domain/entity"
	"warden/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(email, username string) *entity.Account {
	return &entity.Account{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: "hashed",
		Role:         entity.RoleUser,
		Tier:         entity.TierFree,
	}
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	repo := NewAccountRepository(NewStore())
	ctx := context.Background()

	account := newTestAccount("alice@example.com", "alice")
	require.NoError(t, repo.Create(ctx, account))
	assert.False(t, account.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, byID.Email)

	// Alias lookups are case-insensitive.
	byEmail, err := repo.FindByEmail(ctx, "ALICE@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)

	byUsername, err := repo.FindByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byUsername.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_DuplicateAliases(t *testing.T) {
	repo := NewAccountRepository(NewStore())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestAccount("alice@example.com", "alice")))

	err := repo.Create(ctx, newTestAccount("Alice@Example.com", "other"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	err = repo.Create(ctx, newTestAccount("other@example.com", "ALICE"))
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestAccountRepository_ConcurrentCreateSameAlias(t *testing.T) {
	repo := NewAccountRepository(NewStore())
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, newTestAccount("race@example.com", uuid.NewString()))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestAccountRepository_UpdateAndList(t *testing.T) {
	repo := NewAccountRepository(NewStore())
	ctx := context.Background()

	first := newTestAccount("a@example.com", "a")
	first.CreatedAt = time.Now().Add(-time.Hour)
	second := newTestAccount("b@example.com", "b")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	first.Verified = true
	require.NoError(t, repo.Update(ctx, first))

	reloaded, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Verified)

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, first.ID, accounts[0].ID)

	err = repo.Update(ctx, newTestAccount("ghost@example.com", "ghost"))
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	repo := NewAccountRepository(NewStore())
	ctx := context.Background()

	account := newTestAccount("copy@example.com", "copy")
	require.NoError(t, repo.Create(ctx, account))

	loaded, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	loaded.Email = "mutated@example.com"

	again, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "copy@example.com", again.Email)
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	repo := NewSessionRepository(NewStore())
	ctx := context.Background()
	accountID := uuid.New()

	session := &entity.Session{
		AccountID: accountID,
		TokenHash: "hash-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.CreateSession(ctx, session))
	assert.NotEqual(t, uuid.Nil, session.ID)

	found, err := repo.FindSessionByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, accountID, found.AccountID)

	count, err := repo.CountActiveSessionsByAccountID(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.DeleteSessionByTokenHash(ctx, "hash-1"))
	_, err = repo.FindSessionByTokenHash(ctx, "hash-1")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	// Deleting an already-deleted session is not an error.
	assert.NoError(t, repo.DeleteSessionByTokenHash(ctx, "hash-1"))
}

func TestSessionRepository_ExpiredSession(t *testing.T) {
	repo := NewSessionRepository(NewStore())
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, &entity.Session{
		AccountID: uuid.New(),
		TokenHash: "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err := repo.FindSessionByTokenHash(ctx, "stale")
	assert.ErrorIs(t, err, repository.ErrSessionExpired)

	require.NoError(t, repo.DeleteExpiredSessions(ctx))
	_, err = repo.FindSessionByTokenHash(ctx, "stale")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSessionRepository_DeleteByAccount(t *testing.T) {
	repo := NewSessionRepository(NewStore())
	ctx := context.Background()
	accountID := uuid.New()
	otherID := uuid.New()

	for i, id := range []uuid.UUID{accountID, accountID, otherID} {
		require.NoError(t, repo.CreateSession(ctx, &entity.Session{
			AccountID: id,
			TokenHash: uuid.NewString(),
			ExpiresAt: time.Now().Add(time.Duration(i+1) * time.Hour),
		}))
	}

	require.NoError(t, repo.DeleteSessionsByAccountID(ctx, accountID))

	count, err := repo.CountActiveSessionsByAccountID(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = repo.CountActiveSessionsByAccountID(ctx, otherID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTicketRepository_SaveReplacesSameKind(t *testing.T) {
	repo := NewTicketRepository(NewStore())
	ctx := context.Background()
	accountID := uuid.New()
	now := time.Now()

	first := entity.NewTicket(entity.TicketVerify, accountID, time.Hour, now)
	require.NoError(t, repo.SaveTicket(ctx, first))

	used := now
	first.UsedAt = &used

	// A fresh ticket of the same kind replaces the consumed one.
	second := entity.NewTicket(entity.TicketVerify, accountID, time.Hour, now.Add(time.Minute))
	require.NoError(t, repo.SaveTicket(ctx, second))

	found, err := repo.FindTicket(ctx, entity.TicketVerify, accountID)
	require.NoError(t, err)
	assert.Nil(t, found.UsedAt)
	assert.Equal(t, second.ExpiresAt, found.ExpiresAt)
}

func TestTicketRepository_MarkUsed(t *testing.T) {
	repo := NewTicketRepository(NewStore())
	ctx := context.Background()
	accountID := uuid.New()

	ticket := entity.NewTicket(entity.TicketReset, accountID, time.Hour, time.Now())
	require.NoError(t, repo.SaveTicket(ctx, ticket))

	require.NoError(t, repo.MarkTicketUsed(ctx, entity.TicketReset, accountID))

	found, err := repo.FindTicket(ctx, entity.TicketReset, accountID)
	require.NoError(t, err)
	require.NotNil(t, found.UsedAt)
	assert.False(t, found.Usable(time.Now()))

	err = repo.MarkTicketUsed(ctx, entity.TicketVerify, accountID)
	assert.ErrorIs(t, err, repository.ErrTicketNotFound)
}
