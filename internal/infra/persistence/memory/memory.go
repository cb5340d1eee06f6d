// Package memory contains the concrete implementation of the persistence
// layer backed by process memory. It is the default store for development
// and tests; every operation is atomic under a single lock, which is how
// the alias-uniqueness invariant holds without a database.
package memory

import (
	"sync"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

// ticketKey identifies the single live ticket of one kind for one account.
type ticketKey struct {
	kind      entity.TicketKind
	accountID uuid.UUID
}

// Store holds all in-memory records. The zero value is not usable; use
// NewStore. All maps are guarded by mu.
type Store struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*entity.Account
	sessions map[string]*entity.Session // keyed by token hash
	tickets  map[ticketKey]*entity.Ticket
}

// NewStore is the constructor for the in-memory store shared by the
// memory repositories.
func NewStore() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]*entity.Account),
		sessions: make(map[string]*entity.Session),
		tickets:  make(map[ticketKey]*entity.Ticket),
	}
}
