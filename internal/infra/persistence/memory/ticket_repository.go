package memory

import (
	"context"
	"time"

	"warden/internal/domain/entity"
	"warden/internal/domain/repository"

	"github.com/google/uuid"
)

// ticketRepository implements repository.TicketRepository on the shared
// in-memory store.
type ticketRepository struct {
	store *Store
}

// NewTicketRepository is the constructor for ticketRepository.
func NewTicketRepository(store *Store) repository.TicketRepository {
	return &ticketRepository{store: store}
}

// SaveTicket records a ticket, replacing any previous ticket of the same
// kind for the same account.
func (repo *ticketRepository) SaveTicket(_ context.Context, ticket *entity.Ticket) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}

	clone := *ticket
	repo.store.tickets[ticketKey{kind: ticket.Kind, accountID: ticket.AccountID}] = &clone

	return nil
}

// FindTicket retrieves the ticket of the given kind bound to an account.
func (repo *ticketRepository) FindTicket(_ context.Context, kind entity.TicketKind, accountID uuid.UUID) (*entity.Ticket, error) {
	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	ticket, ok := repo.store.tickets[ticketKey{kind: kind, accountID: accountID}]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}

	clone := *ticket

	return &clone, nil
}

// MarkTicketUsed consumes the ticket of the given kind for an account.
func (repo *ticketRepository) MarkTicketUsed(_ context.Context, kind entity.TicketKind, accountID uuid.UUID) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	ticket, ok := repo.store.tickets[ticketKey{kind: kind, accountID: accountID}]
	if !ok {
		return repository.ErrTicketNotFound
	}

	now := time.Now()
	ticket.UsedAt = &now

	return nil
}
