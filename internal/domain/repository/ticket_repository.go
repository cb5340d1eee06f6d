// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrTicketNotFound is returned when no ticket record matches the lookup.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepository defines the interface for verify/reset ticket records.
// Tickets are recorded at issuance so they can be single-use and
// time-limited instead of perpetually derivable capabilities.
type TicketRepository interface {
	// SaveTicket records a ticket, replacing any previous unconsumed ticket
	// of the same kind for the same account (resend is idempotent).
	SaveTicket(ctx context.Context, ticket *entity.Ticket) error

	// FindTicket retrieves the ticket of the given kind bound to an account.
	FindTicket(ctx context.Context, kind entity.TicketKind, accountID uuid.UUID) (*entity.Ticket, error)

	// MarkTicketUsed consumes the ticket of the given kind for an account.
	MarkTicketUsed(ctx context.Context, kind entity.TicketKind, accountID uuid.UUID) error
}
