// Package entity contains the core business objects of the project.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketKind identifies the operation a ticket is bound to.
type TicketKind string

const (
	// TicketVerify binds a ticket to email verification.
	TicketVerify TicketKind = "verify"
	// TicketReset binds a ticket to password reset.
	TicketReset TicketKind = "reset"
)

// Prefix returns the wire prefix prepended to the account ID in the
// ticket value, e.g. "verify-".
func (k TicketKind) Prefix() string {
	return string(k) + "-"
}

// Ticket is an ephemeral capability binding a verify or reset operation to an
// account. Tickets are single-use and time-limited: the record tracks when
// the ticket expires and when it was consumed.
type Ticket struct {
	Value     string     // The capability string handed to the caller: "{kind}-{accountID}".
	Kind      TicketKind // Which operation the ticket authorizes.
	AccountID uuid.UUID  // The account the ticket is bound to.
	ExpiresAt time.Time  // After this instant the ticket no longer resolves.
	UsedAt    *time.Time // Set when the ticket is consumed. A used ticket no longer resolves.
	CreatedAt time.Time  // Timestamp of issuance.
}

// NewTicket builds a ticket of the given kind for an account.
func NewTicket(kind TicketKind, accountID uuid.UUID, ttl time.Duration, now time.Time) *Ticket {
	return &Ticket{
		Value:     kind.Prefix() + accountID.String(),
		Kind:      kind,
		AccountID: accountID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// Usable reports whether the ticket can still be consumed at the given instant.
func (t *Ticket) Usable(now time.Time) bool {
	return t != nil && t.UsedAt == nil && t.ExpiresAt.After(now)
}

// ParseTicketAccountID extracts the bound account ID from a ticket value.
// The kind prefix is stripped when present; otherwise the whole string is
// treated as a raw account ID. The dual mode supports both issued tickets
// and direct account IDs.
func ParseTicketAccountID(kind TicketKind, value string) (uuid.UUID, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(value), kind.Prefix())

	return uuid.Parse(raw)
}
