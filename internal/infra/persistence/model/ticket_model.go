package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketModel mirrors the 'tickets' table. One live ticket per kind per
// account; saving a new one replaces the previous row.
type TicketModel struct {
	Kind      string     `gorm:"type:text;primaryKey"`
	AccountID uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt time.Time  `gorm:"not null"`
	UsedAt    *time.Time `gorm:""`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (TicketModel) TableName() string {
	return "tickets"
}
