// Package model holds the GORM persistence models mirroring the store
// tables. They are kept apart from the domain entities so schema concerns
// never leak into the domain layer.
package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. Both login aliases carry a
// NOCASE collation so the unique indexes enforce case-insensitive
// uniqueness at the store level.
type AccountModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email                string    `gorm:"type:text collate nocase;uniqueIndex;not null"`
	Username             string    `gorm:"type:text collate nocase;uniqueIndex;not null"`
	PasswordHash         string    `gorm:"type:text;not null"`
	DisplayName          string    `gorm:"type:text"`
	Organization         string    `gorm:"type:text"`
	Verified             bool      `gorm:"not null;default:false"`
	Role                 string    `gorm:"type:text;not null"`
	Tier                 string    `gorm:"type:text;not null"`
	RequiresProfileSetup bool      `gorm:"not null;default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
