package sqlite

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Helper functions for SQLite error checking. The pure-Go driver surfaces
// constraint failures as "UNIQUE constraint failed: table.column", so the
// column name tells us which alias collided.
func isUniqueConstraintViolation(err error, column string) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "unique constraint failed") &&
		strings.Contains(errMsg, strings.ToLower(column))
}

func isAnyUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
