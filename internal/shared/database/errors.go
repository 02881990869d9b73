package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err was caused by a unique index or constraint.
// Dialectors that do not translate errors are matched on their native messages.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "ORA-00001") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsNotFound is a shorthand for gorm.ErrRecordNotFound checks in repositories.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
