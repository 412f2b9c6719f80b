package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrOverlap is returned when an active booking already covers part of the range
var ErrOverlap = errors.New("overlapping active booking")

// translate normalizes unique-constraint violations to gorm.ErrDuplicatedKey.
// Drivers without an error translator are matched by message.
func translate(err error) error {
	if err == nil || errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key") {
		return gorm.ErrDuplicatedKey
	}
	return err
}

// IsDuplicate reports whether err is a unique-constraint violation
func IsDuplicate(err error) bool {
	return errors.Is(translate(err), gorm.ErrDuplicatedKey)
}

// forUpdate adds a row lock where the dialect supports it.
// SQLite serializes writers on its own and has no FOR UPDATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// rowExists checks an update that touched no rows; MySQL reports zero
// affected rows when the new value equals the old one.
func rowExists(tx *gorm.DB, model any, id uint) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
