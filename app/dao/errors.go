package dao

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("dao: record not found")
	ErrEmailTaken        = errors.New("dao: email already registered")
	ErrCategoryCycle     = errors.New("dao: category parent would create a cycle")
	ErrParentNotFound    = errors.New("dao: parent category does not exist")
	ErrInsufficientStock = errors.New("dao: insufficient stock")
	ErrQuantityFloor     = errors.New("dao: quantity cannot drop below 1")
	ErrInvalidQuantity   = errors.New("dao: quantity must be at least 1")
	ErrWrongPassword     = errors.New("dao: current password does not match")
)

// notFound maps gorm's sentinel to ErrNotFound and passes other errors on.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// isDuplicate reports whether err is a unique-constraint violation. Dialects
// that gorm does not translate are matched on their message.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "Duplicate entry")
}
