package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrInsufficientStock is returned by a guarded stock decrement that matched no row.
var ErrInsufficientStock = errors.New("insufficient stock")

// notFoundOr wraps gorm's record-not-found as ErrNotFound and any other error as a failure of op.
func notFoundOr(err error, op, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
