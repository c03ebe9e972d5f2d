package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist or is not visible to
// the caller. The two cases are indistinguishable on purpose.
var ErrNotFound = errors.New("not found")

// normalize maps gorm errors onto the store's two-error contract: ErrNotFound
// for missing rows, an opaque wrapped error for everything else. Raw storage
// diagnostics never cross the handler boundary.
func normalize(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("storage failure: %w", err)
}
