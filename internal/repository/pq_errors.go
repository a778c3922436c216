package repository

import (
	"errors"
	"fmt"

	"communityAPI/internal/models"

	"github.com/lib/pq"
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// constraintError maps constraint violations onto the model sentinels and
// returns nil for any other error.
func constraintError(err error, what string) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch pqErr.Code {
	case pqForeignKeyViolation:
		return fmt.Errorf("%s: родительская запись: %w", what, models.ErrNotFound)
	case pqUniqueViolation:
		return fmt.Errorf("%s: %w", what, models.ErrAlreadyExists)
	}
	return nil
}
