package repositories

import (
	"errors"
	"fmt"

	"github.com/Nienta-PK/taskmanager/backend/internal/services"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// translate maps driver and gorm errors onto the service sentinels.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, services.ErrNotFound)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", what, services.ErrConflict)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, services.ErrConflict)
	}

	return fmt.Errorf("%s: %w", what, err)
}
