package dao

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrStoreFault   = errors.New("store fault")
)

// ConstraintError is returned when the store rejects a row through a CHECK constraint.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint %q violated: %v", e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// classifyError turns a gorm or driver error into one of ErrItemNotFound,
// *ConstraintError or an error wrapping ErrStoreFault.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrStoreFault) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrItemNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
		return &ConstraintError{Constraint: pgErr.ConstraintName, Err: err}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintCheck {
		name := strings.TrimSpace(strings.TrimPrefix(sqliteErr.Error(), "CHECK constraint failed:"))
		return &ConstraintError{Constraint: name, Err: err}
	}

	return fmt.Errorf("%w: %w", ErrStoreFault, err)
}
