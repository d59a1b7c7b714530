package repository

import (
	"errors"

	"github.com/lib/pq"

	appErrors "github.com/darsapp/dars-api/pkg/errors"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// mapConstraintError converts PostgreSQL referential and uniqueness
// violations into typed 409s so handlers surface them instead of a 500.
// Deletion restriction is enforced server-side only; clients never pre-check.
func mapConstraintError(err error, restrictedMsg, conflictMsg string) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pgForeignKeyViolation:
		return appErrors.Clone(appErrors.ErrRestricted, restrictedMsg)
	case pgUniqueViolation:
		return appErrors.Clone(appErrors.ErrConflict, conflictMsg)
	}
	return err
}
