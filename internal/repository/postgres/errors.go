package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

// Postgres error codes we translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeSerializationFail   = "40001"
	codeDeadlockDetected    = "40P01"
	codeLockNotAvailable    = "55P03"
)

// mapError translates driver errors into the domain taxonomy so callers
// never see raw SQL state. Unknown errors pass through wrapped.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUniqueViolation, codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrIntegrity)
		case codeSerializationFail, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%s: %w", op, domain.ErrConcurrencyConflict)
		}
	}

	// Unknown errors keep a stack trace for the structured logger.
	return pkgerrors.Wrap(err, op)
}
