package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

func TestMapErrorTranslatesDriverCodes(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, domain.ErrNotFound},
		{"unique violation", &pq.Error{Code: pq.ErrorCode(codeUniqueViolation)}, domain.ErrIntegrity},
		{"foreign key violation", &pq.Error{Code: pq.ErrorCode(codeForeignKeyViolation)}, domain.ErrIntegrity},
		{"serialization failure", &pq.Error{Code: pq.ErrorCode(codeSerializationFail)}, domain.ErrConcurrencyConflict},
		{"deadlock", &pq.Error{Code: pq.ErrorCode(codeDeadlockDetected)}, domain.ErrConcurrencyConflict},
		{"lock not available", &pq.Error{Code: pq.ErrorCode(codeLockNotAvailable)}, domain.ErrConcurrencyConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapError(tc.in, "op")
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestMapErrorWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	got := mapError(cause, "failed to list")
	assert.ErrorIs(t, got, cause)
	assert.Contains(t, got.Error(), "failed to list")
}

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, mapError(nil, "op"))
}
