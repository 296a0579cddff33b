package postgres

import (
	"database/sql"
	"database/sql/driver"

	"github.com/lib/pq"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

// int64Array adapts an id slice for = ANY($n) parameters.
func int64Array(ids []int64) driver.Valuer {
	return pq.Array(ids)
}

// requireRowsAffected turns a zero-row UPDATE/DELETE into ErrNotFound.
func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// nullString maps "" to SQL NULL for optional text columns.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
