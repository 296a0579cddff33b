// internal/repository/postgres/addition_repository.go
package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

const additionColumns = `id, name, kind, price, stock, min_stock, status, created_at`

type additionRepository struct {
	db *DB
}

func NewAdditionRepository(db *DB) *additionRepository {
	return &additionRepository{db: db}
}

func (r *additionRepository) Create(ctx context.Context, a *domain.Addition) (int64, error) {
	query := `
		INSERT INTO additions (name, kind, price, stock, min_stock, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		a.Name,
		a.Kind,
		a.Price,
		a.Stock,
		a.MinStock,
		a.Status,
	).Scan(&id)
	if err != nil {
		return 0, mapError(err, "failed to create addition")
	}

	return id, nil
}

func (r *additionRepository) GetByID(ctx context.Context, id int64) (*domain.Addition, error) {
	query := `SELECT ` + additionColumns + ` FROM additions WHERE id = $1`

	var a domain.Addition
	if err := sqlx.GetContext(ctx, r.db, &a, query, id); err != nil {
		return nil, mapError(err, "failed to get addition")
	}

	return &a, nil
}

func (r *additionRepository) List(ctx context.Context, search string, lowStockOnly bool) ([]domain.Addition, error) {
	query := `
		SELECT ` + additionColumns + ` FROM additions
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR kind ILIKE '%' || $1 || '%')
	`

	if lowStockOnly {
		query += ` AND stock <= min_stock`
	}
	query += ` ORDER BY name`

	var rows []domain.Addition
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, search); err != nil {
		return nil, mapError(err, "failed to list additions")
	}

	return rows, nil
}

func (r *additionRepository) Update(ctx context.Context, a *domain.Addition) error {
	query := `
		UPDATE additions SET
			name = $2, kind = $3, price = $4, stock = $5, min_stock = $6, status = $7
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Name,
		a.Kind,
		a.Price,
		a.Stock,
		a.MinStock,
		a.Status,
	)
	if err != nil {
		return mapError(err, "failed to update addition")
	}

	return requireRowsAffected(res)
}

func (r *additionRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM additions WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "failed to delete addition")
	}

	return requireRowsAffected(res)
}
