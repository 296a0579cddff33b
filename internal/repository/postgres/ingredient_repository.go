// internal/repository/postgres/ingredient_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

// ingredientColumns derives unit_cost on read so the stored row never
// drifts from package_price / total_quantity.
const ingredientColumns = `
	id, name, unit, total_quantity, package_price,
	CASE WHEN total_quantity > 0 THEN package_price / total_quantity ELSE 0 END AS unit_cost,
	consumed_quantity, min_threshold, qty_per_product, reference_note, created_at
`

type ingredientRepository struct {
	db *DB
}

func NewIngredientRepository(db *DB) *ingredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Create(ctx context.Context, ing *domain.Ingredient) (int64, error) {
	query := `
		INSERT INTO ingredients (
			name, unit, total_quantity, package_price, consumed_quantity,
			min_threshold, qty_per_product, reference_note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		ing.Name,
		ing.Unit,
		ing.TotalQuantity,
		ing.PackagePrice,
		ing.ConsumedQuantity,
		ing.MinThreshold,
		ing.QtyPerProduct,
		ing.ReferenceNote,
	).Scan(&id)
	if err != nil {
		return 0, mapError(err, "failed to create ingredient")
	}

	return id, nil
}

func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	query := fmt.Sprintf(`SELECT %s FROM ingredients WHERE id = $1`, ingredientColumns)

	var ing domain.Ingredient
	if err := sqlx.GetContext(ctx, r.db, &ing, query, id); err != nil {
		return nil, mapError(err, "failed to get ingredient")
	}

	return &ing, nil
}

func (r *ingredientRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Ingredient, error) {
	if len(ids) == 0 {
		return map[int64]domain.Ingredient{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM ingredients WHERE id = ANY($1)`, ingredientColumns)

	var rows []domain.Ingredient
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, int64Array(ids)); err != nil {
		return nil, mapError(err, "failed to get ingredients")
	}

	result := make(map[int64]domain.Ingredient, len(rows))
	for _, ing := range rows {
		result[ing.ID] = ing
	}

	return result, nil
}

func (r *ingredientRepository) List(ctx context.Context, search string, lowStockOnly bool) ([]domain.Ingredient, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM ingredients
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%')
	`, ingredientColumns)

	if lowStockOnly {
		query += ` AND (total_quantity - consumed_quantity) <= min_threshold`
	}
	query += ` ORDER BY name`

	var rows []domain.Ingredient
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, search); err != nil {
		return nil, mapError(err, "failed to list ingredients")
	}

	return rows, nil
}

// Update refuses a total below the untouched consumed counter, so a
// catalog edit can never persist negative availability.
func (r *ingredientRepository) Update(ctx context.Context, ing *domain.Ingredient) error {
	query := `
		UPDATE ingredients SET
			name = $2, unit = $3, total_quantity = $4, package_price = $5,
			min_threshold = $6, qty_per_product = $7, reference_note = $8
		WHERE id = $1 AND consumed_quantity <= $4
	`

	res, err := r.db.ExecContext(ctx, query,
		ing.ID,
		ing.Name,
		ing.Unit,
		ing.TotalQuantity,
		ing.PackagePrice,
		ing.MinThreshold,
		ing.QtyPerProduct,
		ing.ReferenceNote,
	)
	if err != nil {
		return mapError(err, "failed to update ingredient")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err, "failed to update ingredient")
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM ingredients WHERE id = $1)`, ing.ID,
		).Scan(&exists); err != nil {
			return mapError(err, "failed to update ingredient")
		}
		if exists {
			return fmt.Errorf("total quantity %.2f is below the consumed quantity: %w",
				ing.TotalQuantity, domain.ErrInvalidInput)
		}
		return domain.ErrNotFound
	}

	return nil
}

// Delete refuses to remove an ingredient that any recipe still
// references; the FK is RESTRICT so the check and the constraint agree.
func (r *ingredientRepository) Delete(ctx context.Context, id int64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipe_items WHERE ingredient_id = $1`, id,
	).Scan(&refs); err != nil {
		return mapError(err, "failed to count recipe references")
	}
	if refs > 0 {
		return fmt.Errorf("ingredient is used by %d recipe entries: %w", refs, domain.ErrIntegrity)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "failed to delete ingredient")
	}

	return requireRowsAffected(res)
}

func (r *ingredientRepository) Restock(ctx context.Context, id int64, addedQuantity float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ingredients SET total_quantity = total_quantity + $2 WHERE id = $1`,
		id, addedQuantity,
	)
	if err != nil {
		return mapError(err, "failed to restock ingredient")
	}

	return requireRowsAffected(res)
}
