// internal/repository/postgres/recipe_repository.go
package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

type recipeRepository struct {
	db *DB
}

func NewRecipeRepository(db *DB) *recipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) GetRecipe(ctx context.Context, productID int64) ([]domain.RecipeItem, error) {
	query := `
		SELECT id, product_id, ingredient_id, quantity
		FROM recipe_items
		WHERE product_id = $1
		ORDER BY ingredient_id
	`

	var items []domain.RecipeItem
	if err := sqlx.SelectContext(ctx, r.db, &items, query, productID); err != nil {
		return nil, mapError(err, "failed to get recipe")
	}

	return items, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, productIDs []int64) (map[int64][]domain.RecipeItem, error) {
	if len(productIDs) == 0 {
		return map[int64][]domain.RecipeItem{}, nil
	}

	query := `
		SELECT id, product_id, ingredient_id, quantity
		FROM recipe_items
		WHERE product_id = ANY($1)
		ORDER BY product_id, ingredient_id
	`

	var items []domain.RecipeItem
	if err := sqlx.SelectContext(ctx, r.db, &items, query, int64Array(productIDs)); err != nil {
		return nil, mapError(err, "failed to get recipes")
	}

	result := make(map[int64][]domain.RecipeItem, len(productIDs))
	for _, item := range items {
		result[item.ProductID] = append(result[item.ProductID], item)
	}

	return result, nil
}

// SetRecipe replaces the product's entire recipe: delete then insert in
// one transaction, never a partial patch.
func (r *recipeRepository) SetRecipe(ctx context.Context, productID int64, entries []domain.RecipeSubmission) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM recipe_items WHERE product_id = $1`, productID,
		); err != nil {
			return mapError(err, "failed to clear recipe")
		}

		if len(entries) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO recipe_items (product_id, ingredient_id, quantity) VALUES ($1, $2, $3)`,
		)
		if err != nil {
			return mapError(err, "failed to prepare recipe insert")
		}
		defer stmt.Close()

		for _, entry := range entries {
			if _, err := stmt.ExecContext(ctx, productID, entry.IngredientID, entry.Quantity); err != nil {
				return mapError(err, "failed to insert recipe entry")
			}
		}

		return nil
	})
}

func (r *recipeRepository) CountByIngredient(ctx context.Context, ingredientID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipe_items WHERE ingredient_id = $1`, ingredientID,
	).Scan(&count)
	if err != nil {
		return 0, mapError(err, "failed to count recipe entries")
	}

	return count, nil
}
