// internal/repository/postgres/product_repository.go
package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

const productColumns = `
	p.id, p.name, p.variant, p.price, p.category_id, c.name AS category_name,
	p.is_active, p.stock_quantity, p.min_stock, p.created_at
`

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *productRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) (int64, error) {
	query := `
		INSERT INTO products (name, variant, price, category_id, is_active, stock_quantity, min_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Variant, p.Price, p.CategoryID, p.IsActive, p.StockQuantity, p.MinStock,
	).Scan(&id)
	if err != nil {
		return 0, mapError(err, "failed to create product")
	}

	return id, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`

	var p domain.Product
	if err := sqlx.GetContext(ctx, r.db, &p, query, id); err != nil {
		return nil, mapError(err, "failed to get product")
	}

	return &p, nil
}

func (r *productRepository) List(ctx context.Context, search string, activeOnly bool) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE ($1 = '' OR p.name ILIKE '%' || $1 || '%')
	`
	if activeOnly {
		query += ` AND p.is_active = TRUE`
	}
	query += ` ORDER BY p.name, p.variant NULLS FIRST`

	var products []domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query, search); err != nil {
		return nil, mapError(err, "failed to list products")
	}

	return products, nil
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products SET
			name = $2, variant = $3, price = $4, category_id = $5,
			is_active = $6, stock_quantity = $7, min_stock = $8
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Variant, p.Price, p.CategoryID, p.IsActive, p.StockQuantity, p.MinStock,
	)
	if err != nil {
		return mapError(err, "failed to update product")
	}

	return requireRowsAffected(res)
}

// Deactivate soft-deletes: sold invoices keep referencing the row.
func (r *productRepository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active = FALSE WHERE id = $1`, id,
	)
	if err != nil {
		return mapError(err, "failed to deactivate product")
	}

	return requireRowsAffected(res)
}

// FindExact matches (name, variant) with an empty variant matching NULL
// or '' rows, the way the billing frontend submits unflavored items.
func (r *productRepository) FindExact(ctx context.Context, name, variant string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.is_active = TRUE AND p.name = $1
		  AND (($2 = '' AND (p.variant IS NULL OR p.variant = '')) OR p.variant = $2)
		LIMIT 1
	`

	var p domain.Product
	if err := sqlx.GetContext(ctx, r.db, &p, query, name, variant); err != nil {
		return nil, mapError(err, "failed to find product")
	}

	return &p, nil
}

// FindByConcat matches a denormalized "Name Variant" description against
// the concatenation of the stored columns.
func (r *productRepository) FindByConcat(ctx context.Context, fullName string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.is_active = TRUE
		  AND TRIM(p.name || ' ' || COALESCE(p.variant, '')) = TRIM($1)
		LIMIT 1
	`

	var p domain.Product
	if err := sqlx.GetContext(ctx, r.db, &p, query, fullName); err != nil {
		return nil, mapError(err, "failed to find product by concat")
	}

	return &p, nil
}

type categoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *categoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name,
	).Scan(&id)
	if err != nil {
		return 0, mapError(err, "failed to create category")
	}

	return id, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := sqlx.SelectContext(ctx, r.db, &categories,
		`SELECT id, name, created_at FROM categories ORDER BY name`,
	)
	if err != nil {
		return nil, mapError(err, "failed to list categories")
	}

	return categories, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "failed to delete category")
	}

	return requireRowsAffected(res)
}
