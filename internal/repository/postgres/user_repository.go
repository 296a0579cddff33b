// internal/repository/postgres/user_repository.go
package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jpcardenas/heladeria-pos/internal/domain"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role_id, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.RoleID, u.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, mapError(err, "failed to create user")
	}

	return id, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.role_id,
		       r.name AS role_name, u.is_active, u.created_at
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE u.username = $1
	`

	var u domain.User
	if err := sqlx.GetContext(ctx, r.db, &u, query, username); err != nil {
		return nil, mapError(err, "failed to get user")
	}

	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.role_id,
		       r.name AS role_name, u.is_active, u.created_at
		FROM users u
		JOIN roles r ON u.role_id = r.id
		ORDER BY u.username
	`

	var users []domain.User
	if err := sqlx.SelectContext(ctx, r.db, &users, query); err != nil {
		return nil, mapError(err, "failed to list users")
	}

	return users, nil
}

func (r *userRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, permissions FROM roles ORDER BY name`,
	)
	if err != nil {
		return nil, mapError(err, "failed to list roles")
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, pq.Array(&role.Permissions)); err != nil {
			return nil, mapError(err, "failed to scan role")
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to read roles")
	}

	return roles, nil
}
