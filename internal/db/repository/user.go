package repository

import (
	"context"

	"github.com/silentpianist/portfolio-videos-go/internal/db"
	"github.com/silentpianist/portfolio-videos-go/internal/db/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminUserRepository defines operations for managing admin accounts.
type AdminUserRepository interface {
	// Create inserts a new account, assigning its ID.
	Create(ctx context.Context, user *models.AdminUser) error

	// GetByEmail retrieves an account by email.
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)

	// GetByID retrieves an account by id.
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)

	// Count returns the number of accounts. The first account created
	// becomes an admin.
	Count(ctx context.Context) (int, error)
}

type adminUserRepository struct {
	pool *pgxpool.Pool
}

// NewAdminUserRepository creates a new AdminUserRepository.
func NewAdminUserRepository(pool *pgxpool.Pool) AdminUserRepository {
	return &adminUserRepository{pool: pool}
}

func (r *adminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		return db.WrapError(err, "create admin user")
	}

	return nil
}

func (r *adminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, is_admin, created_at
		FROM admin_users
		WHERE email = $1
	`

	user := &models.AdminUser{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
	)

	if err != nil {
		return nil, db.WrapError(err, "get admin user by email")
	}

	return user, nil
}

func (r *adminUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, is_admin, created_at
		FROM admin_users
		WHERE id = $1
	`

	user := &models.AdminUser{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
	)

	if err != nil {
		return nil, db.WrapError(err, "get admin user by id")
	}

	return user, nil
}

func (r *adminUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&count)
	if err != nil {
		return 0, db.WrapError(err, "count admin users")
	}

	return count, nil
}
