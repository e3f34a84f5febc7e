package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/token-portfolio/internal/models"
	"github.com/token-portfolio/internal/types"
)

// UserRepository handles user data persistence
type UserRepository struct {
	db *PostgresDB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *PostgresDB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, privy_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		user.ID,
		user.PrivyID,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, privy_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user models.User

	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.PrivyID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewUserNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByPrivyID retrieves a user by the external identity provider id
func (r *UserRepository) GetByPrivyID(ctx context.Context, privyID string) (*models.User, error) {
	query := `
		SELECT id, privy_id, created_at, updated_at
		FROM users
		WHERE privy_id = $1
	`

	var user models.User

	err := r.db.Pool().QueryRow(ctx, query, privyID).Scan(
		&user.ID,
		&user.PrivyID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewUserNotFoundError(privyID)
		}
		return nil, fmt.Errorf("failed to get user by privy id: %w", err)
	}

	return &user, nil
}

// UpsertByPrivyID creates the user for an external id if it does not exist
// and returns the stored row either way.
func (r *UserRepository) UpsertByPrivyID(ctx context.Context, privyID string) (*models.User, error) {
	now := time.Now()

	query := `
		INSERT INTO users (id, privy_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (privy_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, privy_id, created_at, updated_at
	`

	var user models.User

	err := r.db.Pool().QueryRow(ctx, query,
		uuid.New().String(),
		privyID,
		now,
		now,
	).Scan(
		&user.ID,
		&user.PrivyID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return &user, nil
}

// Exists checks if a user exists by ID
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	err := r.db.Pool().QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

// Delete deletes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return types.NewUserNotFoundError(id)
	}

	return nil
}
