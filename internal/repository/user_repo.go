package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"evmarket/internal/models"
)

// UserRepository persists user profiles.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Get returns a profile by user id. sql.ErrNoRows when absent.
func (r *UserRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	const query = `
		SELECT user_id, name, email, phone, avatar_url, address, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`
	var (
		user    models.User
		address []byte
	)
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.AvatarURL,
		&address,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &user.Address); err != nil {
			return nil, fmt.Errorf("decode user %s address: %w", userID, err)
		}
	}
	return &user, nil
}

// Upsert inserts or overwrites a profile and fills in the timestamps.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	address, err := json.Marshal(user.Address)
	if err != nil {
		return fmt.Errorf("marshal address: %w", err)
	}

	const query = `
		INSERT INTO users (user_id, name, email, phone, avatar_url, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			avatar_url = EXCLUDED.avatar_url,
			address = EXCLUDED.address,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		user.UserID,
		user.Name,
		user.Email,
		user.Phone,
		user.AvatarURL,
		address,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

// Delete removes a profile. sql.ErrNoRows when nothing was deleted.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
