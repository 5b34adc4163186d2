package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskshare/internal/identity/models"
	"taskshare/pkg/platform/sentinel"
)

// PostgresUserStore persists accounts in PostgreSQL.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// Migrate creates the users table. Idempotent.
func (s *PostgresUserStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL,
			display_name TEXT NOT NULL,
			password_hash BYTEA,
			CONSTRAINT users_email_unique UNIQUE (email)
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) Save(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, display_name, password_hash)
		VALUES ($1, lower($2), $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			password_hash = COALESCE(EXCLUDED.password_hash, users.password_hash)
	`
	_, err := s.db.ExecContext(ctx, query, user.ID, user.Email, user.DisplayName, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.find(ctx, `SELECT id, email, display_name, password_hash FROM users WHERE id = $1`, id)
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.find(ctx, `SELECT id, email, display_name, password_hash FROM users WHERE email = lower($1)`, email)
}

func (s *PostgresUserStore) find(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
