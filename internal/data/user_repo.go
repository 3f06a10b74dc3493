package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clearmed/clearmed-api/internal/core"
	"github.com/clearmed/clearmed-api/internal/domain/model"
)

// UserRepo stores email/password accounts in PostgreSQL.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// Create inserts a new user. Emails are normalized to lower case; a
// duplicate maps to model.ErrUserExists.
func (r *UserRepo) Create(ctx context.Context, user *core.User) error {
	if r == nil || r.DB == nil {
		return ErrNotConfigured
	}
	const query = `
		INSERT INTO users (email, name, password_hash, created_at)
		VALUES ($1, $2, $3, now())`
	_, err := r.DB.ExecContext(ctx, query, normalizeEmail(user.Email), user.Name, user.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail fetches a user by normalized email. Returns nil without error
// when no account exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*core.User, error) {
	if r == nil || r.DB == nil {
		return nil, ErrNotConfigured
	}
	const query = `
		SELECT email, name, password_hash
		FROM users
		WHERE email = $1`

	var user core.User
	err := r.DB.QueryRowContext(ctx, query, normalizeEmail(email)).
		Scan(&user.Email, &user.Name, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
