package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"habitq/internal/models"
)

const userColumns = `id, email, email_blind_index, password_hash, created_at`

// CreateUser inserts u, assigning its ID and CreatedAt. The email must already be sealed.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := s.op(ctx)
	defer cancel()

	u.ID = uuid.NewString()
	u.CreatedAt = s.stamp()
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (:id, :email, :email_blind_index, :password_hash, :created_at)`, u)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID returns nil, nil when no such user exists.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetUserByEmailIndex looks a user up by the blind index of their email.
func (s *Store) GetUserByEmailIndex(ctx context.Context, index string) (*models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email_blind_index = ?`, index)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	ctx, cancel := s.op(ctx)
	defer cancel()

	var u models.User
	if err := s.db.GetContext(ctx, &u, s.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
