package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"habitq/internal/models"
)

const habitColumns = `id, user_id, title, description, color, frequency, created_at, updated_at`

// ListHabits returns the user's habits, oldest first.
func (s *Store) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	ctx, cancel := s.op(ctx)
	defer cancel()

	out := []models.Habit{}
	err := s.db.SelectContext(ctx, &out,
		s.db.Rebind(`SELECT `+habitColumns+` FROM habits WHERE user_id = ? ORDER BY created_at ASC, id ASC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return out, nil
}

// GetHabit returns nil, nil when the habit does not exist.
func (s *Store) GetHabit(ctx context.Context, id string) (*models.Habit, error) {
	ctx, cancel := s.op(ctx)
	defer cancel()

	var h models.Habit
	err := s.db.GetContext(ctx, &h, s.db.Rebind(`SELECT `+habitColumns+` FROM habits WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return &h, nil
}

// CreateHabit inserts h, assigning its ID and timestamps.
func (s *Store) CreateHabit(ctx context.Context, h *models.Habit) error {
	ctx, cancel := s.op(ctx)
	defer cancel()

	h.ID = uuid.NewString()
	h.CreatedAt = s.stamp()
	h.UpdatedAt = h.CreatedAt
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO habits (`+habitColumns+`)
		 VALUES (:id, :user_id, :title, :description, :color, :frequency, :created_at, :updated_at)`, h)
	if err != nil {
		return fmt.Errorf("insert habit: %w", err)
	}
	return nil
}

// UpdateHabit overwrites every editable field of h and bumps UpdatedAt.
func (s *Store) UpdateHabit(ctx context.Context, h *models.Habit) error {
	ctx, cancel := s.op(ctx)
	defer cancel()

	h.UpdatedAt = s.stamp()
	_, err := s.db.NamedExecContext(ctx,
		`UPDATE habits SET title = :title, description = :description, color = :color,
		 frequency = :frequency, updated_at = :updated_at WHERE id = :id`, h)
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	return nil
}

// DeleteHabit removes the habit and all of its logs in one transaction and
// reports how many logs went with it.
func (s *Store) DeleteHabit(ctx context.Context, id string) (int64, error) {
	ctx, cancel := s.op(ctx)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM habit_logs WHERE habit_id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("delete habit logs: %w", err)
	}
	removed, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM habits WHERE id = ?`), id); err != nil {
		return 0, fmt.Errorf("delete habit: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return removed, nil
}
