package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"habitq/internal/models"
)

const logColumns = `id, habit_id, date, completed, created_at`

// ListLogs returns every log of the habit ordered by date ascending.
func (s *Store) ListLogs(ctx context.Context, habitID string) ([]models.HabitLog, error) {
	ctx, cancel := s.op(ctx)
	defer cancel()

	out := []models.HabitLog{}
	err := s.db.SelectContext(ctx, &out,
		s.db.Rebind(`SELECT `+logColumns+` FROM habit_logs WHERE habit_id = ? ORDER BY date ASC, created_at ASC, id ASC`), habitID)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return out, nil
}

// InsertLog always adds a new row; it never touches existing logs.
func (s *Store) InsertLog(ctx context.Context, l *models.HabitLog) error {
	ctx, cancel := s.op(ctx)
	defer cancel()

	l.ID = uuid.NewString()
	l.Date = normalize(l.Date)
	l.CreatedAt = s.stamp()
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO habit_logs (`+logColumns+`) VALUES (:id, :habit_id, :date, :completed, :created_at)`, l)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// DeleteLogsBetween removes every log of the habit with from <= date < to.
func (s *Store) DeleteLogsBetween(ctx context.Context, habitID string, from, to time.Time) (int64, error) {
	ctx, cancel := s.op(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		s.db.Rebind(`DELETE FROM habit_logs WHERE habit_id = ? AND date >= ? AND date < ?`),
		habitID, normalize(from), normalize(to))
	if err != nil {
		return 0, fmt.Errorf("delete logs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete logs: %w", err)
	}
	return n, nil
}
