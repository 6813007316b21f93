package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"habitq/internal/models"
)

// ToggleInput mirrors the POST /logs body. A nil Completed means true.
type ToggleInput struct {
	HabitID   string
	Date      string
	Completed *bool
}

// ToggleResult carries the inserted log, or the number of rows removed when
// the day was uncompleted.
type ToggleResult struct {
	Log     *models.HabitLog
	Deleted bool
	Removed int64
}

// LogService implements the per-completion habit log.
type LogService struct {
	habits HabitRepository
	logs   LogRepository
	loc    *time.Location
	log    *zap.Logger
}

// NewLogService uses loc to decide where calendar days start.
func NewLogService(habits HabitRepository, logs LogRepository, loc *time.Location, log *zap.Logger) *LogService {
	return &LogService{habits: habits, logs: logs, loc: loc, log: log}
}

func (s *LogService) Location() *time.Location { return s.loc }

// ListByHabit returns the habit's logs ordered by date. The ownership check
// runs first, so a deleted habit yields ErrNotFound.
func (s *LogService) ListByHabit(ctx context.Context, userID, habitID string) ([]models.HabitLog, error) {
	if _, err := ownedHabit(ctx, s.habits, userID, habitID); err != nil {
		return nil, err
	}
	logs, err := s.logs.ListLogs(ctx, habitID)
	if err != nil {
		return nil, storeErr("list logs", err)
	}
	return logs, nil
}

// Toggle records one more completion for the day, or removes every log of the
// day when Completed is false.
func (s *LogService) Toggle(ctx context.Context, userID string, in ToggleInput) (*ToggleResult, error) {
	if strings.TrimSpace(in.HabitID) == "" {
		return nil, invalid("habitId", "Habit ID and date are required")
	}
	if strings.TrimSpace(in.Date) == "" {
		return nil, invalid("date", "Habit ID and date are required")
	}
	start, at, err := ParseDay(in.Date, s.loc)
	if err != nil {
		return nil, invalid("date", "Date must be YYYY-MM-DD or an RFC 3339 timestamp")
	}
	if _, err := ownedHabit(ctx, s.habits, userID, in.HabitID); err != nil {
		return nil, err
	}

	if in.Completed != nil && !*in.Completed {
		n, err := s.logs.DeleteLogsBetween(ctx, in.HabitID, start, start.AddDate(0, 0, 1))
		if err != nil {
			return nil, storeErr("delete logs", err)
		}
		s.log.Debug("day uncompleted",
			zap.String("habit_id", in.HabitID),
			zap.String("day", DayKey(start, s.loc)),
			zap.Int64("removed", n))
		return &ToggleResult{Deleted: true, Removed: n}, nil
	}

	l := &models.HabitLog{HabitID: in.HabitID, Date: at, Completed: true}
	if err := s.logs.InsertLog(ctx, l); err != nil {
		return nil, storeErr("insert log", err)
	}
	return &ToggleResult{Log: l}, nil
}

// ParseDay accepts YYYY-MM-DD (a day in loc) or an RFC 3339 timestamp. It
// returns the start of the calendar day in loc and the instant to record: the
// timestamp itself, or the day start for a bare date.
func ParseDay(v string, loc *time.Location) (start, at time.Time, err error) {
	v = strings.TrimSpace(v)
	if len(v) == len(dayLayout) {
		start, err = time.ParseInLocation(dayLayout, v, loc)
		return start, start, err
	}
	at, err = time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	local := at.In(loc)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, at, nil
}
