package services

import (
	"context"
	"time"

	"habitq/internal/models"
)

// UserRepository is implemented by store.Store.
type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmailIndex(ctx context.Context, index string) (*models.User, error)
}

// HabitRepository returns nil, nil from GetHabit when the habit is absent.
type HabitRepository interface {
	ListHabits(ctx context.Context, userID string) ([]models.Habit, error)
	GetHabit(ctx context.Context, id string) (*models.Habit, error)
	CreateHabit(ctx context.Context, h *models.Habit) error
	UpdateHabit(ctx context.Context, h *models.Habit) error
	DeleteHabit(ctx context.Context, id string) (int64, error)
}

type LogRepository interface {
	ListLogs(ctx context.Context, habitID string) ([]models.HabitLog, error)
	InsertLog(ctx context.Context, l *models.HabitLog) error
	DeleteLogsBetween(ctx context.Context, habitID string, from, to time.Time) (int64, error)
}
