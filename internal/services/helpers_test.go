package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"habitq/internal/db"
	"habitq/internal/models"
	"habitq/internal/services"
	"habitq/internal/store"
)

type testEnv struct {
	store   *store.Store
	auth    *services.AuthService
	habits  *services.HabitService
	logs    *services.LogService
	heatmap *services.HeatmapService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := db.Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	st := store.New(conn, 5*time.Second)
	enc, err := services.NewEncryptionService(bytes.Repeat([]byte{7}, 32), bytes.Repeat([]byte{9}, 32))
	if err != nil {
		t.Fatalf("encryption service: %v", err)
	}
	log := zap.NewNop()
	return &testEnv{
		store:   st,
		auth:    services.NewAuthService(st, enc),
		habits:  services.NewHabitService(st, log),
		logs:    services.NewLogService(st, st, time.UTC, log),
		heatmap: services.NewHeatmapService(st, st, time.UTC),
	}
}

func (e *testEnv) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.auth.Signup(context.Background(), email, "password123")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	return u
}

func (e *testEnv) habit(t *testing.T, userID, title string) *models.Habit {
	t.Helper()
	h, err := e.habits.Create(context.Background(), userID, services.HabitInput{Title: title})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return h
}

func boolPtr(b bool) *bool { return &b }

// mockHabitRepo follows the function-field pattern; nil fields return zero values.
type mockHabitRepo struct {
	listFn   func(ctx context.Context, userID string) ([]models.Habit, error)
	getFn    func(ctx context.Context, id string) (*models.Habit, error)
	createFn func(ctx context.Context, h *models.Habit) error
	updateFn func(ctx context.Context, h *models.Habit) error
	deleteFn func(ctx context.Context, id string) (int64, error)
}

func (m *mockHabitRepo) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockHabitRepo) GetHabit(ctx context.Context, id string) (*models.Habit, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockHabitRepo) CreateHabit(ctx context.Context, h *models.Habit) error {
	if m.createFn != nil {
		return m.createFn(ctx, h)
	}
	return nil
}

func (m *mockHabitRepo) UpdateHabit(ctx context.Context, h *models.Habit) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, h)
	}
	return nil
}

func (m *mockHabitRepo) DeleteHabit(ctx context.Context, id string) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return 0, nil
}

type mockLogRepo struct {
	listFn   func(ctx context.Context, habitID string) ([]models.HabitLog, error)
	insertFn func(ctx context.Context, l *models.HabitLog) error
	deleteFn func(ctx context.Context, habitID string, from, to time.Time) (int64, error)
}

func (m *mockLogRepo) ListLogs(ctx context.Context, habitID string) ([]models.HabitLog, error) {
	if m.listFn != nil {
		return m.listFn(ctx, habitID)
	}
	return nil, nil
}

func (m *mockLogRepo) InsertLog(ctx context.Context, l *models.HabitLog) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, l)
	}
	return nil
}

func (m *mockLogRepo) DeleteLogsBetween(ctx context.Context, habitID string, from, to time.Time) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, habitID, from, to)
	}
	return 0, nil
}
