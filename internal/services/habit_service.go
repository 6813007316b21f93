package services

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"habitq/internal/models"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// HabitInput is the full set of client-editable habit fields. Empty optional
// fields mean "use the default".
type HabitInput struct {
	Title       string
	Description string
	Color       string
	Frequency   string
}

// apply validates in and overwrites h's editable fields, defaults included.
func (in HabitInput) apply(h *models.Habit) error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title", "Title is required")
	}
	color := in.Color
	if color == "" {
		color = models.DefaultColor
	}
	if !hexColor.MatchString(color) {
		return invalid("color", "Color must be a hex value like #4f46e5")
	}
	freq := models.Frequency(in.Frequency)
	if freq == "" {
		freq = models.DefaultFrequency
	}
	if !freq.Valid() {
		return invalid("frequency", "Frequency must be one of daily, weekly, custom")
	}

	h.Title = in.Title
	h.Description = in.Description
	h.Color = color
	h.Frequency = freq
	return nil
}

// HabitService implements habit CRUD scoped to the calling user.
type HabitService struct {
	habits HabitRepository
	log    *zap.Logger
}

func NewHabitService(habits HabitRepository, log *zap.Logger) *HabitService {
	return &HabitService{habits: habits, log: log}
}

func (s *HabitService) List(ctx context.Context, userID string) ([]models.Habit, error) {
	list, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, storeErr("list habits", err)
	}
	return list, nil
}

func (s *HabitService) Get(ctx context.Context, userID, id string) (*models.Habit, error) {
	return ownedHabit(ctx, s.habits, userID, id)
}

func (s *HabitService) Create(ctx context.Context, userID string, in HabitInput) (*models.Habit, error) {
	h := &models.Habit{UserID: userID}
	if err := in.apply(h); err != nil {
		return nil, err
	}
	if err := s.habits.CreateHabit(ctx, h); err != nil {
		return nil, storeErr("create habit", err)
	}
	return h, nil
}

// Update replaces every editable field; absent optional fields reset to defaults.
func (s *HabitService) Update(ctx context.Context, userID, id string, in HabitInput) (*models.Habit, error) {
	h, err := ownedHabit(ctx, s.habits, userID, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(h); err != nil {
		return nil, err
	}
	if err := s.habits.UpdateHabit(ctx, h); err != nil {
		return nil, storeErr("update habit", err)
	}
	return h, nil
}

// Delete removes the habit together with all of its logs.
func (s *HabitService) Delete(ctx context.Context, userID, id string) error {
	if _, err := ownedHabit(ctx, s.habits, userID, id); err != nil {
		return err
	}
	removed, err := s.habits.DeleteHabit(ctx, id)
	if err != nil {
		return storeErr("delete habit", err)
	}
	s.log.Debug("habit deleted", zap.String("habit_id", id), zap.Int64("logs_removed", removed))
	return nil
}

// ownedHabit loads a habit and checks it belongs to userID.
func ownedHabit(ctx context.Context, habits HabitRepository, userID, id string) (*models.Habit, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	h, err := habits.GetHabit(ctx, id)
	if err != nil {
		return nil, storeErr("get habit", err)
	}
	if h == nil {
		return nil, ErrNotFound
	}
	if h.UserID != userID {
		return nil, ErrUnauthorized
	}
	return h, nil
}
