package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"habitq/internal/models"
)

const monthLayout = "2006-01"

type HeatmapDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Done  bool   `json:"done"`
	Color string `json:"color,omitempty"`
}

type HabitHeatmap struct {
	HabitID string       `json:"habitId"`
	Title   string       `json:"title"`
	Color   string       `json:"color"`
	Days    []HeatmapDay `json:"days"`
}

// Heatmap is a month grid. LeadingBlanks is the weekday of the 1st (Sunday = 0).
type Heatmap struct {
	Month         string         `json:"month"`
	LeadingBlanks int            `json:"leadingBlanks"`
	DaysInMonth   int            `json:"daysInMonth"`
	Habits        []HabitHeatmap `json:"habits"`
}

type HeatmapService struct {
	habits HabitRepository
	logs   LogRepository
	loc    *time.Location
	now    func() time.Time
}

func NewHeatmapService(habits HabitRepository, logs LogRepository, loc *time.Location) *HeatmapService {
	return &HeatmapService{habits: habits, logs: logs, loc: loc, now: time.Now}
}

// Month builds the grid for month (YYYY-MM, empty for the current month).
// With habitID empty it covers every habit the user owns.
func (s *HeatmapService) Month(ctx context.Context, userID, habitID, month string) (*Heatmap, error) {
	first, err := s.parseMonth(month)
	if err != nil {
		return nil, invalid("month", "Month must be YYYY-MM")
	}

	var habits []models.Habit
	if habitID != "" {
		h, err := ownedHabit(ctx, s.habits, userID, habitID)
		if err != nil {
			return nil, err
		}
		habits = []models.Habit{*h}
	} else {
		if habits, err = s.habits.ListHabits(ctx, userID); err != nil {
			return nil, storeErr("list habits", err)
		}
	}

	// Logs are loaded once per habit for the life of this call.
	cache := make(map[string][]models.HabitLog, len(habits))
	for _, h := range habits {
		if _, ok := cache[h.ID]; ok {
			continue
		}
		logs, err := s.logs.ListLogs(ctx, h.ID)
		if err != nil {
			return nil, storeErr("list logs", err)
		}
		cache[h.ID] = logs
	}

	days := first.AddDate(0, 1, -1).Day()
	out := &Heatmap{
		Month:         first.Format(monthLayout),
		LeadingBlanks: int(first.Weekday()),
		DaysInMonth:   days,
		Habits:        make([]HabitHeatmap, 0, len(habits)),
	}
	for _, h := range habits {
		counts := make(map[string]int)
		for _, dc := range Aggregate(cache[h.ID], s.loc) {
			counts[dc.Date] = dc.CompletedCount
		}
		hm := HabitHeatmap{HabitID: h.ID, Title: h.Title, Color: h.Color, Days: make([]HeatmapDay, 0, days)}
		for i := 0; i < days; i++ {
			key := first.AddDate(0, 0, i).Format(dayLayout)
			n := counts[key]
			day := HeatmapDay{Date: key, Count: n, Done: n > 0}
			if day.Done {
				if day.Color, err = IntensityColor(h.Color, n); err != nil {
					day.Color = h.Color
				}
			}
			hm.Days = append(hm.Days, day)
		}
		out.Habits = append(out.Habits, hm)
	}
	return out, nil
}

func (s *HeatmapService) parseMonth(month string) (time.Time, error) {
	if month == "" {
		now := s.now().In(s.loc)
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc), nil
	}
	return time.ParseInLocation(monthLayout, month, s.loc)
}

// Intensity is the channel multiplier for a day with count completions.
func Intensity(count int) float64 {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 0.7
	case count == 2:
		return 0.85
	default:
		return 1
	}
}

// IntensityColor scales each channel of a #rrggbb color by Intensity(count)
// and returns it as a CSS rgb() value.
func IntensityColor(hex string, count int) (string, error) {
	if count <= 0 {
		return "", nil
	}
	if len(hex) != 7 || !strings.HasPrefix(hex, "#") {
		return "", fmt.Errorf("invalid color %q", hex)
	}
	rgb, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", hex, err)
	}
	k := Intensity(count)
	scale := func(c uint64) int { return int(math.Round(float64(c) * k)) }
	return fmt.Sprintf("rgb(%d, %d, %d)", scale(rgb>>16&0xff), scale(rgb>>8&0xff), scale(rgb&0xff)), nil
}
