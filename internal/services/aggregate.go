package services

import (
	"sort"
	"time"

	"habitq/internal/models"
)

const dayLayout = "2006-01-02"

// DayKey is the calendar day of t in loc, formatted YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// Aggregate counts completed logs per calendar day. Days without a completed
// log are omitted. The result is sorted by date, so it does not depend on the
// order of logs.
func Aggregate(logs []models.HabitLog, loc *time.Location) []models.DayCount {
	counts := make(map[string]int)
	for _, l := range logs {
		if l.Completed {
			counts[DayKey(l.Date, loc)]++
		}
	}
	out := make([]models.DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, models.DayCount{Date: day, CompletedCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DailyLog is a day's earliest log row plus the day's completed count.
type DailyLog struct {
	models.HabitLog
	Count int `json:"count"`
}

// Daily collapses logs to one entry per calendar day. Days whose rows are all
// incomplete are kept with a zero count.
func Daily(logs []models.HabitLog, loc *time.Location) []DailyLog {
	byDay := make(map[string]*DailyLog)
	for _, l := range logs {
		key := DayKey(l.Date, loc)
		d, ok := byDay[key]
		if !ok {
			d = &DailyLog{HabitLog: l}
			byDay[key] = d
		} else if earlier(l, d.HabitLog) {
			d.HabitLog = l
		}
		if l.Completed {
			d.Count++
		}
	}
	out := make([]DailyLog, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return earlier(out[i].HabitLog, out[j].HabitLog) })
	return out
}

func earlier(a, b models.HabitLog) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.ID < b.ID
}
