package models

import "time"

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Valid reports whether f is one of the stored frequency values.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

const (
	DefaultColor     = "#4f46e5"
	DefaultFrequency = FrequencyDaily
)

type User struct {
	ID              string    `db:"id" json:"id"`
	Email           string    `db:"email" json:"email"`             // Encrypted in DB
	EmailBlindIndex string    `db:"email_blind_index" json:"-"`     // HMAC hash for lookups
	PasswordHash    string    `db:"password_hash" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Habit struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Color       string    `db:"color" json:"color"`
	Frequency   Frequency `db:"frequency" json:"frequency"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// HabitLog is one completion event. Several may share a calendar day.
type HabitLog struct {
	ID        string    `db:"id" json:"id"`
	HabitID   string    `db:"habit_id" json:"habitId"`
	Date      time.Time `db:"date" json:"date"`
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DayCount is the number of completed logs of a habit on one calendar day.
type DayCount struct {
	Date           string `json:"date"` // YYYY-MM-DD
	CompletedCount int    `json:"completedCount"`
}
