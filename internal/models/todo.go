package models

import "time"

// Todo is a daily todo item. Habits cause the remote API to generate these.
type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`           // YYYY-MM-DD format
	Time        string     `json:"time,omitempty"` // HH:MM format
	Completed   bool       `json:"completed"`
	HabitID     string     `json:"habitId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
