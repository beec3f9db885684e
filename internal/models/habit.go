package models

import (
	"fmt"

	"github.com/flowday/flowday/internal/constants"
)

// MainEventSchedule is the weekly occurrence sub-entities are scheduled relative to.
// A nil Time means the main event has no scheduled time.
type MainEventSchedule struct {
	Weekday   Weekday
	Time      *ClockTime
	StartDate string // YYYY-MM-DD format
}

// InstructionRef points at one step of a meal's combined instruction list.
type InstructionRef struct {
	ID       string
	RecipeID string
	Step     int
	Text     string
}

// Key identifies the instruction locally. Instructions without a server ID
// fall back to a recipe/step composite.
func (r InstructionRef) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return fmt.Sprintf("%s#%d", r.RecipeID, r.Step)
}

// InstructionSchedule is the prep slot chosen for one instruction.
type InstructionSchedule struct {
	Instruction InstructionRef
	Weekday     Weekday
	Time        ClockTime
}

// SubEntity is one entry of a habit batch. An empty SubEntityID asks the API
// to auto-configure the slot.
type SubEntity struct {
	SubEntityID      string     `json:"subEntityId,omitempty"`
	ScheduledWeekday Weekday    `json:"scheduledWeekday"`
	ScheduledTime    *ClockTime `json:"scheduledTime,omitempty"`
}

// HabitBatchRequest is the body of POST /api/habit/batch.
type HabitBatchRequest struct {
	Domain         constants.Domain         `json:"domain"`
	EntityID       string                   `json:"entityId"`
	RecurrenceType constants.RecurrenceType `json:"recurrenceType"`
	TargetWeekday  Weekday                  `json:"targetWeekday"`
	TargetTime     *ClockTime               `json:"targetTime,omitempty"`
	StartDate      string                   `json:"startDate"`
	SubEntities    []SubEntity              `json:"subEntities"`
}

// HabitBatchResult is the data returned for a created habit batch.
type HabitBatchResult struct {
	Domain              constants.Domain `json:"domain"`
	UserConfiguredCount int              `json:"userConfiguredCount"`
	AutoAddedCount      int              `json:"autoAddedCount"`
	TotalSubEntityCount int              `json:"totalSubEntityCount"`
}
