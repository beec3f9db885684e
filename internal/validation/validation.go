package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMissingEntityID     ConflictType = "missing_entity_id"
	ConflictInvalidWeekday      ConflictType = "invalid_weekday"
	ConflictInvalidDateTime     ConflictType = "invalid_datetime"
	ConflictEmptySubEntities    ConflictType = "empty_sub_entities"
	ConflictDuplicateSubEntity  ConflictType = "duplicate_sub_entity"
	ConflictUnexpectedLiteral   ConflictType = "unexpected_literal"
	ConflictInvalidSubEntityRef ConflictType = "invalid_sub_entity_ref"
)

// Conflict represents a detected problem with a field of a request
type Conflict struct {
	Type        ConflictType
	Field       string // JSON field path, e.g. "subEntities[1].scheduledWeekday"
	Description string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s: %s\n", conflict.Field, conflict.Description)
	}
	return report
}

// Err returns the result as an error, or nil when there are no conflicts.
func (vr ValidationResult) Err() error {
	if !vr.HasConflicts() {
		return nil
	}
	return &Error{Conflicts: vr.Conflicts}
}

// Error is returned when a request fails local validation and must not be submitted.
type Error struct {
	Conflicts []Conflict
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s: %s", c.Field, c.Description))
	}
	return "invalid habit: " + strings.Join(parts, "; ")
}

// Weekday validates a weekday input field.
func Weekday(s string) error {
	if _, err := models.ParseWeekday(s); err != nil {
		return fmt.Errorf("invalid weekday, use monday..sunday")
	}
	return nil
}

// Time validates a required HH:MM input field.
func Time(s string) error {
	if _, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid time format, use HH:MM")
	}
	return nil
}

// OptionalTime validates an HH:MM input field that may be left empty.
func OptionalTime(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return Time(s)
}

// Date validates a YYYY-MM-DD input field.
func Date(s string) error {
	if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// Quantity validates a non-negative decimal input field.
func Quantity(s string) error {
	q, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("quantity must be a number")
	}
	if q < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	return nil
}

// NotEmpty validates a required text field.
func NotEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// UUID validates an identifier issued by the remote API.
func UUID(s string) error {
	if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	return nil
}

// ValidateHabitRequest checks an assembled habit batch before it is submitted.
func ValidateHabitRequest(req models.HabitBatchRequest) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	add := func(t ConflictType, field, format string, args ...interface{}) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        t,
			Field:       field,
			Description: fmt.Sprintf(format, args...),
		})
	}

	if req.Domain != constants.DomainMeal {
		add(ConflictUnexpectedLiteral, "domain", "must be %q, got %q", constants.DomainMeal, req.Domain)
	}
	if req.RecurrenceType != constants.RecurrenceWeekly {
		add(ConflictUnexpectedLiteral, "recurrenceType", "must be %q, got %q", constants.RecurrenceWeekly, req.RecurrenceType)
	}
	if strings.TrimSpace(req.EntityID) == "" {
		add(ConflictMissingEntityID, "entityId", "meal id is required")
	}
	if !req.TargetWeekday.Valid() {
		add(ConflictInvalidWeekday, "targetWeekday", "invalid weekday %q", req.TargetWeekday)
	}
	if req.TargetTime != nil && !req.TargetTime.Valid() {
		add(ConflictInvalidDateTime, "targetTime", "time out of range")
	}
	if err := Date(req.StartDate); err != nil {
		add(ConflictInvalidDateTime, "startDate", "invalid date %q", req.StartDate)
	}

	if len(req.SubEntities) == 0 {
		add(ConflictEmptySubEntities, "subEntities", "at least one sub-entity is required")
	}
	seen := make(map[string]int)
	for i, se := range req.SubEntities {
		field := fmt.Sprintf("subEntities[%d]", i)
		if !se.ScheduledWeekday.Valid() {
			add(ConflictInvalidWeekday, field+".scheduledWeekday", "invalid weekday %q", se.ScheduledWeekday)
		}
		if se.ScheduledTime != nil && !se.ScheduledTime.Valid() {
			add(ConflictInvalidDateTime, field+".scheduledTime", "time out of range")
		}
		if se.SubEntityID == "" {
			continue
		}
		if UUID(se.SubEntityID) != nil {
			add(ConflictInvalidSubEntityRef, field+".subEntityId", "%q is not a server-issued id", se.SubEntityID)
		}
		if prev, ok := seen[se.SubEntityID]; ok {
			add(ConflictDuplicateSubEntity, field+".subEntityId", "duplicates subEntities[%d]", prev)
			continue
		}
		seen[se.SubEntityID] = i
	}

	return result
}
