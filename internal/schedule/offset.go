// Package schedule turns a weekly main event and a meal's instruction list into
// the sub-entity batch submitted when a meal habit is created.
package schedule

import (
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/models"
)

// Defaults holds the fallback main event time and the prep offset.
type Defaults struct {
	MainTime  models.ClockTime
	OffsetMin int
}

// DefaultDefaults returns 18:00 with a 30 minute prep offset.
func DefaultDefaults() Defaults {
	return Defaults{
		MainTime:  models.MustClockTime(constants.DefaultMainEventTime),
		OffsetMin: constants.DefaultPrepOffsetMin,
	}
}

// DefaultsFromSettings builds Defaults from stored settings, falling back to
// DefaultDefaults for anything unusable. A zero offset schedules prep steps at
// the meal time itself.
func DefaultsFromSettings(s models.Settings) Defaults {
	d := DefaultDefaults()
	d.MainTime = ParseOrFallback(s.DefaultMainTime, d.MainTime)
	if s.PrepOffsetMin >= 0 {
		d.OffsetMin = s.PrepOffsetMin
	}
	return d
}

// OffsetEarlier moves t back by minutesBefore minutes. The result stays on the
// same day: anything before midnight is clamped to 00:00.
func OffsetEarlier(t models.ClockTime, minutesBefore int) models.ClockTime {
	if minutesBefore < 0 {
		minutesBefore = 0
	}
	hour := t.Hour - minutesBefore/60
	minute := t.Minute - minutesBefore%60
	if minute < 0 {
		minute += 60
		hour--
	}
	if hour < 0 {
		return models.ClockTime{}
	}
	return models.ClockTime{Hour: hour, Minute: minute}
}

// PrepTime is the default slot for a prep step of a main event at main.
func PrepTime(main *models.ClockTime, d Defaults) models.ClockTime {
	base := d.MainTime
	if main != nil && main.Valid() {
		base = *main
	}
	return OffsetEarlier(base, d.OffsetMin)
}

// ParseOrFallback parses raw as HH:MM, returning fallback for missing or malformed input.
func ParseOrFallback(raw string, fallback models.ClockTime) models.ClockTime {
	if raw == "" {
		return fallback
	}
	ct, err := models.ParseClockTime(raw)
	if err != nil {
		return fallback
	}
	return ct
}
