package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/flowday/flowday/internal/constants"
)

// ClockTime is a naive wall-clock time of day. Hour is in [0,23] and Minute in [0,59].
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses a time string in the standard format (HH:MM).
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q (expected HH:MM): %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MustClockTime is ParseClockTime for constants known to be valid.
func MustClockTime(s string) ClockTime {
	ct, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return ct
}

func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

// Minutes returns the number of minutes from midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ClockPtr returns a pointer to a copy of c.
func ClockPtr(c ClockTime) *ClockTime {
	return &c
}
