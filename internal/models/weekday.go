package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is a calendar weekday in its lower-case wire form.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists every weekday starting on Monday.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[string]Weekday{
	"mon":       Monday,
	"monday":    Monday,
	"tue":       Tuesday,
	"tuesday":   Tuesday,
	"wed":       Wednesday,
	"wednesday": Wednesday,
	"thu":       Thursday,
	"thursday":  Thursday,
	"fri":       Friday,
	"friday":    Friday,
	"sat":       Saturday,
	"saturday":  Saturday,
	"sun":       Sunday,
	"sunday":    Sunday,
}

// ParseWeekday parses a weekday name, abbreviation or number (0=Sunday, 6=Saturday).
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if wd, ok := weekdayNames[s]; ok {
		return wd, nil
	}
	num, err := strconv.Atoi(s)
	if err == nil && num >= 0 && num <= 6 {
		return WeekdayFromTime(time.Weekday(num)), nil
	}
	return "", fmt.Errorf("invalid weekday: %s", s)
}

// WeekdayFromTime converts a time.Weekday.
func WeekdayFromTime(wd time.Weekday) Weekday {
	switch wd {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

func (w Weekday) Valid() bool {
	for _, wd := range Weekdays {
		if w == wd {
			return true
		}
	}
	return false
}

// Title returns the capitalized name, e.g. "Wednesday".
func (w Weekday) Title() string {
	if w == "" {
		return ""
	}
	return strings.ToUpper(string(w[:1])) + string(w[1:])
}
