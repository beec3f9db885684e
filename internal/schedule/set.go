package schedule

import (
	"fmt"

	"github.com/flowday/flowday/internal/models"
)

// ScheduleSet is an immutable ordered map from instruction key to its schedule.
// Edits return a new set; order is the order the instructions were added in.
type ScheduleSet struct {
	order   []string
	entries map[string]models.InstructionSchedule
}

// NewScheduleSet builds a set from schedules, keeping the first entry for a
// duplicated key.
func NewScheduleSet(schedules []models.InstructionSchedule) ScheduleSet {
	s := ScheduleSet{entries: make(map[string]models.InstructionSchedule, len(schedules))}
	for _, sc := range schedules {
		key := sc.Instruction.Key()
		if _, ok := s.entries[key]; ok {
			continue
		}
		s.order = append(s.order, key)
		s.entries[key] = sc
	}
	return s
}

func (s ScheduleSet) Len() int {
	return len(s.order)
}

// Keys returns the instruction keys in order.
func (s ScheduleSet) Keys() []string {
	return append([]string(nil), s.order...)
}

// Entries returns the schedules in order.
func (s ScheduleSet) Entries() []models.InstructionSchedule {
	out := make([]models.InstructionSchedule, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.entries[key])
	}
	return out
}

func (s ScheduleSet) Get(key string) (models.InstructionSchedule, bool) {
	sc, ok := s.entries[key]
	return sc, ok
}

// With returns a copy of s with the schedule for key replaced.
func (s ScheduleSet) With(key string, weekday models.Weekday, t models.ClockTime) (ScheduleSet, error) {
	sc, ok := s.entries[key]
	if !ok {
		return s, fmt.Errorf("no step with key %q", key)
	}
	sc.Weekday = weekday
	sc.Time = t

	next := s.clone()
	next.entries[key] = sc
	return next, nil
}

// Without returns a copy of s with key removed. Remaining entries keep their order.
func (s ScheduleSet) Without(key string) ScheduleSet {
	if _, ok := s.entries[key]; !ok {
		return s
	}
	next := ScheduleSet{entries: make(map[string]models.InstructionSchedule, len(s.entries)-1)}
	for _, k := range s.order {
		if k == key {
			continue
		}
		next.order = append(next.order, k)
		next.entries[k] = s.entries[k]
	}
	return next
}

func (s ScheduleSet) clone() ScheduleSet {
	next := ScheduleSet{
		order:   append([]string(nil), s.order...),
		entries: make(map[string]models.InstructionSchedule, len(s.entries)),
	}
	for k, v := range s.entries {
		next.entries[k] = v
	}
	return next
}
