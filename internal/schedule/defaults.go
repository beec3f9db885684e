package schedule

import "github.com/flowday/flowday/internal/models"

// GenerateDefaults seeds one schedule per instruction, in input order, on the
// main event's weekday at the default prep time.
func GenerateDefaults(instructions []models.InstructionRef, main models.MainEventSchedule, d Defaults) []models.InstructionSchedule {
	prep := PrepTime(main.Time, d)
	out := make([]models.InstructionSchedule, 0, len(instructions))
	for _, in := range instructions {
		out = append(out, models.InstructionSchedule{
			Instruction: in,
			Weekday:     main.Weekday,
			Time:        prep,
		})
	}
	return out
}
