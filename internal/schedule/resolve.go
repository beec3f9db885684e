package schedule

import (
	"github.com/google/uuid"

	"github.com/flowday/flowday/internal/models"
)

// ResolutionKind tells the assembler whether to auto-configure or submit custom entries.
type ResolutionKind int

const (
	// ResolutionAuto lets the API assign defaults to every sub-entity.
	ResolutionAuto ResolutionKind = iota
	// ResolutionCustom submits Entries as given.
	ResolutionCustom
)

func (k ResolutionKind) String() string {
	if k == ResolutionCustom {
		return "custom"
	}
	return "auto"
}

// Resolution is the outcome of the merge policy. Entries is only set for ResolutionCustom.
type Resolution struct {
	Kind    ResolutionKind
	Entries []models.SubEntity
}

// Auto is the auto-configuration sentinel.
func Auto() Resolution {
	return Resolution{Kind: ResolutionAuto}
}

// HasStableID reports whether the server has assigned the instruction a durable
// UUID. Composite local keys never qualify.
func HasStableID(ref models.InstructionRef) bool {
	if ref.ID == "" {
		return false
	}
	_, err := uuid.Parse(ref.ID)
	return err == nil
}

// Resolve decides which sub-entities to submit. Entries whose instruction fails
// hasStableID are dropped; if nothing survives, or customization is off, the
// result is Auto.
func Resolve(enabled bool, edited []models.InstructionSchedule, hasStableID func(models.InstructionRef) bool) Resolution {
	if !enabled || len(edited) == 0 {
		return Auto()
	}
	if hasStableID == nil {
		hasStableID = HasStableID
	}

	var entries []models.SubEntity
	for _, sc := range edited {
		if !hasStableID(sc.Instruction) {
			continue
		}
		entries = append(entries, models.SubEntity{
			SubEntityID:      sc.Instruction.ID,
			ScheduledWeekday: sc.Weekday,
			ScheduledTime:    models.ClockPtr(sc.Time),
		})
	}
	if len(entries) == 0 {
		return Auto()
	}
	return Resolution{Kind: ResolutionCustom, Entries: entries}
}
