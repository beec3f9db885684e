package schedule

import (
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/models"
)

// Assemble builds the habit batch request for the meal entityID. The result
// always carries at least one sub-entity.
func Assemble(entityID string, main models.MainEventSchedule, res Resolution, d Defaults) models.HabitBatchRequest {
	req := models.HabitBatchRequest{
		Domain:         constants.DomainMeal,
		EntityID:       entityID,
		RecurrenceType: constants.RecurrenceWeekly,
		TargetWeekday:  main.Weekday,
		StartDate:      main.StartDate,
	}
	if main.Time != nil {
		req.TargetTime = models.ClockPtr(*main.Time)
	}

	switch {
	case res.Kind == ResolutionCustom && len(res.Entries) > 0:
		req.SubEntities = append([]models.SubEntity(nil), res.Entries...)
	default:
		req.SubEntities = []models.SubEntity{placeholder(main, d)}
	}
	return req
}

// placeholder is the single auto-configured entry that satisfies the API's
// non-empty subEntities precondition.
func placeholder(main models.MainEventSchedule, d Defaults) models.SubEntity {
	return models.SubEntity{
		ScheduledWeekday: main.Weekday,
		ScheduledTime:    models.ClockPtr(PrepTime(main.Time, d)),
	}
}
