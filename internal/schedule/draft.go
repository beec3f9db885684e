package schedule

import (
	"errors"
	"time"

	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/validation"
)

// Phase is the state of a habit creation session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEditing
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

var (
	ErrNotEditing     = errors.New("habit form is not open")
	ErrSubmitInFlight = errors.New("habit submission already in progress")
)

// Draft holds one habit creation session: the main event, the customization
// toggle and the per-step schedules. It is owned by a single form and is not
// safe for concurrent use.
type Draft struct {
	defaults     Defaults
	hasStableID  func(models.InstructionRef) bool
	phase        Phase
	mealID       string
	instructions []models.InstructionRef
	main         models.MainEventSchedule
	customize    bool
	steps        ScheduleSet
	lastErr      error
}

// NewDraft returns an idle draft. A nil hasStableID uses HasStableID.
func NewDraft(d Defaults, hasStableID func(models.InstructionRef) bool) *Draft {
	if hasStableID == nil {
		hasStableID = HasStableID
	}
	return &Draft{defaults: d, hasStableID: hasStableID}
}

// Open starts editing a habit for a meal. The main event defaults to today's
// weekday, no time and today as start date.
func (d *Draft) Open(mealID string, instructions []models.InstructionRef, today time.Time) {
	d.phase = PhaseEditing
	d.mealID = mealID
	d.instructions = append([]models.InstructionRef(nil), instructions...)
	d.main = models.MainEventSchedule{
		Weekday:   models.WeekdayFromTime(today.Weekday()),
		StartDate: today.Format(constants.DateFormat),
	}
	d.customize = false
	d.steps = ScheduleSet{}
	d.lastErr = nil
}

func (d *Draft) Phase() Phase { return d.phase }

func (d *Draft) MealID() string { return d.mealID }

func (d *Draft) Main() models.MainEventSchedule { return d.main }

func (d *Draft) Customizing() bool { return d.customize }

func (d *Draft) Steps() ScheduleSet { return d.steps }

func (d *Draft) Defaults() Defaults { return d.defaults }

func (d *Draft) LastError() error { return d.lastErr }

func (d *Draft) Instructions() []models.InstructionRef {
	return append([]models.InstructionRef(nil), d.instructions...)
}

// SetMain replaces the main event.
func (d *Draft) SetMain(main models.MainEventSchedule) error {
	if d.phase != PhaseEditing {
		return ErrNotEditing
	}
	d.main = main
	return nil
}

// SetCustomization toggles per-step customization. Defaults are generated on
// every off-to-on transition, replacing any earlier edits.
func (d *Draft) SetCustomization(on bool) error {
	if d.phase != PhaseEditing {
		return ErrNotEditing
	}
	switch {
	case on && !d.customize:
		d.steps = NewScheduleSet(GenerateDefaults(d.instructions, d.main, d.defaults))
	case !on:
		d.steps = ScheduleSet{}
	}
	d.customize = on
	return nil
}

// EditStep changes the schedule of one step.
func (d *Draft) EditStep(key string, weekday models.Weekday, t models.ClockTime) error {
	if d.phase != PhaseEditing {
		return ErrNotEditing
	}
	next, err := d.steps.With(key, weekday, t)
	if err != nil {
		return err
	}
	d.steps = next
	return nil
}

// RemoveStep drops one step from the customized set.
func (d *Draft) RemoveStep(key string) error {
	if d.phase != PhaseEditing {
		return ErrNotEditing
	}
	d.steps = d.steps.Without(key)
	return nil
}

// Request resolves and assembles the current draft without changing its phase.
func (d *Draft) Request() (models.HabitBatchRequest, Resolution) {
	res := Resolve(d.customize, d.steps.Entries(), d.hasStableID)
	return Assemble(d.mealID, d.main, res, d.defaults), res
}

// BeginSubmit moves the draft to Submitting and returns the request to send.
// Local validation failures keep the draft in Editing.
func (d *Draft) BeginSubmit() (models.HabitBatchRequest, error) {
	switch d.phase {
	case PhaseSubmitting:
		return models.HabitBatchRequest{}, ErrSubmitInFlight
	case PhaseIdle:
		return models.HabitBatchRequest{}, ErrNotEditing
	}

	req, _ := d.Request()
	if err := validation.ValidateHabitRequest(req).Err(); err != nil {
		d.lastErr = err
		return models.HabitBatchRequest{}, err
	}
	d.phase = PhaseSubmitting
	d.lastErr = nil
	return req, nil
}

// Succeed resets the draft to Idle after the API accepted the habit.
func (d *Draft) Succeed() {
	*d = Draft{defaults: d.defaults, hasStableID: d.hasStableID}
}

// Cancel abandons an open form. A submission in flight cannot be cancelled;
// Cancel reports false and leaves the draft alone.
func (d *Draft) Cancel() bool {
	if d.phase == PhaseSubmitting {
		return false
	}
	*d = Draft{defaults: d.defaults, hasStableID: d.hasStableID}
	return true
}

// Fail returns the draft to Editing with every value retained for a retry.
func (d *Draft) Fail(err error) {
	if d.phase == PhaseSubmitting {
		d.phase = PhaseEditing
	}
	d.lastErr = err
}
