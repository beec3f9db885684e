package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/errors"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/schedule"
	"github.com/flowday/flowday/internal/validation"
)

type StepFormModel struct {
	Key     string
	Label   string
	Include bool
	Weekday models.Weekday
	Time    string
}

type HabitFormModel struct {
	Weekday   models.Weekday
	Time      string
	StartDate string
	Customize bool
	Steps     []StepFormModel
}

// newHabitFormModel mirrors the draft so a reopened form shows the values
// of the failed attempt.
func newHabitFormModel(d *schedule.Draft) *HabitFormModel {
	main := d.Main()
	fm := &HabitFormModel{
		Weekday:   main.Weekday,
		StartDate: main.StartDate,
		Customize: d.Customizing(),
	}
	if main.Time != nil {
		fm.Time = main.Time.String()
	}
	return fm
}

// stepRows lists every instruction of the meal. Steps missing from the
// draft's set were removed by the user and start unchecked.
func stepRows(d *schedule.Draft) []StepFormModel {
	defaults := schedule.GenerateDefaults(d.Instructions(), d.Main(), d.Defaults())
	current := d.Steps()

	rows := make([]StepFormModel, 0, len(defaults))
	for i, def := range defaults {
		key := def.Instruction.Key()
		row := StepFormModel{
			Key:     key,
			Label:   fmt.Sprintf("Step %d: %s", i+1, def.Instruction.Text),
			Weekday: def.Weekday,
			Time:    def.Time.String(),
		}
		if sc, ok := current.Get(key); ok {
			row.Include = true
			row.Weekday = sc.Weekday
			row.Time = sc.Time.String()
		}
		rows = append(rows, row)
	}
	return rows
}

func weekdayOptions() []huh.Option[models.Weekday] {
	opts := make([]huh.Option[models.Weekday], 0, len(models.Weekdays))
	for _, wd := range models.Weekdays {
		opts = append(opts, huh.NewOption(wd.Title(), wd))
	}
	return opts
}

func NewHabitMainForm(fm *HabitFormModel, meal models.Meal, errText string) *huh.Form {
	desc := fmt.Sprintf("%d prep step(s)", len(meal.Instructions()))
	if errText != "" {
		desc += "\n\n" + errorStyle.Render(errText)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("New habit: "+meal.Name).
				Description(desc),
			huh.NewSelect[models.Weekday]().
				Title("Weekday").
				Options(weekdayOptions()...).
				Value(&fm.Weekday),
			huh.NewInput().
				Title("Time (HH:MM)").
				Description("Leave empty for no fixed time").
				Value(&fm.Time).
				Validate(validation.OptionalTime),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Value(&fm.StartDate).
				Validate(validation.Date),
			huh.NewConfirm().
				Title("Customize step schedule?").
				Value(&fm.Customize),
		),
	)
}

func NewHabitStepsForm(fm *HabitFormModel) *huh.Form {
	groups := make([]*huh.Group, 0, len(fm.Steps))
	for i := range fm.Steps {
		row := &fm.Steps[i]
		groups = append(groups, huh.NewGroup(
			huh.NewConfirm().
				Title(row.Label).
				Affirmative("Include").
				Negative("Skip").
				Value(&row.Include),
			huh.NewSelect[models.Weekday]().
				Title("Weekday").
				Options(weekdayOptions()...).
				Value(&row.Weekday),
			huh.NewInput().
				Title("Time (HH:MM)").
				Value(&row.Time).
				Validate(validation.Time),
		))
	}
	return huh.NewForm(groups...)
}

// openHabitForm starts or resumes the main habit form for the current draft.
func (m *Model) openHabitForm() tea.Cmd {
	m.habitForm = newHabitFormModel(m.draft)
	m.form = NewHabitMainForm(m.habitForm, m.habitMeal, m.errText)
	m.state = constants.StateHabitMain
	return m.form.Init()
}

// applyMain copies the main form into the draft.
func (m *Model) applyMain() error {
	main := models.MainEventSchedule{
		Weekday:   m.habitForm.Weekday,
		StartDate: strings.TrimSpace(m.habitForm.StartDate),
	}
	if raw := strings.TrimSpace(m.habitForm.Time); raw != "" {
		t, err := models.ParseClockTime(raw)
		if err != nil {
			return err
		}
		main.Time = &t
	}
	if err := m.draft.SetMain(main); err != nil {
		return err
	}
	return m.draft.SetCustomization(m.habitForm.Customize)
}

// applySteps rebuilds the customized set from the step form rows.
func (m *Model) applySteps() error {
	if err := m.draft.SetCustomization(false); err != nil {
		return err
	}
	if err := m.draft.SetCustomization(true); err != nil {
		return err
	}
	for _, row := range m.habitForm.Steps {
		if !row.Include {
			if err := m.draft.RemoveStep(row.Key); err != nil {
				return err
			}
			continue
		}
		t, err := models.ParseClockTime(strings.TrimSpace(row.Time))
		if err != nil {
			return err
		}
		if err := m.draft.EditStep(row.Key, row.Weekday, t); err != nil {
			return err
		}
	}
	return nil
}

// beginSubmit moves the draft to Submitting and sends the request. Local
// validation errors reopen the form.
func (m *Model) beginSubmit() tea.Cmd {
	req, err := m.draft.BeginSubmit()
	if err != nil {
		m.errText = errors.UserMessage(err)
		return m.openHabitForm()
	}
	m.errText = ""
	m.state = constants.StateHabitSubmitting
	return tea.Batch(m.spinner.Tick, m.submitHabit(req))
}

func (m *Model) cancelHabit() {
	if m.draft.Cancel() {
		m.errText = ""
		m.form = nil
		m.habitForm = nil
		m.state = constants.StateMeals
	}
}

func (m *Model) updateHabitMain(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.cancelHabit()
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.applyMain(); err != nil {
			m.errText = errors.UserMessage(err)
			return m.openHabitForm()
		}
		if m.habitForm.Customize && len(m.draft.Instructions()) > 0 {
			m.habitForm.Steps = stepRows(m.draft)
			m.form = NewHabitStepsForm(m.habitForm)
			m.state = constants.StateHabitSteps
			return m.form.Init()
		}
		return m.beginSubmit()
	case huh.StateAborted:
		m.cancelHabit()
		return nil
	}
	return cmd
}

func (m *Model) updateHabitSteps(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return m.openHabitForm()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.applySteps(); err != nil {
			m.errText = errors.UserMessage(err)
			return m.openHabitForm()
		}
		return m.beginSubmit()
	case huh.StateAborted:
		m.cancelHabit()
		return nil
	}
	return cmd
}

// handleHabitResult settles the draft once the API has answered.
func (m *Model) handleHabitResult(msg habitSubmittedMsg) tea.Cmd {
	if msg.err != nil {
		m.draft.Fail(msg.err)
		m.errText = errors.UserMessage(msg.err)
		return m.openHabitForm()
	}

	m.draft.Succeed()
	m.form = nil
	m.habitForm = nil
	m.errText = ""
	m.notice = fmt.Sprintf("Habit created for %s: %d step(s) scheduled (%d configured, %d auto-added)",
		m.habitMeal.Name, msg.result.TotalSubEntityCount, msg.result.UserConfiguredCount, msg.result.AutoAddedCount)
	m.state = constants.StateMeals
	return m.loadTodos()
}
