package habits

import (
	"encoding/json"
	"fmt"

	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/errors"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/schedule"
	"github.com/flowday/flowday/internal/validation"
)

type HabitCmd struct {
	Create  HabitCreateCmd  `cmd:"" help:"Create a weekly habit for a meal."`
	Preview HabitPreviewCmd `cmd:"" help:"Print the habit request without submitting it."`
	History HabitHistoryCmd `cmd:"" help:"Show recent habit submissions from this machine."`
}

// HabitFlags describe the main event and the optional per-step schedule.
type HabitFlags struct {
	Meal      string   `help:"Meal ID." required:""`
	Weekday   string   `help:"Weekday of the meal (monday..sunday)." required:""`
	Time      string   `help:"Time of the meal (HH:MM). Prep steps default to a configured offset before it."`
	StartDate string   `help:"First week of the habit (YYYY-MM-DD or 'today')." name:"start-date" default:"today"`
	Customize bool     `help:"Schedule each prep step individually, starting from generated defaults."`
	Step      []string `help:"Reschedule step N (as numbered by 'meal show'): N=weekday@HH:MM. Implies --customize." name:"step"`
	Skip      []int    `help:"Leave step N out of the customized schedule. Implies --customize."`
}

func (f *HabitFlags) Validate() error {
	if err := validation.NotEmpty("meal")(f.Meal); err != nil {
		return err
	}
	if err := validation.Weekday(f.Weekday); err != nil {
		return err
	}
	if err := validation.OptionalTime(f.Time); err != nil {
		return err
	}
	if f.StartDate != "today" {
		if err := validation.Date(f.StartDate); err != nil {
			return err
		}
	}
	for _, raw := range f.Step {
		if _, err := cli.ParseStep(raw); err != nil {
			return err
		}
	}
	for _, n := range f.Skip {
		if n < 1 {
			return fmt.Errorf("invalid step number %d", n)
		}
	}
	return nil
}

// BuildDraft fetches the meal and returns a draft in the Editing phase with
// every flag applied.
func (f *HabitFlags) BuildDraft(ctx *cli.Context) (*schedule.Draft, models.Meal, error) {
	meal, err := ctx.Repo.Meal(ctx.Ctx, f.Meal)
	if err != nil {
		return nil, models.Meal{}, fmt.Errorf("failed to find meal with ID %s: %w", f.Meal, err)
	}

	instructions := meal.Instructions()
	draft := schedule.NewDraft(ctx.Defaults, nil)
	draft.Open(meal.ID, instructions, ctx.Today())

	main := draft.Main()
	main.Weekday, _ = models.ParseWeekday(f.Weekday)
	if f.Time != "" {
		t, _ := models.ParseClockTime(f.Time)
		main.Time = &t
	}
	if f.StartDate != "today" {
		main.StartDate = f.StartDate
	}
	if err := draft.SetMain(main); err != nil {
		return nil, meal, err
	}

	if !f.Customize && len(f.Step) == 0 && len(f.Skip) == 0 {
		return draft, meal, nil
	}
	if err := draft.SetCustomization(true); err != nil {
		return nil, meal, err
	}

	stepKey := func(n int) (string, error) {
		if n < 1 || n > len(instructions) {
			return "", fmt.Errorf("meal %s has %d step(s), no step %d", meal.Name, len(instructions), n)
		}
		return instructions[n-1].Key(), nil
	}
	for _, raw := range f.Step {
		spec, _ := cli.ParseStep(raw)
		key, err := stepKey(spec.Step)
		if err != nil {
			return nil, meal, err
		}
		if err := draft.EditStep(key, spec.Weekday, spec.Time); err != nil {
			return nil, meal, err
		}
	}
	for _, n := range f.Skip {
		key, err := stepKey(n)
		if err != nil {
			return nil, meal, err
		}
		if err := draft.RemoveStep(key); err != nil {
			return nil, meal, err
		}
	}
	return draft, meal, nil
}

type HabitCreateCmd struct {
	HabitFlags `embed:""`
}

func (c *HabitCreateCmd) Run(ctx *cli.Context) error {
	draft, meal, err := c.BuildDraft(ctx)
	if err != nil {
		return err
	}

	result, err := ctx.Habits.Submit(ctx.Ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to create habit: %s", errors.UserMessage(err))
	}

	ctx.Printf("✓ Habit created for %s every %s\n", meal.Name, draft.Main().Weekday.Title())
	ctx.Printf("  %d step(s) scheduled by you, %d added automatically (%d total)\n",
		result.UserConfiguredCount, result.AutoAddedCount, result.TotalSubEntityCount)
	return nil
}

type HabitPreviewCmd struct {
	HabitFlags `embed:""`
}

func (c *HabitPreviewCmd) Run(ctx *cli.Context) error {
	draft, meal, err := c.BuildDraft(ctx)
	if err != nil {
		return err
	}

	req, res := draft.Request()
	ctx.Printf("Habit for %s (%s mode)\n", meal.Name, res.Kind)
	if draft.Customizing() {
		for i, sc := range draft.Steps().Entries() {
			note := ""
			if !schedule.HasStableID(sc.Instruction) {
				note = " (not yet saved on the server, left to auto-configuration)"
			}
			ctx.Printf("  %d. %s - %s %s%s\n", i+1, sc.Instruction.Text, sc.Weekday.Title(), sc.Time, note)
		}
	}

	if conflicts := validation.ValidateHabitRequest(req); conflicts.HasConflicts() {
		ctx.Println(conflicts.FormatReport())
	}

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	ctx.Printf("POST %s\n%s\n", constants.PathHabitBatch, data)
	return nil
}

type HabitHistoryCmd struct {
	Limit int `help:"Number of submissions to show (0 for all)." default:"20"`
}

func (c *HabitHistoryCmd) Run(ctx *cli.Context) error {
	subs, err := ctx.Store.ListSubmissions(c.Limit)
	if err != nil {
		return fmt.Errorf("failed to read submission history: %w", err)
	}
	if len(subs) == 0 {
		ctx.Println("No habit submissions yet")
		return nil
	}

	ctx.Println("Habit submissions:")
	for _, s := range subs {
		ctx.Printf("  %s  meal %s  %s  %d step(s)  %s\n",
			s.CreatedAt.In(ctx.Location).Format("2006-01-02 15:04"),
			s.MealID, s.TargetWeekday.Title(), s.SubEntityCount, s.Status)
		if s.Message != "" {
			ctx.Printf("      %s\n", s.Message)
		}
	}
	return nil
}
