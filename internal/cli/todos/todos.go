package todos

import (
	"fmt"
	"strings"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/validation"
)

type TodoCmd struct {
	List   TodoListCmd   `cmd:"" help:"List todos." default:"1"`
	Add    TodoAddCmd    `cmd:"" help:"Add a todo."`
	Done   TodoDoneCmd   `cmd:"" help:"Mark a todo as done."`
	Delete TodoDeleteCmd `cmd:"" help:"Delete a todo."`
}

type TodoListCmd struct {
	Date    string `help:"Only todos for this day (YYYY-MM-DD or 'today')." default:"today"`
	All     bool   `help:"List todos for every day."`
	ShowIDs bool   `help:"Show todo IDs." name:"show-ids"`
}

func (c *TodoListCmd) Validate() error {
	if c.All || c.Date == "today" {
		return nil
	}
	return validation.Date(c.Date)
}

func (c *TodoListCmd) Run(ctx *cli.Context) error {
	date := resolveDate(ctx, c.Date)
	if c.All {
		date = ""
	}

	todos, err := ctx.Repo.Todos(ctx.Ctx, date)
	if err != nil {
		return fmt.Errorf("failed to list todos: %w", err)
	}
	if len(todos) == 0 {
		ctx.Println("No todos found")
		return nil
	}

	if date != "" {
		ctx.Printf("Todos for %s:\n", date)
	} else {
		ctx.Println("Todos:")
	}
	for _, t := range todos {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", t.ID)
		}
		when := t.Date
		if t.Time != "" {
			when += " " + t.Time
		}
		habit := ""
		if t.HabitID != "" {
			habit = " [habit]"
		}
		ctx.Printf("  [%s] %s%s - %s%s\n", mark, t.Title, idStr, when, habit)
	}
	return nil
}

type TodoAddCmd struct {
	Title string `arg:"" help:"Todo title."`
	Date  string `help:"Day (YYYY-MM-DD or 'today')." default:"today"`
	Time  string `help:"Time of day (HH:MM)."`
}

func (c *TodoAddCmd) Validate() error {
	if err := validation.NotEmpty("title")(c.Title); err != nil {
		return err
	}
	if c.Date != "today" {
		if err := validation.Date(c.Date); err != nil {
			return err
		}
	}
	return validation.OptionalTime(c.Time)
}

func (c *TodoAddCmd) Run(ctx *cli.Context) error {
	todo, err := ctx.Repo.CreateTodo(ctx.Ctx, api.TodoInput{
		Title: strings.TrimSpace(c.Title),
		Date:  resolveDate(ctx, c.Date),
		Time:  c.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to add todo: %w", err)
	}
	ctx.Printf("Added todo: %s on %s (ID: %s)\n", todo.Title, todo.Date, todo.ID)
	return nil
}

type TodoDoneCmd struct {
	ID   string `arg:"" help:"Todo ID."`
	Undo bool   `help:"Mark the todo as not done."`
}

func (c *TodoDoneCmd) Run(ctx *cli.Context) error {
	todo, err := ctx.Repo.SetTodoCompleted(ctx.Ctx, c.ID, !c.Undo)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if todo.Completed {
		ctx.Printf("✓ Done: %s\n", todo.Title)
	} else {
		ctx.Printf("Reopened: %s\n", todo.Title)
	}
	return nil
}

type TodoDeleteCmd struct {
	ID string `arg:"" help:"Todo ID to delete."`
}

func (c *TodoDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Repo.DeleteTodo(ctx.Ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	ctx.Printf("Deleted todo (ID: %s)\n", c.ID)
	return nil
}

func resolveDate(ctx *cli.Context, date string) string {
	if date == "" || date == "today" {
		return ctx.Today().Format(constants.DateFormat)
	}
	return date
}
