package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	model := tui.NewModel(ctx.Ctx, tui.Deps{
		Repo:     ctx.Repo,
		Habits:   ctx.Habits,
		Defaults: ctx.Defaults,
		Location: ctx.Location,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx.Ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
