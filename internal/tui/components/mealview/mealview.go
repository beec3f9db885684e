package mealview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowday/flowday/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	recipeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(5)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model shows one meal with its recipes and the numbered habit steps.
type Model struct {
	viewport viewport.Model
	Meal     *models.Meal
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Meal == nil {
		return "Loading meal..."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetMeal(meal models.Meal) {
	m.Meal = &meal
	m.viewport.GotoTop()
	m.Render()
}

func (m *Model) Render() {
	if m.Meal == nil {
		m.viewport.SetContent("No meal loaded.")
		return
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Meal.Name))
	b.WriteString("\n")
	if m.Meal.Description != "" {
		b.WriteString(m.Meal.Description + "\n")
	}
	b.WriteString("\n")

	for _, r := range m.Meal.Recipes {
		b.WriteString(recipeStyle.Render(r.Name))
		b.WriteString(fmt.Sprintf(" (%d ingredients)\n", len(r.Ingredients)))
	}

	steps := m.Meal.Instructions()
	b.WriteString("\nHabit steps:\n")
	if len(steps) == 0 {
		b.WriteString(hintStyle.Render("  none, the habit will be auto-configured"))
		b.WriteString("\n")
	}
	for i, s := range steps {
		b.WriteString(fmt.Sprintf("%s %s\n", stepStyle.Render(fmt.Sprintf("%d.", i+1)), s.Text))
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("h: create habit • esc: back"))
	m.viewport.SetContent(b.String())
}
