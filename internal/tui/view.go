package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/flowday/flowday/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateFoods:
		content = docStyle.Render(m.foods.View())
	case constants.StateRecipes:
		content = docStyle.Render(m.recipes.View())
	case constants.StateMeals:
		content = docStyle.Render(m.meals.View())
	case constants.StateTodos:
		content = docStyle.Render(m.todos.View())
	case constants.StateMealDetail:
		content = docStyle.Render(m.mealView.View())
	case constants.StateAddFood, constants.StateAddTodo, constants.StateHabitMain, constants.StateHabitSteps:
		content = docStyle.Render(m.form.View())
	case constants.StateHabitSubmitting:
		content = m.viewSubmitting()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	if m.loading && m.isTab() {
		content = docStyle.Render(m.spinner.View() + " Loading...")
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStatus(),
		content,
		m.help.View(m),
	)
	return ui
}

func (m Model) viewTabs() string {
	active := m.state
	if m.state == constants.StateMealDetail || m.state >= constants.StateHabitMain && m.state <= constants.StateHabitSubmitting {
		active = constants.StateMeals
	}
	if (m.state == constants.StateAddFood || m.state == constants.StateAddTodo || m.state == constants.StateConfirmDelete) && m.previousState < constants.TabCount {
		active = m.previousState
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// viewStatus shows the last notice or error. The habit form renders its own
// error, so it is not repeated here.
func (m Model) viewStatus() string {
	switch {
	case m.errText != "" && m.state != constants.StateHabitMain:
		return errorStyle.Render("✗ " + m.errText)
	case m.notice != "":
		return noticeStyle.Render("✓ " + m.notice)
	}
	return ""
}

func (m Model) viewSubmitting() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		m.spinner.View()+" Creating habit for "+m.habitMeal.Name+"...",
	)
}

func (m Model) viewConfirmDelete() string {
	what := "food item"
	if m.deleteList == listTodos {
		what = "todo"
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete this "+what+"?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
