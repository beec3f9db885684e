package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/errors"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/schedule"
	"github.com/flowday/flowday/internal/tui/components/entitylist"
	"github.com/flowday/flowday/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.loading && m.state != constants.StateHabitSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dataLoadedMsg:
		m.loading = false
		m.errText = ""
		m.setFoods(msg.foods)
		m.setRecipes(msg.recipes)
		m.setMeals(msg.meals)
		m.setTodos(msg.todos)
		return m, nil

	case foodsLoadedMsg:
		m.setFoods(msg.foods)
		return m, nil

	case todosLoadedMsg:
		m.setTodos(msg.todos)
		return m, nil

	case mealLoadedMsg:
		m.habitMeal = msg.meal
		if msg.forHabit {
			return m, m.startHabit()
		}
		m.mealView.SetMeal(msg.meal)
		m.state = constants.StateMealDetail
		return m, nil

	case habitSubmittedMsg:
		return m, m.handleHabitResult(msg)

	case errMsg:
		m.loading = false
		m.notice = ""
		m.errText = errors.UserMessage(msg.err)
		return m, nil
	}

	if handled, cmd := m.handleListMessages(msg); handled {
		return m, cmd
	}

	switch m.state {
	case constants.StateHabitMain:
		return m, m.updateHabitMain(msg)
	case constants.StateHabitSteps:
		return m, m.updateHabitSteps(msg)
	case constants.StateHabitSubmitting:
		// Input is ignored until the API answers.
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case constants.StateAddFood:
		return m, m.updateAddFood(msg)
	case constants.StateAddTodo:
		return m, m.updateAddTodo(msg)
	case constants.StateConfirmDelete:
		return m, m.updateConfirmDelete(msg)
	case constants.StateMealDetail:
		return m, m.updateMealDetail(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.activeList().Filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.state = (m.state + 1) % constants.TabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
			m.state = (m.state - 1 + constants.TabCount) % constants.TabCount
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.repo.Refresh()
			m.loading = true
			m.notice = ""
			return m, tea.Batch(m.spinner.Tick, m.loadAll())
		}
	}

	return m, m.updateActiveList(msg)
}

func (m *Model) resize() {
	h := m.height - 6
	if h < 0 {
		h = 0
	}
	w := m.width - 4
	if w < 0 {
		w = 0
	}
	m.foods.SetSize(w, h)
	m.recipes.SetSize(w, h)
	m.meals.SetSize(w, h)
	m.todos.SetSize(w, h)
	m.mealView.SetSize(w, h)
}

func (m *Model) activeList() *entitylist.Model {
	switch m.state {
	case constants.StateRecipes:
		return &m.recipes
	case constants.StateMeals:
		return &m.meals
	case constants.StateTodos:
		return &m.todos
	default:
		return &m.foods
	}
}

func (m *Model) updateActiveList(msg tea.Msg) tea.Cmd {
	if !m.isTab() {
		return nil
	}
	l := m.activeList()
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return cmd
}

// handleListMessages handles the actions emitted by the entity lists.
func (m *Model) handleListMessages(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case entitylist.AddMsg:
		m.notice = ""
		switch msg.List {
		case listFoods:
			m.foodForm = &FoodFormModel{Quantity: "1"}
			m.form = NewFoodForm(m.foodForm)
			m.previousState = m.state
			m.state = constants.StateAddFood
			return true, m.form.Init()
		case listTodos:
			m.todoForm = &TodoFormModel{}
			m.form = NewTodoForm(m.todoForm)
			m.previousState = m.state
			m.state = constants.StateAddTodo
			return true, m.form.Init()
		}
		return true, nil

	case entitylist.DeleteMsg:
		m.deleteList = msg.List
		m.deleteID = msg.ID
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return true, nil

	case entitylist.ToggleMsg:
		todo, ok := m.todoByID[msg.ID]
		if !ok {
			return true, nil
		}
		return true, m.toggleTodo(todo)

	case entitylist.SelectMsg:
		m.mealView.Meal = nil
		m.previousState = m.state
		return true, m.loadMeal(msg.ID, false)

	case entitylist.HabitMsg:
		return true, m.loadMeal(msg.ID, true)
	}
	return false, nil
}

// startHabit opens the habit form for m.habitMeal.
func (m *Model) startHabit() tea.Cmd {
	if m.draft.Phase() == schedule.PhaseSubmitting {
		m.errText = errors.UserMessage(schedule.ErrSubmitInFlight)
		return nil
	}
	m.notice = ""
	m.errText = ""
	m.draft.Open(m.habitMeal.ID, m.habitMeal.Instructions(), m.today())
	return m.openHabitForm()
}

func (m *Model) updateMealDetail(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.state = constants.StateMeals
			return nil
		case key.Matches(msg, m.keys.Habit):
			if m.mealView.Meal != nil {
				return m.startHabit()
			}
			return nil
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return tea.Quit
		}
	}
	var cmd tea.Cmd
	m.mealView, cmd = m.mealView.Update(msg)
	return cmd
}

func (m *Model) updateConfirmDelete(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(km, m.keys.Confirm):
		m.state = m.previousState
		id := m.deleteID
		m.deleteID = ""
		if m.deleteList == listTodos {
			return m.deleteTodo(id)
		}
		return m.deleteFood(id)
	case key.Matches(km, m.keys.Cancel):
		m.state = m.previousState
		m.deleteID = ""
	}
	return nil
}

func NewFoodForm(fm *FoodFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(validation.NotEmpty("name")),
			huh.NewInput().
				Title("Quantity").
				Value(&fm.Quantity).
				Validate(validation.Quantity),
			huh.NewInput().
				Title("Unit").
				Description("e.g. g, ml, pcs").
				Value(&fm.Unit),
			huh.NewInput().
				Title("Expires on (YYYY-MM-DD)").
				Value(&fm.ExpiresOn).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return validation.Date(s)
				}),
		),
	)
}

func NewTodoForm(fm *TodoFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(validation.NotEmpty("title")),
			huh.NewInput().
				Title("Time (HH:MM)").
				Description("Optional").
				Value(&fm.Time).
				Validate(validation.OptionalTime),
		),
	)
}

func (m *Model) updateAddFood(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.previousState
		m.notice = fmt.Sprintf("Added %s", strings.TrimSpace(m.foodForm.Name))
		return m.createFood(*m.foodForm)
	case huh.StateAborted:
		m.state = m.previousState
	}
	return cmd
}

func (m *Model) updateAddTodo(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.previousState
		m.notice = fmt.Sprintf("Added %q", strings.TrimSpace(m.todoForm.Title))
		return m.createTodo(*m.todoForm)
	case huh.StateAborted:
		m.state = m.previousState
	}
	return cmd
}

func (m *Model) setFoods(foods []models.FoodItem) {
	items := make([]entitylist.Item, len(foods))
	for i, f := range foods {
		detail := fmt.Sprintf("%g %s", f.Quantity, f.Unit)
		if f.ExpiresOn != "" {
			detail += " | expires " + f.ExpiresOn
		}
		items[i] = entitylist.Item{ID: f.ID, Name: f.Name, Detail: strings.TrimSpace(detail)}
	}
	m.foods.SetItems(items)
}

func (m *Model) setRecipes(recipes []models.Recipe) {
	items := make([]entitylist.Item, len(recipes))
	for i, r := range recipes {
		items[i] = entitylist.Item{
			ID:     r.ID,
			Name:   r.Name,
			Detail: fmt.Sprintf("%d ingredients | %d steps", len(r.Ingredients), len(r.Instructions)),
		}
	}
	m.recipes.SetItems(items)
}

func (m *Model) setMeals(meals []models.Meal) {
	items := make([]entitylist.Item, len(meals))
	for i, meal := range meals {
		detail := fmt.Sprintf("%d recipe(s) | %d step(s)", len(meal.Recipes), len(meal.Instructions()))
		items[i] = entitylist.Item{ID: meal.ID, Name: meal.Name, Detail: detail}
	}
	m.meals.SetItems(items)
}

func (m *Model) setTodos(todos []models.Todo) {
	m.todoByID = make(map[string]models.Todo, len(todos))
	items := make([]entitylist.Item, len(todos))
	for i, t := range todos {
		m.todoByID[t.ID] = t
		detail := t.Date
		if t.Time != "" {
			detail += " " + t.Time
		}
		if t.HabitID != "" {
			detail += " | habit"
		}
		items[i] = entitylist.Item{ID: t.ID, Name: t.Title, Detail: detail, Done: t.Completed}
	}
	m.todos.SetItems(items)
}
