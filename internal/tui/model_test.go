package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/schedule"
	"github.com/flowday/flowday/internal/tui/components/entitylist"
)

const (
	mealID = "0d6f7c1a-2b3c-4d5e-8f90-a1b2c3d4e5f6"
	stepA  = "8b0d8a3e-2f4c-4c8e-9c57-0e6f7c1a2b01"
	stepB  = "8b0d8a3e-2f4c-4c8e-9c57-0e6f7c1a2b02"
)

type fakeRepo struct {
	mu        sync.Mutex
	foods     []models.FoodItem
	todos     []models.Todo
	meal      models.Meal
	completed map[string]bool
	deleted   []string
	refreshed int
}

func (f *fakeRepo) FoodItems(ctx context.Context) ([]models.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.FoodItem(nil), f.foods...), nil
}

func (f *fakeRepo) CreateFoodItem(ctx context.Context, in api.FoodItemInput) (models.FoodItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := models.FoodItem{ID: "food-new", Name: in.Name, Quantity: in.Quantity, Unit: in.Unit}
	f.foods = append(f.foods, item)
	return item, nil
}

func (f *fakeRepo) DeleteFoodItem(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) Recipes(ctx context.Context) ([]models.Recipe, error) {
	return f.meal.Recipes, nil
}

func (f *fakeRepo) Meals(ctx context.Context) ([]models.Meal, error) {
	return []models.Meal{f.meal}, nil
}

func (f *fakeRepo) Meal(ctx context.Context, id string) (models.Meal, error) {
	if id != f.meal.ID {
		return models.Meal{}, &api.RemoteError{StatusCode: 404, Message: "meal not found"}
	}
	return f.meal, nil
}

func (f *fakeRepo) Todos(ctx context.Context, date string) ([]models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Todo(nil), f.todos...), nil
}

func (f *fakeRepo) CreateTodo(ctx context.Context, in api.TodoInput) (models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	todo := models.Todo{ID: "todo-new", Title: in.Title, Date: in.Date, Time: in.Time}
	f.todos = append(f.todos, todo)
	return todo, nil
}

func (f *fakeRepo) SetTodoCompleted(ctx context.Context, id string, completed bool) (models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed == nil {
		f.completed = make(map[string]bool)
	}
	f.completed[id] = completed
	return models.Todo{ID: id, Completed: completed}, nil
}

func (f *fakeRepo) DeleteTodo(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) Refresh(tags ...string) {
	f.refreshed++
}

type fakeSender struct {
	requests []models.HabitBatchRequest
	err      error
}

func (s *fakeSender) Send(ctx context.Context, req models.HabitBatchRequest) (models.HabitBatchResult, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return models.HabitBatchResult{}, s.err
	}
	return models.HabitBatchResult{
		Domain:              constants.DomainMeal,
		UserConfiguredCount: len(req.SubEntities),
		TotalSubEntityCount: len(req.SubEntities),
	}, nil
}

func testMeal() models.Meal {
	return models.Meal{
		ID:   mealID,
		Name: "Taco night",
		Recipes: []models.Recipe{{
			ID:   "recipe-1",
			Name: "Tacos",
			Instructions: []models.Instruction{
				{ID: stepA, Step: 1, Text: "Marinate"},
				{ID: stepB, Step: 2, Text: "Chop"},
			},
		}},
	}
}

func newTestModel(t *testing.T) (Model, *fakeRepo, *fakeSender) {
	t.Helper()
	repo := &fakeRepo{
		foods: []models.FoodItem{{ID: "food-1", Name: "Rice", Quantity: 2, Unit: "kg"}},
		todos: []models.Todo{{ID: "todo-1", Title: "Buy limes", Date: "2024-01-10"}},
		meal:  testMeal(),
	}
	sender := &fakeSender{}
	m := NewModel(context.Background(), Deps{
		Repo:     repo,
		Habits:   sender,
		Defaults: schedule.DefaultDefaults(),
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) },
	})
	return m, repo, sender
}

// send runs one Update and returns the concrete model.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitialLoadFillsEveryTab(t *testing.T) {
	m, _, _ := newTestModel(t)

	msg := m.loadAll()()
	loaded, ok := msg.(dataLoadedMsg)
	if !ok {
		t.Fatalf("loadAll returned %T", msg)
	}
	m, _ = send(t, m, loaded)

	if m.loading {
		t.Error("still loading")
	}
	if len(m.foods.Items()) != 1 || len(m.meals.Items()) != 1 || len(m.todos.Items()) != 1 || len(m.recipes.Items()) != 1 {
		t.Errorf("unexpected list sizes: foods %d meals %d todos %d recipes %d",
			len(m.foods.Items()), len(m.meals.Items()), len(m.todos.Items()), len(m.recipes.Items()))
	}
	if got := m.meals.Items()[0].Detail; got != "1 recipe(s) | 2 step(s)" {
		t.Errorf("meal detail = %q", got)
	}
}

func TestTabNavigation(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.loading = false

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != constants.StateRecipes {
		t.Errorf("state = %v, want recipes", m.state)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != constants.StateTodos {
		t.Errorf("state = %v, want todos after wrapping", m.state)
	}
}

func TestHabitSubmitSuccess(t *testing.T) {
	m, _, sender := newTestModel(t)
	m.state = constants.StateMeals

	m, cmd := send(t, m, mealLoadedMsg{meal: testMeal(), forHabit: true})
	if m.state != constants.StateHabitMain || cmd == nil {
		t.Fatalf("state = %v, want habit form", m.state)
	}
	if m.draft.Phase() != schedule.PhaseEditing {
		t.Fatalf("draft phase = %v", m.draft.Phase())
	}
	if m.habitForm.Weekday != models.Wednesday || m.habitForm.StartDate != "2024-01-10" {
		t.Errorf("form defaults = %+v", m.habitForm)
	}

	m.habitForm.Time = "18:00"
	m.habitForm.Customize = true
	if err := m.applyMain(); err != nil {
		t.Fatalf("applyMain failed: %v", err)
	}
	m.habitForm.Steps = stepRows(m.draft)
	if len(m.habitForm.Steps) != 2 || !m.habitForm.Steps[0].Include || m.habitForm.Steps[0].Time != "17:30" {
		t.Fatalf("step rows = %+v", m.habitForm.Steps)
	}
	m.habitForm.Steps[1].Include = false
	if err := m.applySteps(); err != nil {
		t.Fatalf("applySteps failed: %v", err)
	}

	cmd = m.beginSubmit()
	if m.state != constants.StateHabitSubmitting || m.draft.Phase() != schedule.PhaseSubmitting {
		t.Fatalf("state = %v phase = %v", m.state, m.draft.Phase())
	}

	result := findSubmitted(t, cmd)
	if len(sender.requests) != 1 {
		t.Fatalf("sent %d requests", len(sender.requests))
	}
	req := sender.requests[0]
	if len(req.SubEntities) != 1 || req.SubEntities[0].SubEntityID != stepA {
		t.Errorf("sub-entities = %+v", req.SubEntities)
	}

	m, cmd = send(t, m, result)
	if m.state != constants.StateMeals || m.draft.Phase() != schedule.PhaseIdle {
		t.Errorf("after success: state %v phase %v", m.state, m.draft.Phase())
	}
	if !strings.Contains(m.notice, "1 step(s) scheduled") {
		t.Errorf("notice = %q", m.notice)
	}
	if cmd == nil {
		t.Error("expected todos to be reloaded")
	}
}

// findSubmitted runs cmd, expanding batches, and returns the submit result.
func findSubmitted(t *testing.T, cmd tea.Cmd) habitSubmittedMsg {
	t.Helper()
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			pending = append(pending, msg...)
		case habitSubmittedMsg:
			return msg
		}
	}
	t.Fatal("no habit submission in command")
	return habitSubmittedMsg{}
}

func TestHabitSubmitFailureReopensForm(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = send(t, m, mealLoadedMsg{meal: testMeal(), forHabit: true})

	m.habitForm.Weekday = models.Friday
	m.habitForm.Time = "19:30"
	if err := m.applyMain(); err != nil {
		t.Fatal(err)
	}
	m.beginSubmit()

	// A second habit cannot start while the first is in flight.
	m.startHabit()
	if m.state != constants.StateHabitSubmitting || !strings.Contains(m.errText, "already in progress") {
		t.Errorf("state %v errText %q", m.state, m.errText)
	}

	remote := &api.RemoteError{StatusCode: 400, Message: "startDate is in the past"}
	m, _ = send(t, m, habitSubmittedMsg{err: remote})
	if m.state != constants.StateHabitMain {
		t.Fatalf("state = %v, want habit form", m.state)
	}
	if m.draft.Phase() != schedule.PhaseEditing {
		t.Errorf("draft phase = %v", m.draft.Phase())
	}
	if m.errText != "startDate is in the past" {
		t.Errorf("errText = %q", m.errText)
	}
	if m.habitForm.Weekday != models.Friday || m.habitForm.Time != "19:30" {
		t.Errorf("form lost values: %+v", m.habitForm)
	}
}

func TestHabitFormEscCancels(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = send(t, m, mealLoadedMsg{meal: testMeal(), forHabit: true})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != constants.StateMeals || m.draft.Phase() != schedule.PhaseIdle {
		t.Errorf("state %v phase %v", m.state, m.draft.Phase())
	}
}

func TestMealDetail(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.state = constants.StateMeals

	_, cmd := send(t, m, entitylist.SelectMsg{List: listMeals, ID: mealID})
	if cmd == nil {
		t.Fatal("expected meal load")
	}
	m, _ = send(t, m, cmd())
	if m.state != constants.StateMealDetail || m.mealView.Meal == nil {
		t.Fatalf("state = %v", m.state)
	}

	m, _ = send(t, m, keyPress("h"))
	if m.state != constants.StateHabitMain {
		t.Errorf("h on meal detail: state = %v", m.state)
	}
}

func TestLoadErrorIsShown(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := send(t, m, entitylist.HabitMsg{List: listMeals, ID: "missing"})
	m, _ = send(t, m, cmd())
	if m.errText != "meal not found" {
		t.Errorf("errText = %q", m.errText)
	}
	if m.state != constants.StateFoods {
		t.Errorf("state changed to %v", m.state)
	}
}

func TestToggleTodo(t *testing.T) {
	m, repo, _ := newTestModel(t)
	m, _ = send(t, m, m.loadAll()())
	m.state = constants.StateTodos

	_, cmd := send(t, m, entitylist.ToggleMsg{List: listTodos, ID: "todo-1"})
	if cmd == nil {
		t.Fatal("expected toggle command")
	}
	if _, ok := cmd().(todosLoadedMsg); !ok {
		t.Fatal("toggle should reload todos")
	}
	if !repo.completed["todo-1"] {
		t.Error("todo was not marked completed")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, repo, _ := newTestModel(t)
	m.loading = false

	m, _ = send(t, m, entitylist.DeleteMsg{List: listFoods, ID: "food-1"})
	if m.state != constants.StateConfirmDelete {
		t.Fatalf("state = %v", m.state)
	}

	m, cmd := send(t, m, keyPress("n"))
	if m.state != constants.StateFoods || cmd != nil || len(repo.deleted) != 0 {
		t.Fatalf("cancel deleted something: %v", repo.deleted)
	}

	m, _ = send(t, m, entitylist.DeleteMsg{List: listFoods, ID: "food-1"})
	m, cmd = send(t, m, keyPress("y"))
	if m.state != constants.StateFoods || cmd == nil {
		t.Fatalf("state = %v", m.state)
	}
	cmd()
	if len(repo.deleted) != 1 || repo.deleted[0] != "food-1" {
		t.Errorf("deleted = %v", repo.deleted)
	}
}

func TestRefreshInvalidates(t *testing.T) {
	m, repo, _ := newTestModel(t)
	m.loading = false

	m, cmd := send(t, m, keyPress("r"))
	if repo.refreshed != 1 || !m.loading || cmd == nil {
		t.Errorf("refreshed %d loading %v", repo.refreshed, m.loading)
	}
}

func TestCreateFoodParsesQuantity(t *testing.T) {
	m, repo, _ := newTestModel(t)

	msg := m.createFood(FoodFormModel{Name: " Beans ", Quantity: "0.5", Unit: "kg"})()
	loaded, ok := msg.(foodsLoadedMsg)
	if !ok {
		t.Fatalf("createFood returned %T", msg)
	}
	if len(loaded.foods) != 2 || repo.foods[1].Name != "Beans" || repo.foods[1].Quantity != 0.5 {
		t.Errorf("foods = %+v", repo.foods)
	}

	if _, ok := m.createFood(FoodFormModel{Name: "x", Quantity: "lots"})().(errMsg); !ok {
		t.Error("invalid quantity should fail")
	}
}
