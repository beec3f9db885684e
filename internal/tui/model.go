package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/schedule"
	"github.com/flowday/flowday/internal/tui/components/entitylist"
	"github.com/flowday/flowday/internal/tui/components/mealview"
)

// List names, also used as tab titles.
const (
	listFoods   = "Foods"
	listRecipes = "Recipes"
	listMeals   = "Meals"
	listTodos   = "Todos"
)

var tabTitles = []string{listFoods, listRecipes, listMeals, listTodos}

// Repository is the cached remote data the TUI reads and mutates.
type Repository interface {
	FoodItems(ctx context.Context) ([]models.FoodItem, error)
	CreateFoodItem(ctx context.Context, in api.FoodItemInput) (models.FoodItem, error)
	DeleteFoodItem(ctx context.Context, id string) error
	Recipes(ctx context.Context) ([]models.Recipe, error)
	Meals(ctx context.Context) ([]models.Meal, error)
	Meal(ctx context.Context, id string) (models.Meal, error)
	Todos(ctx context.Context, date string) ([]models.Todo, error)
	CreateTodo(ctx context.Context, in api.TodoInput) (models.Todo, error)
	SetTodoCompleted(ctx context.Context, id string, completed bool) (models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	Refresh(tags ...string)
}

// Sender submits an assembled habit request.
type Sender interface {
	Send(ctx context.Context, req models.HabitBatchRequest) (models.HabitBatchResult, error)
}

// Deps are the services the TUI runs against.
type Deps struct {
	Repo     Repository
	Habits   Sender
	Defaults schedule.Defaults
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

type FoodFormModel struct {
	Name      string
	Quantity  string
	Unit      string
	ExpiresOn string
}

type TodoFormModel struct {
	Title string
	Time  string
}

type Model struct {
	ctx           context.Context
	repo          Repository
	sender        Sender
	location      *time.Location
	now           func() time.Time
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	spinner       spinner.Model
	foods         entitylist.Model
	recipes       entitylist.Model
	meals         entitylist.Model
	todos         entitylist.Model
	mealView      mealview.Model
	form          *huh.Form
	foodForm      *FoodFormModel
	todoForm      *TodoFormModel
	habitForm     *HabitFormModel
	draft         *schedule.Draft
	habitMeal     models.Meal
	todoByID      map[string]models.Todo
	deleteList    string
	deleteID      string
	loading       bool
	notice        string
	errText       string
	quitting      bool
	width         int
	height        int
}

func NewModel(ctx context.Context, deps Deps) Model {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	keys := DefaultKeyMap()
	return Model{
		ctx:      ctx,
		repo:     deps.Repo,
		sender:   deps.Habits,
		location: loc,
		now:      now,
		state:    constants.StateFoods,
		keys:     keys,
		help:     help.New(),
		spinner:  sp,
		foods: entitylist.New(listFoods, "No food items yet.\n  Press 'a' to add one.",
			entitylist.KeyMap{Add: keys.Add, Delete: keys.Delete}, 0, 0),
		recipes: entitylist.New(listRecipes, "No recipes yet.\n  Add one with 'flowday recipe add'.",
			entitylist.KeyMap{}, 0, 0),
		meals: entitylist.New(listMeals, "No meals yet.\n  Add one with 'flowday meal add'.",
			entitylist.KeyMap{Select: keys.Enter, Habit: keys.Habit}, 0, 0),
		todos: entitylist.New(listTodos, "Nothing to do today.\n  Press 'a' to add a todo.",
			entitylist.KeyMap{Add: keys.Add, Delete: keys.Delete, Toggle: keys.Toggle}, 0, 0),
		mealView: mealview.New(0, 0),
		draft:    schedule.NewDraft(deps.Defaults, nil),
		todoByID: make(map[string]models.Todo),
		loading:  true,
	}
}

// today is the current date in the configured timezone.
func (m Model) today() time.Time {
	return m.now().In(m.location)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateFoods:
		keys = append(keys, m.keys.Add, m.keys.Delete)
	case constants.StateMeals:
		keys = append(keys, m.keys.Enter, m.keys.Habit)
	case constants.StateMealDetail:
		keys = []key.Binding{m.keys.Habit, m.keys.Back, m.keys.Quit}
	case constants.StateTodos:
		keys = append(keys, m.keys.Add, m.keys.Toggle, m.keys.Delete)
	}
	return append(keys, m.keys.Refresh)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Enter, m.keys.Back}

	var actions []key.Binding
	switch m.state {
	case constants.StateFoods:
		actions = []key.Binding{m.keys.Add, m.keys.Delete}
	case constants.StateMeals, constants.StateMealDetail:
		actions = []key.Binding{m.keys.Habit}
	case constants.StateTodos:
		actions = []key.Binding{m.keys.Add, m.keys.Toggle, m.keys.Delete}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadAll())
}

// isTab reports whether the current state is one of the top-level tabs.
func (m Model) isTab() bool {
	return m.state < constants.TabCount
}
