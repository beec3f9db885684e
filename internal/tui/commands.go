package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/logger"
	"github.com/flowday/flowday/internal/models"
)

type dataLoadedMsg struct {
	foods   []models.FoodItem
	recipes []models.Recipe
	meals   []models.Meal
	todos   []models.Todo
}

type todosLoadedMsg struct {
	todos []models.Todo
}

type foodsLoadedMsg struct {
	foods []models.FoodItem
}

type mealLoadedMsg struct {
	meal     models.Meal
	forHabit bool
}

type habitSubmittedMsg struct {
	result models.HabitBatchResult
	err    error
}

// errMsg reports a failed remote call. The current view stays as it is.
type errMsg struct {
	err error
}

// loadAll fetches every tab concurrently.
func (m Model) loadAll() tea.Cmd {
	ctx, repo, date := m.ctx, m.repo, m.today().Format(constants.DateFormat)
	return func() tea.Msg {
		var msg dataLoadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			msg.foods, err = repo.FoodItems(gctx)
			return err
		})
		g.Go(func() (err error) {
			msg.recipes, err = repo.Recipes(gctx)
			return err
		})
		g.Go(func() (err error) {
			msg.meals, err = repo.Meals(gctx)
			return err
		})
		g.Go(func() (err error) {
			msg.todos, err = repo.Todos(gctx, date)
			return err
		})
		if err := g.Wait(); err != nil {
			logger.Warn("TUI load failed", "error", err)
			return errMsg{err}
		}
		return msg
	}
}

func (m Model) loadFoods() tea.Cmd {
	ctx, repo := m.ctx, m.repo
	return func() tea.Msg {
		foods, err := repo.FoodItems(ctx)
		if err != nil {
			return errMsg{err}
		}
		return foodsLoadedMsg{foods}
	}
}

func (m Model) loadTodos() tea.Cmd {
	ctx, repo, date := m.ctx, m.repo, m.today().Format(constants.DateFormat)
	return func() tea.Msg {
		todos, err := repo.Todos(ctx, date)
		if err != nil {
			return errMsg{err}
		}
		return todosLoadedMsg{todos}
	}
}

func (m Model) loadMeal(id string, forHabit bool) tea.Cmd {
	ctx, repo := m.ctx, m.repo
	return func() tea.Msg {
		meal, err := repo.Meal(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return mealLoadedMsg{meal: meal, forHabit: forHabit}
	}
}

func (m Model) createFood(fm FoodFormModel) tea.Cmd {
	ctx, repo := m.ctx, m.repo
	return func() tea.Msg {
		qty, err := strconv.ParseFloat(strings.TrimSpace(fm.Quantity), 64)
		if err != nil {
			return errMsg{fmt.Errorf("invalid quantity %q", fm.Quantity)}
		}
		in := api.FoodItemInput{
			Name:      strings.TrimSpace(fm.Name),
			Quantity:  qty,
			Unit:      strings.TrimSpace(fm.Unit),
			ExpiresOn: strings.TrimSpace(fm.ExpiresOn),
		}
		if _, err := repo.CreateFoodItem(ctx, in); err != nil {
			return errMsg{err}
		}
		foods, err := repo.FoodItems(ctx)
		if err != nil {
			return errMsg{err}
		}
		return foodsLoadedMsg{foods}
	}
}

func (m Model) deleteFood(id string) tea.Cmd {
	ctx, repo := m.ctx, m.repo
	return func() tea.Msg {
		if err := repo.DeleteFoodItem(ctx, id); err != nil {
			return errMsg{err}
		}
		foods, err := repo.FoodItems(ctx)
		if err != nil {
			return errMsg{err}
		}
		return foodsLoadedMsg{foods}
	}
}

func (m Model) createTodo(fm TodoFormModel) tea.Cmd {
	ctx, repo, date := m.ctx, m.repo, m.today().Format(constants.DateFormat)
	return func() tea.Msg {
		in := api.TodoInput{
			Title: strings.TrimSpace(fm.Title),
			Date:  date,
			Time:  strings.TrimSpace(fm.Time),
		}
		if _, err := repo.CreateTodo(ctx, in); err != nil {
			return errMsg{err}
		}
		todos, err := repo.Todos(ctx, date)
		if err != nil {
			return errMsg{err}
		}
		return todosLoadedMsg{todos}
	}
}

func (m Model) toggleTodo(todo models.Todo) tea.Cmd {
	ctx, repo, date := m.ctx, m.repo, m.today().Format(constants.DateFormat)
	return func() tea.Msg {
		if _, err := repo.SetTodoCompleted(ctx, todo.ID, !todo.Completed); err != nil {
			return errMsg{err}
		}
		todos, err := repo.Todos(ctx, date)
		if err != nil {
			return errMsg{err}
		}
		return todosLoadedMsg{todos}
	}
}

func (m Model) deleteTodo(id string) tea.Cmd {
	ctx, repo, date := m.ctx, m.repo, m.today().Format(constants.DateFormat)
	return func() tea.Msg {
		if err := repo.DeleteTodo(ctx, id); err != nil {
			return errMsg{err}
		}
		todos, err := repo.Todos(ctx, date)
		if err != nil {
			return errMsg{err}
		}
		return todosLoadedMsg{todos}
	}
}

func (m Model) submitHabit(req models.HabitBatchRequest) tea.Cmd {
	ctx, sender := m.ctx, m.sender
	return func() tea.Msg {
		result, err := sender.Send(ctx, req)
		return habitSubmittedMsg{result: result, err: err}
	}
}
