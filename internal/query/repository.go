package query

import (
	"context"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/models"
)

// API is the remote surface the repository reads and mutates.
type API interface {
	ListFoodItems(ctx context.Context) ([]models.FoodItem, error)
	GetFoodItem(ctx context.Context, id string) (models.FoodItem, error)
	CreateFoodItem(ctx context.Context, in api.FoodItemInput) (models.FoodItem, error)
	UpdateFoodItem(ctx context.Context, id string, in api.FoodItemInput) (models.FoodItem, error)
	DeleteFoodItem(ctx context.Context, id string) error

	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id string) (models.Recipe, error)
	CreateRecipe(ctx context.Context, in api.RecipeInput) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error

	ListMeals(ctx context.Context) ([]models.Meal, error)
	GetMeal(ctx context.Context, id string) (models.Meal, error)
	CreateMeal(ctx context.Context, in api.MealInput) (models.Meal, error)
	DeleteMeal(ctx context.Context, id string) error

	ListTodos(ctx context.Context, date string) ([]models.Todo, error)
	CreateTodo(ctx context.Context, in api.TodoInput) (models.Todo, error)
	SetTodoCompleted(ctx context.Context, id string, completed bool) (models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error

	CreateHabitBatch(ctx context.Context, req models.HabitBatchRequest) (models.HabitBatchResult, error)
}

// Repository routes reads through the cache and invalidates the affected
// tags after every successful mutation.
type Repository struct {
	api   API
	cache *Cache
}

func NewRepository(client API, cache *Cache) *Repository {
	return &Repository{api: client, cache: cache}
}

func (r *Repository) FoodItems(ctx context.Context) ([]models.FoodItem, error) {
	return Get(ctx, r.cache, "food-items", constants.TagFoodItems, r.api.ListFoodItems)
}

func (r *Repository) FoodItem(ctx context.Context, id string) (models.FoodItem, error) {
	return Get(ctx, r.cache, "food-items/"+id, constants.TagFoodItems, func(ctx context.Context) (models.FoodItem, error) {
		return r.api.GetFoodItem(ctx, id)
	})
}

func (r *Repository) CreateFoodItem(ctx context.Context, in api.FoodItemInput) (models.FoodItem, error) {
	item, err := r.api.CreateFoodItem(ctx, in)
	if err != nil {
		return models.FoodItem{}, err
	}
	r.cache.Invalidate(constants.TagFoodItems)
	return item, nil
}

func (r *Repository) UpdateFoodItem(ctx context.Context, id string, in api.FoodItemInput) (models.FoodItem, error) {
	item, err := r.api.UpdateFoodItem(ctx, id, in)
	if err != nil {
		return models.FoodItem{}, err
	}
	r.cache.Invalidate(constants.TagFoodItems)
	return item, nil
}

func (r *Repository) DeleteFoodItem(ctx context.Context, id string) error {
	if err := r.api.DeleteFoodItem(ctx, id); err != nil {
		return err
	}
	r.cache.Invalidate(constants.TagFoodItems)
	return nil
}

func (r *Repository) Recipes(ctx context.Context) ([]models.Recipe, error) {
	return Get(ctx, r.cache, "recipes", constants.TagRecipes, r.api.ListRecipes)
}

func (r *Repository) Recipe(ctx context.Context, id string) (models.Recipe, error) {
	return Get(ctx, r.cache, "recipes/"+id, constants.TagRecipes, func(ctx context.Context) (models.Recipe, error) {
		return r.api.GetRecipe(ctx, id)
	})
}

func (r *Repository) CreateRecipe(ctx context.Context, in api.RecipeInput) (models.Recipe, error) {
	recipe, err := r.api.CreateRecipe(ctx, in)
	if err != nil {
		return models.Recipe{}, err
	}
	r.cache.Invalidate(constants.TagRecipes)
	return recipe, nil
}

// DeleteRecipe also drops cached meals, which embed their recipes.
func (r *Repository) DeleteRecipe(ctx context.Context, id string) error {
	if err := r.api.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	r.cache.Invalidate(constants.TagRecipes, constants.TagMeals)
	return nil
}

func (r *Repository) Meals(ctx context.Context) ([]models.Meal, error) {
	return Get(ctx, r.cache, "meals", constants.TagMeals, r.api.ListMeals)
}

func (r *Repository) Meal(ctx context.Context, id string) (models.Meal, error) {
	return Get(ctx, r.cache, "meals/"+id, constants.TagMeals, func(ctx context.Context) (models.Meal, error) {
		return r.api.GetMeal(ctx, id)
	})
}

func (r *Repository) CreateMeal(ctx context.Context, in api.MealInput) (models.Meal, error) {
	meal, err := r.api.CreateMeal(ctx, in)
	if err != nil {
		return models.Meal{}, err
	}
	r.cache.Invalidate(constants.TagMeals)
	return meal, nil
}

func (r *Repository) DeleteMeal(ctx context.Context, id string) error {
	if err := r.api.DeleteMeal(ctx, id); err != nil {
		return err
	}
	r.cache.Invalidate(constants.TagMeals)
	return nil
}

// Todos lists todos, optionally for a single YYYY-MM-DD date.
func (r *Repository) Todos(ctx context.Context, date string) ([]models.Todo, error) {
	key := "todos"
	if date != "" {
		key += "?date=" + date
	}
	return Get(ctx, r.cache, key, constants.TagTodos, func(ctx context.Context) ([]models.Todo, error) {
		return r.api.ListTodos(ctx, date)
	})
}

func (r *Repository) CreateTodo(ctx context.Context, in api.TodoInput) (models.Todo, error) {
	todo, err := r.api.CreateTodo(ctx, in)
	if err != nil {
		return models.Todo{}, err
	}
	r.cache.Invalidate(constants.TagTodos)
	return todo, nil
}

func (r *Repository) SetTodoCompleted(ctx context.Context, id string, completed bool) (models.Todo, error) {
	todo, err := r.api.SetTodoCompleted(ctx, id, completed)
	if err != nil {
		return models.Todo{}, err
	}
	r.cache.Invalidate(constants.TagTodos)
	return todo, nil
}

func (r *Repository) DeleteTodo(ctx context.Context, id string) error {
	if err := r.api.DeleteTodo(ctx, id); err != nil {
		return err
	}
	r.cache.Invalidate(constants.TagTodos)
	return nil
}

// CreateHabit submits a habit batch. The server materializes todos for the
// habit, so cached todos are dropped.
func (r *Repository) CreateHabit(ctx context.Context, req models.HabitBatchRequest) (models.HabitBatchResult, error) {
	result, err := r.api.CreateHabitBatch(ctx, req)
	if err != nil {
		return models.HabitBatchResult{}, err
	}
	r.cache.Invalidate(constants.TagTodos)
	return result, nil
}

// Refresh drops the cached reads for tags, or for every resource when none
// are given.
func (r *Repository) Refresh(tags ...string) {
	if len(tags) == 0 {
		tags = []string{constants.TagFoodItems, constants.TagRecipes, constants.TagMeals, constants.TagTodos}
	}
	r.cache.Invalidate(tags...)
}

var _ API = (*api.Client)(nil)
