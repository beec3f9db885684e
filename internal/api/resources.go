package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/models"
)

// FoodItemInput is the body for creating or updating a food item.
type FoodItemInput struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit,omitempty"`
	ExpiresOn string  `json:"expiresOn,omitempty"`
}

func (c *Client) ListFoodItems(ctx context.Context) ([]models.FoodItem, error) {
	var items []models.FoodItem
	err := c.do(ctx, request{method: http.MethodGet, path: constants.PathFoodItems}, &items)
	return items, err
}

func (c *Client) GetFoodItem(ctx context.Context, id string) (models.FoodItem, error) {
	var item models.FoodItem
	err := c.do(ctx, request{method: http.MethodGet, path: resourcePath(constants.PathFoodItems, id)}, &item)
	return item, err
}

func (c *Client) CreateFoodItem(ctx context.Context, in FoodItemInput) (models.FoodItem, error) {
	var item models.FoodItem
	err := c.do(ctx, request{method: http.MethodPost, path: constants.PathFoodItems, body: in}, &item)
	return item, err
}

func (c *Client) UpdateFoodItem(ctx context.Context, id string, in FoodItemInput) (models.FoodItem, error) {
	var item models.FoodItem
	err := c.do(ctx, request{method: http.MethodPut, path: resourcePath(constants.PathFoodItems, id), body: in}, &item)
	return item, err
}

func (c *Client) DeleteFoodItem(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: resourcePath(constants.PathFoodItems, id)}, nil)
}

// RecipeInput is the body for creating a recipe.
type RecipeInput struct {
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	Servings     int                 `json:"servings,omitempty"`
	Ingredients  []models.Ingredient `json:"ingredients,omitempty"`
	Instructions []string            `json:"instructions,omitempty"`
}

func (c *Client) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := c.do(ctx, request{method: http.MethodGet, path: constants.PathRecipes}, &recipes)
	return recipes, err
}

func (c *Client) GetRecipe(ctx context.Context, id string) (models.Recipe, error) {
	var recipe models.Recipe
	err := c.do(ctx, request{method: http.MethodGet, path: resourcePath(constants.PathRecipes, id)}, &recipe)
	return recipe, err
}

func (c *Client) CreateRecipe(ctx context.Context, in RecipeInput) (models.Recipe, error) {
	var recipe models.Recipe
	err := c.do(ctx, request{method: http.MethodPost, path: constants.PathRecipes, body: in}, &recipe)
	return recipe, err
}

func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: resourcePath(constants.PathRecipes, id)}, nil)
}

// MealInput is the body for creating a meal from existing recipes.
type MealInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	RecipeIDs   []string `json:"recipeIds"`
}

func (c *Client) ListMeals(ctx context.Context) ([]models.Meal, error) {
	var meals []models.Meal
	err := c.do(ctx, request{method: http.MethodGet, path: constants.PathMeals}, &meals)
	return meals, err
}

// GetMeal returns a meal with its recipes and their instructions.
func (c *Client) GetMeal(ctx context.Context, id string) (models.Meal, error) {
	var meal models.Meal
	err := c.do(ctx, request{method: http.MethodGet, path: resourcePath(constants.PathMeals, id)}, &meal)
	return meal, err
}

func (c *Client) CreateMeal(ctx context.Context, in MealInput) (models.Meal, error) {
	var meal models.Meal
	err := c.do(ctx, request{method: http.MethodPost, path: constants.PathMeals, body: in}, &meal)
	return meal, err
}

func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: resourcePath(constants.PathMeals, id)}, nil)
}

// TodoInput is the body for creating a todo.
type TodoInput struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time,omitempty"`
}

// ListTodos lists todos, optionally restricted to one day (YYYY-MM-DD).
func (c *Client) ListTodos(ctx context.Context, date string) ([]models.Todo, error) {
	var query url.Values
	if date != "" {
		query = url.Values{"date": {date}}
	}
	var todos []models.Todo
	err := c.do(ctx, request{method: http.MethodGet, path: constants.PathTodos, query: query}, &todos)
	return todos, err
}

func (c *Client) CreateTodo(ctx context.Context, in TodoInput) (models.Todo, error) {
	var todo models.Todo
	err := c.do(ctx, request{method: http.MethodPost, path: constants.PathTodos, body: in}, &todo)
	return todo, err
}

func (c *Client) SetTodoCompleted(ctx context.Context, id string, completed bool) (models.Todo, error) {
	body := struct {
		Completed bool `json:"completed"`
	}{completed}
	var todo models.Todo
	err := c.do(ctx, request{method: http.MethodPatch, path: resourcePath(constants.PathTodos, id), body: body}, &todo)
	return todo, err
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: resourcePath(constants.PathTodos, id)}, nil)
}
