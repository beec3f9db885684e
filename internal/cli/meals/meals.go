package meals

import (
	"fmt"
	"strings"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/cli/recipes"
	"github.com/flowday/flowday/internal/validation"
)

type MealCmd struct {
	List   MealListCmd   `cmd:"" help:"List meals." default:"1"`
	Show   MealShowCmd   `cmd:"" help:"Show a meal with its recipes."`
	Add    MealAddCmd    `cmd:"" help:"Add a meal from existing recipes."`
	Delete MealDeleteCmd `cmd:"" help:"Delete a meal."`
}

type MealListCmd struct {
	ShowIDs bool `help:"Show meal IDs." name:"show-ids"`
}

func (c *MealListCmd) Run(ctx *cli.Context) error {
	meals, err := ctx.Repo.Meals(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to list meals: %w", err)
	}
	if len(meals) == 0 {
		ctx.Println("No meals found")
		return nil
	}

	ctx.Println("Meals:")
	for _, m := range meals {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", m.ID)
		}
		ctx.Printf("  %s%s - %d recipe(s), %d step(s)\n", m.Name, idStr, len(m.Recipes), len(m.Instructions()))
	}
	return nil
}

type MealShowCmd struct {
	ID string `arg:"" help:"Meal ID."`
}

func (c *MealShowCmd) Run(ctx *cli.Context) error {
	meal, err := ctx.Repo.Meal(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find meal with ID %s: %w", c.ID, err)
	}

	ctx.Printf("%s (ID: %s)\n", meal.Name, meal.ID)
	if meal.Description != "" {
		ctx.Printf("  %s\n", meal.Description)
	}
	for _, r := range meal.Recipes {
		recipes.PrintRecipe(ctx, r, "  ")
	}

	steps := meal.Instructions()
	if len(steps) > 0 {
		ctx.Println("  Habit steps (use with habit create --step N=...):")
		for i, s := range steps {
			ctx.Printf("    %d. %s\n", i+1, s.Text)
		}
	}
	return nil
}

type MealAddCmd struct {
	Name        string   `arg:"" help:"Meal name."`
	Description string   `help:"Short description."`
	Recipe      []string `help:"Recipe ID, repeatable." name:"recipe" short:"r" required:""`
}

func (c *MealAddCmd) Validate() error {
	if err := validation.NotEmpty("name")(c.Name); err != nil {
		return err
	}
	for _, id := range c.Recipe {
		if err := validation.NotEmpty("recipe")(id); err != nil {
			return err
		}
	}
	return nil
}

func (c *MealAddCmd) Run(ctx *cli.Context) error {
	meal, err := ctx.Repo.CreateMeal(ctx.Ctx, api.MealInput{
		Name:        strings.TrimSpace(c.Name),
		Description: c.Description,
		RecipeIDs:   c.Recipe,
	})
	if err != nil {
		return fmt.Errorf("failed to add meal: %w", err)
	}
	ctx.Printf("Added meal: %s (ID: %s)\n", meal.Name, meal.ID)
	return nil
}

type MealDeleteCmd struct {
	ID string `arg:"" help:"Meal ID to delete."`
}

func (c *MealDeleteCmd) Run(ctx *cli.Context) error {
	meal, err := ctx.Repo.Meal(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find meal with ID %s: %w", c.ID, err)
	}
	if err := ctx.Repo.DeleteMeal(ctx.Ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	ctx.Printf("Deleted meal: %s (ID: %s)\n", meal.Name, c.ID)
	return nil
}
