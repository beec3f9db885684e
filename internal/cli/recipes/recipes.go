package recipes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/validation"
)

type RecipeCmd struct {
	List   RecipeListCmd   `cmd:"" help:"List recipes." default:"1"`
	Show   RecipeShowCmd   `cmd:"" help:"Show a recipe with its ingredients and steps."`
	Add    RecipeAddCmd    `cmd:"" help:"Add a recipe."`
	Delete RecipeDeleteCmd `cmd:"" help:"Delete a recipe."`
}

type RecipeListCmd struct {
	ShowIDs bool `help:"Show recipe IDs." name:"show-ids"`
}

func (c *RecipeListCmd) Run(ctx *cli.Context) error {
	recipes, err := ctx.Repo.Recipes(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to list recipes: %w", err)
	}
	if len(recipes) == 0 {
		ctx.Println("No recipes found")
		return nil
	}

	ctx.Println("Recipes:")
	for _, r := range recipes {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", r.ID)
		}
		ctx.Printf("  %s%s - %d step(s)\n", r.Name, idStr, len(r.Instructions))
	}
	return nil
}

type RecipeShowCmd struct {
	ID string `arg:"" help:"Recipe ID."`
}

func (c *RecipeShowCmd) Run(ctx *cli.Context) error {
	recipe, err := ctx.Repo.Recipe(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find recipe with ID %s: %w", c.ID, err)
	}
	PrintRecipe(ctx, recipe, "")
	return nil
}

// PrintRecipe writes a recipe with its ingredients and steps, each line
// prefixed by indent.
func PrintRecipe(ctx *cli.Context, r models.Recipe, indent string) {
	ctx.Printf("%s%s (ID: %s)\n", indent, r.Name, r.ID)
	if r.Description != "" {
		ctx.Printf("%s  %s\n", indent, r.Description)
	}
	if r.Servings > 0 {
		ctx.Printf("%s  Servings: %d\n", indent, r.Servings)
	}
	if len(r.Ingredients) > 0 {
		ctx.Printf("%s  Ingredients:\n", indent)
		for _, in := range r.Ingredients {
			ctx.Printf("%s    - %s %s %s\n", indent, strconv.FormatFloat(in.Quantity, 'f', -1, 64), in.Unit, in.Name)
		}
	}
	if len(r.Instructions) > 0 {
		ctx.Printf("%s  Steps:\n", indent)
		for _, step := range r.Instructions {
			ctx.Printf("%s    %d. %s\n", indent, step.Step, step.Text)
		}
	}
}

type RecipeAddCmd struct {
	Name        string   `arg:"" help:"Recipe name."`
	Description string   `help:"Short description."`
	Servings    int      `help:"Number of servings."`
	Ingredient  []string `help:"Ingredient as 'quantity unit name', repeatable." name:"ingredient" short:"i"`
	Step        []string `help:"Instruction text, repeatable, in order." name:"step" short:"s"`
}

func (c *RecipeAddCmd) Validate() error {
	if err := validation.NotEmpty("name")(c.Name); err != nil {
		return err
	}
	if c.Servings < 0 {
		return fmt.Errorf("servings cannot be negative")
	}
	for _, raw := range c.Ingredient {
		if _, err := ParseIngredient(raw); err != nil {
			return err
		}
	}
	return nil
}

func (c *RecipeAddCmd) Run(ctx *cli.Context) error {
	in := api.RecipeInput{
		Name:         strings.TrimSpace(c.Name),
		Description:  c.Description,
		Servings:     c.Servings,
		Instructions: c.Step,
	}
	for _, raw := range c.Ingredient {
		ing, _ := ParseIngredient(raw)
		in.Ingredients = append(in.Ingredients, ing)
	}

	recipe, err := ctx.Repo.CreateRecipe(ctx.Ctx, in)
	if err != nil {
		return fmt.Errorf("failed to add recipe: %w", err)
	}
	ctx.Printf("Added recipe: %s (ID: %s) with %d step(s)\n", recipe.Name, recipe.ID, len(recipe.Instructions))
	return nil
}

// ParseIngredient parses "quantity unit name", e.g. "200 g rice". The unit
// may be omitted: "2 eggs".
func ParseIngredient(s string) (models.Ingredient, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return models.Ingredient{}, fmt.Errorf("invalid ingredient %q, expected 'quantity [unit] name'", s)
	}
	qty, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || qty < 0 {
		return models.Ingredient{}, fmt.Errorf("invalid quantity in ingredient %q", s)
	}
	if len(fields) == 2 {
		return models.Ingredient{Quantity: qty, Name: fields[1]}, nil
	}
	return models.Ingredient{Quantity: qty, Unit: fields[1], Name: strings.Join(fields[2:], " ")}, nil
}

type RecipeDeleteCmd struct {
	ID string `arg:"" help:"Recipe ID to delete."`
}

func (c *RecipeDeleteCmd) Run(ctx *cli.Context) error {
	recipe, err := ctx.Repo.Recipe(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find recipe with ID %s: %w", c.ID, err)
	}
	if err := ctx.Repo.DeleteRecipe(ctx.Ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	ctx.Printf("Deleted recipe: %s (ID: %s)\n", recipe.Name, c.ID)
	return nil
}
