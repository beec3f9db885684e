package foods

import (
	"fmt"
	"strings"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/validation"
)

type FoodCmd struct {
	List   FoodListCmd   `cmd:"" help:"List food items." default:"1"`
	Show   FoodShowCmd   `cmd:"" help:"Show a food item."`
	Add    FoodAddCmd    `cmd:"" help:"Add a food item."`
	Edit   FoodEditCmd   `cmd:"" help:"Edit a food item."`
	Delete FoodDeleteCmd `cmd:"" help:"Delete a food item."`
}

type FoodListCmd struct {
	ShowIDs bool `help:"Show food item IDs." name:"show-ids"`
}

func (c *FoodListCmd) Run(ctx *cli.Context) error {
	items, err := ctx.Repo.FoodItems(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to list food items: %w", err)
	}
	if len(items) == 0 {
		ctx.Println("No food items found")
		return nil
	}

	ctx.Println("Food items:")
	for _, item := range items {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", item.ID)
		}
		ctx.Printf("  %s%s - %s\n", item.Name, idStr, formatQuantity(item.Quantity, item.Unit))
		if item.ExpiresOn != "" {
			ctx.Printf("      Expires: %s\n", item.ExpiresOn)
		}
	}
	return nil
}

type FoodShowCmd struct {
	ID string `arg:"" help:"Food item ID."`
}

func (c *FoodShowCmd) Run(ctx *cli.Context) error {
	item, err := ctx.Repo.FoodItem(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find food item with ID %s: %w", c.ID, err)
	}
	ctx.Printf("%s (ID: %s)\n", item.Name, item.ID)
	ctx.Printf("  Quantity: %s\n", formatQuantity(item.Quantity, item.Unit))
	if item.ExpiresOn != "" {
		ctx.Printf("  Expires:  %s\n", item.ExpiresOn)
	}
	return nil
}

type FoodAddCmd struct {
	Name     string  `arg:"" help:"Food item name."`
	Quantity float64 `help:"Quantity on hand." default:"1"`
	Unit     string  `help:"Unit of the quantity, e.g. kg or pcs."`
	Expires  string  `help:"Expiry date (YYYY-MM-DD)."`
}

func (c *FoodAddCmd) Validate() error {
	if err := validation.NotEmpty("name")(c.Name); err != nil {
		return err
	}
	if c.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if c.Expires != "" {
		return validation.Date(c.Expires)
	}
	return nil
}

func (c *FoodAddCmd) Run(ctx *cli.Context) error {
	item, err := ctx.Repo.CreateFoodItem(ctx.Ctx, api.FoodItemInput{
		Name:      strings.TrimSpace(c.Name),
		Quantity:  c.Quantity,
		Unit:      c.Unit,
		ExpiresOn: c.Expires,
	})
	if err != nil {
		return fmt.Errorf("failed to add food item: %w", err)
	}
	ctx.Printf("Added food item: %s (ID: %s)\n", item.Name, item.ID)
	return nil
}

type FoodEditCmd struct {
	ID       string   `arg:"" help:"Food item ID."`
	Name     *string  `help:"New name."`
	Quantity *float64 `help:"New quantity."`
	Unit     *string  `help:"New unit."`
	Expires  *string  `help:"New expiry date (YYYY-MM-DD), empty to clear."`
}

func (c *FoodEditCmd) Validate() error {
	if c.Name != nil {
		if err := validation.NotEmpty("name")(*c.Name); err != nil {
			return err
		}
	}
	if c.Quantity != nil && *c.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if c.Expires != nil && *c.Expires != "" {
		return validation.Date(*c.Expires)
	}
	return nil
}

func (c *FoodEditCmd) Run(ctx *cli.Context) error {
	item, err := ctx.Repo.FoodItem(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find food item with ID %s: %w", c.ID, err)
	}

	in := api.FoodItemInput{
		Name:      item.Name,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		ExpiresOn: item.ExpiresOn,
	}
	updated := false
	if c.Name != nil {
		in.Name = strings.TrimSpace(*c.Name)
		updated = true
	}
	if c.Quantity != nil {
		in.Quantity = *c.Quantity
		updated = true
	}
	if c.Unit != nil {
		in.Unit = *c.Unit
		updated = true
	}
	if c.Expires != nil {
		in.ExpiresOn = *c.Expires
		updated = true
	}
	if !updated {
		ctx.Println("No changes specified.")
		return nil
	}

	item, err = ctx.Repo.UpdateFoodItem(ctx.Ctx, c.ID, in)
	if err != nil {
		return fmt.Errorf("failed to update food item: %w", err)
	}
	ctx.Printf("Updated food item: %s (ID: %s)\n", item.Name, item.ID)
	return nil
}

type FoodDeleteCmd struct {
	ID string `arg:"" help:"Food item ID to delete."`
}

func (c *FoodDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Repo.DeleteFoodItem(ctx.Ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete food item: %w", err)
	}
	ctx.Printf("Deleted food item (ID: %s)\n", c.ID)
	return nil
}

func formatQuantity(q float64, unit string) string {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", q), "0"), ".")
	if unit == "" {
		return s
	}
	return s + " " + unit
}
