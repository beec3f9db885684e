package models

// Recipe is a named list of ingredients and ordered instructions
type Recipe struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Servings     int           `json:"servings,omitempty"`
	PrepTimeMin  int           `json:"prepTimeMin,omitempty"`
	Ingredients  []Ingredient  `json:"ingredients,omitempty"`
	Instructions []Instruction `json:"instructions,omitempty"`
}

type Ingredient struct {
	FoodItemID string  `json:"foodItemId,omitempty"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit,omitempty"`
}

// Instruction is one step of a recipe. ID is empty until the server has
// materialized the step.
type Instruction struct {
	ID   string `json:"id,omitempty"`
	Step int    `json:"step"`
	Text string `json:"text"`
}
