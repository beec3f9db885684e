package models

import "time"

// FoodItem is a pantry item tracked by the remote API
type FoodItem struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity"`
	Unit      string     `json:"unit,omitempty"`
	ExpiresOn string     `json:"expiresOn,omitempty"` // YYYY-MM-DD format
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
