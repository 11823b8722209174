package domain

import (
	"time"
)

// Restaurant represents a listed restaurant.
type Restaurant struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RestaurantWithStats pairs a restaurant with its rating summary for listings.
type RestaurantWithStats struct {
	Restaurant
	Stats RatingSummary `json:"stats"`
}
