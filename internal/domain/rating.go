package domain

import (
	"math"
	"time"
)

// Rating bounds. Values outside [MinRating, MaxRating] are rejected, never clamped.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Rating represents a single anonymous rating of a restaurant. At most one
// rating exists per (restaurant, device) pair; resubmission overwrites it.
type Rating struct {
	ID           string    `json:"id"`
	RestaurantID int64     `json:"restaurant_id"`
	DeviceID     string    `json:"device_id"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RatingSummary contains the aggregate rating statistics for a restaurant.
// Average is always derived from the stored ratings, rounded to one decimal.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// RoundHalfStep rounds a rating to the nearest 0.5 step (3.3 -> 3.5, 3.2 -> 3.0).
func RoundHalfStep(v float64) float64 {
	return math.Round(v*2) / 2
}

// ValidRating reports whether v is within the accepted rating range.
func ValidRating(v float64) bool {
	return v >= MinRating && v <= MaxRating
}
