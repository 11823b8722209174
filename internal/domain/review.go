package domain

import (
	"time"
)

// Review limits enforced by the service layer.
const (
	MaxReviewImages  = 5
	MaxCommentLength = 2000
	DailyReviewQuota = 5
)

// DefaultReviewerName is used when the author leaves the name field empty.
const DefaultReviewerName = "Anonymous"

// Review represents an anonymous restaurant review. At most one review exists
// per (restaurant, device) pair; resubmission overwrites it.
type Review struct {
	ID           string    `json:"id"`
	RestaurantID int64     `json:"restaurant_id"`
	DeviceID     string    `json:"-"`
	ReviewerName string    `json:"reviewer_name"`
	Comment      string    `json:"comment"`
	Images       []string  `json:"images"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasContent reports whether the review carries a comment or at least one image.
// Reviews with neither are rejected.
func (r *Review) HasContent() bool {
	return r.Comment != "" || len(r.Images) > 0
}
