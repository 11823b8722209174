package domain

import (
	"time"
)

// PostType enumerates the kinds of "what's hot" posts.
type PostType string

const (
	PostTypeDeal       PostType = "deal"
	PostTypeNewOpening PostType = "new_opening"
	PostTypeDiscount   PostType = "discount"
	PostTypeEvent      PostType = "event"
)

// ValidPostType reports whether t is a known post type.
func ValidPostType(t PostType) bool {
	switch t {
	case PostTypeDeal, PostTypeNewOpening, PostTypeDiscount, PostTypeEvent:
		return true
	}
	return false
}

// RecentPostWindow is how far back the recent-posts listing reaches.
const RecentPostWindow = 7 * 24 * time.Hour

// MaxPostImages caps the number of images attached to a post.
const MaxPostImages = 5

// Post is an editorial "what's hot" entry: a deal, a new opening, a discount,
// or an event. Posts are written by admins and read-only to everyone else.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Type        PostType  `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostTypeCounts holds per-type post tallies for the listing filter badges.
type PostTypeCounts struct {
	All        int `json:"all"`
	Deal       int `json:"deal"`
	NewOpening int `json:"new_opening"`
	Discount   int `json:"discount"`
	Event      int `json:"event"`
}
