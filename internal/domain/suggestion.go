package domain

import (
	"time"
)

// SuggestionType enumerates the kinds of community submissions.
type SuggestionType string

const (
	SuggestionTypeSuggestion SuggestionType = "suggestion"
	SuggestionTypeComplaint  SuggestionType = "complaint"
	SuggestionTypeRequest    SuggestionType = "request"
)

// ValidSuggestionType reports whether t is a known suggestion type.
func ValidSuggestionType(t SuggestionType) bool {
	switch t {
	case SuggestionTypeSuggestion, SuggestionTypeComplaint, SuggestionTypeRequest:
		return true
	}
	return false
}

// Suggestion represents a community suggestion, complaint, or request.
// LikeCount and DislikeCount are derived from suggestion_reactions rows and
// recomputed inside the reaction toggle transaction, never incremented blind.
type Suggestion struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	Type           SuggestionType `json:"type"`
	RestaurantName string         `json:"restaurant_name,omitempty"`
	FoodItem       string         `json:"food_item,omitempty"`
	Images         []string       `json:"images"`
	UserIdentifier string         `json:"-"`
	UserName       string         `json:"user_name,omitempty"`
	UserEmail      string         `json:"-"`
	LikeCount      int            `json:"like_count"`
	DislikeCount   int            `json:"dislike_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// AnnotatedSuggestion is a suggestion enriched with caller-specific fields.
type AnnotatedSuggestion struct {
	Suggestion
	UserReaction ReactionType `json:"user_reaction,omitempty"`
	CanEdit      bool         `json:"can_edit"`
}
