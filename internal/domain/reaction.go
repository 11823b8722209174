package domain

import (
	"time"
)

// ReactionType is the kind of reaction a user holds on a suggestion.
// The empty string means no reaction.
type ReactionType string

const (
	ReactionNone    ReactionType = ""
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// ValidReactionAction reports whether t is an action a caller may submit.
// ReactionNone is a state, not an action.
func ValidReactionAction(t ReactionType) bool {
	return t == ReactionLike || t == ReactionDislike
}

// Reaction represents one user's reaction to one suggestion. At most one row
// exists per (suggestion, user) pair.
type Reaction struct {
	SuggestionID   string       `json:"suggestion_id"`
	UserIdentifier string       `json:"-"`
	Type           ReactionType `json:"type"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// ReactionCounts holds the like/dislike tallies for a suggestion.
type ReactionCounts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// Transition computes the next reaction state for a toggle action: pressing
// the reaction you already hold removes it, pressing the other one flips it,
// pressing from the empty state sets it. Applying the same action twice from
// any state always returns to that state.
func Transition(current, action ReactionType) ReactionType {
	if current == action {
		return ReactionNone
	}
	return action
}

// Apply returns the counts after transitioning from current via action.
// Counts never go below zero even if the inputs are inconsistent.
func (c ReactionCounts) Apply(current, action ReactionType) ReactionCounts {
	next := Transition(current, action)

	switch current {
	case ReactionLike:
		c.Likes--
	case ReactionDislike:
		c.Dislikes--
	}
	switch next {
	case ReactionLike:
		c.Likes++
	case ReactionDislike:
		c.Dislikes++
	}

	if c.Likes < 0 {
		c.Likes = 0
	}
	if c.Dislikes < 0 {
		c.Dislikes = 0
	}
	return c
}

// ReactionResult is the authoritative outcome of a toggle: the caller's
// resulting reaction (empty when removed) and the derived counters.
type ReactionResult struct {
	Reaction ReactionType `json:"reaction_type"`
	Likes    int          `json:"likes"`
	Dislikes int          `json:"dislikes"`
}
