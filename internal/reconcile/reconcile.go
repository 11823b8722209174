// Package reconcile keeps an optimistic local view of reaction state in sync
// with authoritative server results. Callers apply the expected outcome of a
// toggle immediately, then confirm or roll back when the server answers.
// The server result always wins over the optimistic prediction.
package reconcile

import (
	"sync"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
)

// State is the locally tracked view of one suggestion's reactions.
type State struct {
	Reaction domain.ReactionType   `json:"reaction"`
	Counts   domain.ReactionCounts `json:"counts"`

	// InFlight is set while a toggle is awaiting its server result.
	InFlight bool `json:"in_flight"`
}

type entry struct {
	current   State
	savedAt   State
	hasUpdate bool
}

// Reconciler tracks optimistic reaction state per suggestion. It is safe for
// concurrent use.
type Reconciler struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty reconciler.
func New() *Reconciler {
	return &Reconciler{entries: make(map[string]*entry)}
}

// Seed installs the authoritative state for a suggestion, replacing anything
// tracked so far. Used when a listing response arrives.
func (r *Reconciler) Seed(suggestionID string, reaction domain.ReactionType, counts domain.ReactionCounts) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[suggestionID] = &entry{
		current: State{Reaction: reaction, Counts: counts},
	}
}

// Begin applies the predicted outcome of a toggle before the server answers.
// It returns the optimistic state and false when another toggle for the same
// suggestion is still in flight, in which case nothing changes.
func (r *Reconciler) Begin(suggestionID string, action domain.ReactionType) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[suggestionID]
	if !ok {
		e = &entry{}
		r.entries[suggestionID] = e
	}

	if e.current.InFlight {
		return e.current, false
	}

	e.savedAt = e.current
	e.hasUpdate = true

	next := domain.Transition(e.current.Reaction, action)
	e.current = State{
		Reaction: next,
		Counts:   e.current.Counts.Apply(e.current.Reaction, next),
		InFlight: true,
	}

	return e.current, true
}

// Confirm replaces the optimistic state with the authoritative server result.
func (r *Reconciler) Confirm(suggestionID string, result *domain.ReactionResult) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[suggestionID]
	if !ok {
		e = &entry{}
		r.entries[suggestionID] = e
	}

	e.current = State{
		Reaction: result.Reaction,
		Counts: domain.ReactionCounts{
			Likes:    result.Likes,
			Dislikes: result.Dislikes,
		},
	}
	e.hasUpdate = false

	return e.current
}

// Fail rolls the state back to what it was before the failed toggle began.
func (r *Reconciler) Fail(suggestionID string) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[suggestionID]
	if !ok {
		return State{}
	}

	if e.hasUpdate {
		e.current = e.savedAt
		e.hasUpdate = false
	}
	e.current.InFlight = false

	return e.current
}

// Cancel drops tracking for a suggestion. Any server result that arrives
// afterwards for it should be ignored by the caller.
func (r *Reconciler) Cancel(suggestionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, suggestionID)
}

// Current returns the tracked state for a suggestion.
func (r *Reconciler) Current(suggestionID string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[suggestionID]
	if !ok {
		return State{}, false
	}
	return e.current, true
}
