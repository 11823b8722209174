package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
	"github.com/Aneezakiran07/foodmaps/pkg/httpclient"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	doer := httpclient.New(httpclient.Config{Timeout: 2 * time.Second})
	return New(srv.URL, "device_test_1", doer)
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func TestSubmitRating_ReturnsAggregate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/restaurants/42/ratings", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "device_test_1", r.Header.Get("X-Device-ID"))

		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 4.5, body["rating"])

		own := 4.5
		writeData(w, RatingView{
			Summary:    domain.RatingSummary{Average: 4.25, Count: 2},
			UserRating: &own,
		})
	})

	c := newTestClient(t, mux)
	view, err := c.SubmitRating(context.Background(), 42, 4.5)

	require.NoError(t, err)
	assert.Equal(t, 4.25, view.Summary.Average)
	assert.Equal(t, 2, view.Summary.Count)
	require.NotNil(t, view.UserRating)
	assert.Equal(t, 4.5, *view.UserRating)
}

func TestGetRatings_PropagatesAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/restaurants/99/ratings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "NOT_FOUND", "message": "restaurant not found"},
		})
	})

	c := newTestClient(t, mux)
	_, err := c.GetRatings(context.Background(), 99)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestToggleReaction_ServerCountsWin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/suggestions/s1/reactions", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "like", body["reaction_type"])

		// Another device liked in the meantime, so the counts differ from
		// the caller's optimistic prediction.
		writeData(w, domain.ReactionResult{Reaction: domain.ReactionLike, Likes: 5, Dislikes: 1})
	})

	c := newTestClient(t, mux)
	c.reactions.Seed("s1", domain.ReactionNone, domain.ReactionCounts{Likes: 2, Dislikes: 1})

	state, err := c.ToggleReaction(context.Background(), "s1", domain.ReactionLike)

	require.NoError(t, err)
	assert.Equal(t, domain.ReactionLike, state.Reaction)
	assert.Equal(t, 5, state.Counts.Likes)
	assert.Equal(t, 1, state.Counts.Dislikes)
	assert.False(t, state.InFlight)
}

func TestToggleReaction_FailureRollsBack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/suggestions/s1/reactions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "VALIDATION_ERROR", "message": "invalid reaction"},
		})
	})

	c := newTestClient(t, mux)
	c.reactions.Seed("s1", domain.ReactionLike, domain.ReactionCounts{Likes: 3, Dislikes: 0})

	state, err := c.ToggleReaction(context.Background(), "s1", domain.ReactionDislike)

	require.Error(t, err)
	assert.Equal(t, domain.ReactionLike, state.Reaction)
	assert.Equal(t, 3, state.Counts.Likes)
	assert.Equal(t, 0, state.Counts.Dislikes)
	assert.False(t, state.InFlight)
}

func TestToggleReaction_RejectsConcurrentToggle(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/suggestions/s1/reactions", func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		writeData(w, domain.ReactionResult{Reaction: domain.ReactionLike, Likes: 1, Dislikes: 0})
	})

	c := newTestClient(t, mux)
	c.reactions.Seed("s1", domain.ReactionNone, domain.ReactionCounts{})

	done := make(chan error, 1)
	go func() {
		_, err := c.ToggleReaction(context.Background(), "s1", domain.ReactionLike)
		done <- err
	}()

	<-arrived
	_, err := c.ToggleReaction(context.Background(), "s1", domain.ReactionDislike)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// The in-flight view is the optimistic one.
	state, ok := c.ReactionState("s1")
	require.True(t, ok)
	assert.True(t, state.InFlight)
	assert.Equal(t, 1, state.Counts.Likes)

	close(release)
	require.NoError(t, <-done)
}

func TestSeedReactions(t *testing.T) {
	c := New("http://localhost", "device_test_1", nil)

	c.SeedReactions([]domain.AnnotatedSuggestion{
		{
			Suggestion:   domain.Suggestion{ID: "s1", LikeCount: 4, DislikeCount: 2},
			UserReaction: domain.ReactionDislike,
		},
	})

	state, ok := c.ReactionState("s1")
	require.True(t, ok)
	assert.Equal(t, domain.ReactionDislike, state.Reaction)
	assert.Equal(t, 4, state.Counts.Likes)
	assert.Equal(t, 2, state.Counts.Dislikes)
}
