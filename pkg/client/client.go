// Package client is a small Go client for the FoodMaps HTTP API. It carries
// the caller's device identity on every request and keeps an optimistic local
// view of reaction state, reconciled against the counts the server returns.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/reconcile"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
	"github.com/Aneezakiran07/foodmaps/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// RatingView mirrors the rating read payload returned by the API.
type RatingView struct {
	Summary    domain.RatingSummary `json:"summary"`
	UserRating *float64             `json:"user_rating"`
}

// Client calls the FoodMaps API on behalf of a single device identity.
// It is safe for concurrent use.
type Client struct {
	baseURL   string
	deviceID  string
	http      HTTPDoer
	reactions *reconcile.Reconciler
}

// New creates a client for the API at baseURL, identifying as deviceID.
func New(baseURL, deviceID string, doer HTTPDoer) *Client {
	return &Client{
		baseURL:   baseURL,
		deviceID:  deviceID,
		http:      doer,
		reactions: reconcile.New(),
	}
}

// envelope is the standard response wrapper the API emits.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Device-ID", c.deviceID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call foodmaps: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return httpclient.ParseResponseError(resp, "foodmaps")
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// GetRatings returns the rating aggregate for a restaurant along with this
// device's own rating, if any.
func (c *Client) GetRatings(ctx context.Context, restaurantID int64) (*RatingView, error) {
	var view RatingView
	path := fmt.Sprintf("/api/v1/restaurants/%d/ratings", restaurantID)
	if err := c.do(ctx, http.MethodGet, path, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// SubmitRating submits or overwrites this device's rating for a restaurant
// and returns the refreshed aggregate.
func (c *Client) SubmitRating(ctx context.Context, restaurantID int64, value float64) (*RatingView, error) {
	var view RatingView
	path := fmt.Sprintf("/api/v1/restaurants/%d/ratings", restaurantID)
	body := map[string]float64{"rating": value}
	if err := c.do(ctx, http.MethodPost, path, body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// SeedReactions installs authoritative reaction state from a listing response
// so later toggles start from the counts the server reported.
func (c *Client) SeedReactions(suggestions []domain.AnnotatedSuggestion) {
	for i := range suggestions {
		s := &suggestions[i]
		c.reactions.Seed(s.ID, s.UserReaction, domain.ReactionCounts{
			Likes:    s.LikeCount,
			Dislikes: s.DislikeCount,
		})
	}
}

// ReactionState returns the locally tracked reaction state for a suggestion.
// While a toggle is awaiting its server result, this is the optimistic view.
func (c *Client) ReactionState(suggestionID string) (reconcile.State, bool) {
	return c.reactions.Current(suggestionID)
}

// ToggleReaction applies the predicted outcome of the toggle locally, sends
// the mutation, and reconciles with the server's counts. The returned state is
// authoritative on success and rolled back to the pre-toggle view on failure.
// A second toggle for the same suggestion while one is in flight is rejected
// without touching local state or the network.
func (c *Client) ToggleReaction(ctx context.Context, suggestionID string, action domain.ReactionType) (reconcile.State, error) {
	state, ok := c.reactions.Begin(suggestionID, action)
	if !ok {
		return state, apperrors.Conflict("a reaction toggle for this suggestion is already in flight")
	}

	var result domain.ReactionResult
	path := "/api/v1/suggestions/" + suggestionID + "/reactions"
	body := map[string]string{"reaction_type": string(action)}
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return c.reactions.Fail(suggestionID), err
	}
	return c.reactions.Confirm(suggestionID, &result), nil
}
