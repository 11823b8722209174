package repository

import (
	"context"
	"time"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
)

// RestaurantRepository defines persistence operations for restaurants.
type RestaurantRepository interface {
	// Create inserts a new restaurant and fills in its generated ID.
	Create(ctx context.Context, r *domain.Restaurant) error

	// GetByID retrieves a restaurant by ID. Inactive restaurants are included.
	GetByID(ctx context.Context, id int64) (*domain.Restaurant, error)

	// ListActive returns all active restaurants ordered by name.
	ListActive(ctx context.Context) ([]domain.Restaurant, error)

	// TopRated returns active restaurants with average rating >= minAverage,
	// ordered by average descending, up to limit.
	TopRated(ctx context.Context, minAverage float64, limit int) ([]domain.RestaurantWithStats, error)

	// Update modifies an existing restaurant.
	Update(ctx context.Context, r *domain.Restaurant) error

	// Deactivate marks a restaurant inactive. It is not a hard delete.
	Deactivate(ctx context.Context, id int64) error
}

// RatingRepository defines persistence operations for ratings.
type RatingRepository interface {
	// Upsert atomically inserts or overwrites the rating for
	// (restaurant, device) in a single statement.
	Upsert(ctx context.Context, rating *domain.Rating) error

	// GetByDevice returns the caller's rating for a restaurant, or NotFound.
	GetByDevice(ctx context.Context, restaurantID int64, deviceID string) (*domain.Rating, error)

	// Summary computes the aggregate rating statistics for a restaurant
	// directly from the stored rows.
	Summary(ctx context.Context, restaurantID int64) (*domain.RatingSummary, error)
}

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Upsert atomically inserts or overwrites the review for
	// (restaurant, device) in a single statement. It reports whether the
	// row was newly inserted.
	Upsert(ctx context.Context, review *domain.Review) (inserted bool, err error)

	// GetByDevice returns the caller's review for a restaurant, or NotFound.
	GetByDevice(ctx context.Context, restaurantID int64, deviceID string) (*domain.Review, error)

	// ListByRestaurant returns reviews for a restaurant, newest first.
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.Review, error)

	// ListRecent returns the most recent reviews across all restaurants.
	ListRecent(ctx context.Context, limit int) ([]domain.Review, error)

	// CountCreatedSince counts reviews authored by the identity with
	// created_at >= since. Used for the daily quota.
	CountCreatedSince(ctx context.Context, deviceID string, since time.Time) (int, error)

	// Delete removes the caller's review. Returns NotFound when absent.
	Delete(ctx context.Context, restaurantID int64, deviceID string) error
}

// SuggestionRepository defines persistence operations for suggestions and
// their reactions.
type SuggestionRepository interface {
	// Create inserts a new suggestion.
	Create(ctx context.Context, s *domain.Suggestion) error

	// GetByID retrieves a suggestion by ID, or NotFound.
	GetByID(ctx context.Context, id string) (*domain.Suggestion, error)

	// List returns a filtered, paginated page of suggestions plus the total
	// count. Filter fields that are empty are ignored.
	List(ctx context.Context, f SuggestionFilter) ([]domain.Suggestion, int, error)

	// ListByUser returns all suggestions created by the given identity,
	// newest first.
	ListByUser(ctx context.Context, userIdentifier string) ([]domain.Suggestion, error)

	// Update modifies an existing suggestion.
	Update(ctx context.Context, s *domain.Suggestion) error

	// Delete removes a suggestion and its reactions.
	Delete(ctx context.Context, id string) error

	// ToggleReaction applies the reaction state machine for
	// (suggestion, user) atomically and returns the caller's resulting
	// reaction together with counters derived inside the same transaction.
	ToggleReaction(ctx context.Context, suggestionID, userIdentifier string, action domain.ReactionType) (*domain.ReactionResult, error)

	// GetReactions returns the given user's reactions for a set of
	// suggestions, keyed by suggestion ID.
	GetReactions(ctx context.Context, suggestionIDs []string, userIdentifier string) (map[string]domain.ReactionType, error)
}

// SuggestionFilter holds list filtering and pagination parameters.
type SuggestionFilter struct {
	Type    domain.SuggestionType
	Search  string
	Page    int
	PerPage int
}

// PostFilter holds list filtering parameters for posts. Zero-value fields
// are ignored.
type PostFilter struct {
	Type  domain.PostType
	Since time.Time
}

// PostRepository defines persistence operations for "what's hot" posts.
type PostRepository interface {
	// Create inserts a new post.
	Create(ctx context.Context, p *domain.Post) error

	// GetByID retrieves a post by ID, or NotFound.
	GetByID(ctx context.Context, id string) (*domain.Post, error)

	// List returns posts matching the filter, newest first.
	List(ctx context.Context, f PostFilter) ([]domain.Post, error)

	// CountByType tallies posts per type.
	CountByType(ctx context.Context) (*domain.PostTypeCounts, error)

	// Update modifies an existing post.
	Update(ctx context.Context, p *domain.Post) error

	// Delete removes a post.
	Delete(ctx context.Context, id string) error
}

// MediaRepository defines persistence operations for the upload ledger.
type MediaRepository interface {
	// Create inserts a new media file record.
	Create(ctx context.Context, media *domain.MediaFile) error

	// GetByID retrieves a media file by ID, or NotFound.
	GetByID(ctx context.Context, id string) (*domain.MediaFile, error)

	// Delete removes a media file record.
	Delete(ctx context.Context, id string) error
}

// StatsCache caches per-restaurant rating summaries. A cache miss returns
// (nil, nil); errors are reserved for transport failures.
type StatsCache interface {
	Get(ctx context.Context, restaurantID int64) (*domain.RatingSummary, error)
	Set(ctx context.Context, restaurantID int64, summary *domain.RatingSummary) error
	Invalidate(ctx context.Context, restaurantID int64) error
}
