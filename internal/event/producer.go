package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	pkgkafka "github.com/Aneezakiran07/foodmaps/pkg/kafka"
)

// Kafka topic constants for domain events.
const (
	TopicRatingSubmitted   = "foodmaps.rating.submitted"
	TopicReviewUpserted    = "foodmaps.review.upserted"
	TopicReviewDeleted     = "foodmaps.review.deleted"
	TopicReactionToggled   = "foodmaps.reaction.toggled"
	TopicSuggestionCreated = "foodmaps.suggestion.created"
	TopicPostCreated       = "foodmaps.post.created"
	TopicMediaUploaded     = "foodmaps.media.uploaded"
	TopicMediaDeleted      = "foodmaps.media.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeRating     = "rating"
	AggregateTypeReview     = "review"
	AggregateTypeSuggestion = "suggestion"
	AggregateTypePost       = "post"
	AggregateTypeMedia      = "media"
)

// Source identifier for events originating from this service.
const Source = "foodmaps-api"

// RatingSubmittedData is the payload for a rating.submitted event.
type RatingSubmittedData struct {
	RestaurantID int64   `json:"restaurant_id"`
	Rating       float64 `json:"rating"`
	Average      float64 `json:"average"`
	Count        int     `json:"count"`
}

// ReviewUpsertedData is the payload for a review.upserted event.
type ReviewUpsertedData struct {
	ID           string `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Inserted     bool   `json:"inserted"`
	ImageCount   int    `json:"image_count"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	ID           string `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
}

// ReactionToggledData is the payload for a reaction.toggled event.
type ReactionToggledData struct {
	SuggestionID string `json:"suggestion_id"`
	Reaction     string `json:"reaction"`
	Likes        int    `json:"likes"`
	Dislikes     int    `json:"dislikes"`
}

// SuggestionCreatedData is the payload for a suggestion.created event.
type SuggestionCreatedData struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// PostCreatedData is the payload for a post.created event.
type PostCreatedData struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// MediaUploadedData is the payload for a media.uploaded event.
type MediaUploadedData struct {
	ID          string `json:"id"`
	OwnerType   string `json:"owner_type"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

// MediaDeletedData is the payload for a media.deleted event.
type MediaDeletedData struct {
	ID string `json:"id"`
}

// Producer publishes domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new domain event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishRatingSubmitted publishes a rating.submitted event carrying the fresh
// aggregate so consumers never need to recompute it.
func (p *Producer) PublishRatingSubmitted(ctx context.Context, rating *domain.Rating, summary *domain.RatingSummary) error {
	data := RatingSubmittedData{
		RestaurantID: rating.RestaurantID,
		Rating:       rating.Rating,
		Average:      summary.Average,
		Count:        summary.Count,
	}

	return p.publish(ctx, TopicRatingSubmitted, rating.ID, AggregateTypeRating, data)
}

// PublishReviewUpserted publishes a review.upserted event.
func (p *Producer) PublishReviewUpserted(ctx context.Context, review *domain.Review, inserted bool) error {
	data := ReviewUpsertedData{
		ID:           review.ID,
		RestaurantID: review.RestaurantID,
		Inserted:     inserted,
		ImageCount:   len(review.Images),
	}

	return p.publish(ctx, TopicReviewUpserted, review.ID, AggregateTypeReview, data)
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, id string, restaurantID int64) error {
	data := ReviewDeletedData{ID: id, RestaurantID: restaurantID}

	return p.publish(ctx, TopicReviewDeleted, id, AggregateTypeReview, data)
}

// PublishReactionToggled publishes a reaction.toggled event with the
// authoritative counters.
func (p *Producer) PublishReactionToggled(ctx context.Context, suggestionID string, result *domain.ReactionResult) error {
	data := ReactionToggledData{
		SuggestionID: suggestionID,
		Reaction:     string(result.Reaction),
		Likes:        result.Likes,
		Dislikes:     result.Dislikes,
	}

	return p.publish(ctx, TopicReactionToggled, suggestionID, AggregateTypeSuggestion, data)
}

// PublishSuggestionCreated publishes a suggestion.created event.
func (p *Producer) PublishSuggestionCreated(ctx context.Context, s *domain.Suggestion) error {
	data := SuggestionCreatedData{ID: s.ID, Type: string(s.Type)}

	return p.publish(ctx, TopicSuggestionCreated, s.ID, AggregateTypeSuggestion, data)
}

// PublishPostCreated publishes a post.created event.
func (p *Producer) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	data := PostCreatedData{ID: post.ID, Type: string(post.Type)}

	return p.publish(ctx, TopicPostCreated, post.ID, AggregateTypePost, data)
}

// PublishMediaUploaded publishes a media.uploaded event.
func (p *Producer) PublishMediaUploaded(ctx context.Context, media *domain.MediaFile) error {
	data := MediaUploadedData{
		ID:          media.ID,
		OwnerType:   media.OwnerType,
		ContentType: media.ContentType,
		Size:        media.Size,
		URL:         media.URL,
	}

	return p.publish(ctx, TopicMediaUploaded, media.ID, AggregateTypeMedia, data)
}

// PublishMediaDeleted publishes a media.deleted event.
func (p *Producer) PublishMediaDeleted(ctx context.Context, id string) error {
	data := MediaDeletedData{ID: id}

	return p.publish(ctx, TopicMediaDeleted, id, AggregateTypeMedia, data)
}

// publish wraps payloads in the standard event envelope and sends them.
func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
