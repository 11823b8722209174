package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/event"
	"github.com/Aneezakiran07/foodmaps/internal/repository"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

// PostInput holds the fields an admin supplies when creating or updating a
// "what's hot" post.
type PostInput struct {
	Title       string
	Description string
	Type        domain.PostType
	Images      []string
}

// PostService implements the business logic for "what's hot" posts.
type PostService struct {
	posts    repository.PostRepository
	producer *event.Producer
	logger   *slog.Logger

	// nowFunc is injectable so recency-window tests can pin the clock.
	nowFunc func() time.Time
}

// NewPostService creates a new post service.
func NewPostService(
	posts repository.PostRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		producer: producer,
		logger:   logger,
		nowFunc:  time.Now,
	}
}

func validatePostInput(input *PostInput) error {
	if input.Title == "" {
		return apperrors.InvalidInput("title is required")
	}
	if input.Description == "" {
		return apperrors.InvalidInput("description is required")
	}
	if !domain.ValidPostType(input.Type) {
		return apperrors.InvalidInput(`post type must be "deal", "new_opening", "discount", or "event"`)
	}
	if len(input.Images) > domain.MaxPostImages {
		return apperrors.InvalidInput(fmt.Sprintf("at most %d images are allowed", domain.MaxPostImages))
	}
	return nil
}

// CreatePost validates and stores a new post.
func (s *PostService) CreatePost(ctx context.Context, input *PostInput) (*domain.Post, error) {
	if err := validatePostInput(input); err != nil {
		return nil, err
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	now := s.nowFunc().UTC()
	post := &domain.Post{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Images:      images,
		Type:        input.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishPostCreated(ctx, post); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish post.created event",
				slog.String("post_id", post.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "post created",
		slog.String("post_id", post.ID),
		slog.String("type", string(post.Type)),
	)

	return post, nil
}

// ListPosts returns posts newest first, optionally filtered by type and
// restricted to the recent window.
func (s *PostService) ListPosts(ctx context.Context, postType domain.PostType, recentOnly bool) ([]domain.Post, error) {
	if postType != "" && !domain.ValidPostType(postType) {
		return nil, apperrors.InvalidInput(`post type must be "deal", "new_opening", "discount", or "event"`)
	}

	filter := repository.PostFilter{Type: postType}
	if recentOnly {
		filter.Since = s.nowFunc().UTC().Add(-domain.RecentPostWindow)
	}

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

// GetPost retrieves a single post.
func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// CountsByType tallies posts per type for the listing filter badges.
func (s *PostService) CountsByType(ctx context.Context) (*domain.PostTypeCounts, error) {
	counts, err := s.posts.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	return counts, nil
}

// UpdatePost validates and overwrites an existing post's fields.
func (s *PostService) UpdatePost(ctx context.Context, id string, input *PostInput) (*domain.Post, error) {
	if err := validatePostInput(input); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = input.Title
	post.Description = input.Description
	post.Type = input.Type
	if input.Images != nil {
		post.Images = input.Images
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	return post, nil
}

// DeletePost removes a post.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "post deleted", slog.String("post_id", id))

	return nil
}
