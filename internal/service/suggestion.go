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

// CreateSuggestionInput holds the parameters for creating a suggestion.
type CreateSuggestionInput struct {
	Title          string
	Content        string
	Type           domain.SuggestionType
	RestaurantName string
	FoodItem       string
	Images         []string
	UserIdentifier string
	UserName       string
	UserEmail      string
}

// UpdateSuggestionInput holds the parameters for updating a suggestion.
// Images, when non-nil, replace the stored set wholesale.
type UpdateSuggestionInput struct {
	Title          string
	Content        string
	Type           domain.SuggestionType
	RestaurantName string
	FoodItem       string
	Images         []string
}

// SuggestionListResult is a page of suggestions annotated for the caller.
type SuggestionListResult struct {
	Suggestions []domain.AnnotatedSuggestion `json:"suggestions"`
	TotalCount  int                          `json:"total_count"`
	Page        int                          `json:"page"`
	PerPage     int                          `json:"per_page"`
	TotalPages  int                          `json:"total_pages"`
}

// SuggestionService implements the business logic for suggestions and their
// reactions.
type SuggestionService struct {
	suggestions repository.SuggestionRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewSuggestionService creates a new suggestion service.
func NewSuggestionService(
	suggestions repository.SuggestionRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *SuggestionService {
	return &SuggestionService{
		suggestions: suggestions,
		producer:    producer,
		logger:      logger,
	}
}

// CreateSuggestion validates and stores a new suggestion.
func (s *SuggestionService) CreateSuggestion(ctx context.Context, input *CreateSuggestionInput) (*domain.Suggestion, error) {
	if input.UserIdentifier == "" {
		return nil, apperrors.InvalidInput("user identity is required")
	}
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Content == "" {
		return nil, apperrors.InvalidInput("content is required")
	}
	if !domain.ValidSuggestionType(input.Type) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("type must be one of suggestion, complaint, request; got %q", input.Type))
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now().UTC()
	suggestion := &domain.Suggestion{
		ID:             uuid.New().String(),
		Title:          input.Title,
		Content:        input.Content,
		Type:           input.Type,
		RestaurantName: input.RestaurantName,
		FoodItem:       input.FoodItem,
		Images:         images,
		UserIdentifier: input.UserIdentifier,
		UserName:       input.UserName,
		UserEmail:      input.UserEmail,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.suggestions.Create(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("create suggestion: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishSuggestionCreated(ctx, suggestion); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish suggestion.created event",
				slog.String("suggestion_id", suggestion.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "suggestion created",
		slog.String("suggestion_id", suggestion.ID),
		slog.String("type", string(suggestion.Type)),
	)

	return suggestion, nil
}

// ListSuggestions returns a filtered page of suggestions, each annotated with
// the caller's reaction and edit permission.
func (s *SuggestionService) ListSuggestions(ctx context.Context, f repository.SuggestionFilter, userIdentifier string) (*SuggestionListResult, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
	if f.Type != "" && !domain.ValidSuggestionType(f.Type) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown suggestion type %q", f.Type))
	}

	suggestions, total, err := s.suggestions.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}

	annotated, err := s.annotate(ctx, suggestions, userIdentifier)
	if err != nil {
		return nil, err
	}

	totalPages := total / f.PerPage
	if total%f.PerPage > 0 {
		totalPages++
	}

	return &SuggestionListResult{
		Suggestions: annotated,
		TotalCount:  total,
		Page:        f.Page,
		PerPage:     f.PerPage,
		TotalPages:  totalPages,
	}, nil
}

// ListMine returns the caller's own suggestions, annotated.
func (s *SuggestionService) ListMine(ctx context.Context, userIdentifier string) ([]domain.AnnotatedSuggestion, error) {
	if userIdentifier == "" {
		return nil, apperrors.InvalidInput("user identity is required")
	}

	suggestions, err := s.suggestions.ListByUser(ctx, userIdentifier)
	if err != nil {
		return nil, fmt.Errorf("list own suggestions: %w", err)
	}

	return s.annotate(ctx, suggestions, userIdentifier)
}

// UpdateSuggestion modifies a suggestion after verifying the caller owns it.
func (s *SuggestionService) UpdateSuggestion(ctx context.Context, id, userIdentifier string, input *UpdateSuggestionInput) (*domain.Suggestion, error) {
	suggestion, err := s.suggestions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if suggestion.UserIdentifier != userIdentifier {
		return nil, apperrors.Forbidden("you can only edit your own suggestions")
	}

	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Content == "" {
		return nil, apperrors.InvalidInput("content is required")
	}
	if !domain.ValidSuggestionType(input.Type) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("type must be one of suggestion, complaint, request; got %q", input.Type))
	}

	suggestion.Title = input.Title
	suggestion.Content = input.Content
	suggestion.Type = input.Type
	suggestion.RestaurantName = input.RestaurantName
	suggestion.FoodItem = input.FoodItem
	if input.Images != nil {
		suggestion.Images = input.Images
	}

	if err := s.suggestions.Update(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("update suggestion: %w", err)
	}

	s.logger.InfoContext(ctx, "suggestion updated",
		slog.String("suggestion_id", suggestion.ID),
	)

	return suggestion, nil
}

// DeleteSuggestion removes a suggestion after verifying the caller owns it.
func (s *SuggestionService) DeleteSuggestion(ctx context.Context, id, userIdentifier string) error {
	suggestion, err := s.suggestions.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if suggestion.UserIdentifier != userIdentifier {
		return apperrors.Forbidden("you can only delete your own suggestions")
	}

	if err := s.suggestions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete suggestion: %w", err)
	}

	s.logger.InfoContext(ctx, "suggestion deleted",
		slog.String("suggestion_id", id),
	)

	return nil
}

// ToggleReaction applies the reaction state machine for the caller and
// returns the authoritative result. The toggle, the transition, and the
// counter recomputation happen in one repository transaction; the returned
// counters are what any client must reconcile to.
func (s *SuggestionService) ToggleReaction(ctx context.Context, suggestionID, userIdentifier string, action domain.ReactionType) (*domain.ReactionResult, error) {
	if userIdentifier == "" {
		return nil, apperrors.InvalidInput("user identity is required")
	}
	if !domain.ValidReactionAction(action) {
		return nil, apperrors.InvalidInput(`reaction type must be "like" or "dislike"`)
	}

	result, err := s.suggestions.ToggleReaction(ctx, suggestionID, userIdentifier, action)
	if err != nil {
		return nil, err
	}

	if s.producer != nil {
		if err := s.producer.PublishReactionToggled(ctx, suggestionID, result); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish reaction.toggled event",
				slog.String("suggestion_id", suggestionID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "reaction toggled",
		slog.String("suggestion_id", suggestionID),
		slog.String("reaction", string(result.Reaction)),
		slog.Int("likes", result.Likes),
		slog.Int("dislikes", result.Dislikes),
	)

	return result, nil
}

// annotate attaches the caller's reaction and edit permission to each row.
func (s *SuggestionService) annotate(ctx context.Context, suggestions []domain.Suggestion, userIdentifier string) ([]domain.AnnotatedSuggestion, error) {
	annotated := make([]domain.AnnotatedSuggestion, 0, len(suggestions))

	var reactions map[string]domain.ReactionType
	if userIdentifier != "" && len(suggestions) > 0 {
		ids := make([]string, len(suggestions))
		for i, sg := range suggestions {
			ids[i] = sg.ID
		}

		var err error
		reactions, err = s.suggestions.GetReactions(ctx, ids, userIdentifier)
		if err != nil {
			return nil, fmt.Errorf("get caller reactions: %w", err)
		}
	}

	for _, sg := range suggestions {
		annotated = append(annotated, domain.AnnotatedSuggestion{
			Suggestion:   sg,
			UserReaction: reactions[sg.ID],
			CanEdit:      userIdentifier != "" && sg.UserIdentifier == userIdentifier,
		})
	}

	return annotated, nil
}
