package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/repository"
	"github.com/Aneezakiran07/foodmaps/pkg/database"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

// SuggestionRepository implements repository.SuggestionRepository using PostgreSQL.
type SuggestionRepository struct {
	pool database.DBTX
}

// NewSuggestionRepository creates a new PostgreSQL-backed suggestion repository.
func NewSuggestionRepository(pool database.DBTX) *SuggestionRepository {
	return &SuggestionRepository{pool: pool}
}

const suggestionColumns = `id, title, content, type, restaurant_name, food_item, images, user_identifier, user_name, user_email, like_count, dislike_count, created_at, updated_at`

// Create inserts a new suggestion.
func (r *SuggestionRepository) Create(ctx context.Context, s *domain.Suggestion) error {
	query := `
		INSERT INTO suggestions (id, title, content, type, restaurant_name, food_item, images, user_identifier, user_name, user_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.Title,
		s.Content,
		s.Type,
		s.RestaurantName,
		s.FoodItem,
		s.Images,
		s.UserIdentifier,
		s.UserName,
		s.UserEmail,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert suggestion: %w", err)
	}

	return nil
}

// GetByID retrieves a suggestion by its ID.
func (r *SuggestionRepository) GetByID(ctx context.Context, id string) (*domain.Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM suggestions WHERE id = $1`

	var s domain.Suggestion

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Title,
		&s.Content,
		&s.Type,
		&s.RestaurantName,
		&s.FoodItem,
		&s.Images,
		&s.UserIdentifier,
		&s.UserName,
		&s.UserEmail,
		&s.LikeCount,
		&s.DislikeCount,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("suggestion", id)
		}
		return nil, fmt.Errorf("get suggestion: %w", err)
	}

	return &s, nil
}

// List returns a filtered, paginated page of suggestions with the total count.
// The search term matches title, content, restaurant name, and food item.
func (r *SuggestionRepository) List(ctx context.Context, f repository.SuggestionFilter) ([]domain.Suggestion, int, error) {
	limit := f.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if f.Page > 1 {
		offset = (f.Page - 1) * limit
	}

	query := `
		SELECT ` + suggestionColumns + `,
		       count(*) OVER() AS total_count
		FROM suggestions
		WHERE ($1 = '' OR type = $1)
		  AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%'
		       OR restaurant_name ILIKE '%' || $2 || '%' OR food_item ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, string(f.Type), f.Search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var (
		suggestions []domain.Suggestion
		totalCount  int
	)

	for rows.Next() {
		var s domain.Suggestion

		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Content,
			&s.Type,
			&s.RestaurantName,
			&s.FoodItem,
			&s.Images,
			&s.UserIdentifier,
			&s.UserName,
			&s.UserEmail,
			&s.LikeCount,
			&s.DislikeCount,
			&s.CreatedAt,
			&s.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan suggestion row: %w", err)
		}

		suggestions = append(suggestions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate suggestion rows: %w", err)
	}

	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}

	return suggestions, totalCount, nil
}

// ListByUser returns all suggestions created by the given identity, newest first.
func (r *SuggestionRepository) ListByUser(ctx context.Context, userIdentifier string) ([]domain.Suggestion, error) {
	query := `
		SELECT ` + suggestionColumns + `
		FROM suggestions
		WHERE user_identifier = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userIdentifier)
	if err != nil {
		return nil, fmt.Errorf("list suggestions by user: %w", err)
	}
	defer rows.Close()

	var suggestions []domain.Suggestion

	for rows.Next() {
		var s domain.Suggestion

		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Content,
			&s.Type,
			&s.RestaurantName,
			&s.FoodItem,
			&s.Images,
			&s.UserIdentifier,
			&s.UserName,
			&s.UserEmail,
			&s.LikeCount,
			&s.DislikeCount,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan suggestion row: %w", err)
		}

		suggestions = append(suggestions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestion rows: %w", err)
	}

	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}

	return suggestions, nil
}

// Update modifies the caller-editable fields of a suggestion.
func (r *SuggestionRepository) Update(ctx context.Context, s *domain.Suggestion) error {
	s.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE suggestions
		SET title = $1, content = $2, type = $3, restaurant_name = $4, food_item = $5, images = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.pool.Exec(ctx, query,
		s.Title,
		s.Content,
		s.Type,
		s.RestaurantName,
		s.FoodItem,
		s.Images,
		s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("update suggestion: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("suggestion", s.ID)
	}

	return nil
}

// Delete removes a suggestion; its reactions go with it via ON DELETE CASCADE.
func (r *SuggestionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM suggestions WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete suggestion: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("suggestion", id)
	}

	return nil
}

// ToggleReaction applies the reaction state machine for (suggestion, user) in
// a single transaction. The caller's current reaction row is locked, the
// transition is applied (same action removes, different action flips, absent
// inserts), and both counters are recomputed from the reaction rows before
// commit, so the stored tallies always equal the real counts.
func (r *SuggestionRepository) ToggleReaction(ctx context.Context, suggestionID, userIdentifier string, action domain.ReactionType) (*domain.ReactionResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin toggle reaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Confirm the suggestion exists before touching reactions.
	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM suggestions WHERE id = $1)`, suggestionID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check suggestion: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("suggestion", suggestionID)
	}

	// Lock the caller's current reaction row, if any, so concurrent toggles
	// from the same identity serialize.
	current := domain.ReactionNone
	err = tx.QueryRow(ctx, `
		SELECT reaction_type FROM suggestion_reactions
		WHERE suggestion_id = $1 AND user_identifier = $2
		FOR UPDATE`,
		suggestionID, userIdentifier,
	).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lock reaction: %w", err)
	}

	next := domain.Transition(current, action)

	switch {
	case next == domain.ReactionNone:
		_, err = tx.Exec(ctx, `
			DELETE FROM suggestion_reactions
			WHERE suggestion_id = $1 AND user_identifier = $2`,
			suggestionID, userIdentifier,
		)
	case current == domain.ReactionNone:
		// ON CONFLICT guards the race where two first-time toggles for the
		// same pair land concurrently: the composite key admits one row.
		_, err = tx.Exec(ctx, `
			INSERT INTO suggestion_reactions (suggestion_id, user_identifier, reaction_type, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (suggestion_id, user_identifier)
			DO UPDATE SET reaction_type = EXCLUDED.reaction_type, updated_at = NOW()`,
			suggestionID, userIdentifier, next,
		)
	default:
		_, err = tx.Exec(ctx, `
			UPDATE suggestion_reactions
			SET reaction_type = $3, updated_at = NOW()
			WHERE suggestion_id = $1 AND user_identifier = $2`,
			suggestionID, userIdentifier, next,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("apply reaction transition: %w", err)
	}

	// Derive the counters from the reaction rows inside the same transaction.
	result := &domain.ReactionResult{Reaction: next}
	err = tx.QueryRow(ctx, `
		UPDATE suggestions
		SET like_count = (SELECT COUNT(*) FROM suggestion_reactions WHERE suggestion_id = $1 AND reaction_type = 'like'),
		    dislike_count = (SELECT COUNT(*) FROM suggestion_reactions WHERE suggestion_id = $1 AND reaction_type = 'dislike'),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING like_count, dislike_count`,
		suggestionID,
	).Scan(&result.Likes, &result.Dislikes)
	if err != nil {
		return nil, fmt.Errorf("recompute reaction counts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit toggle reaction: %w", err)
	}

	return result, nil
}

// GetReactions returns the user's reactions for the given suggestions, keyed
// by suggestion ID. Suggestions without a reaction are absent from the map.
func (r *SuggestionRepository) GetReactions(ctx context.Context, suggestionIDs []string, userIdentifier string) (map[string]domain.ReactionType, error) {
	reactions := make(map[string]domain.ReactionType, len(suggestionIDs))
	if len(suggestionIDs) == 0 {
		return reactions, nil
	}

	query := `
		SELECT suggestion_id, reaction_type
		FROM suggestion_reactions
		WHERE suggestion_id = ANY($1) AND user_identifier = $2`

	rows, err := r.pool.Query(ctx, query, suggestionIDs, userIdentifier)
	if err != nil {
		return nil, fmt.Errorf("get reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id string
			rt domain.ReactionType
		)
		if err := rows.Scan(&id, &rt); err != nil {
			return nil, fmt.Errorf("scan reaction row: %w", err)
		}
		reactions[id] = rt
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reaction rows: %w", err)
	}

	return reactions, nil
}
