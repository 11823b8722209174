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

// PostRepository implements repository.PostRepository using PostgreSQL.
type PostRepository struct {
	pool database.DBTX
}

// NewPostRepository creates a new PostgreSQL-backed post repository.
func NewPostRepository(pool database.DBTX) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `id, title, description, images, type, created_at, updated_at`

// Create inserts a new post.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	query := `
		INSERT INTO posts (id, title, description, images, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.Images,
		p.Type,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its ID.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var p domain.Post

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Images,
		&p.Type,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("post", id)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &p, nil
}

// List returns posts matching the filter, newest first. A zero Since means no
// recency cutoff.
func (r *PostRepository) List(ctx context.Context, f repository.PostFilter) ([]domain.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE ($1 = '' OR type = $1)
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		ORDER BY created_at DESC`

	var since *time.Time
	if !f.Since.IsZero() {
		since = &f.Since
	}

	rows, err := r.pool.Query(ctx, query, string(f.Type), since)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post

	for rows.Next() {
		var p domain.Post

		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.Images,
			&p.Type,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}

		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post rows: %w", err)
	}

	if posts == nil {
		posts = []domain.Post{}
	}

	return posts, nil
}

// CountByType tallies posts per type in one scan.
func (r *PostRepository) CountByType(ctx context.Context) (*domain.PostTypeCounts, error) {
	query := `SELECT type, count(*) FROM posts GROUP BY type`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count posts by type: %w", err)
	}
	defer rows.Close()

	var counts domain.PostTypeCounts

	for rows.Next() {
		var (
			t domain.PostType
			n int
		)
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan post count row: %w", err)
		}

		counts.All += n
		switch t {
		case domain.PostTypeDeal:
			counts.Deal = n
		case domain.PostTypeNewOpening:
			counts.NewOpening = n
		case domain.PostTypeDiscount:
			counts.Discount = n
		case domain.PostTypeEvent:
			counts.Event = n
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post count rows: %w", err)
	}

	return &counts, nil
}

// Update modifies an existing post.
func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE posts
		SET title = $1, description = $2, images = $3, type = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.pool.Exec(ctx, query,
		p.Title,
		p.Description,
		p.Images,
		p.Type,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("post", p.ID)
	}

	return nil
}

// Delete removes a post.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("post", id)
	}

	return nil
}
