package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vitasana/review-risk/internal/domain"
)

// ErrReviewNotFound is returned when a review id does not exist.
var ErrReviewNotFound = errors.New("review not found")

const reviewColumns = `
	r.id, r.title, r.experience_text, r.symptoms_text, r.author_name,
	c.label AS condition_label, r.created_at, r.likes_count, r.comments_count, r.reviewed_at
`

// ReviewsRepository reads review records for analysis and records
// moderation outcomes. Scores themselves are never persisted; they are
// recomputed on demand.
type ReviewsRepository struct {
	db *sqlx.DB
}

// NewReviewsRepository creates a reviews repository.
func NewReviewsRepository(db *sqlx.DB) *ReviewsRepository {
	return &ReviewsRepository{db: db}
}

// GetByID retrieves a single review.
func (r *ReviewsRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var review domain.Review
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews r
		JOIN conditions c ON c.id = r.condition_id
		WHERE r.id = $1
	`

	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrReviewNotFound, id)
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

// ListByIDs retrieves reviews by id, preserving the requested order.
// Unknown ids are skipped.
func (r *ReviewsRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Review, error) {
	if len(ids) == 0 {
		return []*domain.Review{}, nil
	}

	var reviews []*domain.Review
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews r
		JOIN conditions c ON c.id = r.condition_id
		WHERE r.id = ANY($1)
	`

	if err := r.db.SelectContext(ctx, &reviews, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to list reviews by ids: %w", err)
	}

	byID := make(map[int64]*domain.Review, len(reviews))
	for _, review := range reviews {
		byID[review.ID] = review
	}
	ordered := make([]*domain.Review, 0, len(reviews))
	for _, id := range ids {
		if review, ok := byID[id]; ok {
			ordered = append(ordered, review)
		}
	}
	return ordered, nil
}

// ListAll retrieves reviews page by page, newest first.
func (r *ReviewsRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Review, error) {
	var reviews []*domain.Review
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews r
		JOIN conditions c ON c.id = r.condition_id
		ORDER BY r.created_at DESC
		LIMIT $1 OFFSET $2
	`

	if err := r.db.SelectContext(ctx, &reviews, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ListByCondition retrieves all reviews for one condition.
func (r *ReviewsRepository) ListByCondition(ctx context.Context, conditionLabel string) ([]*domain.Review, error) {
	var reviews []*domain.Review
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews r
		JOIN conditions c ON c.id = r.condition_id
		WHERE c.label = $1
		ORDER BY r.created_at DESC
	`

	if err := r.db.SelectContext(ctx, &reviews, query, conditionLabel); err != nil {
		return nil, fmt.Errorf("failed to list reviews by condition: %w", err)
	}
	return reviews, nil
}

// MarkReviewed records that a moderator re-analyzed the review.
func (r *ReviewsRepository) MarkReviewed(ctx context.Context, id int64, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET reviewed_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark review: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %d", ErrReviewNotFound, id)
	}
	return nil
}
