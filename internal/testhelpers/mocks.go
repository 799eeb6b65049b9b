// Package testhelpers provides shared test utilities for the review-risk service.
package testhelpers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vitasana/review-risk/internal/domain"
)

// ErrReviewNotFound is returned when a review is not in the fake store.
var ErrReviewNotFound = errors.New("review not found")

// ScriptedClassifier implements the pipeline's Classifier interface.
// Each review ID can be scripted with a fixed sequence of outcomes;
// successive calls for the same ID consume the sequence in order, and
// the last outcome repeats once exhausted.
type ScriptedClassifier struct {
	mu       sync.Mutex
	outcomes map[int64][]Outcome
	calls    map[int64]int
	total    int
}

// Outcome is one scripted classification result.
type Outcome struct {
	Verdict domain.Verdict
	Err     error
}

// NewScriptedClassifier creates an empty scripted classifier. Reviews
// without a script succeed with a fixed low-risk verdict.
func NewScriptedClassifier() *ScriptedClassifier {
	return &ScriptedClassifier{
		outcomes: make(map[int64][]Outcome),
		calls:    make(map[int64]int),
	}
}

// Script sets the outcome sequence for a review ID.
func (c *ScriptedClassifier) Script(reviewID int64, outcomes ...Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes[reviewID] = outcomes
}

// Classify returns the next scripted outcome for the review.
func (c *ScriptedClassifier) Classify(_ context.Context, review *domain.Review) (domain.Verdict, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++

	seq, ok := c.outcomes[review.ID]
	if !ok || len(seq) == 0 {
		return domain.Verdict{
			ReviewID: review.ID,
			Score:    10,
			Category: domain.CategoryBasso,
			Reasons:  []string{"nessun segnale di rischio"},
		}, nil
	}

	idx := c.calls[review.ID]
	if idx >= len(seq) {
		idx = len(seq) - 1
	}
	c.calls[review.ID]++

	out := seq[idx]
	return out.Verdict, out.Err
}

// Calls returns how many times the given review was classified.
func (c *ScriptedClassifier) Calls(reviewID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[reviewID]
}

// TotalCalls returns the number of Classify invocations across all reviews.
func (c *ScriptedClassifier) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// FakeReviewStore implements the API's ReviewStore over an in-memory slice.
type FakeReviewStore struct {
	mu      sync.RWMutex
	reviews []*domain.Review
}

// NewFakeReviewStore creates a store seeded with the given reviews.
func NewFakeReviewStore(reviews ...*domain.Review) *FakeReviewStore {
	return &FakeReviewStore{reviews: reviews}
}

// ListAll returns up to limit reviews starting at offset.
func (s *FakeReviewStore) ListAll(_ context.Context, limit, offset int) ([]*domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if offset >= len(s.reviews) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.reviews) {
		end = len(s.reviews)
	}
	return s.reviews[offset:end], nil
}

// ListByCondition returns reviews matching the condition label.
func (s *FakeReviewStore) ListByCondition(_ context.Context, conditionLabel string) ([]*domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Review
	for _, r := range s.reviews {
		if r.ConditionLabel == conditionLabel {
			out = append(out, r)
		}
	}
	return out, nil
}

// MarkReviewed stamps the review with the given time.
func (s *FakeReviewStore) MarkReviewed(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.ID == id {
			r.ReviewedAt = &at
			return nil
		}
	}
	return ErrReviewNotFound
}

// NewReview builds a review with sensible defaults for tests.
func NewReview(id int64, title, experience string) *domain.Review {
	author := "Maria R."
	return &domain.Review{
		ID:             id,
		Title:          title,
		Experience:     experience,
		AuthorName:     &author,
		ConditionLabel: "emicrania",
		CreatedAt:      time.Now().AddDate(0, 0, -10),
		Likes:          3,
		Comments:       1,
	}
}
