// Package domain defines the core types shared by the scoring engine,
// the AI classification pipeline, and the report assembler.
package domain

import "time"

// Review represents a user-submitted health-condition review.
// This is the unit of analysis for both heuristic scorers and the AI pipeline.
type Review struct {
	ID             int64      `db:"id"              json:"id"`
	Title          string     `db:"title"           json:"title"`
	Experience     string     `db:"experience_text" json:"experience_text"`
	Symptoms       string     `db:"symptoms_text"   json:"symptoms_text,omitempty"`
	AuthorName     *string    `db:"author_name"     json:"author_name,omitempty"`
	ConditionLabel string     `db:"condition_label" json:"condition_label,omitempty"`
	CreatedAt      time.Time  `db:"created_at"      json:"created_at"`
	Likes          int        `db:"likes_count"     json:"likes_count"`
	Comments       int        `db:"comments_count"  json:"comments_count"`
	ReviewedAt     *time.Time `db:"reviewed_at"     json:"reviewed_at,omitempty"`
}

// Author returns the author name, or "" when the review is anonymous.
// Scorers must never fail on missing input; empty is scored as worst case.
func (r *Review) Author() string {
	if r.AuthorName == nil {
		return ""
	}
	return *r.AuthorName
}

// Body returns the primary text under analysis.
func (r *Review) Body() string {
	return r.Experience
}

// CombinedText returns experience and symptoms joined for length-based checks.
func (r *Review) CombinedText() string {
	if r.Symptoms == "" {
		return r.Experience
	}
	if r.Experience == "" {
		return r.Symptoms
	}
	return r.Experience + " " + r.Symptoms
}

// AgeDays returns the review age in whole days relative to now.
// Reviews with a zero CreatedAt are treated as brand new.
func (r *Review) AgeDays(now time.Time) int {
	if r.CreatedAt.IsZero() {
		return 0
	}
	days := int(now.Sub(r.CreatedAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
