package engine

import (
	"strings"

	"github.com/vitasana/review-risk/internal/domain"
	"github.com/vitasana/review-risk/internal/logger"
)

// Authenticity scoring constants. Higher score = more likely generated.
const (
	veryShortBodyLen    = 100
	shortBodyLen        = 200
	veryShortPenalty    = 30
	shortPenalty        = 20
	generatedAuthorPen  = 10
	noEmotionPenalty    = 15
	noDetailPenalty     = 15
	formalTonePenalty   = 10
	noEngagementPen     = 5
	formalToneMaxLen    = 250
	formalToneSentences = 3
)

// Authenticity category thresholds, descending.
const (
	authCriticoThreshold = 70
	authAltoThreshold    = 50
	authMedioThreshold   = 30
	authBassoThreshold   = 15
)

// AuthenticityScorer estimates how likely a review's text was not
// organically written by the claimed human author. It is deterministic,
// total (never fails, missing fields score as maximally thin), and
// synchronous; safe to call concurrently.
type AuthenticityScorer struct {
	logger logger.Logger
}

// NewAuthenticityScorer creates an authenticity scorer.
func NewAuthenticityScorer(log logger.Logger) *AuthenticityScorer {
	return &AuthenticityScorer{logger: log}
}

// Score computes the authenticity risk score for a review. Weights
// accumulate: the score starts at 0 and every triggered signal adds
// its penalty and appends a reason. The result is not clamped.
func (s *AuthenticityScorer) Score(review *domain.Review) domain.ScoreResult {
	score := 0
	reasons := []string{}

	body := review.Body()

	// 1. Length banding on the primary body.
	switch n := len([]rune(body)); {
	case n < veryShortBodyLen:
		score += veryShortPenalty
		reasons = append(reasons, "testo molto breve")
	case n < shortBodyLen:
		score += shortPenalty
		reasons = append(reasons, "testo breve")
	}

	// 2. Weighted phrase rules over the lowercase body.
	lower := strings.ToLower(body)
	for _, rule := range authenticityRules {
		if rule.Pattern.MatchString(lower) {
			score += rule.Weight
			reasons = append(reasons, rule.Label)
		}
	}

	// 3. Placeholder or missing author.
	if HasGeneratedAuthor(review.Author()) {
		score += generatedAuthorPen
		reasons = append(reasons, "nome utente generato")
	}

	// 4. No expressive punctuation, emoticon, or emoji anywhere.
	if !HasEmotionSignals(body) {
		score += noEmotionPenalty
		reasons = append(reasons, "nessun segnale emotivo")
	}

	// 5. No concrete detail: years, measurements, medications, slang.
	if !HasSpecificDetail(body) {
		score += noDetailPenalty
		reasons = append(reasons, "nessun dettaglio specifico")
	}

	// 6. Terse but multi-sentence: mechanical cadence.
	if SentenceCount(body) > formalToneSentences && len([]rune(body)) < formalToneMaxLen {
		score += formalTonePenalty
		reasons = append(reasons, "tono formale e meccanico")
	}

	// 7. Nobody reacted to it.
	if review.Likes == 0 && review.Comments == 0 {
		score += noEngagementPen
		reasons = append(reasons, "nessuna interazione")
	}

	result := domain.ScoreResult{
		ReviewID: review.ID,
		Score:    score,
		Category: authenticityCategory(score),
		Reasons:  reasons,
	}

	if s.logger != nil {
		s.logger.Debug("authenticity score computed",
			logger.Int64("review_id", review.ID),
			logger.Int("score", score),
			logger.String("category", string(result.Category)),
		)
	}

	return result
}

// ScoreBatch scores multiple reviews in input order.
func (s *AuthenticityScorer) ScoreBatch(reviews []*domain.Review) []domain.ScoreResult {
	results := make([]domain.ScoreResult, len(reviews))
	for i, review := range reviews {
		results[i] = s.Score(review)
	}
	return results
}

// authenticityCategory maps a score to its band, descending thresholds.
func authenticityCategory(score int) domain.RiskCategory {
	switch {
	case score >= authCriticoThreshold:
		return domain.CategoryCritico
	case score >= authAltoThreshold:
		return domain.CategoryAlto
	case score >= authMedioThreshold:
		return domain.CategoryMedio
	case score >= authBassoThreshold:
		return domain.CategoryBasso
	default:
		return domain.CategoryAutentica
	}
}
