package engine

import (
	"time"

	"github.com/vitasana/review-risk/internal/domain"
	"github.com/vitasana/review-risk/internal/logger"
)

// SEO scoring constants. The SEO score starts at 100 and subtracts
// penalties: lower = worse. Do not unify with the authenticity scorer;
// the two have opposite polarity on purpose.
const (
	seoStartScore = 100

	thinContentLen      = 300
	mediumContentLen    = 600
	thinContentPenalty  = 30
	shortContentPenalty = 15

	boilerplateMinHits  = 2
	boilerplatePenalty  = 20
	titleStuffingRepeat = 2
	titleStuffingPen    = 25
	bodyDensityLimit    = 0.05
	bodyDensityPenalty  = 20

	titleMinLen        = 20
	titleMaxLen        = 70
	titleShortPenalty  = 15
	titleLongPenalty   = 10
	longTextNoParas    = 500
	noParagraphPenalty = 10

	engagementMinRate    = 0.1
	engagementMinAgeDays = 30
	engagementPenalty    = 15
	commentWeight        = 2

	anonymousPenalty   = 20
	staleAgeDays       = 365
	stalePenalty       = 10
	specialCharLimit   = 0.05
	specialCharPenalty = 15
	minClinicalTerms   = 2
	lowClinicalPenalty = 15
)

// SEO impact thresholds, ascending severity as the score falls.
const (
	seoBassoThreshold = 80
	seoMedioThreshold = 60
	seoAltoThreshold  = 40
)

// SEOScorer estimates how likely a review is to attract search-engine
// quality penalties. Deterministic, total, synchronous. Each triggered
// penalty appends both a human-readable issue and a remediation
// suggestion.
type SEOScorer struct {
	logger logger.Logger
	now    func() time.Time
}

// NewSEOScorer creates an SEO-risk scorer using the wall clock for
// age-based penalties.
func NewSEOScorer(log logger.Logger) *SEOScorer {
	return &SEOScorer{logger: log, now: time.Now}
}

// NewSEOScorerAt creates a scorer with a fixed clock. Used by tests and
// by batch jobs that need a stable reference time across a run.
func NewSEOScorerAt(log logger.Logger, now func() time.Time) *SEOScorer {
	if now == nil {
		now = time.Now
	}
	return &SEOScorer{logger: log, now: now}
}

// Score computes the SEO-risk result for a review. The score is not
// clamped and can fall below 0 when many penalties stack.
func (s *SEOScorer) Score(review *domain.Review) domain.ScoreResult {
	score := seoStartScore
	issues := []string{}
	recommendations := []string{}

	combined := review.CombinedText()
	title := review.Title
	now := s.now()

	// Thin content, scaled on combined length.
	switch n := len([]rune(combined)); {
	case n < thinContentLen:
		score -= thinContentPenalty
		issues = append(issues, "contenuto troppo scarno")
		recommendations = append(recommendations, "ampliare il racconto dell'esperienza oltre i 300 caratteri")
	case n < mediumContentLen:
		score -= shortContentPenalty
		issues = append(issues, "contenuto sotto la soglia consigliata")
		recommendations = append(recommendations, "aggiungere dettagli su sintomi e percorso di cura")
	}

	folded := Fold(combined)

	// Boilerplate openings duplicated across reviews.
	if distinctMatches(boilerplateMatcher, folded) >= boilerplateMinHits {
		score -= boilerplatePenalty
		issues = append(issues, "frasi di apertura generiche duplicate")
		recommendations = append(recommendations, "riformulare le aperture generiche con dettagli personali")
	}

	// Keyword stuffing: title repeats and body density, independently.
	condition := review.ConditionLabel
	if condition != "" {
		if CountOccurrences(title, condition) > titleStuffingRepeat {
			score -= titleStuffingPen
			issues = append(issues, "nome della patologia ripetuto nel titolo")
			recommendations = append(recommendations, "limitare il nome della patologia nel titolo a una o due occorrenze")
		}
		if words := WordCount(combined); words > 0 {
			density := float64(CountOccurrences(combined, condition)) / float64(words)
			if density > bodyDensityLimit {
				score -= bodyDensityPenalty
				issues = append(issues, "densità eccessiva della parola chiave nel testo")
				recommendations = append(recommendations, "usare sinonimi o pronomi al posto del nome della patologia")
			}
		}
	}

	// Title length window.
	switch n := len([]rune(title)); {
	case n < titleMinLen:
		score -= titleShortPenalty
		issues = append(issues, "titolo troppo corto")
		recommendations = append(recommendations, "portare il titolo ad almeno 20 caratteri descrittivi")
	case n > titleMaxLen:
		score -= titleLongPenalty
		issues = append(issues, "titolo troppo lungo")
		recommendations = append(recommendations, "accorciare il titolo sotto i 70 caratteri")
	}

	// Engagement decay on older reviews.
	if ageDays := review.AgeDays(now); ageDays > engagementMinAgeDays {
		rate := float64(review.Likes+commentWeight*review.Comments) / float64(ageDays)
		if rate < engagementMinRate {
			score -= engagementPenalty
			issues = append(issues, "interazioni in calo rispetto all'età della recensione")
			recommendations = append(recommendations, "mettere in evidenza la recensione per raccogliere nuove interazioni")
		}
	}

	// Long unbroken wall of text.
	if len([]rune(combined)) > longTextNoParas && !HasParagraphBreaks(combined) {
		score -= noParagraphPenalty
		issues = append(issues, "testo lungo senza paragrafi")
		recommendations = append(recommendations, "suddividere il testo in paragrafi")
	}

	// Anonymous author.
	if review.Author() == "" {
		score -= anonymousPenalty
		issues = append(issues, "autore anonimo")
		recommendations = append(recommendations, "invitare l'autore a firmare la recensione")
	}

	// Staleness.
	if review.AgeDays(now) > staleAgeDays {
		score -= stalePenalty
		issues = append(issues, "recensione più vecchia di un anno")
		recommendations = append(recommendations, "chiedere all'autore un aggiornamento sull'esperienza")
	}

	// Special character noise.
	if SpecialCharRatio(combined) > specialCharLimit {
		score -= specialCharPenalty
		issues = append(issues, "densità anomala di caratteri speciali")
		recommendations = append(recommendations, "ripulire il testo da simboli e caratteri decorativi")
	}

	// Medical informativeness.
	if distinctMatches(clinicalMatcher, folded) < minClinicalTerms {
		score -= lowClinicalPenalty
		issues = append(issues, "contenuto medico poco informativo")
		recommendations = append(recommendations, "descrivere sintomi, diagnosi o terapia seguita")
	}

	result := domain.ScoreResult{
		ReviewID:        review.ID,
		Score:           score,
		Category:        seoCategory(score),
		Reasons:         issues,
		Recommendations: recommendations,
	}

	if s.logger != nil {
		s.logger.Debug("seo risk score computed",
			logger.Int64("review_id", review.ID),
			logger.Int("score", score),
			logger.String("impact", string(result.Category)),
		)
	}

	return result
}

// ScoreBatch scores multiple reviews in input order with one shared
// reference time so category boundaries stay stable within a run.
func (s *SEOScorer) ScoreBatch(reviews []*domain.Review) []domain.ScoreResult {
	at := s.now()
	fixed := NewSEOScorerAt(s.logger, func() time.Time { return at })
	results := make([]domain.ScoreResult, len(reviews))
	for i, review := range reviews {
		results[i] = fixed.Score(review)
	}
	return results
}

// seoCategory maps a score to its impact band. Note the inverted
// polarity relative to the authenticity scorer: here lower is worse.
func seoCategory(score int) domain.RiskCategory {
	switch {
	case score >= seoBassoThreshold:
		return domain.CategoryBasso
	case score >= seoMedioThreshold:
		return domain.CategoryMedio
	case score >= seoAltoThreshold:
		return domain.CategoryAlto
	default:
		return domain.CategoryCritico
	}
}
