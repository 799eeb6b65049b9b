package domain

// RiskCategory is the shared five-band severity enum. The authenticity
// scorer uses all five bands; the SEO scorer reuses BASSO..CRITICO for
// impact levels (higher severity = lower SEO score).
type RiskCategory string

// Risk categories ordered low to high severity.
const (
	CategoryAutentica RiskCategory = "AUTENTICA"
	CategoryBasso     RiskCategory = "BASSO"
	CategoryMedio     RiskCategory = "MEDIO"
	CategoryAlto      RiskCategory = "ALTO"
	CategoryCritico   RiskCategory = "CRITICO"
)

// categoryRank maps categories to their severity order for sorting and
// report aggregation.
var categoryRank = map[RiskCategory]int{
	CategoryAutentica: 0,
	CategoryBasso:     1,
	CategoryMedio:     2,
	CategoryAlto:      3,
	CategoryCritico:   4,
}

// Rank returns the severity order of the category (0 = lowest).
// Unknown categories rank below AUTENTICA.
func (c RiskCategory) Rank() int {
	if r, ok := categoryRank[c]; ok {
		return r
	}
	return -1
}

// Valid reports whether c is one of the five known bands.
func (c RiskCategory) Valid() bool {
	_, ok := categoryRank[c]
	return ok
}

// ScoreResult is the output of either heuristic scorer. Scores are not
// clamped: the authenticity score accumulates past 100 when many rules
// fire, and the SEO score can fall below 0 under heavy penalties. The
// unbounded range is intentional; category mapping absorbs the extremes.
type ScoreResult struct {
	ReviewID        int64        `json:"review_id"`
	Score           int          `json:"score"`
	Category        RiskCategory `json:"category"`
	Reasons         []string     `json:"reasons"`
	Recommendations []string     `json:"recommendations,omitempty"`
}

// Verdict is the output of the AI classification pipeline. It has the
// same shape as ScoreResult; Reasons is always present.
type Verdict struct {
	ReviewID int64        `json:"review_id"`
	Score    int          `json:"score"`
	Category RiskCategory `json:"category"`
	Reasons  []string     `json:"reasons"`
	// Sentinel marks verdicts substituted after a failed classification
	// call so the report layer can count analysis errors separately.
	Sentinel bool `json:"sentinel,omitempty"`
}

// SentinelReason is the fixed reason attached to fallback verdicts.
const SentinelReason = "errore di analisi"

// SentinelVerdict returns the fallback verdict substituted when the
// external classification call cannot be completed or parsed for a
// review. It is never left absent: the pipeline guarantees a 1:1
// mapping between input reviews and output verdicts.
func SentinelVerdict(reviewID int64) Verdict {
	return Verdict{
		ReviewID: reviewID,
		Score:    50,
		Category: CategoryMedio,
		Reasons:  []string{SentinelReason},
		Sentinel: true,
	}
}
