// Package report assembles scorer output into moderation reports:
// rows sorted by descending score, per-category aggregates with a
// TOTAL row, and an XLSX export. Degraded AI verdicts (sentinels) are
// counted as analysis errors, separate from genuine risk categories.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vitasana/review-risk/internal/domain"
	"github.com/vitasana/review-risk/internal/engine"
)

const percentFactor = 100

// reviewBaseURL is where a row's display link points. The condition
// label is only used to build this URL; it is never scored here.
const reviewBaseURL = "https://www.vitasana.it/condizioni"

// Row is one analyzed review in the report.
type Row struct {
	ReviewID        int64               `json:"review_id"`
	Title           string              `json:"title"`
	Author          string              `json:"author"`
	URL             string              `json:"url"`
	Score           int                 `json:"score"`
	Category        domain.RiskCategory `json:"category"`
	Reasons         []string            `json:"reasons"`
	Recommendations []string            `json:"recommendations,omitempty"`
	AnalysisError   bool                `json:"analysis_error,omitempty"`
}

// SummaryRow is one line of the per-category aggregate.
type SummaryRow struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// Report is the assembled moderation report.
type Report struct {
	Rows           []Row        `json:"rows"`
	Summary        []SummaryRow `json:"summary"`
	AnalysisErrors int          `json:"analysis_errors"`
}

// FromScoreResults pairs heuristic results with their reviews. Inputs
// must be index-aligned, as produced by the scorers' ScoreBatch.
func FromScoreResults(reviews []*domain.Review, results []domain.ScoreResult) []Row {
	rows := make([]Row, 0, len(results))
	for i, res := range results {
		rows = append(rows, Row{
			ReviewID:        res.ReviewID,
			Title:           reviews[i].Title,
			Author:          reviews[i].Author(),
			URL:             displayURL(reviews[i]),
			Score:           res.Score,
			Category:        res.Category,
			Reasons:         res.Reasons,
			Recommendations: res.Recommendations,
		})
	}
	return rows
}

// FromVerdicts pairs AI verdicts with their reviews. Inputs must be
// index-aligned; the pipeline guarantees the 1:1 ordered mapping.
func FromVerdicts(reviews []*domain.Review, verdicts []domain.Verdict) []Row {
	rows := make([]Row, 0, len(verdicts))
	for i, v := range verdicts {
		rows = append(rows, Row{
			ReviewID:      v.ReviewID,
			Title:         reviews[i].Title,
			Author:        reviews[i].Author(),
			URL:           displayURL(reviews[i]),
			Score:         v.Score,
			Category:      v.Category,
			Reasons:       v.Reasons,
			AnalysisError: v.Sentinel,
		})
	}
	return rows
}

// Build sorts rows by descending score and computes the category
// aggregate with a TOTAL line.
func Build(rows []Row) *Report {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].ReviewID < sorted[j].ReviewID
	})

	counts := make(map[domain.RiskCategory]int)
	analysisErrors := 0
	for _, row := range sorted {
		if row.AnalysisError {
			analysisErrors++
			continue
		}
		counts[row.Category]++
	}

	total := len(sorted)
	summary := make([]SummaryRow, 0, len(counts)+1)
	for _, cat := range []domain.RiskCategory{
		domain.CategoryCritico,
		domain.CategoryAlto,
		domain.CategoryMedio,
		domain.CategoryBasso,
		domain.CategoryAutentica,
	} {
		if counts[cat] == 0 {
			continue
		}
		summary = append(summary, SummaryRow{
			Category: string(cat),
			Count:    counts[cat],
			Percent:  percent(counts[cat], total),
		})
	}
	if analysisErrors > 0 {
		summary = append(summary, SummaryRow{
			Category: "ERRORI ANALISI",
			Count:    analysisErrors,
			Percent:  percent(analysisErrors, total),
		})
	}
	summary = append(summary, SummaryRow{
		Category: "TOTALE",
		Count:    total,
		Percent:  percentFactor,
	})

	return &Report{
		Rows:           sorted,
		Summary:        summary,
		AnalysisErrors: analysisErrors,
	}
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * percentFactor
}

// displayURL builds the public review link from the condition label.
func displayURL(review *domain.Review) string {
	slug := strings.ReplaceAll(strings.TrimSpace(engine.Fold(review.ConditionLabel)), " ", "-")
	if slug == "" {
		slug = "generale"
	}
	return fmt.Sprintf("%s/%s/recensioni/%d", reviewBaseURL, slug, review.ID)
}
