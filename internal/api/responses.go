package api

import (
	"github.com/vitasana/review-risk/internal/domain"
	"github.com/vitasana/review-risk/internal/report"
)

// Scorer names accepted by the batch and export endpoints.
const (
	ScorerAuthenticity = "authenticity"
	ScorerSEO          = "seo"
)

// AnalyzeRequest carries one review for heuristic scoring.
type AnalyzeRequest struct {
	Review *domain.Review `json:"review" binding:"required"`
}

// AnalyzeResponse carries one heuristic score result.
type AnalyzeResponse struct {
	Result domain.ScoreResult `json:"result"`
}

// AnalyzeBatchRequest carries reviews for one of the heuristic scorers.
type AnalyzeBatchRequest struct {
	Reviews []*domain.Review `json:"reviews" binding:"required,min=1,max=500,dive,required"`
	Scorer  string           `json:"scorer"  binding:"required,oneof=authenticity seo"`
}

// ReportResponse carries the assembled heuristic report.
type ReportResponse struct {
	Report *report.Report `json:"report"`
}

// ClassifyBatchRequest carries reviews for the AI pipeline.
type ClassifyBatchRequest struct {
	Reviews []*domain.Review `json:"reviews" binding:"required,min=1,max=100,dive,required"`
}

// ClassifyBatchResponse carries the order-preserving verdicts. The
// result list always matches the request length; degraded entries are
// sentinels and counted in AnalysisErrors.
type ClassifyBatchResponse struct {
	Results        []domain.Verdict `json:"results"`
	Total          int              `json:"total"`
	AnalysisErrors int              `json:"analysis_errors"`
	Error          string           `json:"error,omitempty"`
}
