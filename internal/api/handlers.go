// Package api exposes the content-risk engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vitasana/review-risk/internal/domain"
	"github.com/vitasana/review-risk/internal/engine"
	"github.com/vitasana/review-risk/internal/llmclient"
	"github.com/vitasana/review-risk/internal/logger"
	"github.com/vitasana/review-risk/internal/pipeline"
	"github.com/vitasana/review-risk/internal/report"
	"github.com/vitasana/review-risk/internal/telemetry"
)

// defaultExportSize caps how many reviews an export loads when the
// request does not specify a limit.
const defaultExportSize = 1000

// ReviewStore is the subset of the reviews repository the API needs.
type ReviewStore interface {
	ListAll(ctx context.Context, limit, offset int) ([]*domain.Review, error)
	ListByCondition(ctx context.Context, conditionLabel string) ([]*domain.Review, error)
	MarkReviewed(ctx context.Context, id int64, at time.Time) error
}

// Handler handles HTTP requests for the review-risk API.
type Handler struct {
	authenticity *engine.AuthenticityScorer
	seo          *engine.SEOScorer
	pipeline     *pipeline.Pipeline
	store        ReviewStore
	metrics      *telemetry.Metrics
	logger       logger.Logger
}

// NewHandler creates a new API handler. metrics may be nil.
func NewHandler(
	authenticity *engine.AuthenticityScorer,
	seo *engine.SEOScorer,
	aiPipeline *pipeline.Pipeline,
	store ReviewStore,
	metrics *telemetry.Metrics,
	log logger.Logger,
) *Handler {
	return &Handler{
		authenticity: authenticity,
		seo:          seo,
		pipeline:     aiPipeline,
		store:        store,
		metrics:      metrics,
		logger:       log,
	}
}

// Analyze handles POST /api/v1/analyze.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, _ := h.scoreWith(ScorerAuthenticity, []*domain.Review{req.Review})
	c.JSON(http.StatusOK, AnalyzeResponse{Result: results[0]})
}

// AnalyzeSEO handles POST /api/v1/analyze/seo.
func (h *Handler) AnalyzeSEO(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid seo analyze request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, _ := h.scoreWith(ScorerSEO, []*domain.Review{req.Review})
	c.JSON(http.StatusOK, AnalyzeResponse{Result: results[0]})
}

// AnalyzeBatch handles POST /api/v1/analyze/batch. It runs one of the
// heuristic scorers over the submitted reviews and returns the
// assembled report.
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	var req AnalyzeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid batch analyze request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.scoreWith(req.Scorer, req.Reviews)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("heuristic batch analyzed",
		logger.String("scorer", req.Scorer),
		logger.Int("reviews", len(req.Reviews)),
	)

	c.JSON(http.StatusOK, ReportResponse{
		Report: report.Build(report.FromScoreResults(req.Reviews, results)),
	})
}

// ClassifyBatch handles POST /api/v1/classify/batch: the AI pipeline.
// Per-review failures degrade to sentinel verdicts instead of failing
// the call; exhausted credits surface as 402 with the partial results
// still attached.
func (h *Handler) ClassifyBatch(c *gin.Context) {
	var req ClassifyBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid classify request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verdicts, err := h.pipeline.ClassifyBatch(c.Request.Context(), req.Reviews)
	resp := ClassifyBatchResponse{
		Results:        verdicts,
		Total:          len(verdicts),
		AnalysisErrors: countSentinels(verdicts),
	}

	switch {
	case err == nil:
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, llmclient.ErrPaymentRequired):
		resp.Error = err.Error()
		c.JSON(http.StatusPaymentRequired, resp)
	default:
		h.logger.Error("classification run failed", logger.Error(err))
		resp.Error = err.Error()
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// MarkReviewed handles POST /api/v1/reviews/:id/reviewed, recording
// that a moderator acted on a flagged review.
func (h *Handler) MarkReviewed(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	if err := h.store.MarkReviewed(c.Request.Context(), id, time.Now()); err != nil {
		h.logger.Error("failed to mark review", logger.Int64("review_id", id), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ExportReport handles GET /api/v1/report/export. It loads reviews,
// scores them with the requested scorer, and streams the workbook.
func (h *Handler) ExportReport(c *gin.Context) {
	scorer := c.DefaultQuery("scorer", ScorerAuthenticity)
	condition := c.Query("condition")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultExportSize)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	ctx := c.Request.Context()
	var reviews []*domain.Review
	if condition != "" {
		reviews, err = h.store.ListByCondition(ctx, condition)
	} else {
		reviews, err = h.store.ListAll(ctx, limit, 0)
	}
	if err != nil {
		h.logger.Error("failed to load reviews for export", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reviews"})
		return
	}

	results, err := h.scoreWith(scorer, reviews)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep := report.Build(report.FromScoreResults(reviews, results))
	filename := fmt.Sprintf("report-%s-%s.xlsx", scorer, time.Now().Format("2006-01-02"))

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := report.WriteXLSX(rep, c.Writer); err != nil {
		h.logger.Error("failed to write report", logger.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	h.logger.Info("report exported",
		logger.String("scorer", scorer),
		logger.Int("rows", len(rep.Rows)),
	)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// scoreWith dispatches to the named heuristic scorer and records the
// scoring metrics.
func (h *Handler) scoreWith(scorer string, reviews []*domain.Review) ([]domain.ScoreResult, error) {
	start := time.Now()

	var results []domain.ScoreResult
	switch scorer {
	case ScorerAuthenticity:
		results = h.authenticity.ScoreBatch(reviews)
	case ScorerSEO:
		results = h.seo.ScoreBatch(reviews)
	default:
		return nil, fmt.Errorf("unknown scorer %q", scorer)
	}

	if h.metrics != nil {
		h.metrics.ReviewsScored.WithLabelValues(scorer).Add(float64(len(results)))
		h.metrics.ScoreDuration.WithLabelValues(scorer).Observe(time.Since(start).Seconds())
		for _, r := range results {
			h.metrics.ScoreCategory.WithLabelValues(scorer, string(r.Category)).Inc()
		}
	}
	return results, nil
}

func countSentinels(verdicts []domain.Verdict) int {
	n := 0
	for _, v := range verdicts {
		if v.Sentinel {
			n++
		}
	}
	return n
}
