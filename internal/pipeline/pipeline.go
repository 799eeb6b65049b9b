// Package pipeline batches reviews through the external classification
// endpoint with failure isolation. Within one batch every request runs
// concurrently (fan-out/fan-in); batches execute sequentially with a
// fixed delay between them as rate-limit backpressure.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/vitasana/review-risk/internal/domain"
	"github.com/vitasana/review-risk/internal/llmclient"
	"github.com/vitasana/review-risk/internal/logger"
	"github.com/vitasana/review-risk/internal/telemetry"
)

// Default pipeline parameters.
const (
	defaultBatchSize   = 5
	defaultBatchDelay  = 500 * time.Millisecond
	defaultMaxAttempts = 2
	defaultRetryDelay  = 300 * time.Millisecond
	defaultRPS         = 10
	backoffMultiplier  = 2
)

// Classifier classifies a single review. Implemented by llmclient.Client.
type Classifier interface {
	Classify(ctx context.Context, review *domain.Review) (domain.Verdict, error)
}

// Config holds pipeline tuning knobs.
type Config struct {
	// BatchSize is the fan-out width per batch.
	BatchSize int
	// BatchDelay is the fixed pause between batches.
	BatchDelay time.Duration
	// MaxAttempts bounds per-review attempts for transient failures.
	MaxAttempts int
	// RetryDelay is the initial backoff before a retry, doubled per attempt.
	RetryDelay time.Duration
	// RequestsPerSecond paces requests to the model endpoint on top of
	// the inter-batch delay.
	RequestsPerSecond int
}

func (c *Config) setDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.BatchDelay <= 0 {
		c.BatchDelay = defaultBatchDelay
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = defaultRPS
	}
}

// Pipeline runs batched AI classification with failure isolation.
type Pipeline struct {
	client  Classifier
	limiter *rate.Limiter
	metrics *telemetry.Metrics
	logger  logger.Logger
	cfg     Config
}

// New creates a pipeline. metrics may be nil.
func New(client Classifier, cfg Config, metrics *telemetry.Metrics, log logger.Logger) *Pipeline {
	cfg.setDefaults()
	return &Pipeline{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond),
		metrics: metrics,
		logger:  log,
		cfg:     cfg,
	}
}

// ClassifyBatch classifies reviews through the external endpoint. The
// result is always order-preserving and length-preserving: every input
// review gets exactly one verdict, with the sentinel substituted for
// any review whose classification failed.
//
// The returned error is nil for per-item failures of any kind. It is
// non-nil only when the whole run degraded: llmclient.ErrPaymentRequired
// when credits ran out (remaining reviews get sentinels without being
// sent), or the context error when the caller cancelled. Either way the
// verdict slice is fully populated.
func (p *Pipeline) ClassifyBatch(ctx context.Context, reviews []*domain.Review) ([]domain.Verdict, error) {
	verdicts := make([]domain.Verdict, len(reviews))
	if len(reviews) == 0 {
		return verdicts, nil
	}

	if p.metrics != nil {
		p.metrics.PipelineBatchSize.Observe(float64(len(reviews)))
	}

	var billingExhausted atomic.Bool

	for start := 0; start < len(reviews); start += p.cfg.BatchSize {
		// Cancellation and billing exhaustion are checked between
		// batches; both fill the rest of the run with sentinels.
		if err := ctx.Err(); err != nil {
			p.fillSentinels(reviews, verdicts, start)
			return verdicts, err
		}
		if billingExhausted.Load() {
			p.fillSentinels(reviews, verdicts, start)
			if p.metrics != nil {
				p.metrics.BillingAborts.Inc()
			}
			p.logger.Error("classification run aborted: credits exhausted",
				logger.Int("classified", start),
				logger.Int("remaining", len(reviews)-start),
			)
			return verdicts, llmclient.ErrPaymentRequired
		}

		end := min(start+p.cfg.BatchSize, len(reviews))
		batchStart := time.Now()

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				// Each goroutine writes only its own reserved slot.
				verdicts[idx] = p.classifyOne(ctx, reviews[idx], &billingExhausted)
			}(i)
		}
		wg.Wait()

		if p.metrics != nil {
			p.metrics.BatchDuration.Observe(time.Since(batchStart).Seconds())
		}
		p.logger.Debug("batch settled",
			logger.Int("from", start),
			logger.Int("to", end),
			logger.Duration("took", time.Since(batchStart)),
		)

		if end < len(reviews) {
			select {
			case <-time.After(p.cfg.BatchDelay):
			case <-ctx.Done():
				p.fillSentinels(reviews, verdicts, end)
				return verdicts, ctx.Err()
			}
		}
	}

	if billingExhausted.Load() {
		if p.metrics != nil {
			p.metrics.BillingAborts.Inc()
		}
		return verdicts, llmclient.ErrPaymentRequired
	}
	// Cancellation during the final batch degrades its slots to
	// sentinels without another loop iteration to notice it.
	if err := ctx.Err(); err != nil {
		return verdicts, err
	}

	return verdicts, nil
}

// classifyOne performs the bounded retry loop for a single review and
// degrades to the sentinel verdict when attempts are exhausted. It
// never reports an error upward; billing exhaustion is flagged so the
// batch loop can stop spending.
func (p *Pipeline) classifyOne(ctx context.Context, review *domain.Review, billingExhausted *atomic.Bool) domain.Verdict {
	delay := p.cfg.RetryDelay

	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		if err := p.limiter.Wait(ctx); err != nil {
			break
		}

		verdict, err := p.client.Classify(ctx, review)
		if err == nil {
			if p.metrics != nil {
				p.metrics.VerdictsReturned.Inc()
			}
			return verdict
		}

		if errors.Is(err, llmclient.ErrPaymentRequired) {
			billingExhausted.Store(true)
			break
		}
		if errors.Is(err, llmclient.ErrRateLimited) && p.metrics != nil {
			p.metrics.RateLimitHits.Inc()
		}

		p.logger.Warn("classification attempt failed",
			logger.Int64("review_id", review.ID),
			logger.Int("attempt", attempt),
			logger.Error(err),
		)

		// Parse defects are not retried: the model output is stable at
		// low temperature, so a schema mismatch wastes credits.
		if errors.Is(err, llmclient.ErrBadVerdict) {
			break
		}

		if attempt < p.cfg.MaxAttempts {
			if p.metrics != nil {
				p.metrics.RetriedRequests.Inc()
			}
			select {
			case <-time.After(delay):
				delay *= backoffMultiplier
			case <-ctx.Done():
				return p.sentinel(review.ID)
			}
		}
	}

	return p.sentinel(review.ID)
}

func (p *Pipeline) sentinel(reviewID int64) domain.Verdict {
	if p.metrics != nil {
		p.metrics.VerdictsReturned.Inc()
		p.metrics.SentinelVerdicts.Inc()
	}
	return domain.SentinelVerdict(reviewID)
}

// fillSentinels substitutes sentinels for every review from index on.
func (p *Pipeline) fillSentinels(reviews []*domain.Review, verdicts []domain.Verdict, from int) {
	for i := from; i < len(reviews); i++ {
		verdicts[i] = p.sentinel(reviews[i].ID)
	}
}
