// Package llmclient is an HTTP client for a chat-completion endpoint
// used to classify review authenticity. One request classifies one
// review; batching and failure isolation live in the pipeline package.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vitasana/review-risk/internal/domain"
	"github.com/vitasana/review-risk/internal/logger"
)

// Classification errors. Rate limiting and exhausted credits are
// distinguished so the pipeline can back off or abort the run.
var (
	// ErrRateLimited maps HTTP 429 from the model endpoint.
	ErrRateLimited = errors.New("llm endpoint rate limited")
	// ErrPaymentRequired maps HTTP 402: credits exhausted, fatal for the run.
	ErrPaymentRequired = errors.New("llm credits exhausted")
	// ErrBadVerdict marks unparseable or schema-mismatched model output.
	ErrBadVerdict = errors.New("malformed model verdict")
)

const (
	defaultTimeout     = 30 * time.Second
	defaultTemperature = 0.1
	defaultMaxTokens   = 400
	maxErrorBodyBytes  = 1024
)

// Config holds client configuration.
type Config struct {
	Endpoint    string  // chat-completions URL
	APIKey      string  // bearer credential
	Model       string  // model identifier
	Temperature float64 // sampling temperature, low for stable JSON
	Timeout     time.Duration
}

// Client calls the external chat-completion endpoint.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      logger.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("llm endpoint is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("llm api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		endpoint:    cfg.Endpoint,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      log,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// modelVerdict is the strict JSON object the model is instructed to return.
type modelVerdict struct {
	Score    *int     `json:"score"`
	Category string   `json:"category"`
	Reasons  []string `json:"reasons"`
}

// Classify sends one review to the model and parses its verdict.
// Transient failures (network, 429, 5xx) and parse failures return an
// error; the caller substitutes the sentinel verdict.
func (c *Client) Classify(ctx context.Context, review *domain.Review) (domain.Verdict, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: BuildPrompt(review)},
		},
		Temperature: c.temperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return domain.Verdict{}, ErrRateLimited
	case http.StatusPaymentRequired:
		return domain.Verdict{}, ErrPaymentRequired
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return domain.Verdict{}, fmt.Errorf("llm endpoint returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var envelope chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: decode envelope: %w", ErrBadVerdict, err)
	}
	if envelope.Error != nil {
		return domain.Verdict{}, fmt.Errorf("llm endpoint error: %s", envelope.Error.Message)
	}
	if len(envelope.Choices) == 0 {
		return domain.Verdict{}, fmt.Errorf("%w: no choices in response", ErrBadVerdict)
	}

	verdict, err := parseVerdict(envelope.Choices[0].Message.Content)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("model returned unparseable verdict",
				logger.Int64("review_id", review.ID),
				logger.Error(err),
			)
		}
		return domain.Verdict{}, err
	}

	verdict.ReviewID = review.ID
	return verdict, nil
}

// parseVerdict strips optional code fences and decodes the strict JSON
// verdict object. Missing score, unknown category, or non-JSON content
// all map to ErrBadVerdict.
func parseVerdict(content string) (domain.Verdict, error) {
	clean := StripCodeFences(content)

	var raw modelVerdict
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: %w", ErrBadVerdict, err)
	}
	if raw.Score == nil {
		return domain.Verdict{}, fmt.Errorf("%w: missing score", ErrBadVerdict)
	}

	category := domain.RiskCategory(strings.ToUpper(strings.TrimSpace(raw.Category)))
	if !category.Valid() {
		return domain.Verdict{}, fmt.Errorf("%w: unknown category %q", ErrBadVerdict, raw.Category)
	}

	reasons := raw.Reasons
	if reasons == nil {
		reasons = []string{}
	}

	return domain.Verdict{
		Score:    *raw.Score,
		Category: category,
		Reasons:  reasons,
	}, nil
}

// StripCodeFences removes a surrounding markdown code block, with or
// without the json language tag, from model output.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
