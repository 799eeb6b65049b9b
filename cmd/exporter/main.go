package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitasana/review-risk/internal/config"
	"github.com/vitasana/review-risk/internal/database"
	"github.com/vitasana/review-risk/internal/domain"
	"github.com/vitasana/review-risk/internal/engine"
	"github.com/vitasana/review-risk/internal/llmclient"
	"github.com/vitasana/review-risk/internal/logger"
	"github.com/vitasana/review-risk/internal/pipeline"
	"github.com/vitasana/review-risk/internal/report"
)

const defaultFetchLimit = 1000

type options struct {
	configPath string
	scorer     string
	condition  string
	output     string
	limit      int
	useAI      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.yml", "path to the configuration file")
	flag.StringVar(&opts.scorer, "scorer", "authenticity", "heuristic scorer to run: authenticity or seo")
	flag.StringVar(&opts.condition, "condition", "", "restrict to reviews of a single condition")
	flag.StringVar(&opts.output, "out", "report.xlsx", "output spreadsheet path")
	flag.IntVar(&opts.limit, "limit", defaultFetchLimit, "maximum number of reviews to analyze")
	flag.BoolVar(&opts.useAI, "ai", false, "classify with the AI pipeline instead of a heuristic scorer")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "exporter: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := database.NewReviewsRepository(db)

	var reviews []*domain.Review
	if opts.condition != "" {
		reviews, err = repo.ListByCondition(ctx, opts.condition)
	} else {
		reviews, err = repo.ListAll(ctx, opts.limit, 0)
	}
	if err != nil {
		return fmt.Errorf("load reviews: %w", err)
	}
	if len(reviews) == 0 {
		return fmt.Errorf("no reviews to analyze")
	}
	log.Info("reviews loaded", logger.Int("count", len(reviews)))

	rows, err := analyze(ctx, cfg, log, reviews, opts)
	if err != nil {
		return err
	}

	rep := report.Build(rows)

	out, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	if err := report.WriteXLSX(rep, out); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}

	log.Info("report written",
		logger.String("path", opts.output),
		logger.Int("rows", len(rep.Rows)),
	)
	return nil
}

func analyze(ctx context.Context, cfg *config.Config, log logger.Logger, reviews []*domain.Review, opts options) ([]report.Row, error) {
	if opts.useAI {
		client, err := llmclient.NewClient(llmclient.Config{
			Endpoint:    cfg.LLM.Endpoint,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("create llm client: %w", err)
		}

		aiPipeline := pipeline.New(client, pipeline.Config{
			BatchSize:         cfg.LLM.BatchSize,
			BatchDelay:        cfg.LLM.BatchDelay,
			MaxAttempts:       cfg.LLM.MaxAttempts,
			RetryDelay:        cfg.LLM.RetryDelay,
			RequestsPerSecond: cfg.LLM.RequestsPerSecond,
		}, nil, log)

		verdicts, err := aiPipeline.ClassifyBatch(ctx, reviews)
		if err != nil {
			// Partial verdicts are still worth exporting; all the
			// unclassified reviews carry the sentinel verdict.
			log.Warn("classification incomplete", logger.Error(err))
		}
		return report.FromVerdicts(reviews, verdicts), nil
	}

	switch opts.scorer {
	case "authenticity":
		results := engine.NewAuthenticityScorer(log).ScoreBatch(reviews)
		return report.FromScoreResults(reviews, results), nil
	case "seo":
		results := engine.NewSEOScorer(log).ScoreBatch(reviews)
		return report.FromScoreResults(reviews, results), nil
	default:
		return nil, fmt.Errorf("unknown scorer %q (want authenticity or seo)", opts.scorer)
	}
}
