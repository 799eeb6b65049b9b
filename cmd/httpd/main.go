package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitasana/review-risk/internal/api"
	"github.com/vitasana/review-risk/internal/config"
	"github.com/vitasana/review-risk/internal/database"
	"github.com/vitasana/review-risk/internal/engine"
	"github.com/vitasana/review-risk/internal/llmclient"
	"github.com/vitasana/review-risk/internal/logger"
	"github.com/vitasana/review-risk/internal/pipeline"
	"github.com/vitasana/review-risk/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "review-risk: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting review-risk service",
		logger.String("name", cfg.Service.Name),
		logger.Int("port", cfg.Service.Port),
	)

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	log.Info("database connected",
		logger.String("host", cfg.Database.Host),
		logger.String("database", cfg.Database.Database),
	)

	reviewsRepo := database.NewReviewsRepository(db)

	metrics := telemetry.NewMetrics()

	authenticityScorer := engine.NewAuthenticityScorer(log)
	seoScorer := engine.NewSEOScorer(log)

	client, err := llmclient.NewClient(llmclient.Config{
		Endpoint:    cfg.LLM.Endpoint,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, log)
	if err != nil {
		return fmt.Errorf("create llm client: %w", err)
	}

	aiPipeline := pipeline.New(client, pipeline.Config{
		BatchSize:         cfg.LLM.BatchSize,
		BatchDelay:        cfg.LLM.BatchDelay,
		MaxAttempts:       cfg.LLM.MaxAttempts,
		RetryDelay:        cfg.LLM.RetryDelay,
		RequestsPerSecond: cfg.LLM.RequestsPerSecond,
	}, metrics, log)

	handler := api.NewHandler(authenticityScorer, seoScorer, aiPipeline, reviewsRepo, metrics, log)

	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, log)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Info("server stopped")
	}

	return nil
}
