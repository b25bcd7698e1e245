package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"tagline/internal/domain/ports"
	"tagline/internal/domain/processing"
	"tagline/internal/domain/services"
	"tagline/internal/infrastructure/config"
	"tagline/internal/infrastructure/constitution"
	"tagline/internal/infrastructure/discovery/twitter"
	"tagline/internal/infrastructure/httpclient"
	"tagline/internal/infrastructure/llm/chute"
	"tagline/internal/infrastructure/logging"
	"tagline/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds the dependencies commands work with. Discovery is nil when
// no discovery endpoint is configured.
type Deps struct {
	Config    *config.Config
	Logger    *zap.Logger
	Pipeline  *processing.Pipeline
	Discovery ports.Discovery
	Repo      ports.PostRepository
}

// withDeps loads config, builds dependencies, and calls the provided
// function. It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(context.Context, *Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(globalLogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is harmless

	httpClient := httpclient.New(cfg.HTTP, logger)

	llmService, err := chute.Instance(cfg.LLM, httpClient, logger)
	if err != nil {
		return fmt.Errorf("initializing llm service: %w", err)
	}

	promptStore := constitution.NewStore(cfg.Constitution, httpClient, logger)

	var discovery ports.Discovery
	if cfg.Discovery.BaseURL != "" {
		discovery, err = twitter.NewClient(cfg.Discovery, httpClient, logger)
		if err != nil {
			return fmt.Errorf("initializing discovery: %w", err)
		}
	}

	tagger := services.NewTopicTagger(
		promptStore,
		llmService,
		discovery,
		cfg.Verification.AnnouncementAccountID,
		cfg.Verification.SentinelTopic,
		logger,
	)

	repo, err := sqlite.NewRepository(cfg.SQLitePath(cwd))
	if err != nil {
		return fmt.Errorf("opening post store: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	return fn(ctx, &Deps{
		Config:    cfg,
		Logger:    logger,
		Pipeline:  processing.NewPipeline(logger, tagger),
		Discovery: discovery,
		Repo:      repo,
	})
}
