package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/churnpilot-backend/internal/adapters/extraction"
	"github.com/eshaffer321/churnpilot-backend/internal/api"
	"github.com/eshaffer321/churnpilot-backend/internal/application/importer"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/bonus"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/catalog"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/enrich"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/matcher"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/config"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/logging"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/storage"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Configuration file path")
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configFile)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	cat := catalog.Builtin()
	m, err := matcher.New(cat, matcher.Config{MinConfidence: cfg.Enrichment.MinConfidence})
	if err != nil {
		logger.Error("failed to initialize matcher", "error", err)
		os.Exit(1)
	}
	merger := enrich.NewMerger(cat, m, logger)

	deps := api.Deps{
		Repo:    store,
		Catalog: cat,
		Matcher: m,
		Merger:  merger,
		Rule: bonus.Rule{
			WindowMonths: cfg.Eligibility.WindowMonths,
			Limit:        cfg.Eligibility.Limit,
		},
	}

	// Import and extraction only work with an API key; the server still
	// runs without one.
	if key := cfg.GetAPIKey(cfg.OpenAI.APIKey, "OPENAI_API_KEY"); key != "" {
		client := extraction.NewRealOpenAIClient(key)
		deps.Importer = importer.NewImporter(store, merger, client, cfg.OpenAI.Model, logger)
		deps.Extractor = extraction.NewExtractor(client, cfg.OpenAI.Model, logger)
	} else {
		logger.Warn("no OpenAI API key configured, import and extraction disabled")
	}

	server := api.NewServer(api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, deps, logger)

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		close(done)
	}()

	if err := server.Start(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
