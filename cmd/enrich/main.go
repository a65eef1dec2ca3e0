package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/eshaffer321/churnpilot-backend/internal/domain/catalog"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/enrich"
	"github.com/eshaffer321/churnpilot-backend/internal/domain/matcher"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/config"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/logging"
	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/storage"
)

func main() {
	var (
		configFile = flag.String("config", "config.yaml", "Configuration file path")
		dryRun     = flag.Bool("dry-run", false, "Show what enrichment would do without saving")
	)
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configFile)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "enrich")

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

	records, err := store.ListCards()
	if err != nil {
		logger.Error("failed to list cards", "error", err)
		os.Exit(1)
	}

	enriched, report := merger.EnrichAll(records)

	if !*dryRun {
		for i := range enriched {
			if err := store.SaveCard(&enriched[i]); err != nil {
				logger.Error("failed to save card", "card_id", enriched[i].ID, "error", err)
				os.Exit(1)
			}
		}
	}

	fmt.Printf("Processed %d cards: %d enriched, %d unmatched, %d benefits added\n",
		report.Processed, report.Enriched, report.Unmatched, report.BenefitsAdded)
	if *dryRun {
		fmt.Println("(dry run, nothing saved)")
	}
}
