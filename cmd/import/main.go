package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/eshaffer321/churnpilot-backend/internal/adapters/extraction"
	"github.com/eshaffer321/churnpilot-backend/internal/application/importer"
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
		file       = flag.String("file", "", "Spreadsheet file to import (CSV/TSV, any layout)")
		keepClosed = flag.Bool("keep-closed", false, "Import cards marked as closed")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: import -file <spreadsheet.csv>")
		os.Exit(2)
	}

	cfg := config.LoadOrEnvWithPath(*configFile)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "importer")

	key := cfg.GetAPIKey(cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	if key == "" {
		logger.Error("no OpenAI API key configured")
		os.Exit(1)
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("failed to read file", "file", *file, "error", err)
		os.Exit(1)
	}

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

	client := extraction.NewRealOpenAIClient(key)
	im := importer.NewImporter(store, merger, client, cfg.OpenAI.Model, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := im.Import(ctx, string(content), !*keepClosed)
	if err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d cards (%d skipped)\n", report.Imported, report.Skipped)
	fmt.Printf("Enrichment: %d enriched, %d unmatched, %d benefits added\n",
		report.Enrichment.Enriched, report.Enrichment.Unmatched, report.Enrichment.BenefitsAdded)
	for _, rec := range report.Cards {
		fmt.Printf("  - %s (%s)\n", rec.Name, rec.ID)
	}
	if len(report.Errors) > 0 {
		fmt.Printf("%d errors:\n", len(report.Errors))
		for _, e := range report.Errors {
			fmt.Printf("  ! %s\n", e)
		}
		os.Exit(1)
	}
}
