package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fpl-squad-lab/internal/config"
	"fpl-squad-lab/internal/logging"
	"fpl-squad-lab/internal/reporting"
	pgstore "fpl-squad-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	if cfg.Storage.PostgresDSN == "" {
		log.Fatal("storage.postgres_dsn is required to generate a report")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pgPool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("Connect to postgres")
	}
	defer pgPool.Close()

	generator := reporting.NewGenerator(
		pgstore.NewCandidateStore(pgPool),
		pgstore.NewPlanStore(pgPool),
	)

	report, err := generator.Generate(ctx)
	if err != nil {
		log.WithError(err).Fatal("Generate report")
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.WithError(err).Fatal("Create output directory")
	}

	mdPath := filepath.Join(*outputDir, "PLAN_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		log.WithError(err).Fatal("Write markdown report")
	}

	csvPath := filepath.Join(*outputDir, "PLAN_GAMEWEEKS.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Gameweeks)), 0o644); err != nil {
		log.WithError(err).Fatal("Write CSV report")
	}

	fmt.Println("Report generated successfully:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
}
