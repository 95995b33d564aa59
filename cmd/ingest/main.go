package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"fpl-squad-lab/internal/config"
	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/logging"
	"fpl-squad-lab/internal/pool"
	"fpl-squad-lab/internal/storage"
	chstore "fpl-squad-lab/internal/storage/clickhouse"
	"fpl-squad-lab/internal/storage/memory"
	"fpl-squad-lab/internal/storage/migrations"
	pgstore "fpl-squad-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	candidatesPath := flag.String("candidates", "", "Path to candidate CSV (name,club,role,price)")
	scoresPath := flag.String("scores", "", "Path to prediction CSV (name,club,role,gameweek,score)")
	dryRun := flag.Bool("dry-run", false, "Parse and validate into memory stores without persisting")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	if *candidatesPath == "" && *scoresPath == "" {
		log.Fatal("Nothing to ingest: pass --candidates and/or --scores")
	}
	if *dryRun {
		cfg.Storage.UseMemory = true
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create stores based on mode
	var candidateStore storage.CandidateStore = memory.NewCandidateStore()
	var predictionStore storage.PredictionStore = memory.NewPredictionStore()

	if !cfg.Storage.UseMemory {
		pgPool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			log.WithError(err).Fatal("Connect to postgres")
		}
		defer pgPool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pgPool); err != nil {
			log.WithError(err).Fatal("Run postgres migrations")
		}

		chConn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			log.WithError(err).Fatal("Run clickhouse migrations")
		}
		defer chConn.Close()

		candidateStore = pgstore.NewCandidateStore(pgPool)
		predictionStore = chstore.NewPredictionStore(chConn)
	}

	if *candidatesPath != "" {
		n, err := ingestCandidates(ctx, log, candidateStore, *candidatesPath)
		if err != nil {
			log.WithError(err).Fatal("Ingest candidates")
		}
		log.WithField("candidates", n).Info("Candidates ingested")
	}

	if *scoresPath != "" {
		n, err := ingestScores(ctx, log, predictionStore, *scoresPath)
		if err != nil {
			log.WithError(err).Fatal("Ingest predictions")
		}
		log.WithField("points", n).Info("Predictions ingested")
	}
}

// ingestCandidates loads a candidate CSV and bulk-inserts it.
func ingestCandidates(ctx context.Context, log *logrus.Logger, store storage.CandidateStore, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open candidate csv: %w", err)
	}
	defer f.Close()

	candidates, err := pool.LoadCandidates(f, log)
	if err != nil {
		return 0, err
	}

	rows := make([]*domain.Candidate, len(candidates))
	for i := range candidates {
		rows[i] = &candidates[i]
	}
	if err := store.InsertBulk(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ingestScores loads a prediction CSV and bulk-inserts it.
func ingestScores(ctx context.Context, log *logrus.Logger, store storage.PredictionStore, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open score csv: %w", err)
	}
	defer f.Close()

	points, err := pool.LoadScores(f, log)
	if err != nil {
		return 0, err
	}

	rows := make([]*domain.ScorePoint, len(points))
	for i := range points {
		rows[i] = &points[i]
	}
	if err := store.InsertBulk(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
