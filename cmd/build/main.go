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
	"fpl-squad-lab/internal/squadbuilder"
	"fpl-squad-lab/internal/storage"
	chstore "fpl-squad-lab/internal/storage/clickhouse"
	pgstore "fpl-squad-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	gameweek := flag.Int("gameweek", 0, "Gameweek whose predictions rank the squads")
	candidatesPath := flag.String("candidates", "", "Candidate CSV; bypasses storage when set together with --scores")
	scoresPath := flag.String("scores", "", "Prediction CSV; bypasses storage when set together with --candidates")
	top := flag.Int("top", 10, "Number of ranked squads to print")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	if *gameweek <= 0 {
		log.Fatal("--gameweek is required")
	}

	fileMode := *candidatesPath != "" && *scoresPath != ""
	if !fileMode {
		if err := cfg.Validate(); err != nil {
			log.WithError(err).Fatal("Invalid configuration")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		candidates []domain.Candidate
		scores     map[string]float64
	)
	if fileMode {
		candidates, scores, err = loadFromFiles(log, *candidatesPath, *scoresPath, *gameweek)
	} else {
		candidates, scores, err = loadFromStores(ctx, cfg, *gameweek)
	}
	if err != nil {
		log.WithError(err).Fatal("Load candidate pool")
	}

	builder := squadbuilder.New(cfg.GameRules(), squadbuilder.Options{
		BeamWidth:   cfg.Builder.BeamWidth,
		PoolSize:    cfg.Builder.PoolSize,
		MaxResults:  cfg.Builder.MaxResults,
		Parallelism: cfg.Builder.Parallelism,
	}, log)

	squads, err := builder.Build(candidates, scores)
	if err != nil {
		log.WithError(err).Fatal("Build squads")
	}

	printSquads(squads, *top)
}

// loadFromFiles reads the pool straight from CSV files.
func loadFromFiles(log *logrus.Logger, candidatesPath, scoresPath string, gameweek int) ([]domain.Candidate, map[string]float64, error) {
	cf, err := os.Open(candidatesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open candidate csv: %w", err)
	}
	defer cf.Close()

	candidates, err := pool.LoadCandidates(cf, log)
	if err != nil {
		return nil, nil, err
	}

	sf, err := os.Open(scoresPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open score csv: %w", err)
	}
	defer sf.Close()

	points, err := pool.LoadScores(sf, log)
	if err != nil {
		return nil, nil, err
	}

	scores, err := pool.NewPredictions(points).WeekScores(gameweek, candidates)
	if err != nil {
		return nil, nil, err
	}
	return candidates, scores, nil
}

// loadFromStores reads the pool from PostgreSQL and ClickHouse.
func loadFromStores(ctx context.Context, cfg *config.Config, gameweek int) ([]domain.Candidate, map[string]float64, error) {
	pgPool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	defer pgPool.Close()

	chConn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	defer chConn.Close()

	var candidateStore storage.CandidateStore = pgstore.NewCandidateStore(pgPool)
	var predictionStore storage.PredictionStore = chstore.NewPredictionStore(chConn)

	rows, err := candidateStore.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load candidates: %w", err)
	}
	candidates := make([]domain.Candidate, len(rows))
	for i, c := range rows {
		candidates[i] = *c
	}

	points, err := predictionStore.GetByGameweek(ctx, gameweek)
	if err != nil {
		return nil, nil, fmt.Errorf("load predictions: %w", err)
	}
	preds := pool.NewPredictions(nil)
	for _, pt := range points {
		preds.Add(*pt)
	}

	scores, err := preds.WeekScores(gameweek, candidates)
	if err != nil {
		return nil, nil, err
	}
	return candidates, scores, nil
}

// printSquads writes a ranked squad table to stdout.
func printSquads(squads []squadbuilder.RankedSquad, top int) {
	if top > len(squads) {
		top = len(squads)
	}
	for i := 0; i < top; i++ {
		s := squads[i]
		fmt.Printf("#%d  lineup score %.2f  price %.1f\n", i+1, s.LineupScore, s.TotalPrice)
		for _, role := range domain.Roles {
			for _, m := range s.Squad.ByRole()[role] {
				fmt.Printf("    %-4s %-24s %-16s %5.1f\n", m.Role, m.Name, m.Club, m.Price)
			}
		}
		fmt.Println()
	}
}
