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
	"fpl-squad-lab/internal/idhash"
	"fpl-squad-lab/internal/logging"
	"fpl-squad-lab/internal/pool"
	"fpl-squad-lab/internal/squadbuilder"
	"fpl-squad-lab/internal/storage"
	chstore "fpl-squad-lab/internal/storage/clickhouse"
	"fpl-squad-lab/internal/storage/memory"
	"fpl-squad-lab/internal/storage/migrations"
	pgstore "fpl-squad-lab/internal/storage/postgres"
	"fpl-squad-lab/internal/transfer"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	startGameweek := flag.Int("start-gameweek", 0, "First gameweek of the planning horizon")
	numGameweeks := flag.Int("gameweeks", 1, "Number of gameweeks to plan")
	candidatesPath := flag.String("candidates", "", "Candidate CSV; bypasses storage when set together with --scores")
	scoresPath := flag.String("scores", "", "Prediction CSV; bypasses storage when set together with --candidates")
	save := flag.Bool("save", false, "Persist the resulting ledger to the plan store")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	if *startGameweek <= 0 {
		log.Fatal("--start-gameweek is required")
	}
	if *numGameweeks <= 0 {
		log.Fatal("--gameweeks must be positive")
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
		preds      *pool.Predictions
		planStore  storage.PlanStore = memory.NewPlanStore()
	)

	if fileMode {
		candidates, preds, err = loadFromFiles(log, *candidatesPath, *scoresPath)
		if err != nil {
			log.WithError(err).Fatal("Load candidate pool")
		}
		if *save {
			log.Warn("--save ignored in CSV mode: plans persist only with database storage")
			*save = false
		}
	} else {
		pgPool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			log.WithError(err).Fatal("Connect to postgres")
		}
		defer pgPool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pgPool); err != nil {
			log.WithError(err).Fatal("Run postgres migrations")
		}

		chConn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			log.WithError(err).Fatal("Connect to clickhouse")
		}
		defer chConn.Close()

		candidates, preds, err = loadFromStores(ctx,
			pgstore.NewCandidateStore(pgPool),
			chstore.NewPredictionStore(chConn),
			*startGameweek, *numGameweeks)
		if err != nil {
			log.WithError(err).Fatal("Load candidate pool")
		}
		planStore = pgstore.NewPlanStore(pgPool)
	}

	rules := cfg.GameRules()

	// Seed squad: best beam-search squad on the first gameweek's scores.
	startScores, err := preds.WeekScores(*startGameweek, candidates)
	if err != nil {
		log.WithError(err).Fatal("Resolve start-gameweek scores")
	}
	builder := squadbuilder.New(rules, squadbuilder.Options{
		BeamWidth:   cfg.Builder.BeamWidth,
		PoolSize:    cfg.Builder.PoolSize,
		MaxResults:  1,
		Parallelism: cfg.Builder.Parallelism,
	}, log)
	ranked, err := builder.Build(candidates, startScores)
	if err != nil {
		log.WithError(err).Fatal("Build initial squad")
	}
	initial := ranked[0].Squad

	planner := transfer.New(rules, transfer.PlanOptions{
		InitialFreeTransfers: cfg.Planner.InitialFreeTransfers,
	}, log)

	ledger, err := planner.Plan(initial, rules.BudgetCap-initial.TotalPrice(), candidates, preds, *startGameweek, *numGameweeks)
	if err != nil {
		log.WithError(err).Fatal("Plan transfers")
	}

	memberIDs := make([]string, len(initial.Members))
	for i, m := range initial.Members {
		memberIDs[i] = m.ID
	}
	ledger.PlanID = idhash.ComputePlanID(*startGameweek, *numGameweeks, memberIDs)

	if *save {
		if err := planStore.Insert(ctx, ledger); err != nil {
			log.WithError(err).Fatal("Persist plan")
		}
		log.WithField("plan_id", ledger.PlanID).Info("Plan persisted")
	}

	printLedger(ledger)
}

// loadFromFiles reads the pool straight from CSV files.
func loadFromFiles(log *logrus.Logger, candidatesPath, scoresPath string) ([]domain.Candidate, *pool.Predictions, error) {
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

	return candidates, pool.NewPredictions(points), nil
}

// loadFromStores reads the pool and the horizon's predictions from storage.
func loadFromStores(ctx context.Context, candidateStore storage.CandidateStore, predictionStore storage.PredictionStore, startGameweek, numGameweeks int) ([]domain.Candidate, *pool.Predictions, error) {
	rows, err := candidateStore.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load candidates: %w", err)
	}
	candidates := make([]domain.Candidate, len(rows))
	for i, c := range rows {
		candidates[i] = *c
	}

	points, err := predictionStore.GetByGameweekRange(ctx, startGameweek, startGameweek+numGameweeks-1)
	if err != nil {
		return nil, nil, fmt.Errorf("load predictions: %w", err)
	}
	preds := pool.NewPredictions(nil)
	for _, pt := range points {
		preds.Add(*pt)
	}
	return candidates, preds, nil
}

// printLedger writes the per-gameweek plan to stdout.
func printLedger(l *domain.Ledger) {
	fmt.Printf("Plan %s: gameweeks %d-%d\n\n", l.PlanID[:12], l.StartGameweek, l.StartGameweek+l.Gameweeks-1)
	for _, e := range l.Entries {
		fmt.Printf("GW %d  %s  captain %s  lineup %.2f  realized %.2f  free after %d  budget %.1f\n",
			e.Gameweek, e.Formation.String(), e.Captain.Name,
			e.LineupScore, e.RealizedScore, e.FreeTransfersAfter, e.BudgetRemaining)
		for _, t := range e.Transfers {
			slot := "free"
			if !t.UsedFree {
				slot = fmt.Sprintf("-%d pts", e.PenaltyCharged)
			}
			fmt.Printf("      %s -> %s  (+%.2f pts, %s)\n", t.Out.Name, t.In.Name, t.ScoreDelta, slot)
		}
	}
	fmt.Printf("\nTotal score %.2f  transfers %d  point cost %d\n",
		l.TotalScore(), l.TotalTransfers(), l.AccumulatedPointCost)
}
