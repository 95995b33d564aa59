package reporting

import "time"

// Report summarizes the candidate pool and every stored transfer plan.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	PlanCount   int

	// Pool Summary
	PoolSummary PoolSummary

	// Plan rows (sorted by start_gameweek, plan_id)
	Plans []PlanRow

	// Per-gameweek detail rows (sorted by plan_id, gameweek)
	Gameweeks []GameweekRow

	// Captain usage across all plans (sorted by count desc, name asc)
	CaptainUsage []CaptainUsageRow
}

// PoolSummary describes the stored candidate pool.
type PoolSummary struct {
	TotalCandidates int
	Goalkeepers     int
	Defenders       int
	Midfielders     int
	Forwards        int
	ClubCount       int
	MinPrice        float64
	MaxPrice        float64
}

// PlanRow represents one stored plan run.
type PlanRow struct {
	PlanID            string
	StartGameweek     int
	Gameweeks         int
	TotalScore        float64
	TotalTransfers    int
	TransferPointCost int
	FreeTransfersLeft int
}

// GameweekRow represents one gameweek of a plan.
type GameweekRow struct {
	PlanID             string
	Gameweek           int
	Formation          string
	CaptainName        string
	Transfers          int
	PenaltyCharged     int
	LineupScore        float64
	RealizedScore      float64
	FreeTransfersAfter int
	BudgetRemaining    float64
}

// CaptainUsageRow counts how often a candidate wore the armband.
type CaptainUsageRow struct {
	CandidateID string
	Name        string
	Count       int
}
