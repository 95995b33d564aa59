package domain

// Transfer records one committed substitution.
type Transfer struct {
	Out        Candidate
	In         Candidate
	PriceDelta float64 // In.Price - Out.Price
	ScoreDelta float64 // plain lineup improvement at commit time
	UsedFree   bool    // consumed a banked free transfer
}

// LedgerEntry is the outcome of one simulated gameweek.
type LedgerEntry struct {
	Gameweek           int
	Transfers          []Transfer
	PenaltyCharged     int // points deducted this gameweek
	Captain            Candidate
	Formation          Formation
	LineupScore        float64 // plain best-eleven total
	RealizedScore      float64 // with captain bonus, after penalty
	FreeTransfersAfter int     // banked free transfers after rollover
	BudgetRemaining    float64
}

// Ledger is the running state and output of one planning run.
// Created at the start of the run, mutated once per gameweek, and
// returned as the run's result. Corresponds to the plan_runs and
// plan_entries tables in PostgreSQL.
type Ledger struct {
	PlanID        string // deterministic hash, set when persisted
	StartGameweek int
	Gameweeks     int

	FreeTransfers        int // currently banked
	AccumulatedPointCost int // total penalty points charged

	Entries []LedgerEntry
}

// TotalScore sums realized per-gameweek scores (penalties included).
func (l *Ledger) TotalScore() float64 {
	total := 0.0
	for _, e := range l.Entries {
		total += e.RealizedScore
	}
	return total
}

// TotalTransfers counts all committed transfers.
func (l *Ledger) TotalTransfers() int {
	total := 0
	for _, e := range l.Entries {
		total += len(e.Transfers)
	}
	return total
}

// TotalTransferCost returns the accumulated penalty points.
func (l *Ledger) TotalTransferCost() int {
	return l.AccumulatedPointCost
}
