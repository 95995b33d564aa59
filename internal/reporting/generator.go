package reporting

import (
	"context"
	"sort"
	"time"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	candidateStore storage.CandidateStore
	planStore      storage.PlanStore
	now            func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(candidateStore storage.CandidateStore, planStore storage.PlanStore) *Generator {
	return &Generator{
		candidateStore: candidateStore,
		planStore:      planStore,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete report.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	candidates, err := g.candidateStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	ledgers, err := g.planStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt:  g.now(),
		PlanCount:    len(ledgers),
		PoolSummary:  generatePoolSummary(candidates),
		Plans:        generatePlanRows(ledgers),
		Gameweeks:    generateGameweekRows(ledgers),
		CaptainUsage: generateCaptainUsage(ledgers),
	}, nil
}

// generatePoolSummary computes counts and price bounds over the pool.
func generatePoolSummary(candidates []*domain.Candidate) PoolSummary {
	var s PoolSummary
	s.TotalCandidates = len(candidates)

	clubs := make(map[string]struct{})
	for i, c := range candidates {
		switch c.Role {
		case domain.RoleGK:
			s.Goalkeepers++
		case domain.RoleDEF:
			s.Defenders++
		case domain.RoleMID:
			s.Midfielders++
		case domain.RoleFWD:
			s.Forwards++
		}
		clubs[c.Club] = struct{}{}

		if i == 0 || c.Price < s.MinPrice {
			s.MinPrice = c.Price
		}
		if c.Price > s.MaxPrice {
			s.MaxPrice = c.Price
		}
	}
	s.ClubCount = len(clubs)
	return s
}

// generatePlanRows builds one row per stored plan.
func generatePlanRows(ledgers []*domain.Ledger) []PlanRow {
	rows := make([]PlanRow, len(ledgers))
	for i, l := range ledgers {
		rows[i] = PlanRow{
			PlanID:            l.PlanID,
			StartGameweek:     l.StartGameweek,
			Gameweeks:         l.Gameweeks,
			TotalScore:        l.TotalScore(),
			TotalTransfers:    l.TotalTransfers(),
			TransferPointCost: l.AccumulatedPointCost,
			FreeTransfersLeft: l.FreeTransfers,
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].StartGameweek != rows[j].StartGameweek {
			return rows[i].StartGameweek < rows[j].StartGameweek
		}
		return rows[i].PlanID < rows[j].PlanID
	})
	return rows
}

// generateGameweekRows flattens all ledger entries into detail rows.
func generateGameweekRows(ledgers []*domain.Ledger) []GameweekRow {
	var rows []GameweekRow
	for _, l := range ledgers {
		for _, e := range l.Entries {
			rows = append(rows, GameweekRow{
				PlanID:             l.PlanID,
				Gameweek:           e.Gameweek,
				Formation:          e.Formation.String(),
				CaptainName:        e.Captain.Name,
				Transfers:          len(e.Transfers),
				PenaltyCharged:     e.PenaltyCharged,
				LineupScore:        e.LineupScore,
				RealizedScore:      e.RealizedScore,
				FreeTransfersAfter: e.FreeTransfersAfter,
				BudgetRemaining:    e.BudgetRemaining,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PlanID != rows[j].PlanID {
			return rows[i].PlanID < rows[j].PlanID
		}
		return rows[i].Gameweek < rows[j].Gameweek
	})
	return rows
}

// generateCaptainUsage counts armband appearances across all plans.
func generateCaptainUsage(ledgers []*domain.Ledger) []CaptainUsageRow {
	counts := make(map[string]*CaptainUsageRow)
	for _, l := range ledgers {
		for _, e := range l.Entries {
			row, ok := counts[e.Captain.ID]
			if !ok {
				row = &CaptainUsageRow{CandidateID: e.Captain.ID, Name: e.Captain.Name}
				counts[e.Captain.ID] = row
			}
			row.Count++
		}
	}

	rows := make([]CaptainUsageRow, 0, len(counts))
	for _, row := range counts {
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
