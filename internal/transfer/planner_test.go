package transfer

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/pool"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testSquad builds a valid 15-member squad: prices 6.0 each (total 90.0,
// leaving 10.0 budget headroom), three members per club.
func testSquad() *domain.Squad {
	quota := []struct {
		role domain.Role
		n    int
	}{
		{domain.RoleGK, 2},
		{domain.RoleDEF, 5},
		{domain.RoleMID, 5},
		{domain.RoleFWD, 3},
	}

	var members []domain.Candidate
	i := 0
	for _, q := range quota {
		for k := 0; k < q.n; k++ {
			members = append(members, domain.Candidate{
				ID:    fmt.Sprintf("%s-%d", q.role, k),
				Name:  fmt.Sprintf("%s %d", q.role, k),
				Role:  q.role,
				Club:  fmt.Sprintf("club-%d", i/3),
				Price: 6.0,
			})
			i++
		}
	}
	return &domain.Squad{Members: members}
}

// flatScores gives every squad member a score of 4.0 for the gameweek
// range [startGW, startGW+numGWs). Baseline lineup total is then 44.0.
func flatScores(squad *domain.Squad, startGW, numGWs int) []domain.ScorePoint {
	var points []domain.ScorePoint
	for gw := startGW; gw < startGW+numGWs; gw++ {
		for _, m := range squad.Members {
			points = append(points, domain.ScorePoint{CandidateID: m.ID, Gameweek: gw, Score: 4.0})
		}
	}
	return points
}

func scorePoints(id string, startGW, numGWs int, score float64) []domain.ScorePoint {
	var points []domain.ScorePoint
	for gw := startGW; gw < startGW+numGWs; gw++ {
		points = append(points, domain.ScorePoint{CandidateID: id, Gameweek: gw, Score: score})
	}
	return points
}

func TestPlan_FreeSwapCommitted(t *testing.T) {
	squad := testSquad()
	rules := domain.DefaultRules()

	// One replacement midfielder scoring 5.0 above the flat 4.0 baseline
	// at identical price: the swap is free and must be committed.
	replacement := domain.Candidate{ID: "rep-mid", Name: "Rep Mid", Role: domain.RoleMID, Club: "club-9", Price: 6.0}
	points := append(flatScores(squad, 1, 1), scorePoints("rep-mid", 1, 1, 9.0)...)

	planner := New(rules, PlanOptions{InitialFreeTransfers: 1}, testLogger())
	ledger, err := planner.Plan(squad, 10.0, []domain.Candidate{replacement}, pool.NewPredictions(points), 1, 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	entry := ledger.Entries[0]
	if len(entry.Transfers) != 1 {
		t.Fatalf("Expected 1 transfer, got %d", len(entry.Transfers))
	}

	tr := entry.Transfers[0]
	if tr.In.ID != "rep-mid" {
		t.Errorf("Expected incoming rep-mid, got %s", tr.In.ID)
	}
	if !tr.UsedFree {
		t.Error("Swap should consume the banked free transfer")
	}
	if tr.ScoreDelta != 5.0 {
		t.Errorf("Expected plain-lineup improvement of exactly 5.0, got %v", tr.ScoreDelta)
	}
	if entry.PenaltyCharged != 0 {
		t.Errorf("Free swap must cost zero points, charged %d", entry.PenaltyCharged)
	}
	if entry.LineupScore != 49.0 {
		t.Errorf("Expected lineup score 49.0 after swap, got %v", entry.LineupScore)
	}
	// Captain is now the replacement (9.0 doubled).
	if entry.Captain.ID != "rep-mid" {
		t.Errorf("Expected captain rep-mid, got %s", entry.Captain.ID)
	}
	if entry.RealizedScore != 58.0 {
		t.Errorf("Expected realized score 58.0, got %v", entry.RealizedScore)
	}
	// Free bank: 1 - 1 used + 1 granted = 1.
	if entry.FreeTransfersAfter != 1 {
		t.Errorf("Expected 1 free transfer after rollover, got %d", entry.FreeTransfersAfter)
	}
	if ledger.AccumulatedPointCost != 0 {
		t.Errorf("Expected zero accumulated cost, got %d", ledger.AccumulatedPointCost)
	}
}

func TestPlan_SmallGainBlockedWithoutFreeTransfer(t *testing.T) {
	squad := testSquad()
	rules := domain.DefaultRules()

	// Improvement of 3.0 is below the 4-point penalty, and no free
	// transfer is banked: the planner must hold.
	replacement := domain.Candidate{ID: "rep-mid", Name: "Rep Mid", Role: domain.RoleMID, Club: "club-9", Price: 6.0}
	points := append(flatScores(squad, 1, 1), scorePoints("rep-mid", 1, 1, 7.0)...)

	planner := New(rules, PlanOptions{InitialFreeTransfers: 0}, testLogger())
	ledger, err := planner.Plan(squad, 10.0, []domain.Candidate{replacement}, pool.NewPredictions(points), 1, 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	entry := ledger.Entries[0]
	if len(entry.Transfers) != 0 {
		t.Fatalf("Expected no transfers, got %d", len(entry.Transfers))
	}
	if entry.PenaltyCharged != 0 {
		t.Errorf("No swap committed, but %d points charged", entry.PenaltyCharged)
	}
	if entry.LineupScore != 44.0 {
		t.Errorf("Expected unchanged lineup score 44.0, got %v", entry.LineupScore)
	}
	if ledger.AccumulatedPointCost != 0 {
		t.Errorf("Expected zero accumulated cost, got %d", ledger.AccumulatedPointCost)
	}
	// Unused bank still gains the weekly grant.
	if entry.FreeTransfersAfter != 1 {
		t.Errorf("Expected 1 free transfer after rollover, got %d", entry.FreeTransfersAfter)
	}
}

func TestPlan_LargeGainPaysPenalty(t *testing.T) {
	squad := testSquad()
	rules := domain.DefaultRules()

	// Improvement of 6.0 beats the 4-point penalty even with no free
	// transfer banked.
	replacement := domain.Candidate{ID: "rep-mid", Name: "Rep Mid", Role: domain.RoleMID, Club: "club-9", Price: 6.0}
	points := append(flatScores(squad, 1, 1), scorePoints("rep-mid", 1, 1, 10.0)...)

	planner := New(rules, PlanOptions{InitialFreeTransfers: 0}, testLogger())
	ledger, err := planner.Plan(squad, 10.0, []domain.Candidate{replacement}, pool.NewPredictions(points), 1, 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	entry := ledger.Entries[0]
	if len(entry.Transfers) != 1 {
		t.Fatalf("Expected 1 transfer, got %d", len(entry.Transfers))
	}
	if entry.Transfers[0].UsedFree {
		t.Error("No free transfer was banked; swap must be marked paid")
	}
	if entry.PenaltyCharged != rules.TransferPenalty {
		t.Errorf("Expected penalty %d, got %d", rules.TransferPenalty, entry.PenaltyCharged)
	}
	// 50.0 lineup + 10.0 captain bonus - 4 penalty.
	if entry.RealizedScore != 56.0 {
		t.Errorf("Expected realized score 56.0, got %v", entry.RealizedScore)
	}
	if ledger.AccumulatedPointCost != rules.TransferPenalty {
		t.Errorf("Expected accumulated cost %d, got %d", rules.TransferPenalty, ledger.AccumulatedPointCost)
	}
}

func TestPlan_RolloverCapsAtTwo(t *testing.T) {
	squad := testSquad()
	rules := domain.DefaultRules()

	// Empty replacement pool: no swaps possible, the bank accrues +1 per
	// gameweek but never beyond the cap.
	points := flatScores(squad, 1, 3)

	planner := New(rules, PlanOptions{InitialFreeTransfers: 1}, testLogger())
	ledger, err := planner.Plan(squad, 10.0, nil, pool.NewPredictions(points), 1, 3)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	want := []int{2, 2, 2}
	for i, entry := range ledger.Entries {
		if entry.FreeTransfersAfter != want[i] {
			t.Errorf("Gameweek %d: expected %d free transfers, got %d", entry.Gameweek, want[i], entry.FreeTransfersAfter)
		}
	}
	if ledger.TotalTransfers() != 0 {
		t.Errorf("Expected no transfers, got %d", ledger.TotalTransfers())
	}
	if ledger.FreeTransfers != rules.FreeTransferCap {
		t.Errorf("Expected final bank at cap %d, got %d", rules.FreeTransferCap, ledger.FreeTransfers)
	}
}

func TestPlan_BudgetBlocksExpensiveSwap(t *testing.T) {
	squad := testSquad()
	rules := domain.DefaultRules()

	// The replacement is 11.0 over the outgoing price but only 10.0
	// budget remains: inadmissible regardless of score.
	replacement := domain.Candidate{ID: "rep-mid", Name: "Rep Mid", Role: domain.RoleMID, Club: "club-9", Price: 17.0}
	points := append(flatScores(squad, 1, 1), scorePoints("rep-mid", 1, 1, 20.0)...)

	planner := New(rules, PlanOptions{InitialFreeTransfers: 1}, testLogger())
	ledger, err := planner.Plan(squad, 10.0, []domain.Candidate{replacement}, pool.NewPredictions(points), 1, 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if ledger.TotalTransfers() != 0 {
		t.Errorf("Expected swap blocked by budget, got %d transfers", ledger.TotalTransfers())
	}
}

func TestPlan_PriceDeltaTracksBudget(t *testing.T) {
	squad := testSquad()
	rules := domain.DefaultRules()

	replacement := domain.Candidate{ID: "rep-mid", Name: "Rep Mid", Role: domain.RoleMID, Club: "club-9", Price: 8.0}
	points := append(flatScores(squad, 1, 1), scorePoints("rep-mid", 1, 1, 9.0)...)

	planner := New(rules, PlanOptions{InitialFreeTransfers: 1}, testLogger())
	ledger, err := planner.Plan(squad, 10.0, []domain.Candidate{replacement}, pool.NewPredictions(points), 1, 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	entry := ledger.Entries[0]
	if len(entry.Transfers) != 1 {
		t.Fatalf("Expected 1 transfer, got %d", len(entry.Transfers))
	}
	if entry.Transfers[0].PriceDelta != 2.0 {
		t.Errorf("Expected price delta 2.0, got %v", entry.Transfers[0].PriceDelta)
	}
	if entry.BudgetRemaining != 8.0 {
		t.Errorf("Expected 8.0 budget remaining, got %v", entry.BudgetRemaining)
	}
}

func TestPlan_ClubCapBlocksSwap(t *testing.T) {
	squad := testSquad()
	rules := domain.DefaultRules()

	// club-0 already has three members; a fourth is inadmissible. The
	// outgoing midfielders all belong to other clubs.
	replacement := domain.Candidate{ID: "rep-mid", Name: "Rep Mid", Role: domain.RoleMID, Club: "club-0", Price: 6.0}
	points := append(flatScores(squad, 1, 1), scorePoints("rep-mid", 1, 1, 9.0)...)

	planner := New(rules, PlanOptions{InitialFreeTransfers: 1}, testLogger())
	ledger, err := planner.Plan(squad, 10.0, []domain.Candidate{replacement}, pool.NewPredictions(points), 1, 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if ledger.TotalTransfers() != 0 {
		t.Errorf("Expected swap blocked by club cap, got %d transfers", ledger.TotalTransfers())
	}
}

func TestPlan_MissingPredictionIsFatal(t *testing.T) {
	squad := testSquad()

	// Scores exist for gameweek 1 only; planning two weeks must fail.
	points := flatScores(squad, 1, 1)

	planner := New(domain.DefaultRules(), PlanOptions{InitialFreeTransfers: 1}, testLogger())
	_, err := planner.Plan(squad, 10.0, nil, pool.NewPredictions(points), 1, 2)
	if !errors.Is(err, pool.ErrMissingPrediction) {
		t.Errorf("Expected ErrMissingPrediction, got %v", err)
	}
}

func TestPlan_InitialSquadNotMutated(t *testing.T) {
	squad := testSquad()
	rules := domain.DefaultRules()

	replacement := domain.Candidate{ID: "rep-mid", Name: "Rep Mid", Role: domain.RoleMID, Club: "club-9", Price: 6.0}
	points := append(flatScores(squad, 1, 1), scorePoints("rep-mid", 1, 1, 9.0)...)

	planner := New(rules, PlanOptions{InitialFreeTransfers: 1}, testLogger())
	ledger, err := planner.Plan(squad, 10.0, []domain.Candidate{replacement}, pool.NewPredictions(points), 1, 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if ledger.TotalTransfers() != 1 {
		t.Fatalf("Expected 1 transfer, got %d", ledger.TotalTransfers())
	}

	if squad.Contains("rep-mid") {
		t.Error("Plan mutated the caller's squad")
	}
}

func TestPlan_InvalidInitialSquad(t *testing.T) {
	squad := testSquad()
	squad.Members = squad.Members[:14]

	planner := New(domain.DefaultRules(), PlanOptions{}, testLogger())
	_, err := planner.Plan(squad, 10.0, nil, pool.NewPredictions(nil), 1, 1)
	if !errors.Is(err, domain.ErrWrongSquadSize) {
		t.Errorf("Expected ErrWrongSquadSize, got %v", err)
	}
}

func TestPlan_LedgerConservation(t *testing.T) {
	squad := testSquad()
	rules := domain.DefaultRules()

	// Fresh improving replacement every week keeps the planner swapping;
	// check the bank recurrence and the accumulated cost exactly.
	pool1 := []domain.Candidate{
		{ID: "rep-a", Name: "Rep A", Role: domain.RoleMID, Club: "club-8", Price: 6.0},
		{ID: "rep-b", Name: "Rep B", Role: domain.RoleFWD, Club: "club-9", Price: 6.0},
	}
	points := flatScores(squad, 1, 2)
	points = append(points, scorePoints("rep-a", 1, 2, 9.0)...)
	points = append(points, scorePoints("rep-b", 1, 2, 10.0)...)

	planner := New(rules, PlanOptions{InitialFreeTransfers: 1}, testLogger())
	ledger, err := planner.Plan(squad, 10.0, pool1, pool.NewPredictions(points), 1, 2)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	free := 1
	cost := 0
	for _, entry := range ledger.Entries {
		freeUsed := 0
		for _, tr := range entry.Transfers {
			if tr.UsedFree {
				freeUsed++
			}
		}

		next := free - freeUsed + 1
		if next > rules.FreeTransferCap {
			next = rules.FreeTransferCap
		}
		if entry.FreeTransfersAfter != next {
			t.Errorf("Gameweek %d: bank %d, want %d", entry.Gameweek, entry.FreeTransfersAfter, next)
		}

		wantPenalty := rules.TransferPenalty * (len(entry.Transfers) - freeUsed)
		if entry.PenaltyCharged != wantPenalty {
			t.Errorf("Gameweek %d: penalty %d, want %d", entry.Gameweek, entry.PenaltyCharged, wantPenalty)
		}

		free = entry.FreeTransfersAfter
		cost += entry.PenaltyCharged
	}

	if ledger.AccumulatedPointCost != cost {
		t.Errorf("Accumulated cost %d does not match summed penalties %d", ledger.AccumulatedPointCost, cost)
	}
}
