package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/storage"
)

func testLedger(planID string, startGW int) *domain.Ledger {
	return &domain.Ledger{
		PlanID:               planID,
		StartGameweek:        startGW,
		Gameweeks:            2,
		FreeTransfers:        1,
		AccumulatedPointCost: 4,
		Entries: []domain.LedgerEntry{
			{
				Gameweek:       startGW,
				PenaltyCharged: 4,
				Captain:        domain.Candidate{ID: "cap", Name: "Captain", Role: domain.RoleFWD, Club: "x", Price: 9.0},
				Formation:      domain.Formation{Def: 4, Mid: 4, Fwd: 2},
				LineupScore:    50.0,
				RealizedScore:  55.0,
				Transfers: []domain.Transfer{
					{
						Out:        domain.Candidate{ID: "out-1", Name: "Out One", Role: domain.RoleMID, Club: "y", Price: 6.0},
						In:         domain.Candidate{ID: "in-1", Name: "In One", Role: domain.RoleMID, Club: "z", Price: 7.5},
						PriceDelta: 1.5,
						ScoreDelta: 6.0,
						UsedFree:   true,
					},
					{
						Out:        domain.Candidate{ID: "out-2", Name: "Out Two", Role: domain.RoleDEF, Club: "y", Price: 4.5},
						In:         domain.Candidate{ID: "in-2", Name: "In Two", Role: domain.RoleDEF, Club: "z", Price: 5.0},
						PriceDelta: 0.5,
						ScoreDelta: 5.0,
						UsedFree:   false,
					},
				},
				FreeTransfersAfter: 1,
				BudgetRemaining:    8.5,
			},
			{
				Gameweek:           startGW + 1,
				Captain:            domain.Candidate{ID: "cap", Name: "Captain", Role: domain.RoleFWD, Club: "x", Price: 9.0},
				Formation:          domain.Formation{Def: 3, Mid: 4, Fwd: 3},
				LineupScore:        48.0,
				RealizedScore:      57.0,
				FreeTransfersAfter: 2,
				BudgetRemaining:    8.5,
			},
		},
	}
}

func TestPlanStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPlanStore(pool)
	ctx := context.Background()

	ledger := testLedger("plan-001", 10)
	require.NoError(t, store.Insert(ctx, ledger))

	retrieved, err := store.GetByID(ctx, "plan-001")
	require.NoError(t, err)

	assert.Equal(t, ledger.PlanID, retrieved.PlanID)
	assert.Equal(t, ledger.StartGameweek, retrieved.StartGameweek)
	assert.Equal(t, ledger.Gameweeks, retrieved.Gameweeks)
	assert.Equal(t, ledger.FreeTransfers, retrieved.FreeTransfers)
	assert.Equal(t, ledger.AccumulatedPointCost, retrieved.AccumulatedPointCost)

	require.Len(t, retrieved.Entries, 2)

	first := retrieved.Entries[0]
	assert.Equal(t, 10, first.Gameweek)
	assert.Equal(t, 4, first.PenaltyCharged)
	assert.Equal(t, "cap", first.Captain.ID)
	assert.Equal(t, domain.RoleFWD, first.Captain.Role)
	assert.Equal(t, domain.Formation{Def: 4, Mid: 4, Fwd: 2}, first.Formation)
	assert.Equal(t, 50.0, first.LineupScore)
	assert.Equal(t, 55.0, first.RealizedScore)
	assert.Equal(t, 8.5, first.BudgetRemaining)

	// Transfers preserve insertion order.
	require.Len(t, first.Transfers, 2)
	assert.Equal(t, "in-1", first.Transfers[0].In.ID)
	assert.True(t, first.Transfers[0].UsedFree)
	assert.Equal(t, 1.5, first.Transfers[0].PriceDelta)
	assert.Equal(t, "in-2", first.Transfers[1].In.ID)
	assert.False(t, first.Transfers[1].UsedFree)

	second := retrieved.Entries[1]
	assert.Equal(t, 11, second.Gameweek)
	assert.Empty(t, second.Transfers)
	assert.Equal(t, 2, second.FreeTransfersAfter)
}

func TestPlanStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPlanStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testLedger("plan-dup", 10)))

	err := store.Insert(ctx, testLedger("plan-dup", 12))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPlanStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPlanStore(pool)
	ctx := context.Background()

	_, err := store.GetByID(ctx, "nonexistent-plan")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPlanStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPlanStore(pool)
	ctx := context.Background()

	assert.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(ctx, &domain.Ledger{}), storage.ErrInvalidInput)
}

func TestPlanStore_GetAllOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPlanStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testLedger("plan-b", 12)))
	require.NoError(t, store.Insert(ctx, testLedger("plan-a", 12)))
	require.NoError(t, store.Insert(ctx, testLedger("plan-c", 10)))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// start_gameweek ASC, plan_id ASC
	assert.Equal(t, "plan-c", all[0].PlanID)
	assert.Equal(t, "plan-a", all[1].PlanID)
	assert.Equal(t, "plan-b", all[2].PlanID)

	// Entries come back fully loaded.
	for _, l := range all {
		assert.Len(t, l.Entries, 2)
	}
}
