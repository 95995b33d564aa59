package postgres

import (
	"context"
	"fmt"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/storage"
)

// PlanStore implements storage.PlanStore using PostgreSQL.
// A ledger spans three tables: plan_runs (run-level state), plan_entries
// (one row per gameweek), and plan_transfers (one row per committed
// substitution).
type PlanStore struct {
	pool *Pool
}

// NewPlanStore creates a new PlanStore.
func NewPlanStore(pool *Pool) *PlanStore {
	return &PlanStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlanStore = (*PlanStore)(nil)

// Insert adds a completed ledger. Returns ErrDuplicateKey if plan_id exists.
func (s *PlanStore) Insert(ctx context.Context, l *domain.Ledger) error {
	if l == nil || l.PlanID == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert plan: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO plan_runs (
			plan_id, start_gameweek, gameweeks, free_transfers, accumulated_point_cost
		) VALUES ($1, $2, $3, $4, $5)
	`, l.PlanID, l.StartGameweek, l.Gameweeks, l.FreeTransfers, l.AccumulatedPointCost)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert plan run: %w", err)
	}

	for _, e := range l.Entries {
		_, err = tx.Exec(ctx, `
			INSERT INTO plan_entries (
				plan_id, gameweek, penalty_charged,
				captain_id, captain_name, captain_role, captain_club, captain_price,
				formation_def, formation_mid, formation_fwd,
				lineup_score, realized_score, free_transfers_after, budget_remaining
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, l.PlanID, e.Gameweek, e.PenaltyCharged,
			e.Captain.ID, e.Captain.Name, string(e.Captain.Role), e.Captain.Club, e.Captain.Price,
			e.Formation.Def, e.Formation.Mid, e.Formation.Fwd,
			e.LineupScore, e.RealizedScore, e.FreeTransfersAfter, e.BudgetRemaining)
		if err != nil {
			return fmt.Errorf("insert plan entry gw %d: %w", e.Gameweek, err)
		}

		for i, t := range e.Transfers {
			_, err = tx.Exec(ctx, `
				INSERT INTO plan_transfers (
					plan_id, gameweek, transfer_index,
					out_id, out_name, out_role, out_club, out_price,
					in_id, in_name, in_role, in_club, in_price,
					price_delta, score_delta, used_free
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			`, l.PlanID, e.Gameweek, i,
				t.Out.ID, t.Out.Name, string(t.Out.Role), t.Out.Club, t.Out.Price,
				t.In.ID, t.In.Name, string(t.In.Role), t.In.Club, t.In.Price,
				t.PriceDelta, t.ScoreDelta, t.UsedFree)
			if err != nil {
				return fmt.Errorf("insert plan transfer gw %d: %w", e.Gameweek, err)
			}
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a ledger by plan ID. Returns ErrNotFound if not exists.
func (s *PlanStore) GetByID(ctx context.Context, planID string) (*domain.Ledger, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT plan_id, start_gameweek, gameweeks, free_transfers, accumulated_point_cost
		FROM plan_runs WHERE plan_id = $1
	`, planID)

	var l domain.Ledger
	if err := row.Scan(&l.PlanID, &l.StartGameweek, &l.Gameweeks, &l.FreeTransfers, &l.AccumulatedPointCost); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get plan run: %w", err)
	}

	if err := s.loadEntries(ctx, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetAll retrieves every ledger, ordered by start_gameweek ASC, plan_id ASC.
func (s *PlanStore) GetAll(ctx context.Context) ([]*domain.Ledger, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT plan_id, start_gameweek, gameweeks, free_transfers, accumulated_point_cost
		FROM plan_runs ORDER BY start_gameweek ASC, plan_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("get all plan runs: %w", err)
	}
	defer rows.Close()

	var result []*domain.Ledger
	for rows.Next() {
		var l domain.Ledger
		if err := rows.Scan(&l.PlanID, &l.StartGameweek, &l.Gameweeks, &l.FreeTransfers, &l.AccumulatedPointCost); err != nil {
			return nil, fmt.Errorf("scan plan run: %w", err)
		}
		result = append(result, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan runs: %w", err)
	}

	for _, l := range result {
		if err := s.loadEntries(ctx, l); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// loadEntries fills a ledger's entries and their transfers.
func (s *PlanStore) loadEntries(ctx context.Context, l *domain.Ledger) error {
	rows, err := s.pool.Query(ctx, `
		SELECT gameweek, penalty_charged,
			captain_id, captain_name, captain_role, captain_club, captain_price,
			formation_def, formation_mid, formation_fwd,
			lineup_score, realized_score, free_transfers_after, budget_remaining
		FROM plan_entries WHERE plan_id = $1 ORDER BY gameweek ASC
	`, l.PlanID)
	if err != nil {
		return fmt.Errorf("get plan entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.LedgerEntry
		var captainRole string
		if err := rows.Scan(&e.Gameweek, &e.PenaltyCharged,
			&e.Captain.ID, &e.Captain.Name, &captainRole, &e.Captain.Club, &e.Captain.Price,
			&e.Formation.Def, &e.Formation.Mid, &e.Formation.Fwd,
			&e.LineupScore, &e.RealizedScore, &e.FreeTransfersAfter, &e.BudgetRemaining); err != nil {
			return fmt.Errorf("scan plan entry: %w", err)
		}
		e.Captain.Role = domain.Role(captainRole)
		l.Entries = append(l.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate plan entries: %w", err)
	}

	for i := range l.Entries {
		if err := s.loadTransfers(ctx, l.PlanID, &l.Entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// loadTransfers fills one entry's transfers.
func (s *PlanStore) loadTransfers(ctx context.Context, planID string, e *domain.LedgerEntry) error {
	rows, err := s.pool.Query(ctx, `
		SELECT out_id, out_name, out_role, out_club, out_price,
			in_id, in_name, in_role, in_club, in_price,
			price_delta, score_delta, used_free
		FROM plan_transfers WHERE plan_id = $1 AND gameweek = $2
		ORDER BY transfer_index ASC
	`, planID, e.Gameweek)
	if err != nil {
		return fmt.Errorf("get plan transfers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.Transfer
		var outRole, inRole string
		if err := rows.Scan(&t.Out.ID, &t.Out.Name, &outRole, &t.Out.Club, &t.Out.Price,
			&t.In.ID, &t.In.Name, &inRole, &t.In.Club, &t.In.Price,
			&t.PriceDelta, &t.ScoreDelta, &t.UsedFree); err != nil {
			return fmt.Errorf("scan plan transfer: %w", err)
		}
		t.Out.Role = domain.Role(outRole)
		t.In.Role = domain.Role(inRole)
		e.Transfers = append(e.Transfers, t)
	}
	return rows.Err()
}
