package storage

import (
	"context"

	"fpl-squad-lab/internal/domain"
)

// CandidateStore provides access to candidates storage.
type CandidateStore interface {
	// Insert adds a new candidate. Returns ErrDuplicateKey if candidate_id exists.
	Insert(ctx context.Context, c *domain.Candidate) error

	// InsertBulk adds multiple candidates atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, candidates []*domain.Candidate) error

	// GetByID retrieves a candidate by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, candidateID string) (*domain.Candidate, error)

	// GetAll retrieves every candidate, ordered by name ASC, candidate_id ASC.
	GetAll(ctx context.Context) ([]*domain.Candidate, error)

	// GetByRole retrieves all candidates of a role, ordered by name ASC, candidate_id ASC.
	GetByRole(ctx context.Context, role domain.Role) ([]*domain.Candidate, error)

	// GetByClub retrieves all candidates of a club, ordered by name ASC, candidate_id ASC.
	GetByClub(ctx context.Context, club string) ([]*domain.Candidate, error)
}

// PredictionStore provides access to per-gameweek predicted scores.
type PredictionStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (candidate_id, gameweek).
	InsertBulk(ctx context.Context, points []*domain.ScorePoint) error

	// GetByCandidateID retrieves all points for a candidate, ordered by gameweek ASC.
	GetByCandidateID(ctx context.Context, candidateID string) ([]*domain.ScorePoint, error)

	// GetByGameweek retrieves all points for one gameweek, ordered by candidate_id ASC.
	GetByGameweek(ctx context.Context, gameweek int) ([]*domain.ScorePoint, error)

	// GetByGameweekRange retrieves points within [start, end] (inclusive),
	// ordered by gameweek ASC, candidate_id ASC.
	GetByGameweekRange(ctx context.Context, start, end int) ([]*domain.ScorePoint, error)
}

// PlanStore provides access to persisted planning runs.
type PlanStore interface {
	// Insert adds a completed ledger. Returns ErrDuplicateKey if plan_id exists.
	Insert(ctx context.Context, l *domain.Ledger) error

	// GetByID retrieves a ledger by plan ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, planID string) (*domain.Ledger, error)

	// GetAll retrieves every ledger, ordered by start_gameweek ASC, plan_id ASC.
	GetAll(ctx context.Context) ([]*domain.Ledger, error)
}
