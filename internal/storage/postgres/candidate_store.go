package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/storage"
)

// CandidateStore implements storage.CandidateStore using PostgreSQL.
type CandidateStore struct {
	pool *Pool
}

// NewCandidateStore creates a new CandidateStore.
func NewCandidateStore(pool *Pool) *CandidateStore {
	return &CandidateStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CandidateStore = (*CandidateStore)(nil)

const candidateColumns = "candidate_id, name, role, club, price"

// Insert adds a new candidate. Returns ErrDuplicateKey if candidate_id exists.
func (s *CandidateStore) Insert(ctx context.Context, c *domain.Candidate) error {
	if c == nil || c.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO candidates (candidate_id, name, role, club, price)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, c.ID, c.Name, string(c.Role), c.Club, c.Price)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

// InsertBulk adds multiple candidates atomically. Fails entire batch on any duplicate.
func (s *CandidateStore) InsertBulk(ctx context.Context, candidates []*domain.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert candidates: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO candidates (candidate_id, name, role, club, price)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, c := range candidates {
		if c == nil || c.ID == "" {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, query, c.ID, c.Name, string(c.Role), c.Club, c.Price); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert candidate %s: %w", c.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a candidate by its ID. Returns ErrNotFound if not exists.
func (s *CandidateStore) GetByID(ctx context.Context, candidateID string) (*domain.Candidate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM candidates WHERE candidate_id = $1
	`, candidateColumns)

	row := s.pool.QueryRow(ctx, query, candidateID)
	c, err := scanCandidate(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get candidate by id: %w", err)
	}
	return c, nil
}

// GetAll retrieves every candidate, ordered by name ASC, candidate_id ASC.
func (s *CandidateStore) GetAll(ctx context.Context) ([]*domain.Candidate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM candidates ORDER BY name ASC, candidate_id ASC
	`, candidateColumns)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all candidates: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows)
}

// GetByRole retrieves all candidates of a role, ordered by name ASC, candidate_id ASC.
func (s *CandidateStore) GetByRole(ctx context.Context, role domain.Role) ([]*domain.Candidate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM candidates WHERE role = $1 ORDER BY name ASC, candidate_id ASC
	`, candidateColumns)

	rows, err := s.pool.Query(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("get candidates by role: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows)
}

// GetByClub retrieves all candidates of a club, ordered by name ASC, candidate_id ASC.
func (s *CandidateStore) GetByClub(ctx context.Context, club string) ([]*domain.Candidate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM candidates WHERE club = $1 ORDER BY name ASC, candidate_id ASC
	`, candidateColumns)

	rows, err := s.pool.Query(ctx, query, club)
	if err != nil {
		return nil, fmt.Errorf("get candidates by club: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows)
}

// scanCandidate scans a single candidate row.
func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var c domain.Candidate
	var role string
	if err := row.Scan(&c.ID, &c.Name, &role, &c.Club, &c.Price); err != nil {
		return nil, err
	}
	c.Role = domain.Role(role)
	return &c, nil
}

// scanCandidates scans all candidate rows.
func scanCandidates(rows pgx.Rows) ([]*domain.Candidate, error) {
	var result []*domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return result, nil
}
