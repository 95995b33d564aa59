package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/storage"
)

// PredictionStore implements storage.PredictionStore using ClickHouse.
type PredictionStore struct {
	conn *Conn
}

// NewPredictionStore creates a new PredictionStore.
func NewPredictionStore(conn *Conn) *PredictionStore {
	return &PredictionStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PredictionStore = (*PredictionStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (candidate_id, gameweek). MergeTree does not enforce uniqueness, so
// duplicates are rejected with explicit checks before the batch insert.
func (s *PredictionStore) InsertBulk(ctx context.Context, points []*domain.ScorePoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		candidateID string
		gameweek    int
	}
	seen := make(map[key]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.CandidateID == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.CandidateID, p.Gameweek}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, p := range points {
		exists, err := s.exists(ctx, p.CandidateID, p.Gameweek)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO prediction_scores (candidate_id, gameweek, score)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.CandidateID, int32(p.Gameweek), p.Score); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// exists reports whether a (candidate_id, gameweek) row is present.
func (s *PredictionStore) exists(ctx context.Context, candidateID string, gameweek int) (bool, error) {
	row := s.conn.QueryRow(ctx, `
		SELECT count() FROM prediction_scores
		WHERE candidate_id = ? AND gameweek = ?
	`, candidateID, int32(gameweek))

	var count uint64
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByCandidateID retrieves all points for a candidate, ordered by gameweek ASC.
func (s *PredictionStore) GetByCandidateID(ctx context.Context, candidateID string) ([]*domain.ScorePoint, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT candidate_id, gameweek, score
		FROM prediction_scores
		WHERE candidate_id = ?
		ORDER BY gameweek ASC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("get scores by candidate: %w", err)
	}
	defer rows.Close()

	return scanPoints(rows)
}

// GetByGameweek retrieves all points for one gameweek, ordered by candidate_id ASC.
func (s *PredictionStore) GetByGameweek(ctx context.Context, gameweek int) ([]*domain.ScorePoint, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT candidate_id, gameweek, score
		FROM prediction_scores
		WHERE gameweek = ?
		ORDER BY candidate_id ASC
	`, int32(gameweek))
	if err != nil {
		return nil, fmt.Errorf("get scores by gameweek: %w", err)
	}
	defer rows.Close()

	return scanPoints(rows)
}

// GetByGameweekRange retrieves points within [start, end] (inclusive),
// ordered by gameweek ASC, candidate_id ASC.
func (s *PredictionStore) GetByGameweekRange(ctx context.Context, start, end int) ([]*domain.ScorePoint, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT candidate_id, gameweek, score
		FROM prediction_scores
		WHERE gameweek >= ? AND gameweek <= ?
		ORDER BY gameweek ASC, candidate_id ASC
	`, int32(start), int32(end))
	if err != nil {
		return nil, fmt.Errorf("get scores by gameweek range: %w", err)
	}
	defer rows.Close()

	return scanPoints(rows)
}

// scanPoints scans score point rows.
func scanPoints(rows driver.Rows) ([]*domain.ScorePoint, error) {
	var result []*domain.ScorePoint
	for rows.Next() {
		var p domain.ScorePoint
		var gameweek int32
		if err := rows.Scan(&p.CandidateID, &gameweek, &p.Score); err != nil {
			return nil, fmt.Errorf("scan score point: %w", err)
		}
		p.Gameweek = int(gameweek)
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score points: %w", err)
	}
	return result, nil
}
