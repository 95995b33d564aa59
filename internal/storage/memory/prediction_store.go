package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/storage"
)

// PredictionStore is an in-memory implementation of storage.PredictionStore.
type PredictionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScorePoint // keyed by (candidate_id, gameweek)
}

// NewPredictionStore creates a new in-memory prediction store.
func NewPredictionStore() *PredictionStore {
	return &PredictionStore{
		data: make(map[string]*domain.ScorePoint),
	}
}

// scoreKey generates a unique key for a score point.
func scoreKey(candidateID string, gameweek int) string {
	return fmt.Sprintf("%s|%d", candidateID, gameweek)
}

// InsertBulk adds multiple points. Fails entire batch on duplicate (candidate_id, gameweek).
func (s *PredictionStore) InsertBulk(_ context.Context, points []*domain.ScorePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check for duplicates (existing + intra-batch)
	batchKeys := make(map[string]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.CandidateID == "" {
			return storage.ErrInvalidInput
		}
		key := scoreKey(p.CandidateID, p.Gameweek)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert copies
	for _, p := range points {
		pointCopy := *p
		s.data[scoreKey(p.CandidateID, p.Gameweek)] = &pointCopy
	}
	return nil
}

// GetByCandidateID retrieves all points for a candidate, ordered by gameweek ASC.
func (s *PredictionStore) GetByCandidateID(_ context.Context, candidateID string) ([]*domain.ScorePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ScorePoint
	for _, p := range s.data {
		if p.CandidateID == candidateID {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Gameweek < result[j].Gameweek
	})
	return result, nil
}

// GetByGameweek retrieves all points for one gameweek, ordered by candidate_id ASC.
func (s *PredictionStore) GetByGameweek(_ context.Context, gameweek int) ([]*domain.ScorePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ScorePoint
	for _, p := range s.data {
		if p.Gameweek == gameweek {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CandidateID < result[j].CandidateID
	})
	return result, nil
}

// GetByGameweekRange retrieves points within [start, end] (inclusive),
// ordered by gameweek ASC, candidate_id ASC.
func (s *PredictionStore) GetByGameweekRange(_ context.Context, start, end int) ([]*domain.ScorePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ScorePoint
	for _, p := range s.data {
		if p.Gameweek >= start && p.Gameweek <= end {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Gameweek != result[j].Gameweek {
			return result[i].Gameweek < result[j].Gameweek
		}
		return result[i].CandidateID < result[j].CandidateID
	})
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.PredictionStore = (*PredictionStore)(nil)
