package memory

import (
	"context"
	"sort"
	"sync"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/storage"
)

// CandidateStore is an in-memory implementation of storage.CandidateStore.
type CandidateStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Candidate // keyed by candidate_id
}

// NewCandidateStore creates a new in-memory candidate store.
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{
		data: make(map[string]*domain.Candidate),
	}
}

// Insert adds a new candidate. Returns ErrDuplicateKey if candidate_id exists.
func (s *CandidateStore) Insert(_ context.Context, c *domain.Candidate) error {
	if c == nil || c.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.ID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	candidateCopy := *c
	s.data[c.ID] = &candidateCopy
	return nil
}

// InsertBulk adds multiple candidates atomically. Fails entire batch on any duplicate.
func (s *CandidateStore) InsertBulk(_ context.Context, candidates []*domain.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check for duplicates (existing + intra-batch)
	batchKeys := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c == nil || c.ID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[c.ID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[c.ID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[c.ID] = struct{}{}
	}

	// Second pass: insert copies
	for _, c := range candidates {
		candidateCopy := *c
		s.data[c.ID] = &candidateCopy
	}
	return nil
}

// GetByID retrieves a candidate by its ID. Returns ErrNotFound if not exists.
func (s *CandidateStore) GetByID(_ context.Context, candidateID string) (*domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[candidateID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	candidateCopy := *c
	return &candidateCopy, nil
}

// GetAll retrieves every candidate, ordered by name ASC, candidate_id ASC.
func (s *CandidateStore) GetAll(_ context.Context) ([]*domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Candidate, 0, len(s.data))
	for _, c := range s.data {
		candidateCopy := *c
		result = append(result, &candidateCopy)
	}

	sortCandidates(result)
	return result, nil
}

// GetByRole retrieves all candidates of a role, ordered by name ASC, candidate_id ASC.
func (s *CandidateStore) GetByRole(_ context.Context, role domain.Role) ([]*domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Candidate
	for _, c := range s.data {
		if c.Role == role {
			candidateCopy := *c
			result = append(result, &candidateCopy)
		}
	}

	sortCandidates(result)
	return result, nil
}

// GetByClub retrieves all candidates of a club, ordered by name ASC, candidate_id ASC.
func (s *CandidateStore) GetByClub(_ context.Context, club string) ([]*domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Candidate
	for _, c := range s.data {
		if c.Club == club {
			candidateCopy := *c
			result = append(result, &candidateCopy)
		}
	}

	sortCandidates(result)
	return result, nil
}

// sortCandidates applies the store read order: name ASC, candidate_id ASC.
func sortCandidates(candidates []*domain.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Name != candidates[j].Name {
			return candidates[i].Name < candidates[j].Name
		}
		return candidates[i].ID < candidates[j].ID
	})
}

// Verify interface compliance at compile time.
var _ storage.CandidateStore = (*CandidateStore)(nil)
