package memory

import (
	"context"
	"sort"
	"sync"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/storage"
)

// PlanStore is an in-memory implementation of storage.PlanStore.
type PlanStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Ledger // keyed by plan_id
}

// NewPlanStore creates a new in-memory plan store.
func NewPlanStore() *PlanStore {
	return &PlanStore{
		data: make(map[string]*domain.Ledger),
	}
}

// Insert adds a completed ledger. Returns ErrDuplicateKey if plan_id exists.
func (s *PlanStore) Insert(_ context.Context, l *domain.Ledger) error {
	if l == nil || l.PlanID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[l.PlanID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[l.PlanID] = copyLedger(l)
	return nil
}

// GetByID retrieves a ledger by plan ID. Returns ErrNotFound if not exists.
func (s *PlanStore) GetByID(_ context.Context, planID string) (*domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, exists := s.data[planID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyLedger(l), nil
}

// GetAll retrieves every ledger, ordered by start_gameweek ASC, plan_id ASC.
func (s *PlanStore) GetAll(_ context.Context) ([]*domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Ledger, 0, len(s.data))
	for _, l := range s.data {
		result = append(result, copyLedger(l))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartGameweek != result[j].StartGameweek {
			return result[i].StartGameweek < result[j].StartGameweek
		}
		return result[i].PlanID < result[j].PlanID
	})
	return result, nil
}

// copyLedger deep-copies a ledger including entries and their transfers.
func copyLedger(l *domain.Ledger) *domain.Ledger {
	ledgerCopy := *l
	ledgerCopy.Entries = make([]domain.LedgerEntry, len(l.Entries))
	for i, e := range l.Entries {
		entryCopy := e
		entryCopy.Transfers = make([]domain.Transfer, len(e.Transfers))
		copy(entryCopy.Transfers, e.Transfers)
		ledgerCopy.Entries[i] = entryCopy
	}
	return &ledgerCopy
}

// Verify interface compliance at compile time.
var _ storage.PlanStore = (*PlanStore)(nil)
