package domain

import (
	"errors"
	"fmt"
)

// Squad validation errors
var (
	ErrWrongSquadSize    = errors.New("wrong squad size")
	ErrWrongRoleCount    = errors.New("wrong role count")
	ErrOverBudget        = errors.New("squad price exceeds budget cap")
	ErrClubCapExceeded   = errors.New("club cap exceeded")
	ErrDuplicateMember   = errors.New("duplicate candidate in squad")
	ErrMemberNotInSquad  = errors.New("candidate not in squad")
	ErrRoleMismatch      = errors.New("replacement role does not match")
	ErrAlreadyInSquad    = errors.New("replacement already in squad")
)

// Squad is the full roster built subject to budget, club, and role
// constraints. Members keep a stable order: grouped by role in Roles order,
// within a role in builder selection order.
type Squad struct {
	Members []Candidate
}

// TotalPrice returns the summed price of all members.
func (s *Squad) TotalPrice() float64 {
	total := 0.0
	for _, m := range s.Members {
		total += m.Price
	}
	return total
}

// ByRole groups members by role, preserving member order.
func (s *Squad) ByRole() map[Role][]Candidate {
	grouped := make(map[Role][]Candidate, len(Roles))
	for _, m := range s.Members {
		grouped[m.Role] = append(grouped[m.Role], m)
	}
	return grouped
}

// ClubCounts returns the number of members per club.
func (s *Squad) ClubCounts() map[string]int {
	counts := make(map[string]int)
	for _, m := range s.Members {
		counts[m.Club]++
	}
	return counts
}

// Contains reports whether a candidate ID is in the squad.
func (s *Squad) Contains(candidateID string) bool {
	for _, m := range s.Members {
		if m.ID == candidateID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Each planning run owns its own copy.
func (s *Squad) Clone() *Squad {
	members := make([]Candidate, len(s.Members))
	copy(members, s.Members)
	return &Squad{Members: members}
}

// Validate checks all squad invariants against the rules and names the
// first violation found.
func (s *Squad) Validate(rules Rules) error {
	if len(s.Members) != rules.SquadSize() {
		return fmt.Errorf("%w: got %d, want %d", ErrWrongSquadSize, len(s.Members), rules.SquadSize())
	}

	roleCounts := make(map[Role]int)
	seen := make(map[string]struct{}, len(s.Members))
	for _, m := range s.Members {
		roleCounts[m.Role]++
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateMember, m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	for role, want := range rules.SquadQuota {
		if roleCounts[role] != want {
			return fmt.Errorf("%w: %s got %d, want %d", ErrWrongRoleCount, role, roleCounts[role], want)
		}
	}

	if price := s.TotalPrice(); price > rules.BudgetCap {
		return fmt.Errorf("%w: %.1f > %.1f", ErrOverBudget, price, rules.BudgetCap)
	}

	for club, count := range s.ClubCounts() {
		if count > rules.MaxPerClub {
			return fmt.Errorf("%w: %s has %d", ErrClubCapExceeded, club, count)
		}
	}

	return nil
}

// Replace swaps the member with outID for the replacement candidate,
// returning a new squad. The caller is responsible for constraint checks;
// Replace only verifies membership, role match, and uniqueness.
func (s *Squad) Replace(outID string, in Candidate) (*Squad, error) {
	if s.Contains(in.ID) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyInSquad, in.ID)
	}

	next := s.Clone()
	for i, m := range next.Members {
		if m.ID != outID {
			continue
		}
		if m.Role != in.Role {
			return nil, fmt.Errorf("%w: %s is %s, %s is %s", ErrRoleMismatch, outID, m.Role, in.ID, in.Role)
		}
		next.Members[i] = in
		return next, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMemberNotInSquad, outID)
}
