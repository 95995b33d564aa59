// Package lineup extracts the best legal starting eleven from a full
// squad. It is used standalone, inside the squad builder for ranking, and
// inside the transfer planner for swap evaluation.
package lineup

import (
	"fmt"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/pool"
)

// Best returns the highest-scoring legal lineup for one gameweek.
//
// Every canonical formation is tried: the single top GK plus the top
// Def/Mid/Fwd counts by score. Score ties between formations keep the
// first formation in domain.Formations order (defense-heavy first);
// within a role candidates follow the documented total order (score
// desc, price asc, ID asc). Given a squad with exact role counts this
// has no failure mode beyond a member missing a week score.
func Best(squad *domain.Squad, weekScores map[string]float64, gameweek int, rules domain.Rules) (*domain.Lineup, error) {
	if err := squad.Validate(rules); err != nil {
		return nil, fmt.Errorf("invalid squad: %w", err)
	}
	for _, m := range squad.Members {
		if _, ok := weekScores[m.ID]; !ok {
			return nil, fmt.Errorf("%w: candidate %s (%s), gameweek %d",
				pool.ErrMissingPrediction, m.ID, m.Name, gameweek)
		}
	}

	byRole := squad.ByRole()
	for role := range byRole {
		pool.SortCandidates(byRole[role], weekScores)
	}

	var best *domain.Lineup
	for _, formation := range domain.Formations() {
		slots := make([]domain.LineupSlot, 0, domain.LineupSize)
		slots = appendTop(slots, byRole[domain.RoleGK], 1, weekScores)
		slots = appendTop(slots, byRole[domain.RoleDEF], formation.Def, weekScores)
		slots = appendTop(slots, byRole[domain.RoleMID], formation.Mid, weekScores)
		slots = appendTop(slots, byRole[domain.RoleFWD], formation.Fwd, weekScores)

		total := 0.0
		for _, s := range slots {
			total += s.Score
		}

		// Strict improvement only: ties keep the earlier formation.
		if best == nil || total > best.Total {
			best = &domain.Lineup{
				Formation: formation,
				Gameweek:  gameweek,
				Slots:     slots,
				Total:     total,
			}
		}
	}

	best.Captain = pickCaptain(best.Slots)
	return best, nil
}

// appendTop appends the first n candidates of a sorted role group.
func appendTop(slots []domain.LineupSlot, sorted []domain.Candidate, n int, weekScores map[string]float64) []domain.LineupSlot {
	for _, c := range sorted[:n] {
		slots = append(slots, domain.LineupSlot{Candidate: c, Score: weekScores[c.ID]})
	}
	return slots
}

// pickCaptain returns the highest-scoring lineup member. Score ties keep
// the earlier slot, which already follows the documented candidate order.
func pickCaptain(slots []domain.LineupSlot) domain.Candidate {
	best := slots[0]
	for _, s := range slots[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Candidate
}
