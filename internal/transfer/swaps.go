package transfer

import (
	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/lineup"
	"fpl-squad-lab/internal/pool"
)

// swap is one evaluated single-player substitution.
type swap struct {
	out         domain.Candidate
	in          domain.Candidate
	improvement float64 // plain lineup total delta, captain excluded
	squad       *domain.Squad
	lineup      *domain.Lineup
}

// bestSwap enumerates replacements for every lineup member and returns
// the swap with the largest plain-lineup improvement, or nil when no
// admissible swap improves on the baseline.
//
// Admissible replacements share the outgoing member's role, are not in
// the squad, keep every club count within the cap, and fit the remaining
// budget. A member whose every replacement is blocked is simply left
// unchanged. Enumeration order is deterministic (lineup slot order, then
// the documented candidate order), and ties keep the earlier swap.
func (p *Planner) bestSwap(squad *domain.Squad, baseline *domain.Lineup, candidates []domain.Candidate, weekScores map[string]float64, budgetRemaining float64) *swap {
	byRole := pool.ByRole(candidates, weekScores, 0)
	clubCounts := squad.ClubCounts()

	var best *swap
	for _, slot := range baseline.Slots {
		out := slot.Candidate
		for _, in := range byRole[out.Role] {
			if squad.Contains(in.ID) {
				continue
			}
			if in.Price-out.Price > budgetRemaining {
				continue
			}
			// Club cap with the outgoing member removed from the count.
			count := clubCounts[in.Club]
			if in.Club == out.Club {
				count--
			}
			if count+1 > p.rules.MaxPerClub {
				continue
			}

			mutated, err := squad.Replace(out.ID, in)
			if err != nil {
				continue
			}
			candidateLineup, err := lineup.Best(mutated, weekScores, baseline.Gameweek, p.rules)
			if err != nil {
				continue
			}

			improvement := candidateLineup.Total - baseline.Total
			if best == nil || improvement > best.improvement {
				best = &swap{
					out:         out,
					in:          in,
					improvement: improvement,
					squad:       mutated,
					lineup:      candidateLineup,
				}
			}
		}
	}

	if best == nil || best.improvement <= 0 {
		return nil
	}
	return best
}
