package pool

import (
	"sort"

	"fpl-squad-lab/internal/domain"
)

// SortCandidates orders candidates by the documented total order:
// score descending, then price ascending, then candidate ID ascending.
// Every component iterates candidates in this order so results are
// reproducible across runs.
func SortCandidates(candidates []domain.Candidate, scores map[string]float64) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		sa, sb := scores[a.ID], scores[b.ID]
		if sa != sb {
			return sa > sb
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.ID < b.ID
	})
}

// ByRole partitions candidates by role, sorts each role with
// SortCandidates, and keeps only the top poolSize per role.
// poolSize <= 0 keeps everything. Truncation is the deliberate
// accuracy/speed trade-off bounding the squad search.
func ByRole(candidates []domain.Candidate, scores map[string]float64, poolSize int) map[domain.Role][]domain.Candidate {
	grouped := make(map[domain.Role][]domain.Candidate, len(domain.Roles))
	for _, c := range candidates {
		grouped[c.Role] = append(grouped[c.Role], c)
	}
	for role := range grouped {
		SortCandidates(grouped[role], scores)
		if poolSize > 0 && len(grouped[role]) > poolSize {
			grouped[role] = grouped[role][:poolSize]
		}
	}
	return grouped
}
