// Package squadbuilder constructs full squads from a scored candidate
// pool with a beam search over partial selections. The search is a
// heuristic bounded by beam width and per-role pool size, a deliberate
// speed-over-provable-optimality choice; the constraint set itself is
// enforced exactly.
package squadbuilder

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/lineup"
	"fpl-squad-lab/internal/pool"
)

// ErrInfeasible is returned when the beam empties before every role is
// filled: no legal squad exists under the current parameters. Callers
// should loosen the beam width, pool size, or budget cap.
var ErrInfeasible = errors.New("infeasible under constraints")

// Options bounds the search.
type Options struct {
	BeamWidth   int // partial squads kept per expansion step (default 200)
	PoolSize    int // candidates kept per role, 0 keeps all
	MaxResults  int // ranked squads returned (default 50)
	Parallelism int // workers per expansion step (default 1)
}

// RankedSquad is one complete squad with its ranking score.
type RankedSquad struct {
	Squad       *domain.Squad
	TotalPrice  float64
	LineupScore float64 // best-achievable starting-eleven score
}

// Builder runs beam-search squad construction.
type Builder struct {
	rules domain.Rules
	opts  Options
	log   logrus.FieldLogger
}

// New creates a Builder, applying option defaults.
func New(rules domain.Rules, opts Options, log logrus.FieldLogger) *Builder {
	if opts.BeamWidth <= 0 {
		opts.BeamWidth = 200
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 50
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Builder{rules: rules, opts: opts, log: log}
}

// partial is one in-progress selection on the beam.
type partial struct {
	members []domain.Candidate
	price   float64
	score   float64
	clubs   map[string]int
	nextIdx int    // next admissible index in the current role's pool
	key     string // member IDs in selection order, final tie-break
}

// Build constructs squads from the candidate pool. Pure function of its
// inputs: identical pools, scores, and options yield identical output.
//
// Candidates are partitioned by role and truncated to the per-role pool
// size, then the squad is filled one candidate at a time in role order
// GK, DEF, MID, FWD. After every expansion step only the top-beam-width
// partials survive, ranked by cumulative predicted score (ties: price
// ascending, then selection key). Complete squads are deduplicated by
// member set, ranked by best-lineup score, and truncated to MaxResults.
func (b *Builder) Build(candidates []domain.Candidate, scores map[string]float64) ([]RankedSquad, error) {
	for _, c := range candidates {
		if _, ok := scores[c.ID]; !ok {
			return nil, fmt.Errorf("%w: candidate %s (%s)", pool.ErrMissingPrediction, c.ID, c.Name)
		}
	}

	grouped := pool.ByRole(candidates, scores, b.opts.PoolSize)
	for _, role := range domain.Roles {
		if len(grouped[role]) < b.rules.SquadQuota[role] {
			return nil, fmt.Errorf("%w: %d %s candidates, need %d",
				ErrInfeasible, len(grouped[role]), role, b.rules.SquadQuota[role])
		}
	}

	b.log.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"beam_width": b.opts.BeamWidth,
		"pool_size":  b.opts.PoolSize,
		"budget_cap": b.rules.BudgetCap,
	}).Info("Starting squad construction")

	minTail := b.minCostTails(grouped)

	beam := []*partial{{clubs: map[string]int{}}}
	for roleIdx, role := range domain.Roles {
		quota := b.rules.SquadQuota[role]
		roleCandidates := grouped[role]

		for slot := 0; slot < quota; slot++ {
			// Cheapest possible completion after this pick: the open
			// slots of the current role plus every later role in full.
			tail := minTail.within[role][quota-slot-1] + minTail.after[roleIdx]

			beam = b.expand(beam, roleCandidates, scores, tail)
			if len(beam) == 0 {
				return nil, fmt.Errorf("%w: beam emptied at role %s", ErrInfeasible, role)
			}
			sortBeam(beam)
			if len(beam) > b.opts.BeamWidth {
				beam = beam[:b.opts.BeamWidth]
			}
		}

		// Role filled: restart candidate indexing for the next role.
		for _, p := range beam {
			p.nextIdx = 0
		}
	}

	results := b.rank(beam, scores)

	b.log.WithFields(logrus.Fields{
		"complete_squads": len(beam),
		"results":         len(results),
	}).Info("Squad construction finished")

	return results, nil
}

// expand grows every partial by every admissible next candidate of the
// current role. Within a role candidates are added in pool order only at
// or after nextIdx, so each member set is generated exactly once.
// Expansion fans out across workers; the results are concatenated in
// worker-chunk order before sorting, so parallelism never changes output.
func (b *Builder) expand(beam []*partial, roleCandidates []domain.Candidate, scores map[string]float64, minRemaining float64) []*partial {
	workers := b.opts.Parallelism
	if workers > len(beam) {
		workers = len(beam)
	}
	if workers <= 1 {
		return b.expandChunk(beam, roleCandidates, scores, minRemaining)
	}

	chunks := make([][]*partial, workers)
	chunkSize := (len(beam) + workers - 1) / workers
	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			lo := w * chunkSize
			hi := lo + chunkSize
			if hi > len(beam) {
				hi = len(beam)
			}
			if lo < hi {
				chunks[w] = b.expandChunk(beam[lo:hi], roleCandidates, scores, minRemaining)
			}
		}(w)
	}
	for w := 0; w < workers; w++ {
		<-done
	}

	var next []*partial
	for _, chunk := range chunks {
		next = append(next, chunk...)
	}
	return next
}

func (b *Builder) expandChunk(beam []*partial, roleCandidates []domain.Candidate, scores map[string]float64, minRemaining float64) []*partial {
	var next []*partial
	for _, p := range beam {
		for i := p.nextIdx; i < len(roleCandidates); i++ {
			c := roleCandidates[i]
			if p.clubs[c.Club]+1 > b.rules.MaxPerClub {
				continue
			}
			if p.price+c.Price+minRemaining > b.rules.BudgetCap {
				continue
			}

			members := make([]domain.Candidate, len(p.members)+1)
			copy(members, p.members)
			members[len(p.members)] = c

			clubs := make(map[string]int, len(p.clubs)+1)
			for club, n := range p.clubs {
				clubs[club] = n
			}
			clubs[c.Club]++

			next = append(next, &partial{
				members: members,
				price:   p.price + c.Price,
				score:   p.score + scores[c.ID],
				clubs:   clubs,
				nextIdx: i + 1,
				key:     p.key + "|" + c.ID,
			})
		}
	}
	return next
}

// rank deduplicates complete squads by member set, scores each by its
// best lineup, and returns the top MaxResults.
func (b *Builder) rank(beam []*partial, scores map[string]float64) []RankedSquad {
	seen := make(map[string]struct{}, len(beam))
	results := make([]RankedSquad, 0, len(beam))
	for _, p := range beam {
		squad := &domain.Squad{Members: p.members}
		key := canonicalKey(p.members)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		// A complete beam entry always has exact role counts, so the
		// selector cannot fail here.
		best, err := lineup.Best(squad, scores, 0, b.rules)
		if err != nil {
			b.log.WithError(err).Warn("Dropping squad that failed lineup selection")
			continue
		}
		results = append(results, RankedSquad{
			Squad:       squad,
			TotalPrice:  p.price,
			LineupScore: best.Total,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].LineupScore != results[j].LineupScore {
			return results[i].LineupScore > results[j].LineupScore
		}
		if results[i].TotalPrice != results[j].TotalPrice {
			return results[i].TotalPrice < results[j].TotalPrice
		}
		return canonicalKey(results[i].Squad.Members) < canonicalKey(results[j].Squad.Members)
	})

	if len(results) > b.opts.MaxResults {
		results = results[:b.opts.MaxResults]
	}
	return results
}

// minCostTail holds cheapest-completion sums used for budget pruning.
// within[role][k] is the k cheapest prices of that role's pool; after[i]
// is the full-quota minimum of every role following Roles[i]. The sums
// ignore already-selected members, so they lower-bound the true cost and
// never prune a feasible branch.
type minCostTail struct {
	within map[domain.Role][]float64
	after  []float64
}

func (b *Builder) minCostTails(grouped map[domain.Role][]domain.Candidate) minCostTail {
	tails := minCostTail{
		within: make(map[domain.Role][]float64, len(domain.Roles)),
		after:  make([]float64, len(domain.Roles)),
	}

	for _, role := range domain.Roles {
		prices := make([]float64, len(grouped[role]))
		for i, c := range grouped[role] {
			prices[i] = c.Price
		}
		sort.Float64s(prices)

		quota := b.rules.SquadQuota[role]
		sums := make([]float64, quota+1)
		for k := 1; k <= quota; k++ {
			sums[k] = sums[k-1] + prices[k-1]
		}
		tails.within[role] = sums
	}

	for i := len(domain.Roles) - 2; i >= 0; i-- {
		later := domain.Roles[i+1]
		tails.after[i] = tails.after[i+1] + tails.within[later][b.rules.SquadQuota[later]]
	}
	return tails
}

// sortBeam orders partials by cumulative score descending, price
// ascending, then selection key ascending.
func sortBeam(beam []*partial) {
	sort.Slice(beam, func(i, j int) bool {
		if beam[i].score != beam[j].score {
			return beam[i].score > beam[j].score
		}
		if beam[i].price != beam[j].price {
			return beam[i].price < beam[j].price
		}
		return beam[i].key < beam[j].key
	})
}

// canonicalKey joins sorted member IDs, identifying a squad by set.
func canonicalKey(members []domain.Candidate) string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	sort.Strings(ids)
	key := ""
	for _, id := range ids {
		key += id + "|"
	}
	return key
}
