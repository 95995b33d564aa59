// Package transfer plans week-by-week squad substitutions over a rolling
// prediction horizon, maintaining the free-transfer bank and penalty
// ledger. One greedy swap-search pass runs per gameweek; this is a known
// simplification versus multi-week lookahead, with the ledger semantics
// kept exact.
package transfer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"fpl-squad-lab/internal/domain"
	"fpl-squad-lab/internal/lineup"
	"fpl-squad-lab/internal/pool"
)

// PlanOptions configures a planning run.
type PlanOptions struct {
	// InitialFreeTransfers is the number of banked transfers at the start
	// of the run. Zero is meaningful: the first gameweek's swap then costs
	// the full penalty. Negative values are treated as zero.
	InitialFreeTransfers int
}

// Planner executes sequential per-gameweek transfer decisions.
type Planner struct {
	rules domain.Rules
	opts  PlanOptions
	log   logrus.FieldLogger
}

// New creates a Planner, applying option defaults.
func New(rules domain.Rules, opts PlanOptions, log logrus.FieldLogger) *Planner {
	if opts.InitialFreeTransfers < 0 {
		opts.InitialFreeTransfers = 0
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Planner{rules: rules, opts: opts, log: log}
}

// Plan simulates numGameweeks forward from startGameweek.
//
// Each gameweek: evaluate the no-change baseline lineup and captain,
// search single swaps for every lineup member, commit the best swap only
// if its plain-lineup improvement exceeds the point cost of the transfer
// slot, then roll the free-transfer bank forward. The gameweek loop is
// strictly sequential; each decision depends on the mutated squad and
// ledger from the previous week. The run owns its own squad copy.
//
// A candidate without a predicted score for a target gameweek fails the
// run with a wrapped pool.ErrMissingPrediction.
func (p *Planner) Plan(initial *domain.Squad, budgetRemaining float64, candidates []domain.Candidate, preds *pool.Predictions, startGameweek, numGameweeks int) (*domain.Ledger, error) {
	if err := initial.Validate(p.rules); err != nil {
		return nil, fmt.Errorf("initial squad: %w", err)
	}

	squad := initial.Clone()
	ledger := &domain.Ledger{
		StartGameweek: startGameweek,
		Gameweeks:     numGameweeks,
		FreeTransfers: p.opts.InitialFreeTransfers,
	}

	p.log.WithFields(logrus.Fields{
		"start_gameweek":   startGameweek,
		"num_gameweeks":    numGameweeks,
		"budget_remaining": budgetRemaining,
		"pool":             len(candidates),
	}).Info("Starting transfer plan")

	for gw := startGameweek; gw < startGameweek+numGameweeks; gw++ {
		entry, nextSquad, nextBudget, err := p.planGameweek(squad, budgetRemaining, candidates, preds, gw, ledger.FreeTransfers)
		if err != nil {
			return nil, fmt.Errorf("gameweek %d: %w", gw, err)
		}

		freeUsed := 0
		for _, t := range entry.Transfers {
			if t.UsedFree {
				freeUsed++
			}
		}

		// Rollover: unused free transfers bank up to the cap, and every
		// gameweek grants one more.
		next := ledger.FreeTransfers - freeUsed + 1
		if next > p.rules.FreeTransferCap {
			next = p.rules.FreeTransferCap
		}
		ledger.FreeTransfers = next
		ledger.AccumulatedPointCost += entry.PenaltyCharged

		entry.FreeTransfersAfter = ledger.FreeTransfers
		entry.BudgetRemaining = nextBudget
		ledger.Entries = append(ledger.Entries, *entry)

		squad = nextSquad
		budgetRemaining = nextBudget
	}

	p.log.WithFields(logrus.Fields{
		"total_score":     ledger.TotalScore(),
		"total_transfers": ledger.TotalTransfers(),
		"transfer_cost":   ledger.AccumulatedPointCost,
	}).Info("Transfer plan finished")

	return ledger, nil
}

// planGameweek runs one decision step and returns the ledger entry plus
// the (possibly mutated) squad and remaining budget.
func (p *Planner) planGameweek(squad *domain.Squad, budgetRemaining float64, candidates []domain.Candidate, preds *pool.Predictions, gw, freeAvailable int) (*domain.LedgerEntry, *domain.Squad, float64, error) {
	weekScores, err := p.weekScores(squad, candidates, preds, gw)
	if err != nil {
		return nil, nil, 0, err
	}

	baseline, err := lineup.Best(squad, weekScores, gw, p.rules)
	if err != nil {
		return nil, nil, 0, err
	}

	slotCost := 0
	if freeAvailable <= 0 {
		slotCost = p.rules.TransferPenalty
	}

	best := p.bestSwap(squad, baseline, candidates, weekScores, budgetRemaining)

	entry := &domain.LedgerEntry{Gameweek: gw}
	chosen := baseline
	nextSquad := squad
	nextBudget := budgetRemaining

	if best != nil && best.improvement > float64(slotCost) {
		entry.Transfers = []domain.Transfer{{
			Out:        best.out,
			In:         best.in,
			PriceDelta: best.in.Price - best.out.Price,
			ScoreDelta: best.improvement,
			UsedFree:   freeAvailable > 0,
		}}
		entry.PenaltyCharged = slotCost
		chosen = best.lineup
		nextSquad = best.squad
		nextBudget = budgetRemaining - (best.in.Price - best.out.Price)

		p.log.WithFields(logrus.Fields{
			"gameweek":    gw,
			"out":         best.out.Name,
			"in":          best.in.Name,
			"improvement": best.improvement,
			"penalty":     slotCost,
		}).Debug("Committing transfer")
	}

	entry.Captain = chosen.Captain
	entry.Formation = chosen.Formation
	entry.LineupScore = chosen.Total
	entry.RealizedScore = chosen.RealizedTotal(p.rules) - float64(entry.PenaltyCharged)

	return entry, nextSquad, nextBudget, nil
}

// weekScores resolves this gameweek's scores for the squad and the whole
// replacement pool. Squad members need not appear in the pool.
func (p *Planner) weekScores(squad *domain.Squad, candidates []domain.Candidate, preds *pool.Predictions, gw int) (map[string]float64, error) {
	scores, err := preds.WeekScores(gw, squad.Members)
	if err != nil {
		return nil, err
	}
	poolScores, err := preds.WeekScores(gw, candidates)
	if err != nil {
		return nil, err
	}
	for id, s := range poolScores {
		scores[id] = s
	}
	return scores, nil
}
