package pool

import (
	"errors"
	"fmt"

	"fpl-squad-lab/internal/domain"
)

// ErrMissingPrediction is returned when a candidate has no predicted score
// for a requested gameweek. Missing data is never defaulted to zero: a
// silent default would corrupt every comparison downstream.
var ErrMissingPrediction = errors.New("missing prediction")

// Predictions holds per-gameweek predicted scores keyed by candidate ID.
type Predictions struct {
	scores map[string]map[int]float64
}

// NewPredictions builds a Predictions lookup from score points.
// Later points overwrite earlier ones for the same (candidate, gameweek).
func NewPredictions(points []domain.ScorePoint) *Predictions {
	p := &Predictions{scores: make(map[string]map[int]float64)}
	for _, pt := range points {
		p.Add(pt)
	}
	return p
}

// Add inserts one score point.
func (p *Predictions) Add(pt domain.ScorePoint) {
	byWeek, ok := p.scores[pt.CandidateID]
	if !ok {
		byWeek = make(map[int]float64)
		p.scores[pt.CandidateID] = byWeek
	}
	byWeek[pt.Gameweek] = pt.Score
}

// At returns the predicted score for a candidate in a gameweek.
// Returns a wrapped ErrMissingPrediction naming both when absent.
func (p *Predictions) At(candidateID string, gameweek int) (float64, error) {
	if byWeek, ok := p.scores[candidateID]; ok {
		if score, ok := byWeek[gameweek]; ok {
			return score, nil
		}
	}
	return 0, fmt.Errorf("%w: candidate %s, gameweek %d", ErrMissingPrediction, candidateID, gameweek)
}

// WeekScores resolves scores for every given candidate in one gameweek.
// Fails loudly on the first candidate without a prediction.
func (p *Predictions) WeekScores(gameweek int, candidates []domain.Candidate) (map[string]float64, error) {
	out := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		score, err := p.At(c.ID, gameweek)
		if err != nil {
			return nil, err
		}
		out[c.ID] = score
	}
	return out, nil
}
