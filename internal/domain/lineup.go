package domain

// LineupSlot is one selected lineup member with its week score.
type LineupSlot struct {
	Candidate Candidate
	Score     float64 // predicted score for the target gameweek
}

// Lineup is the starting eleven extracted from a squad for one gameweek.
// It exists only as selector output and is recomputed, never mutated.
type Lineup struct {
	Formation Formation
	Gameweek  int
	Slots     []LineupSlot // GK first, then DEF, MID, FWD in selection order
	Captain   Candidate    // highest-scoring member
	Total     float64      // plain sum of slot scores, no captain bonus
}

// Contains reports whether a candidate ID starts in the lineup.
func (l *Lineup) Contains(candidateID string) bool {
	for _, s := range l.Slots {
		if s.Candidate.ID == candidateID {
			return true
		}
	}
	return false
}

// CaptainScore returns the captain's plain week score.
func (l *Lineup) CaptainScore() float64 {
	for _, s := range l.Slots {
		if s.Candidate.ID == l.Captain.ID {
			return s.Score
		}
	}
	return 0
}

// RealizedTotal returns the lineup total with the captain bonus applied:
// total + (multiplier-1) * captain score.
func (l *Lineup) RealizedTotal(rules Rules) float64 {
	return l.Total + float64(rules.CaptainMultiplier-1)*l.CaptainScore()
}
