package domain

import "fmt"

// Formation bounds for a legal lineup: 1 GK plus Def+Mid+Fwd = 10.
const (
	MinLineupDEF = 3
	MaxLineupDEF = 5
	MinLineupMID = 2
	MaxLineupMID = 5
	MinLineupFWD = 1
	MaxLineupFWD = 3
	LineupSize   = 11
)

// Formation is the (DEF, MID, FWD) count triple defining a lineup shape.
// The single GK slot is implicit.
type Formation struct {
	Def int
	Mid int
	Fwd int
}

// String renders the conventional "D-M-F" label, e.g. "4-4-2".
func (f Formation) String() string {
	return fmt.Sprintf("%d-%d-%d", f.Def, f.Mid, f.Fwd)
}

// Valid reports whether the triple is within bounds and sums to a lineup.
func (f Formation) Valid() bool {
	return f.Def >= MinLineupDEF && f.Def <= MaxLineupDEF &&
		f.Mid >= MinLineupMID && f.Mid <= MaxLineupMID &&
		f.Fwd >= MinLineupFWD && f.Fwd <= MaxLineupFWD &&
		1+f.Def+f.Mid+f.Fwd == LineupSize
}

// Formations enumerates every legal formation in canonical order:
// defense-heavy first (Def descending, then Mid descending). Lineup
// selection breaks score ties by keeping the first enumerated formation,
// so this order must stay fixed for reproducibility.
func Formations() []Formation {
	var out []Formation
	for def := MaxLineupDEF; def >= MinLineupDEF; def-- {
		for mid := MaxLineupMID; mid >= MinLineupMID; mid-- {
			f := Formation{Def: def, Mid: mid, Fwd: LineupSize - 1 - def - mid}
			if f.Valid() {
				out = append(out, f)
			}
		}
	}
	return out
}
