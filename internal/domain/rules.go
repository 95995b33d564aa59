package domain

// Rules carries the game constraints and scoring conventions.
// The per-club cap and budget cap are conventions of the external scoring
// rules, so they live here as configuration rather than constants inside
// the algorithms.
type Rules struct {
	BudgetCap         float64      // maximum total squad price
	MaxPerClub        int          // maximum candidates from one club
	SquadQuota        map[Role]int // exact role counts for a full squad
	FreeTransferCap   int          // maximum banked free transfers
	TransferPenalty   int          // point cost per non-free transfer
	CaptainMultiplier int          // captain score multiplier
}

// DefaultRules returns the standard FPL conventions:
// 100.0 budget, 3 per club, 2-5-5-3 squad, 2 banked transfers,
// 4-point penalty, captain doubled.
func DefaultRules() Rules {
	return Rules{
		BudgetCap:  100.0,
		MaxPerClub: 3,
		SquadQuota: map[Role]int{
			RoleGK:  2,
			RoleDEF: 5,
			RoleMID: 5,
			RoleFWD: 3,
		},
		FreeTransferCap:   2,
		TransferPenalty:   4,
		CaptainMultiplier: 2,
	}
}

// SquadSize returns the total squad size implied by the quota.
func (r Rules) SquadSize() int {
	total := 0
	for _, n := range r.SquadQuota {
		total += n
	}
	return total
}
