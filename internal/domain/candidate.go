package domain

// Role identifies a candidate's playing position.
type Role string

// Role constants
const (
	RoleGK  Role = "GK"
	RoleDEF Role = "DEF"
	RoleMID Role = "MID"
	RoleFWD Role = "FWD"
)

// Roles lists all roles in squad construction order.
var Roles = []Role{RoleGK, RoleDEF, RoleMID, RoleFWD}

// ParseRole maps a string to a Role. Returns false for unrecognized input.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleGK, RoleDEF, RoleMID, RoleFWD:
		return Role(s), true
	default:
		return "", false
	}
}

// Candidate represents a scorable, priced selection candidate.
// Produced by an external prediction model; never mutated by the optimizer.
type Candidate struct {
	ID    string  // PRIMARY KEY, deterministic hash
	Name  string  // display name
	Role  Role    // GK | DEF | MID | FWD
	Club  string  // club identifier, drives the per-club cap
	Price float64 // price in budget units
}

// ScorePoint is one predicted score for a candidate in a gameweek.
// Corresponds to the prediction_scores table in ClickHouse.
type ScorePoint struct {
	CandidateID string
	Gameweek    int
	Score       float64
}
