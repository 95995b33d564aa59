package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders gameweek detail rows as CSV string.
func RenderCSV(rows []GameweekRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("plan_id,gameweek,formation,captain,transfers,penalty_charged,")
	sb.WriteString("lineup_score,realized_score,free_transfers_after,budget_remaining\n")

	// Rows
	for _, g := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%s,%s,%d,%d,%.6f,%.6f,%d,%.2f\n",
			g.PlanID,
			g.Gameweek,
			g.Formation,
			g.CaptainName,
			g.Transfers,
			g.PenaltyCharged,
			g.LineupScore,
			g.RealizedScore,
			g.FreeTransfersAfter,
			g.BudgetRemaining,
		))
	}

	return sb.String()
}
