package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Squad Plan Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Plans: %d\n\n", r.PlanCount))

	// Pool Summary
	sb.WriteString("## Candidate Pool\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Candidates | %d |\n", r.PoolSummary.TotalCandidates))
	sb.WriteString(fmt.Sprintf("| Goalkeepers | %d |\n", r.PoolSummary.Goalkeepers))
	sb.WriteString(fmt.Sprintf("| Defenders | %d |\n", r.PoolSummary.Defenders))
	sb.WriteString(fmt.Sprintf("| Midfielders | %d |\n", r.PoolSummary.Midfielders))
	sb.WriteString(fmt.Sprintf("| Forwards | %d |\n", r.PoolSummary.Forwards))
	sb.WriteString(fmt.Sprintf("| Clubs | %d |\n", r.PoolSummary.ClubCount))
	sb.WriteString(fmt.Sprintf("| Price Range | %.1f - %.1f |\n", r.PoolSummary.MinPrice, r.PoolSummary.MaxPrice))
	sb.WriteString("\n")

	// Plans
	sb.WriteString("## Plans\n\n")
	if len(r.Plans) > 0 {
		sb.WriteString("| Plan | Start GW | GWs | Total Score | Transfers | Point Cost | Free Left |\n")
		sb.WriteString("|------|----------|-----|-------------|-----------|------------|----------|\n")
		for _, p := range r.Plans {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.2f | %d | %d | %d |\n",
				shortID(p.PlanID), p.StartGameweek, p.Gameweeks,
				p.TotalScore, p.TotalTransfers, p.TransferPointCost, p.FreeTransfersLeft))
		}
	} else {
		sb.WriteString("No plans stored.\n")
	}
	sb.WriteString("\n")

	// Gameweek detail
	sb.WriteString("## Gameweek Detail\n\n")
	if len(r.Gameweeks) > 0 {
		sb.WriteString("| Plan | GW | Formation | Captain | Transfers | Penalty | Lineup | Realized | Free After | Budget |\n")
		sb.WriteString("|------|----|-----------|---------|-----------|---------|--------|----------|------------|--------|\n")
		for _, g := range r.Gameweeks {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %d | %d | %.2f | %.2f | %d | %.1f |\n",
				shortID(g.PlanID), g.Gameweek, g.Formation, g.CaptainName,
				g.Transfers, g.PenaltyCharged, g.LineupScore, g.RealizedScore,
				g.FreeTransfersAfter, g.BudgetRemaining))
		}
	} else {
		sb.WriteString("No gameweek detail available.\n")
	}
	sb.WriteString("\n")

	// Captain usage
	sb.WriteString("## Captain Usage\n\n")
	if len(r.CaptainUsage) > 0 {
		sb.WriteString("| Name | Count |\n")
		sb.WriteString("|------|-------|\n")
		for _, c := range r.CaptainUsage {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", c.Name, c.Count))
		}
	} else {
		sb.WriteString("No captain usage data available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// shortID truncates a hex plan ID for table display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
