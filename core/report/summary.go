package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/civicscan/fleetdoctor/schema"
)

// RenderSummary produces the human-readable ecosystem summary document.
// It is a pure function of the ecosystem report's fields.
func RenderSummary(eco schema.EcosystemReport) string {
	var sb strings.Builder

	sb.WriteString("FLEET HEALTH SUMMARY\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", eco.GeneratedAt.Format("2006-01-02 15:04 MST")))

	sb.WriteString(fmt.Sprintf("Repositories analyzed: %d\n", eco.TotalRepositories))
	sb.WriteString(fmt.Sprintf("Scrapers: %d total, %d functional, %d failed (%.1f%% success)\n",
		eco.TotalScrapers, eco.Functional, eco.Failed, eco.SuccessRate*100))
	sb.WriteString(fmt.Sprintf("Estimated repair effort: %.1fh (%.1f weeks serial, %.1f weeks with two people)\n\n",
		eco.TotalRepairHours, eco.SerialWeeks, eco.ParallelWeeks))

	if len(eco.FailurePatterns) > 0 {
		sb.WriteString("Failure modes, ranked:\n")
		for _, p := range eco.FailurePatterns {
			sb.WriteString(fmt.Sprintf("  %-22s %4d  (%.1f%% of failures)\n", p.Status, p.Count, p.PercentOfFailures))
		}
		sb.WriteString("\n")
	}

	if worst := repositoriesByFailures(eco.Repositories); len(worst) > 0 {
		sb.WriteString("Repositories by failure count:\n")
		for _, rep := range worst {
			sb.WriteString(fmt.Sprintf("  %-30s %3d failed of %3d  health: %s\n",
				rep.Repository, rep.Failed, rep.TotalScrapers, rep.OverallHealth))
		}
		sb.WriteString("\n")
	}

	writeSection(&sb, "Insights", eco.Insights)
	writeSection(&sb, "Immediate actions", eco.ImmediateActions)
	writeSection(&sb, "Parallel tracks", eco.ParallelTracks)

	return sb.String()
}

// repositoriesByFailures ranks repositories by failure count, worst first,
// dropping fully healthy ones.
func repositoriesByFailures(reports []schema.RepositoryReport) []schema.RepositoryReport {
	ranked := make([]schema.RepositoryReport, 0, len(reports))
	for _, rep := range reports {
		if rep.Failed > 0 {
			ranked = append(ranked, rep)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Failed != ranked[j].Failed {
			return ranked[i].Failed > ranked[j].Failed
		}
		return ranked[i].Repository < ranked[j].Repository
	})
	return ranked
}

func writeSection(sb *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	for _, line := range lines {
		sb.WriteString("  - " + line + "\n")
	}
	sb.WriteString("\n")
}
