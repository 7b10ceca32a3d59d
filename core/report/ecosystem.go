package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/civicscan/fleetdoctor/schema"
)

// EcosystemBuilder accumulates repository reports and produces the
// fleet-wide ecosystem report with derived insights and recommendations.
type EcosystemBuilder struct {
	cfg     schema.ReportConfig
	reports []schema.RepositoryReport
}

// NewEcosystemBuilder creates a builder for a fleet run.
func NewEcosystemBuilder(cfg schema.ReportConfig) *EcosystemBuilder {
	return &EcosystemBuilder{cfg: cfg}
}

// Add appends one repository report. Repositories that failed to analyze
// are simply never added; the ecosystem report covers whatever succeeded.
func (b *EcosystemBuilder) Add(rep schema.RepositoryReport) *EcosystemBuilder {
	b.reports = append(b.reports, rep)
	return b
}

// Build derives the finished ecosystem report.
func (b *EcosystemBuilder) Build(now time.Time) schema.EcosystemReport {
	eco := schema.EcosystemReport{
		GeneratedAt:       now,
		TotalRepositories: len(b.reports),
		Repositories:      b.reports,
	}

	failureCounts := make(map[schema.Status]int)
	lowEffortScrapers := 0

	for _, rep := range b.reports {
		eco.TotalScrapers += rep.TotalScrapers
		eco.Functional += rep.Functional
		eco.Failed += rep.Failed
		eco.TotalRepairHours += rep.TotalRepairHours
		eco.ConversionCandidates += rep.ConversionCandidates

		for status, n := range rep.FailureModes {
			failureCounts[status] += n
		}
		if rep.Dormancy.Status == schema.StatusDormant {
			eco.DormantRepositories = append(eco.DormantRepositories, rep.Repository)
		}
		for _, a := range rep.Assessments {
			if a.Effort.Tier == schema.TrivialEffort || a.Effort.Tier == schema.LowEffort {
				lowEffortScrapers++
			}
		}
	}
	sort.Strings(eco.DormantRepositories)

	if eco.TotalScrapers > 0 {
		eco.SuccessRate = float64(eco.Functional) / float64(eco.TotalScrapers)
	}
	eco.FailurePatterns = failurePatterns(failureCounts, eco.Failed)
	eco.SerialWeeks = eco.TotalRepairHours / b.cfg.WeeklyHours
	eco.ParallelWeeks = eco.SerialWeeks / 2

	eco.Insights = b.insights(eco)
	eco.ImmediateActions = b.immediateActions(eco, failureCounts)
	eco.ParallelTracks = b.parallelTracks(eco, lowEffortScrapers)
	return eco
}

// failurePatterns merges the per-repository failure maps into a ranked list
// with percentage-of-failures annotations.
func failurePatterns(counts map[schema.Status]int, totalFailed int) []schema.FailurePattern {
	patterns := make([]schema.FailurePattern, 0, len(counts))
	for status, n := range counts {
		pct := 0.0
		if totalFailed > 0 {
			pct = 100 * float64(n) / float64(totalFailed)
		}
		patterns = append(patterns, schema.FailurePattern{Status: status, Count: n, PercentOfFailures: pct})
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Status < patterns[j].Status
	})
	return patterns
}

func (b *EcosystemBuilder) insights(eco schema.EcosystemReport) []string {
	var insights []string
	if len(eco.FailurePatterns) > 0 {
		top := eco.FailurePatterns[0]
		insights = append(insights, fmt.Sprintf("Top failure mode: %s (%d of %d failures)", top.Status, top.Count, eco.Failed))
	}
	if len(eco.DormantRepositories) > 0 {
		insights = append(insights, fmt.Sprintf("%d dormant repositories: %s", len(eco.DormantRepositories), joinMax(eco.DormantRepositories, 5)))
	}
	if eco.ConversionCandidates > 0 {
		insights = append(insights, fmt.Sprintf("%d scrapers are candidates for browser-automation conversion", eco.ConversionCandidates))
	}
	return insights
}

func (b *EcosystemBuilder) immediateActions(eco schema.EcosystemReport, failureCounts map[schema.Status]int) []string {
	var actions []string
	if n := failureCounts[schema.StatusSelectorFailure]; n > 0 {
		actions = append(actions, fmt.Sprintf("Repair the %d selector failures first; they are typically quick, high-value fixes", n))
	}
	if len(eco.DormantRepositories) > 0 {
		actions = append(actions, "Investigate dormant repositories before scheduling repairs inside them")
	}
	return actions
}

func (b *EcosystemBuilder) parallelTracks(eco schema.EcosystemReport, lowEffortScrapers int) []string {
	var tracks []string
	if eco.ConversionCandidates > 0 {
		tracks = append(tracks, fmt.Sprintf("Run browser-automation conversions (%d candidates) as a separate track", eco.ConversionCandidates))
	}
	if lowEffortScrapers > 0 {
		tracks = append(tracks, fmt.Sprintf("Burn down the low-effort backlog: %d scrapers under a half-day each", lowEffortScrapers))
	}
	if eco.TotalRepairHours > b.cfg.StaffingHoursThreshold {
		tracks = append(tracks, fmt.Sprintf("Total estimate of %.1fh exceeds one maintainer; staff at least two people", eco.TotalRepairHours))
	}
	return tracks
}

func joinMax(list []string, limit int) string {
	if len(list) <= limit {
		return join(list)
	}
	return fmt.Sprintf("%s and %d more", join(list[:limit]), len(list)-limit)
}

func join(list []string) string {
	out := ""
	for i, s := range list {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
