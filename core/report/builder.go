// Package report has aggregation logic for scraper assessments.
package report

import (
	"fmt"
	"time"

	"github.com/civicscan/fleetdoctor/schema"
)

// RepositoryBuilder accumulates scraper assessments for one repository and
// produces a finished, immutable RepositoryReport. Accumulation state never
// leaks outside the builder.
type RepositoryBuilder struct {
	repo        string
	cfg         schema.ReportConfig
	dormancy    schema.Classification
	assessments []schema.ScraperAssessment
}

// NewRepositoryBuilder creates a builder for one repository.
func NewRepositoryBuilder(repo string, cfg schema.ReportConfig) *RepositoryBuilder {
	return &RepositoryBuilder{repo: repo, cfg: cfg}
}

// SetDormancy attaches the repository-level dormancy classification.
func (b *RepositoryBuilder) SetDormancy(c schema.Classification) *RepositoryBuilder {
	b.dormancy = c
	return b
}

// Add appends one scraper assessment.
func (b *RepositoryBuilder) Add(a schema.ScraperAssessment) *RepositoryBuilder {
	b.assessments = append(b.assessments, a)
	return b
}

// Build derives the finished report. An empty assessment list yields a
// minimal report carrying repository identity and an explicit no-agents
// marker, never an error.
func (b *RepositoryBuilder) Build(now time.Time) schema.RepositoryReport {
	rep := schema.RepositoryReport{
		Repository:           b.repo,
		GeneratedAt:          now,
		Dormancy:             b.dormancy,
		FailureModes:         make(map[schema.Status]int),
		HoursByEffortTier:    make(map[schema.EffortTier]float64),
		PriorityDistribution: zeroPriorityDistribution(),
		Assessments:          b.assessments,
	}

	if len(b.assessments) == 0 {
		rep.NoAgentsFound = true
		rep.OverallHealth = schema.UnknownHealth
		rep.RecommendedApproach = "No agents found"
		rep.BlockingIssues = []string{"No agents found"}
		rep.RecoveryEstimate = "None"
		return rep
	}

	for _, a := range b.assessments {
		rep.TotalScrapers++
		if a.Classification.Status == schema.StatusSuccess {
			rep.Functional++
		} else {
			rep.Failed++
			rep.FailureModes[a.Classification.Status]++
		}

		// Blocked estimates stay visible in their own bucket but add zero
		// to the numeric totals.
		if a.Effort.TotalHours != nil {
			rep.HoursByEffortTier[a.Effort.Tier] += *a.Effort.TotalHours
			rep.TotalRepairHours += *a.Effort.TotalHours
		} else {
			rep.HoursByEffortTier[a.Effort.Tier] += 0
			rep.BlockedScrapers++
		}

		rep.PriorityDistribution[a.Priority.Tier]++
		if a.Candidacy.Recommendation == schema.ConvertRecommendation {
			rep.ConversionCandidates++
		}
	}

	rep.SuccessRate = float64(rep.Functional) / float64(rep.TotalScrapers)
	rep.OverallHealth = b.healthForRate(rep.SuccessRate)
	rep.RecommendedApproach = recommendedApproach(rep.PriorityDistribution)
	rep.BlockingIssues = b.blockingIssues(rep)
	rep.RecoveryEstimate = b.recoveryEstimate(rep.TotalRepairHours)
	return rep
}

func zeroPriorityDistribution() map[schema.PriorityTier]int {
	return map[schema.PriorityTier]int{
		schema.CriticalPriority: 0,
		schema.HighPriority:     0,
		schema.MediumPriority:   0,
		schema.LowPriority:      0,
	}
}

func (b *RepositoryBuilder) healthForRate(rate float64) schema.HealthTier {
	switch {
	case rate >= b.cfg.ExcellentRate:
		return schema.ExcellentHealth
	case rate >= b.cfg.GoodRate:
		return schema.GoodHealth
	case rate >= b.cfg.ModerateRate:
		return schema.ModerateHealth
	case rate >= b.cfg.PoorRate:
		return schema.PoorHealth
	default:
		return schema.CriticalHealth
	}
}

// recommendedApproach derives one line of guidance from the priority
// histogram.
func recommendedApproach(dist map[schema.PriorityTier]int) string {
	switch {
	case dist[schema.CriticalPriority] > 0:
		return fmt.Sprintf("Triage the %d critical-priority scrapers before anything else", dist[schema.CriticalPriority])
	case dist[schema.HighPriority] > 0:
		return fmt.Sprintf("Schedule the %d high-priority repairs this cycle", dist[schema.HighPriority])
	case dist[schema.MediumPriority] > 0:
		return "Work the medium-priority backlog during routine maintenance"
	default:
		return "No urgent repairs; routine maintenance only"
	}
}

func (b *RepositoryBuilder) blockingIssues(rep schema.RepositoryReport) []string {
	var issues []string
	if rep.Dormancy.Status == schema.StatusDormant {
		issues = append(issues, fmt.Sprintf("Repository is dormant: %s", firstOr(rep.Dormancy.Evidence, "no recent activity")))
	}
	if n := rep.PriorityDistribution[schema.CriticalPriority]; n > 0 {
		issues = append(issues, fmt.Sprintf("%d scrapers at critical priority", n))
	}
	if rep.BlockedScrapers > 0 {
		issues = append(issues, fmt.Sprintf("%d scrapers cannot be estimated until the repository is reactivated", rep.BlockedScrapers))
	}
	if len(issues) == 0 {
		return []string{"None identified"}
	}
	return issues
}

// recoveryEstimate gives a coarse schedule estimate: weeks for anything
// under the cutover, months beyond it.
func (b *RepositoryBuilder) recoveryEstimate(totalHours float64) string {
	if totalHours == 0 {
		return "None"
	}
	if totalHours < b.cfg.WeeksCutoverHours {
		return fmt.Sprintf("~%.1f weeks of full-time effort", totalHours/b.cfg.WeeklyHours)
	}
	return fmt.Sprintf("~%.1f months of full-time effort", totalHours/b.cfg.MonthlyHours)
}

func firstOr(list []string, def string) string {
	if len(list) > 0 {
		return list[0]
	}
	return def
}
