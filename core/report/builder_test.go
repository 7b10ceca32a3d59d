package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicscan/fleetdoctor/schema"
)

var buildTime = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

func assessment(status schema.Status, effortTier schema.EffortTier, hours *float64, priority schema.PriorityTier, rec schema.Recommendation) schema.ScraperAssessment {
	return schema.ScraperAssessment{
		Classification: schema.Classification{Status: status},
		Effort:         schema.EffortEstimate{Tier: effortTier, TotalHours: hours},
		Priority:       schema.PriorityAssessment{Tier: priority},
		Candidacy:      schema.CandidacyAssessment{Recommendation: rec},
	}
}

func hoursOf(h float64) *float64 { return &h }

// A repository with no agents yields a minimal report, not an error.
func TestBuildNoAgents(t *testing.T) {
	rep := NewRepositoryBuilder("city-scrapers-empty", schema.DefaultReportConfig()).Build(buildTime)

	assert.True(t, rep.NoAgentsFound)
	assert.Equal(t, 0, rep.TotalScrapers)
	assert.Equal(t, schema.UnknownHealth, rep.OverallHealth)
	assert.Equal(t, "No agents found", rep.RecommendedApproach)
	assert.Equal(t, []string{"No agents found"}, rep.BlockingIssues)
	assert.Equal(t, "None", rep.RecoveryEstimate)
	assert.Zero(t, rep.SuccessRate)
}

func TestBuildCounts(t *testing.T) {
	b := NewRepositoryBuilder("city-scrapers-il", schema.DefaultReportConfig())
	b.Add(assessment(schema.StatusSuccess, schema.BlockedEffort, nil, schema.LowPriority, schema.ConventionalRecommendation))
	b.Add(assessment(schema.StatusSuccess, schema.BlockedEffort, nil, schema.LowPriority, schema.ConventionalRecommendation))
	b.Add(assessment(schema.StatusSelectorFailure, schema.MediumEffort, hoursOf(4.5), schema.HighPriority, schema.ConventionalRecommendation))
	b.Add(assessment(schema.StatusJavascript, schema.VeryHighEffort, hoursOf(18), schema.CriticalPriority, schema.ConvertRecommendation))
	rep := b.Build(buildTime)

	assert.Equal(t, 4, rep.TotalScrapers)
	assert.Equal(t, 2, rep.Functional)
	assert.Equal(t, 2, rep.Failed)
	assert.Equal(t, rep.TotalScrapers, rep.Functional+rep.Failed)
	assert.Equal(t, 1, rep.FailureModes[schema.StatusSelectorFailure])
	assert.Equal(t, 1, rep.FailureModes[schema.StatusJavascript])
	assert.InDelta(t, 0.5, rep.SuccessRate, 1e-9)
	assert.Equal(t, schema.ModerateHealth, rep.OverallHealth)
	assert.InDelta(t, 22.5, rep.TotalRepairHours, 1e-9)
	assert.Equal(t, 1, rep.ConversionCandidates)
	assert.Equal(t, 1, rep.PriorityDistribution[schema.CriticalPriority])
	assert.Contains(t, rep.RecommendedApproach, "critical")
}

// A run-but-stale scraper is failed for reporting purposes; only a true
// success counts as functional.
func TestBuildStaleSuccessIsFailed(t *testing.T) {
	b := NewRepositoryBuilder("city-scrapers-oh", schema.DefaultReportConfig())
	b.Add(assessment(schema.StatusStaleSuccess, schema.MediumEffort, hoursOf(4.5), schema.MediumPriority, schema.ConventionalRecommendation))
	rep := b.Build(buildTime)

	assert.Equal(t, 0, rep.Functional)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 1, rep.FailureModes[schema.StatusStaleSuccess])
}

// Blocked estimates keep their bucket in the tier map but add zero hours.
func TestBuildBlockedEstimates(t *testing.T) {
	b := NewRepositoryBuilder("city-scrapers-dormant", schema.DefaultReportConfig())
	b.SetDormancy(schema.Classification{Status: schema.StatusDormant, Evidence: []string{"last commit 120 days ago"}})
	b.Add(assessment(schema.StatusDormant, schema.BlockedEffort, nil, schema.LowPriority, schema.ConventionalRecommendation))
	b.Add(assessment(schema.StatusDormant, schema.BlockedEffort, nil, schema.LowPriority, schema.ConventionalRecommendation))
	rep := b.Build(buildTime)

	assert.Equal(t, 2, rep.BlockedScrapers)
	assert.Zero(t, rep.TotalRepairHours)
	assert.Contains(t, rep.HoursByEffortTier, schema.BlockedEffort)
	assert.Equal(t, 0.0, rep.HoursByEffortTier[schema.BlockedEffort])

	require.Len(t, rep.BlockingIssues, 2)
	assert.Contains(t, rep.BlockingIssues[0], "last commit 120 days ago")
	assert.Contains(t, rep.BlockingIssues[1], "cannot be estimated")
	assert.Equal(t, "None", rep.RecoveryEstimate)
}

func TestHealthForRate(t *testing.T) {
	b := NewRepositoryBuilder("r", schema.DefaultReportConfig())
	assert.Equal(t, schema.ExcellentHealth, b.healthForRate(0.9))
	assert.Equal(t, schema.GoodHealth, b.healthForRate(0.89))
	assert.Equal(t, schema.GoodHealth, b.healthForRate(0.7))
	assert.Equal(t, schema.ModerateHealth, b.healthForRate(0.69))
	assert.Equal(t, schema.ModerateHealth, b.healthForRate(0.5))
	assert.Equal(t, schema.PoorHealth, b.healthForRate(0.49))
	assert.Equal(t, schema.PoorHealth, b.healthForRate(0.3))
	assert.Equal(t, schema.CriticalHealth, b.healthForRate(0.29))
}

func TestRecoveryEstimate(t *testing.T) {
	b := NewRepositoryBuilder("r", schema.DefaultReportConfig())
	assert.Equal(t, "None", b.recoveryEstimate(0))
	assert.Equal(t, "~2.0 weeks of full-time effort", b.recoveryEstimate(80))
	assert.Equal(t, "~1.5 months of full-time effort", b.recoveryEstimate(240))
}
