package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
)

// Factor scores assigned by the priority rubric. Each factor lands on a
// fixed step in [0,10]; the weighted sum stays in [0,10] as long as the
// weights sum to 1.
const (
	factorMax  = 10.0
	factorHigh = 7.0
	factorMid  = 6.0
	factorLow  = 3.0
	factorMin  = 1.0
)

// PriorityInput carries the usage and freshness signals for one scraper.
type PriorityInput struct {
	AgencyName      string
	AssignmentCount int

	// DaysSinceLastData is -1 when unknown.
	DaysSinceLastData int

	// RepairHours is nil when the effort estimate is blocked.
	RepairHours *float64

	HasDocumentedIssues bool
	Status              schema.Status
}

// PriorityScorer maps usage, freshness and feasibility signals to a
// weighted 0-10 repair priority.
type PriorityScorer struct {
	cfg schema.PriorityConfig
}

// NewPriorityScorer builds a scorer from the given weights and watch-list.
// A weight sum that drifts from 1.0 is a warning, not an error; the scorer
// computes with whatever weights it was given.
func NewPriorityScorer(cfg schema.PriorityConfig) *PriorityScorer {
	if sum := cfg.Weights.Sum(); math.Abs(sum-1.0) > contract.WeightDrift {
		contract.LogWarn(fmt.Sprintf("Priority weights sum to %.3f, expected 1.0", sum), nil)
	}
	return &PriorityScorer{cfg: cfg}
}

// Score computes the priority assessment for one scraper.
func (s *PriorityScorer) Score(in PriorityInput) schema.PriorityAssessment {
	contractRisk := s.contractRiskFactor(in.AgencyName, in.HasDocumentedIssues)
	usage := usageFactor(in.AssignmentCount)
	freshness := freshnessFactor(in.DaysSinceLastData, in.Status)
	feasibility := feasibilityFactor(in.RepairHours)

	w := s.cfg.Weights
	score := w.ContractRisk*contractRisk +
		w.UsageFrequency*usage +
		w.FreshnessImpact*freshness +
		w.RepairFeasibility*feasibility

	return schema.PriorityAssessment{
		ContractRisk:      contractRisk,
		UsageFrequency:    usage,
		FreshnessImpact:   freshness,
		RepairFeasibility: feasibility,
		Score:             score,
		Tier:              tierForScore(score),
	}
}

// contractRiskFactor scores the contractual exposure of an agency: full
// risk for watch-listed agencies, elevated risk for agencies with
// documented issues, baseline otherwise.
func (s *PriorityScorer) contractRiskFactor(agencyName string, hasDocumentedIssues bool) float64 {
	lower := strings.ToLower(agencyName)
	for _, watched := range s.cfg.Watchlist {
		if watched != "" && strings.Contains(lower, strings.ToLower(watched)) {
			return factorMax
		}
	}
	if hasDocumentedIssues {
		return factorHigh
	}
	return factorLow
}

// usageFactor is a step function of how many assignments depend on the
// scraper's output.
func usageFactor(assignmentCount int) float64 {
	switch {
	case assignmentCount >= 6:
		return factorMax
	case assignmentCount >= 3:
		return factorMid
	case assignmentCount >= 1:
		return factorLow
	default:
		return factorMin
	}
}

// freshnessFactor scores the data-freshness impact. Unknown freshness and
// hard-empty statuses mean the pipeline is getting nothing, which is the
// worst case.
func freshnessFactor(daysSinceLastData int, status schema.Status) float64 {
	if daysSinceLastData < 0 || status == schema.StatusEmptyResult || status == schema.StatusSelectorFailure {
		return factorMax
	}
	switch {
	case daysSinceLastData >= 90:
		return factorMax
	case daysSinceLastData > 30:
		return factorHigh
	default:
		return factorLow
	}
}

// feasibilityFactor rewards cheap repairs. A nil estimate (blocked) scores
// as the hardest case.
func feasibilityFactor(repairHours *float64) float64 {
	if repairHours == nil {
		return factorLow
	}
	switch {
	case *repairHours <= 2:
		return factorMax
	case *repairHours <= 8:
		return factorMid
	default:
		return factorLow
	}
}

// tierForScore buckets a weighted score into a priority tier.
func tierForScore(score float64) schema.PriorityTier {
	switch {
	case score >= 8:
		return schema.CriticalPriority
	case score >= 6:
		return schema.HighPriority
	case score >= 4:
		return schema.MediumPriority
	default:
		return schema.LowPriority
	}
}
