package core

import (
	"fmt"

	"github.com/civicscan/fleetdoctor/schema"
)

// CandidacyInput carries the signals for one migration-candidacy decision.
type CandidacyInput struct {
	Status                 schema.Status
	HasPriorImplementation bool
	Complexity             schema.ComplexityTier
	EffortTier             schema.EffortTier
	SharedBaseMarkers      []string
}

// CandidacyScorer decides whether a scraper should be rewritten with
// browser automation instead of repaired conventionally. The score is
// additive; every assessment pays the fixed maintenance-burden penalty
// because an automated-browser rewrite always costs more to keep running.
type CandidacyScorer struct {
	cfg   schema.CandidacyConfig
	bases *ComplexityAssessor // recognizes low-complexity shared bases
}

// NewCandidacyScorer builds a scorer from the candidacy points and the
// complexity breakpoints that define the recognized shared bases.
func NewCandidacyScorer(cfg schema.CandidacyConfig, complexity schema.ComplexityConfig) *CandidacyScorer {
	return &CandidacyScorer{cfg: cfg, bases: NewComplexityAssessor(complexity)}
}

// Assess computes the candidacy assessment for one scraper.
func (s *CandidacyScorer) Assess(in CandidacyInput) schema.CandidacyAssessment {
	score := 0
	var reasons []string

	// Headline reason first.
	if in.Status == schema.StatusJavascript {
		score += s.cfg.JavascriptPoints
		reasons = append(reasons, "site requires JavaScript rendering; static parsing cannot recover it")
	}

	// Contributing factors.
	if in.HasPriorImplementation {
		score += s.cfg.PriorArtPoints
		reasons = append(reasons, "a prior browser-automation implementation exists to build on")
	}
	if in.Complexity == schema.HighComplexity {
		score += s.cfg.ComplexPoints
		reasons = append(reasons, "custom parsing logic is complex enough that a rewrite competes with a repair")
	}
	if in.EffortTier == schema.HighEffort || in.EffortTier == schema.VeryHighEffort {
		score += s.cfg.HighEffortPoints
		reasons = append(reasons, fmt.Sprintf("conventional repair is already estimated at the %s tier", in.EffortTier))
	}

	// Fixed penalty, applied to every assessment.
	score -= s.cfg.MaintenancePenalty
	reasons = append(reasons, "browser automation carries a higher ongoing maintenance burden")

	// Caveats last.
	if in.Status == schema.StatusJavascript && !in.HasPriorImplementation {
		reasons = append(reasons, "would require building the automation from scratch")
	}
	if s.bases.HasSimpleBase(in.SharedBaseMarkers) {
		reasons = append(reasons, "shared base makes conventional repair easier")
	}

	return schema.CandidacyAssessment{
		Score:          score,
		Recommendation: s.recommendationForScore(score),
		Reasons:        reasons,
	}
}

// recommendationForScore buckets a candidacy score; higher scores never map
// to a weaker recommendation.
func (s *CandidacyScorer) recommendationForScore(score int) schema.Recommendation {
	switch {
	case score >= s.cfg.ConvertThreshold:
		return schema.ConvertRecommendation
	case score >= s.cfg.ConsiderThreshold:
		return schema.ConsiderRecommendation
	default:
		return schema.ConventionalRecommendation
	}
}
