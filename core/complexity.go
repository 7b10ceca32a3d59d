package core

import (
	"strings"

	"github.com/civicscan/fleetdoctor/schema"
)

// ComplexityAssessor maps static scraper metadata to a coarse complexity
// tier. A recognized shared base forces the simple tier regardless of line
// count, since those frameworks hide most of the per-site logic.
type ComplexityAssessor struct {
	cfg schema.ComplexityConfig
}

// NewComplexityAssessor builds an assessor from the given breakpoints.
func NewComplexityAssessor(cfg schema.ComplexityConfig) *ComplexityAssessor {
	return &ComplexityAssessor{cfg: cfg}
}

// Assess returns the complexity tier for a scraper.
func (a *ComplexityAssessor) Assess(linesOfCode int, sharedBaseMarkers []string) schema.ComplexityTier {
	if a.hasSimpleBase(sharedBaseMarkers) {
		return schema.SimpleComplexity
	}
	switch {
	case linesOfCode > a.cfg.ComplexLines:
		return schema.HighComplexity
	case linesOfCode > a.cfg.MediumLines:
		return schema.MediumComplexity
	default:
		return schema.SimpleComplexity
	}
}

// DependencyFor derives the dependency coupling from the shared-base
// markers: a recognized framework base means shared-base coupling, an
// unrecognized custom base means tight coupling, no markers means the
// scraper stands alone.
func (a *ComplexityAssessor) DependencyFor(sharedBaseMarkers []string) schema.DependencyType {
	if len(sharedBaseMarkers) == 0 {
		return schema.StandaloneDependency
	}
	if a.hasSimpleBase(sharedBaseMarkers) {
		return schema.SharedBaseDependency
	}
	return schema.TightlyCoupledDependency
}

// HasSimpleBase reports whether any marker names a recognized
// low-complexity shared base.
func (a *ComplexityAssessor) HasSimpleBase(sharedBaseMarkers []string) bool {
	return a.hasSimpleBase(sharedBaseMarkers)
}

func (a *ComplexityAssessor) hasSimpleBase(markers []string) bool {
	for _, m := range markers {
		lower := strings.ToLower(m)
		for _, base := range a.cfg.SimpleBases {
			if strings.Contains(lower, strings.ToLower(base)) {
				return true
			}
		}
	}
	return false
}
