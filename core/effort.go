package core

import (
	"math"

	"github.com/civicscan/fleetdoctor/schema"
)

// EffortEstimator maps a classification to a repair-hours estimate.
// Statuses without a base-hours entry cannot be estimated; they yield a
// blocked estimate whose numeric fields are nil.
type EffortEstimator struct {
	cfg schema.EffortConfig
}

// NewEffortEstimator builds an estimator from the given tables.
func NewEffortEstimator(cfg schema.EffortConfig) *EffortEstimator {
	return &EffortEstimator{cfg: cfg}
}

// Estimate computes the effort estimate for one scraper. Callers must
// branch on the blocked tier before doing arithmetic with the hours.
func (e *EffortEstimator) Estimate(status schema.Status, complexity schema.ComplexityTier, dep schema.DependencyType) schema.EffortEstimate {
	base, ok := e.cfg.BaseHours[status]
	if !ok {
		return schema.EffortEstimate{
			Tier:     schema.BlockedEffort,
			Advisory: e.Advisory(status, complexity),
		}
	}

	multiplier := e.cfg.Multipliers[complexity]
	if multiplier == 0 {
		multiplier = 1.0
	}
	factor := e.cfg.DependencyFactors[dep]
	if factor == 0 {
		factor = 1.0
	}

	total := roundToHalf(base * multiplier * factor)
	return schema.EffortEstimate{
		BaseHours:            &base,
		ComplexityMultiplier: multiplier,
		DependencyFactor:     factor,
		TotalHours:           &total,
		Tier:                 tierForHours(total),
		Advisory:             e.Advisory(status, complexity),
	}
}

// tierForHours buckets total hours into an effort tier.
func tierForHours(hours float64) schema.EffortTier {
	switch {
	case hours < 1:
		return schema.TrivialEffort
	case hours <= 4:
		return schema.LowEffort
	case hours <= 8:
		return schema.MediumEffort
	case hours <= 16:
		return schema.HighEffort
	default:
		return schema.VeryHighEffort
	}
}

// roundToHalf rounds to the nearest 0.5 hour.
func roundToHalf(hours float64) float64 {
	return math.Round(hours*2) / 2
}

// advisoryByStatus maps each status to one remediation suggestion.
var advisoryByStatus = map[schema.Status]string{
	schema.StatusImportError:     "Fix the broken import; usually a missing or renamed dependency",
	schema.StatusSSLError:        "Update the certificate bundle or pin the site's new certificate chain",
	schema.StatusEncodingError:   "Declare the page's real character encoding before decoding",
	schema.StatusHTTPError:       "The endpoint moved or now requires auth; re-discover the document URL",
	schema.StatusTimeout:         "Raise the request timeout or narrow the crawl to fewer pages",
	schema.StatusSelectorFailure: "The page layout changed; re-derive the selectors from the current markup",
	schema.StatusStaleSuccess:    "The scraper runs but the source stopped publishing; verify the agency's feed",
	schema.StatusEmptyResult:     "Walk the page manually to find where the records moved",
	schema.StatusUnknownFailure:  "Reproduce the run locally and read the full log",
	schema.StatusJavascript:      "The site renders through JavaScript; static parsing cannot recover this one",
	schema.StatusDormant:         "Repository is dormant; reactivate it before estimating any repair",
}

// Advisory returns one human-readable remediation suggestion for a status,
// with a caveat appended for complex scrapers.
func (e *EffortEstimator) Advisory(status schema.Status, complexity schema.ComplexityTier) string {
	text, ok := advisoryByStatus[status]
	if !ok {
		text = "Inspect the run log and the scraper source"
	}
	if complexity == schema.HighComplexity {
		text += "; expect extra time, this scraper carries significant custom logic"
	}
	return text
}
