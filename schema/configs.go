package schema

// Tunable tables for the core components. Every component takes one of these
// at construction so thresholds and weights are swappable per test and per
// deployment instead of living as package globals.

// ClassifierConfig holds the keyword tables and thresholds used by the
// run classifier. All keyword matching is case-insensitive substring
// matching against the captured log.
type ClassifierConfig struct {
	// TimeoutCeilingSeconds is the runtime above which a failed run is
	// treated as a timeout even without a timeout marker in the log.
	TimeoutCeilingSeconds float64

	// StalenessDays is the age of the newest extracted record beyond which
	// a successful run is downgraded to stale success.
	StalenessDays int

	// DormancyDays is the repository inactivity window for dormancy.
	DormancyDays int

	ImportMarkers   []string
	TimeoutMarkers  []string
	SSLMarkers      []string
	HTTPCodes       []string
	EncodingMarkers []string
	SelectorMarkers []string
	JSMarkers       []string

	// Evidence extraction limits.
	MaxSnippets     int // stop after this many snippets
	SnippetRadius   int // context lines captured on each side of a match
	SnippetMaxChars int // per-snippet truncation
	FallbackChars   int // head of the raw log used when nothing matched
}

// DefaultClassifierConfig returns the stock classifier tables.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		TimeoutCeilingSeconds: 300,
		StalenessDays:         30,
		DormancyDays:          90,

		ImportMarkers: []string{
			"importerror", "modulenotfounderror", "no module named", "cannot import",
		},
		TimeoutMarkers: []string{
			"timeout", "timed out", "deadline exceeded",
		},
		SSLMarkers: []string{
			"ssl", "certificate verify failed", "certificate_verify_failed", "tls handshake",
		},
		HTTPCodes: []string{"404", "403", "500", "502", "503"},
		EncodingMarkers: []string{
			"unicodedecodeerror", "unicodeencodeerror", "codec can't decode", "invalid byte sequence",
		},
		SelectorMarkers: []string{
			"no elements found", "returned 0 results", "selector returned no", "empty selector",
			"xpath returned nothing", "could not find element",
		},
		JSMarkers: []string{
			"javascript", "window.__", "react", "angular", "vue", "webpack", "__next_data__",
			"document.getelementbyid", "enable js",
		},

		MaxSnippets:     3,
		SnippetRadius:   2,
		SnippetMaxChars: 200,
		FallbackChars:   500,
	}
}

// ComplexityConfig holds the line-count breakpoints and the shared-base
// frameworks that force a simple rating regardless of size.
type ComplexityConfig struct {
	// SimpleBases are shared-base markers whose presence forces the simple
	// tier; these frameworks hide most of the per-site logic.
	SimpleBases []string

	MediumLines  int // above this, medium
	ComplexLines int // above this, complex
}

// DefaultComplexityConfig returns the stock complexity breakpoints.
func DefaultComplexityConfig() ComplexityConfig {
	return ComplexityConfig{
		SimpleBases:  []string{"legistar", "granicus"},
		MediumLines:  100,
		ComplexLines: 200,
	}
}

// EffortConfig holds the status base-hours table and the multipliers that
// scale it. A status missing from BaseHours cannot be estimated and yields
// a blocked estimate.
type EffortConfig struct {
	BaseHours         map[Status]float64
	Multipliers       map[ComplexityTier]float64
	DependencyFactors map[DependencyType]float64
}

// DefaultEffortConfig returns the stock effort tables.
func DefaultEffortConfig() EffortConfig {
	return EffortConfig{
		BaseHours: map[Status]float64{
			StatusImportError:     1.0,
			StatusSSLError:        1.0,
			StatusEncodingError:   1.5,
			StatusHTTPError:       2.0,
			StatusTimeout:         2.0,
			StatusSelectorFailure: 3.0,
			StatusStaleSuccess:    3.0,
			StatusEmptyResult:     4.0,
			StatusUnknownFailure:  4.0,
			StatusJavascript:      12.0,
			// StatusDormant is intentionally absent: dormant repositories
			// are blocked on reactivation before any estimate makes sense.
		},
		Multipliers: map[ComplexityTier]float64{
			SimpleComplexity: 1.0,
			MediumComplexity: 1.5,
			HighComplexity:   2.5,
		},
		DependencyFactors: map[DependencyType]float64{
			StandaloneDependency:     1.0,
			SharedBaseDependency:     1.3,
			TightlyCoupledDependency: 1.5,
		},
	}
}

// PriorityWeights holds the per-factor weights of the priority scorer.
// They should sum to 1.0; a drifted sum is a warning, not an error.
type PriorityWeights struct {
	ContractRisk      float64 `mapstructure:"contract"`
	UsageFrequency    float64 `mapstructure:"usage"`
	FreshnessImpact   float64 `mapstructure:"freshness"`
	RepairFeasibility float64 `mapstructure:"feasibility"`
}

// Sum returns the total of all four weights.
func (w PriorityWeights) Sum() float64 {
	return w.ContractRisk + w.UsageFrequency + w.FreshnessImpact + w.RepairFeasibility
}

// DefaultPriorityWeights returns the stock factor weights.
func DefaultPriorityWeights() PriorityWeights {
	return PriorityWeights{
		ContractRisk:      0.40,
		UsageFrequency:    0.30,
		FreshnessImpact:   0.20,
		RepairFeasibility: 0.10,
	}
}

// PriorityConfig holds the weights plus the agency watch-list whose members
// carry contractual reporting obligations.
type PriorityConfig struct {
	Weights   PriorityWeights
	Watchlist []string
}

// DefaultPriorityConfig returns the stock priority configuration.
func DefaultPriorityConfig() PriorityConfig {
	return PriorityConfig{
		Weights: DefaultPriorityWeights(),
		Watchlist: []string{
			"city council",
			"board of supervisors",
			"school district",
		},
	}
}

// CandidacyConfig holds the additive points of the migration-candidacy
// scorer. MaintenancePenalty is subtracted from every assessment: a
// browser-automation rewrite always costs more to keep running, so the
// penalty is a policy constant, not a scored factor.
type CandidacyConfig struct {
	JavascriptPoints   int
	PriorArtPoints     int
	ComplexPoints      int
	HighEffortPoints   int
	MaintenancePenalty int

	ConvertThreshold  int
	ConsiderThreshold int
}

// DefaultCandidacyConfig returns the stock candidacy points.
func DefaultCandidacyConfig() CandidacyConfig {
	return CandidacyConfig{
		JavascriptPoints:   3,
		PriorArtPoints:     4,
		ComplexPoints:      2,
		HighEffortPoints:   1,
		MaintenancePenalty: 2,
		ConvertThreshold:   6,
		ConsiderThreshold:  4,
	}
}

// ReportConfig holds the breakpoints used when deriving report fields.
type ReportConfig struct {
	// Success-ratio breakpoints for the overall health tier.
	ExcellentRate float64
	GoodRate      float64
	ModerateRate  float64
	PoorRate      float64

	// Recovery-estimate divisors: hours per full-time week and month.
	WeeklyHours  float64
	MonthlyHours float64
	// Below this many total hours the recovery estimate is given in weeks.
	WeeksCutoverHours float64

	// Above this many total hours the fleet needs multi-person staffing.
	StaffingHoursThreshold float64
}

// DefaultReportConfig returns the stock report breakpoints.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		ExcellentRate:          0.9,
		GoodRate:               0.7,
		ModerateRate:           0.5,
		PoorRate:               0.3,
		WeeklyHours:            40,
		MonthlyHours:           160,
		WeeksCutoverHours:      160,
		StaffingHoursThreshold: 80,
	}
}
