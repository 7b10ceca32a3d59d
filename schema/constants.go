package schema

// Custom string types for type safety.
type (
	// Status represents the health classification of a scraper run.
	Status string

	// Confidence represents how certain the classifier is about a status.
	Confidence string

	// FrequencyCategory represents how often a failure mode tends to occur.
	FrequencyCategory string

	// ComplexityTier represents the coarse complexity of a scraper.
	ComplexityTier string

	// DependencyType represents how coupled a scraper is to shared code.
	DependencyType string

	// EffortTier represents the coarse bucket of estimated repair hours.
	EffortTier string

	// PriorityTier represents the coarse bucket of the weighted priority score.
	PriorityTier string

	// Recommendation represents the migration-candidacy recommendation.
	Recommendation string

	// HealthTier represents the qualitative health of a repository.
	HealthTier string

	// OutputMode represents the format of the output.
	OutputMode string

	// StoreBackend represents the database backend for the assessment store.
	StoreBackend string
)

// All run statuses supported.
const (
	StatusSuccess      Status = "success"
	StatusStaleSuccess Status = "stale_success"

	StatusImportError     Status = "import_error"
	StatusTimeout         Status = "timeout"
	StatusSSLError        Status = "ssl_error"
	StatusHTTPError       Status = "http_error"
	StatusEncodingError   Status = "encoding_error"
	StatusSelectorFailure Status = "selector_failure"
	StatusJavascript      Status = "javascript_required"
	StatusEmptyResult     Status = "empty_result"
	StatusUnknownFailure  Status = "unknown_failure"

	// Repository-level dormancy signals, independent of any single run.
	StatusDormant Status = "dormant"
	StatusActive  Status = "active"
)

// All confidence levels supported.
const (
	HighConfidence   Confidence = "high"
	MediumConfidence Confidence = "medium"
	LowConfidence    Confidence = "low"
)

// All failure frequency categories supported.
const (
	HighFrequency   FrequencyCategory = "high"
	MediumFrequency FrequencyCategory = "medium"
	LowFrequency    FrequencyCategory = "low"
	NoFrequency     FrequencyCategory = "none"
)

// All complexity tiers supported.
const (
	SimpleComplexity ComplexityTier = "simple"
	MediumComplexity ComplexityTier = "medium"
	HighComplexity   ComplexityTier = "complex"
)

// All dependency types supported.
const (
	StandaloneDependency     DependencyType = "standalone"
	SharedBaseDependency     DependencyType = "shared_base"
	TightlyCoupledDependency DependencyType = "tightly_coupled"
)

// All effort tiers supported.
const (
	TrivialEffort  EffortTier = "trivial"
	LowEffort      EffortTier = "low"
	MediumEffort   EffortTier = "medium"
	HighEffort     EffortTier = "high"
	VeryHighEffort EffortTier = "very_high"
	BlockedEffort  EffortTier = "blocked"
)

// All priority tiers supported.
const (
	CriticalPriority PriorityTier = "critical"
	HighPriority     PriorityTier = "high"
	MediumPriority   PriorityTier = "medium"
	LowPriority      PriorityTier = "low"
)

// All candidacy recommendations supported.
const (
	ConvertRecommendation      Recommendation = "convert"
	ConsiderRecommendation     Recommendation = "consider"
	ConventionalRecommendation Recommendation = "conventional_repair"
)

// All repository health tiers supported.
const (
	ExcellentHealth HealthTier = "excellent"
	GoodHealth      HealthTier = "good"
	ModerateHealth  HealthTier = "moderate"
	PoorHealth      HealthTier = "poor"
	CriticalHealth  HealthTier = "critical"
	UnknownHealth   HealthTier = "unknown"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     StoreBackend = "sqlite" // default
	MySQLBackend      StoreBackend = "mysql"
	PostgreSQLBackend StoreBackend = "postgresql"
	NoneBackend       StoreBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	ParquetOut: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[StoreBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// AllFailureStatuses lists every status that counts as a failure mode in
// report breakdowns. Success and stale success are excluded; dormant and
// active are repository-level signals, not run outcomes.
var AllFailureStatuses = []Status{
	StatusImportError,
	StatusTimeout,
	StatusSSLError,
	StatusHTTPError,
	StatusEncodingError,
	StatusSelectorFailure,
	StatusJavascript,
	StatusEmptyResult,
	StatusUnknownFailure,
}

// frequencyByStatus maps each status to how often that failure mode shows up
// across a typical fleet. Successful runs have no frequency category.
var frequencyByStatus = map[Status]FrequencyCategory{
	StatusSelectorFailure: HighFrequency,
	StatusHTTPError:       HighFrequency,
	StatusEmptyResult:     MediumFrequency,
	StatusTimeout:         MediumFrequency,
	StatusImportError:     MediumFrequency,
	StatusJavascript:      MediumFrequency,
	StatusSSLError:        LowFrequency,
	StatusEncodingError:   LowFrequency,
	StatusUnknownFailure:  LowFrequency,
	StatusStaleSuccess:    LowFrequency,
	StatusDormant:         LowFrequency,
}

// FrequencyForStatus returns the frequency category for a status via the
// static lookup table. Statuses without an entry (success, active) map to
// NoFrequency.
func FrequencyForStatus(s Status) FrequencyCategory {
	if f, ok := frequencyByStatus[s]; ok {
		return f
	}
	return NoFrequency
}

// IsFailure reports whether the status counts as a failure mode.
func (s Status) IsFailure() bool {
	switch s {
	case StatusSuccess, StatusStaleSuccess, StatusActive, "":
		return false
	default:
		return true
	}
}
