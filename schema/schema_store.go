package schema

import "time"

// RunRecord tracks one analysis run in the assessment store.
type RunRecord struct {
	ID           int64
	StartTime    time.Time
	EndTime      *time.Time
	TotalAgents  int
	ConfigParams string // JSON-encoded run parameters
}

// AssessmentRecord is the flat per-scraper row persisted after each run.
// Detail carries the serialized full ScraperAssessment for later drill-down.
type AssessmentRecord struct {
	RunID           int64
	Repository      string
	AgentName       string
	AgencyName      string
	Status          Status
	ItemCount       int
	DurationSeconds float64
	Complexity      ComplexityTier
	LineCount       int
	EffortHours     *float64
	EffortTier      EffortTier
	PriorityScore   float64
	PriorityTier    PriorityTier
	Recommendation  Recommendation
	Detail          string
	AssessedAt      time.Time
}

// RepairOutcomeRecord records the actual repair time against a prior
// estimate, to support later estimate-accuracy analysis.
type RepairOutcomeRecord struct {
	Repository     string
	AgentName      string
	EstimatedHours float64
	ActualHours    float64
	Note           string
	RecordedAt     time.Time
}

// AccuracyStats summarizes how well past effort estimates matched reality.
type AccuracyStats struct {
	Outcomes                    int     `json:"outcomes"`
	MeanAbsolutePercentageError float64 `json:"meanAbsolutePercentageError"`
	Overestimates               int     `json:"overestimates"`
	Underestimates              int     `json:"underestimates"`
}

// StoreStatus reports status information about the assessment store.
type StoreStatus struct {
	Backend        StoreBackend `json:"backend"`
	Location       string       `json:"location"`
	Runs           int64        `json:"runs"`
	Assessments    int64        `json:"assessments"`
	RepairOutcomes int64        `json:"repairOutcomes"`
}
