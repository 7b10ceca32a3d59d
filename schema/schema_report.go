package schema

import "time"

// FailurePattern is one failure mode with its share of all failures.
type FailurePattern struct {
	Status            Status  `json:"status"`
	Count             int     `json:"count"`
	PercentOfFailures float64 `json:"percentOfFailures"`
}

// RepositoryReport is the per-repository health report. It owns the scraper
// assessments for one repository plus everything derived from them.
// Reports are immutable once built.
type RepositoryReport struct {
	Repository  string    `json:"repository"`
	GeneratedAt time.Time `json:"generatedAt"`

	// NoAgentsFound marks a repository where discovery returned nothing;
	// such a report carries identity only.
	NoAgentsFound bool `json:"noAgentsFound,omitempty"`

	// Dormancy is the repository-level activity signal, independent of any
	// single scraper's run outcome.
	Dormancy Classification `json:"dormancy"`

	TotalScrapers int     `json:"totalScrapers"`
	Functional    int     `json:"functional"`
	Failed        int     `json:"failed"`
	SuccessRate   float64 `json:"successRate"`

	FailureModes      map[Status]int         `json:"failureModes"`
	HoursByEffortTier map[EffortTier]float64 `json:"hoursByEffortTier"`
	TotalRepairHours  float64                `json:"totalRepairHours"`
	BlockedScrapers   int                    `json:"blockedScrapers"`

	PriorityDistribution map[PriorityTier]int `json:"priorityDistribution"`
	ConversionCandidates int                  `json:"conversionCandidates"`

	OverallHealth       HealthTier `json:"overallHealth"`
	RecommendedApproach string     `json:"recommendedApproach"`
	BlockingIssues      []string   `json:"blockingIssues"`
	RecoveryEstimate    string     `json:"recoveryEstimate"`

	Assessments []ScraperAssessment `json:"assessments"`
}

// EcosystemReport is the fleet-wide report composed from many repository
// reports, with derived insights and recommendations.
type EcosystemReport struct {
	GeneratedAt time.Time `json:"generatedAt"`

	TotalRepositories int     `json:"totalRepositories"`
	TotalScrapers     int     `json:"totalScrapers"`
	Functional        int     `json:"functional"`
	Failed            int     `json:"failed"`
	SuccessRate       float64 `json:"successRate"`

	FailurePatterns []FailurePattern `json:"failurePatterns"`

	TotalRepairHours float64 `json:"totalRepairHours"`
	// SerialWeeks assumes one full-time person; ParallelWeeks assumes two.
	SerialWeeks   float64 `json:"serialFullTimeWeeks"`
	ParallelWeeks float64 `json:"parallelTwoPersonWeeks"`

	DormantRepositories  []string `json:"dormantRepositories"`
	ConversionCandidates int      `json:"conversionCandidates"`

	Insights         []string `json:"insights"`
	ImmediateActions []string `json:"immediateActions"`
	ParallelTracks   []string `json:"parallelTracks"`

	Repositories []RepositoryReport `json:"repositories"`
}
