// Package schema has configs, models and constants for all parts of fleetdoctor.
package schema

import "time"

// ExecutionResult captures the raw evidence from one sandboxed scraper run.
// It is owned by the caller; the classifier never mutates it.
type ExecutionResult struct {
	ExitCode        int              // Process exit code (0 = clean exit)
	ItemCount       int              // Number of items the scraper produced
	LogText         string           // Captured combined stdout/stderr, bounded by the sandbox
	DurationSeconds float64          // Wall-clock runtime in seconds
	Items           []map[string]any // Optional extracted records, inspected only for date-like fields
}

// Classification is the standardized health classification for one run.
// Instances are immutable once returned by the classifier.
type Classification struct {
	Status     Status            `json:"status"`
	Confidence Confidence        `json:"confidence"`
	Evidence   []string          `json:"evidence"`
	Frequency  FrequencyCategory `json:"frequencyCategory"`
}

// RepositoryRef identifies one scraper repository known to the metadata provider.
type RepositoryRef struct {
	Name string `json:"name"`
}

// RepositoryInfo holds repository-level metadata used for dormancy signals
// and sandbox setup. Zero times mean the signal is unknown.
type RepositoryInfo struct {
	Name                 string    `json:"name"`
	LastCommitTime       time.Time `json:"lastCommitTime"`
	LastAutomatedRunTime time.Time `json:"lastAutomatedRunTime"`
	CloneLocator         string    `json:"cloneLocator"`
}

// AgentFile identifies one candidate scraper file within a repository.
type AgentFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// AgentMetadata holds the static metadata extracted from one scraper file.
type AgentMetadata struct {
	AgentName         string    `json:"agentName"`
	AgencyName        string    `json:"agencyName"`
	FilePath          string    `json:"filePath"`
	LineCount         int       `json:"lineCount"`
	SharedBaseMarkers []string  `json:"sharedBaseMarkers"`
	StartURLs         []string  `json:"startUrls"`
	LastModified      time.Time `json:"lastModifiedTime"`
}

// QuotaInfo reports the metadata provider's API quota.
type QuotaInfo struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"resetTime"`
}

// EffortEstimate is a repair-effort estimate for one scraper.
// Nil BaseHours means the estimate is blocked on an external precondition
// (a dormant repository); TotalHours is nil in that case too and callers
// must branch on the tier before doing arithmetic.
type EffortEstimate struct {
	BaseHours            *float64   `json:"baseHours"`
	ComplexityMultiplier float64    `json:"complexityMultiplier"`
	DependencyFactor     float64    `json:"dependencyFactor"`
	TotalHours           *float64   `json:"totalHours"`
	Tier                 EffortTier `json:"effortTier"`
	Advisory             string     `json:"advisory,omitempty"`
}

// PriorityAssessment is a weighted 0-10 repair-priority score with its
// contributing factor scores.
type PriorityAssessment struct {
	ContractRisk      float64      `json:"contractRisk"`
	UsageFrequency    float64      `json:"usageFrequency"`
	FreshnessImpact   float64      `json:"dataFreshnessImpact"`
	RepairFeasibility float64      `json:"repairFeasibility"`
	Score             float64      `json:"priorityScore"`
	Tier              PriorityTier `json:"priorityTier"`
}

// CandidacyAssessment is the migration-candidacy recommendation for one
// scraper. Score is additive and can go negative.
type CandidacyAssessment struct {
	Score          int            `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
	Reasons        []string       `json:"reasons"`
}

// ScraperAssessment is the aggregate assessment of one scraper within one
// repository. It is built once by the orchestrator and read-only afterward.
type ScraperAssessment struct {
	Repository string `json:"repository"`
	AgentName  string `json:"agentName"`
	AgencyName string `json:"agencyName"`
	FilePath   string `json:"filePath"`

	StartURLs    []string  `json:"startUrls"`
	LastModified time.Time `json:"lastModifiedTime"`
	LineCount    int       `json:"lineCount"`

	ItemCount       int     `json:"itemCount"`
	DurationSeconds float64 `json:"durationSeconds"`

	Classification Classification      `json:"classification"`
	Complexity     ComplexityTier      `json:"complexity"`
	Effort         EffortEstimate      `json:"effort"`
	Priority       PriorityAssessment  `json:"priority"`
	Candidacy      CandidacyAssessment `json:"candidacy"`

	AssessedAt time.Time `json:"assessedAt"`
}
