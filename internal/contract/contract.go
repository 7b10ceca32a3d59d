// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/civicscan/fleetdoctor/schema"
)

// MetadataProvider defines the operations fleetdoctor needs from a
// version-control metadata source. This allows the orchestration logic to be
// tested without network access or a real git executable.
type MetadataProvider interface {
	// ListRepositories returns every scraper repository known to the provider.
	ListRepositories(ctx context.Context) ([]schema.RepositoryRef, error)

	// GetRepositoryInfo returns repository-level metadata, including the
	// activity timestamps used for dormancy classification. Unknown
	// timestamps are zero, never an error.
	GetRepositoryInfo(ctx context.Context, name string) (schema.RepositoryInfo, error)

	// ListAgentFiles returns the candidate scraper files in a repository.
	ListAgentFiles(ctx context.Context, repo string) ([]schema.AgentFile, error)

	// GetAgentMetadata extracts static metadata from one scraper file.
	GetAgentMetadata(ctx context.Context, repo string, file schema.AgentFile) (schema.AgentMetadata, error)

	// CheckQuota reports the provider's API quota.
	CheckQuota(ctx context.Context) (schema.QuotaInfo, error)
}

// Sandbox defines the execution environment that runs one scraper under a
// timeout and captures the evidence the classifier consumes.
type Sandbox interface {
	// Setup prepares a working directory for the given clone locator.
	Setup(ctx context.Context, cloneLocator string) (string, error)

	// Execute runs one scraper and captures exit code, items and log text.
	// A run that exceeds the timeout is returned as a result with a nonzero
	// exit code, not as an error; Execute errors only when the run could
	// not be attempted at all.
	Execute(ctx context.Context, workDir, agentName string, timeout time.Duration) (schema.ExecutionResult, error)

	// Teardown removes a working directory created by Setup.
	Teardown(workDir string) error
}

// StoreManager defines the interface for reaching the assessment store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetAssessmentStore() AssessmentStore
}

// AssessmentStore defines the persistence operations for assessment records
// and repair outcomes.
type AssessmentStore interface {
	// BeginRun creates a new analysis run and returns its unique ID.
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the analysis run with completion data.
	EndRun(runID int64, endTime time.Time, totalAgents int) error

	// RecordAssessment stores the flat record for one scraper assessment.
	RecordAssessment(rec schema.AssessmentRecord) error

	// RecordRepairOutcome stores an actual repair time against a prior estimate.
	RecordRepairOutcome(rec schema.RepairOutcomeRecord) error

	// AccuracyStats computes estimate-accuracy statistics over all recorded
	// repair outcomes.
	AccuracyStats() (schema.AccuracyStats, error)

	// ListAssessments returns the stored assessment records for export,
	// newest first. A limit of 0 returns everything.
	ListAssessments(limit int) ([]schema.AssessmentRecord, error)

	// ListRepairOutcomes returns every recorded repair outcome for export.
	ListRepairOutcomes() ([]schema.RepairOutcomeRecord, error)

	// GetStatus returns status information about the assessment store.
	GetStatus() (schema.StoreStatus, error)

	// Close releases the underlying database handle.
	Close() error
}
