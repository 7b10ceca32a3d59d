// Package core has core logic for classification, scoring and assessment.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/internal/outwriter"
	"github.com/civicscan/fleetdoctor/schema"
)

// ExecuteRepoAnalysis analyzes one repository and prints its report.
// It serves as the main entry point for the 'repo' command.
func ExecuteRepoAnalysis(ctx context.Context, cfg *contract.Config, provider contract.MetadataProvider, sandbox contract.Sandbox, mgr contract.StoreManager, repoName string) error {
	start := time.Now()
	outwriter.LogAnalysisHeader(cfg, repoName)

	an := NewAnalyzer(cfg, provider, sandbox)
	rep, err := an.AnalyzeRepository(ctx, repoName, start)
	if err != nil {
		return err
	}

	persistAssessments(mgr, cfg, rep.Assessments, start)
	return outwriter.PrintRepositoryReport(rep, cfg, time.Since(start))
}

// ExecuteFleetAnalysis analyzes every repository and prints the ecosystem
// report. It serves as the main entry point for the 'fleet' command.
func ExecuteFleetAnalysis(ctx context.Context, cfg *contract.Config, provider contract.MetadataProvider, sandbox contract.Sandbox, mgr contract.StoreManager) error {
	start := time.Now()
	outwriter.LogAnalysisHeader(cfg, "fleet")

	an := NewAnalyzer(cfg, provider, sandbox)
	eco, err := an.AnalyzeFleet(ctx, start)
	if err != nil {
		return err
	}

	for _, rep := range eco.Repositories {
		persistAssessments(mgr, cfg, rep.Assessments, start)
	}
	return outwriter.PrintEcosystemReport(eco, cfg, time.Since(start))
}

// ExecuteClassifyRun classifies one captured run without touching any
// collaborator. It serves as the entry point for the 'classify' command.
func ExecuteClassifyRun(cfg *contract.Config, res schema.ExecutionResult) error {
	classifier := NewClassifier(cfg.Classifier)
	cls := classifier.Classify(res, time.Now())
	return outwriter.PrintClassification(cls, cfg)
}

// ExecuteQuota reports the metadata provider's API quota.
func ExecuteQuota(ctx context.Context, cfg *contract.Config, provider contract.MetadataProvider) error {
	quota, err := provider.CheckQuota(ctx)
	if err != nil {
		return err
	}
	return outwriter.PrintQuota(quota, cfg)
}

// ExecuteRecordOutcome stores an actual repair time against its estimate.
func ExecuteRecordOutcome(mgr contract.StoreManager, rec schema.RepairOutcomeRecord) error {
	store := mgr.GetAssessmentStore()
	if store == nil {
		return fmt.Errorf("no assessment store configured; set store-backend")
	}
	return store.RecordRepairOutcome(rec)
}

// ExecuteAccuracy prints the estimate-accuracy statistics.
func ExecuteAccuracy(cfg *contract.Config, mgr contract.StoreManager) error {
	store := mgr.GetAssessmentStore()
	if store == nil {
		return fmt.Errorf("no assessment store configured; set store-backend")
	}
	stats, err := store.AccuracyStats()
	if err != nil {
		return err
	}
	return outwriter.PrintAccuracy(stats, cfg)
}

// persistAssessments writes flat records for a run when a store is
// configured. Persistence trouble is a warning; the analysis output still
// stands on its own.
func persistAssessments(mgr contract.StoreManager, cfg *contract.Config, assessments []schema.ScraperAssessment, start time.Time) {
	if mgr == nil {
		return
	}
	store := mgr.GetAssessmentStore()
	if store == nil || len(assessments) == 0 {
		return
	}

	params := map[string]any{
		"provider": cfg.Provider,
		"workers":  cfg.Workers,
		"root":     cfg.RootPath,
	}
	runID, err := store.BeginRun(start, params)
	if err != nil {
		contract.LogWarn("assessment run tracking failed", err)
		return
	}

	for _, a := range assessments {
		if err := store.RecordAssessment(ToRecord(runID, a)); err != nil {
			contract.LogWarn(fmt.Sprintf("could not persist assessment for %s", a.AgentName), err)
		}
	}
	if err := store.EndRun(runID, time.Now(), len(assessments)); err != nil {
		contract.LogWarn("assessment run completion failed", err)
	}
}

// ToRecord flattens one assessment into its persisted row, with the full
// assessment serialized into the detail blob.
func ToRecord(runID int64, a schema.ScraperAssessment) schema.AssessmentRecord {
	detail, err := json.Marshal(a)
	if err != nil {
		detail = nil
	}
	return schema.AssessmentRecord{
		RunID:           runID,
		Repository:      a.Repository,
		AgentName:       a.AgentName,
		AgencyName:      a.AgencyName,
		Status:          a.Classification.Status,
		ItemCount:       a.ItemCount,
		DurationSeconds: a.DurationSeconds,
		Complexity:      a.Complexity,
		LineCount:       a.LineCount,
		EffortHours:     a.Effort.TotalHours,
		EffortTier:      a.Effort.Tier,
		PriorityScore:   a.Priority.Score,
		PriorityTier:    a.Priority.Tier,
		Recommendation:  a.Candidacy.Recommendation,
		Detail:          string(detail),
		AssessedAt:      a.AssessedAt,
	}
}
