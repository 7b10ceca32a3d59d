// Package parquet provides data structures and functions for exporting
// fleet assessment data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/civicscan/fleetdoctor/schema"
	"github.com/parquet-go/parquet-go"
)

// AssessmentRow represents a single scraper assessment row.
// This struct maps to the fleetdoctor_assessments database table.
type AssessmentRow struct {
	// RunID references the parent analysis run
	RunID int64 `parquet:"run_id,snappy"`

	// Repository is the repository the scraper lives in
	Repository string `parquet:"repository,snappy"`

	// AgentName is the scraper's name within the repository
	AgentName string `parquet:"agent_name,snappy"`

	// AgencyName is the public body the scraper covers (nullable)
	AgencyName *string `parquet:"agency_name,optional,snappy"`

	// Status is the health classification of the captured run
	Status string `parquet:"status,snappy"`

	// ItemCount is the number of items the run produced
	ItemCount int32 `parquet:"item_count,snappy"`

	// DurationSeconds is the wall-clock run duration
	DurationSeconds float64 `parquet:"duration_seconds,snappy"`

	// Complexity is the coarse complexity tier
	Complexity string `parquet:"complexity,snappy"`

	// LineCount is the scraper's source line count
	LineCount int32 `parquet:"line_count,snappy"`

	// EffortHours is the estimated repair effort (nullable when blocked)
	EffortHours *float64 `parquet:"effort_hours,optional,snappy"`

	// EffortTier is the coarse effort bucket
	EffortTier string `parquet:"effort_tier,snappy"`

	// PriorityScore is the weighted 0-10 repair priority
	PriorityScore float64 `parquet:"priority_score,snappy"`

	// PriorityTier is the coarse priority bucket
	PriorityTier string `parquet:"priority_tier,snappy"`

	// Recommendation is the migration-candidacy recommendation
	Recommendation string `parquet:"recommendation,snappy"`

	// AssessedAt is when the assessment was produced (stored as TIMESTAMP with nanosecond precision)
	AssessedAt time.Time `parquet:"assessed_at,snappy"`
}

// RepairOutcomeRow represents one recorded repair outcome.
// This struct maps to the fleetdoctor_repair_outcomes database table.
type RepairOutcomeRow struct {
	// Repository is the repository the scraper lives in
	Repository string `parquet:"repository,snappy"`

	// AgentName is the scraper's name within the repository
	AgentName string `parquet:"agent_name,snappy"`

	// EstimatedHours is the effort estimate at repair time
	EstimatedHours float64 `parquet:"estimated_hours,snappy"`

	// ActualHours is the time the repair actually took
	ActualHours float64 `parquet:"actual_hours,snappy"`

	// Note is free-form context for the outcome (nullable)
	Note *string `parquet:"note,optional,snappy"`

	// RecordedAt is when the outcome was recorded (stored as TIMESTAMP with nanosecond precision)
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// ConvertAssessmentRecords converts store records to Parquet rows.
func ConvertAssessmentRecords(records []schema.AssessmentRecord) []AssessmentRow {
	rows := make([]AssessmentRow, len(records))
	for i, rec := range records {
		var agency *string
		if rec.AgencyName != "" {
			name := rec.AgencyName
			agency = &name
		}
		rows[i] = AssessmentRow{
			RunID:           rec.RunID,
			Repository:      rec.Repository,
			AgentName:       rec.AgentName,
			AgencyName:      agency,
			Status:          string(rec.Status),
			ItemCount:       int32(rec.ItemCount),
			DurationSeconds: rec.DurationSeconds,
			Complexity:      string(rec.Complexity),
			LineCount:       int32(rec.LineCount),
			EffortHours:     rec.EffortHours,
			EffortTier:      string(rec.EffortTier),
			PriorityScore:   rec.PriorityScore,
			PriorityTier:    string(rec.PriorityTier),
			Recommendation:  string(rec.Recommendation),
			AssessedAt:      rec.AssessedAt,
		}
	}
	return rows
}

// ConvertRepairOutcomeRecords converts store records to Parquet rows.
func ConvertRepairOutcomeRecords(records []schema.RepairOutcomeRecord) []RepairOutcomeRow {
	rows := make([]RepairOutcomeRow, len(records))
	for i, rec := range records {
		var note *string
		if rec.Note != "" {
			text := rec.Note
			note = &text
		}
		rows[i] = RepairOutcomeRow{
			Repository:     rec.Repository,
			AgentName:      rec.AgentName,
			EstimatedHours: rec.EstimatedHours,
			ActualHours:    rec.ActualHours,
			Note:           note,
			RecordedAt:     rec.RecordedAt,
		}
	}
	return rows
}

// WriteAssessmentsParquet writes a slice of AssessmentRow structs to a Parquet file.
func WriteAssessmentsParquet(data []AssessmentRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AssessmentRow struct tags
	writer := parquet.NewGenericWriter[AssessmentRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteRepairOutcomesParquet writes a slice of RepairOutcomeRow structs to a Parquet file.
func WriteRepairOutcomesParquet(data []RepairOutcomeRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the RepairOutcomeRow struct tags
	writer := parquet.NewGenericWriter[RepairOutcomeRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
