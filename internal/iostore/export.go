package iostore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/civicscan/fleetdoctor/internal/parquet"
	"github.com/civicscan/fleetdoctor/schema"
)

// ExecuteAssessmentExport dumps the stored assessment data to Parquet or
// CSV files, depending on the configured output mode.
func ExecuteAssessmentExport(outputFile string, mode schema.OutputMode) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetAssessmentStore()
	if store == nil {
		return errors.New("no assessment store configured; set store-backend")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.Assessments == 0 && status.RepairOutcomes == 0 {
		return errors.New("no assessment data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total assessments: %d\n", status.Assessments)
	fmt.Printf("Total repair outcomes: %d\n", status.RepairOutcomes)

	assessments, err := store.ListAssessments(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve assessments: %w", err)
	}
	outcomes, err := store.ListRepairOutcomes()
	if err != nil {
		return fmt.Errorf("failed to retrieve repair outcomes: %w", err)
	}

	if mode == schema.CSVOut {
		return exportCSV(outputFile, assessments, outcomes)
	}
	return exportParquet(outputFile, assessments, outcomes)
}

func exportParquet(outputFile string, assessments []schema.AssessmentRecord, outcomes []schema.RepairOutcomeRecord) error {
	assessmentRows := parquet.ConvertAssessmentRecords(assessments)
	outcomeRows := parquet.ConvertRepairOutcomeRecords(outcomes)

	assessmentsFile := outputFile + ".assessments.parquet"
	if err := parquet.WriteAssessmentsParquet(assessmentRows, assessmentsFile); err != nil {
		return fmt.Errorf("failed to write assessments: %w", err)
	}
	fmt.Printf("Exported %d assessments to: %s\n", len(assessmentRows), assessmentsFile)

	outcomesFile := outputFile + ".repair_outcomes.parquet"
	if err := parquet.WriteRepairOutcomesParquet(outcomeRows, outcomesFile); err != nil {
		return fmt.Errorf("failed to write repair outcomes: %w", err)
	}
	fmt.Printf("Exported %d repair outcomes to: %s\n", len(outcomeRows), outcomesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")
	return nil
}

func exportCSV(outputFile string, assessments []schema.AssessmentRecord, outcomes []schema.RepairOutcomeRecord) error {
	assessmentsFile := outputFile + ".assessments.csv"
	if err := writeRecordsCSV(assessmentsFile, assessmentHeader, func(w *csv.Writer) error {
		for _, rec := range assessments {
			if err := w.Write(assessmentCSVRow(rec)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to write assessments: %w", err)
	}
	fmt.Printf("Exported %d assessments to: %s\n", len(assessments), assessmentsFile)

	outcomesFile := outputFile + ".repair_outcomes.csv"
	if err := writeRecordsCSV(outcomesFile, outcomeHeader, func(w *csv.Writer) error {
		for _, rec := range outcomes {
			if err := w.Write(outcomeCSVRow(rec)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to write repair outcomes: %w", err)
	}
	fmt.Printf("Exported %d repair outcomes to: %s\n", len(outcomes), outcomesFile)
	return nil
}

var assessmentHeader = []string{
	"run_id", "repository", "agent_name", "agency_name", "status",
	"item_count", "duration_seconds", "complexity", "line_count",
	"effort_hours", "effort_tier", "priority_score", "priority_tier",
	"recommendation", "assessed_at",
}

var outcomeHeader = []string{
	"repository", "agent_name", "estimated_hours", "actual_hours", "note", "recorded_at",
}

func assessmentCSVRow(rec schema.AssessmentRecord) []string {
	effort := ""
	if rec.EffortHours != nil {
		effort = strconv.FormatFloat(*rec.EffortHours, 'f', 1, 64)
	}
	return []string{
		strconv.FormatInt(rec.RunID, 10),
		rec.Repository,
		rec.AgentName,
		rec.AgencyName,
		string(rec.Status),
		strconv.Itoa(rec.ItemCount),
		strconv.FormatFloat(rec.DurationSeconds, 'f', 1, 64),
		string(rec.Complexity),
		strconv.Itoa(rec.LineCount),
		effort,
		string(rec.EffortTier),
		strconv.FormatFloat(rec.PriorityScore, 'f', 1, 64),
		string(rec.PriorityTier),
		string(rec.Recommendation),
		rec.AssessedAt.Format(time.RFC3339),
	}
}

func outcomeCSVRow(rec schema.RepairOutcomeRecord) []string {
	return []string{
		rec.Repository,
		rec.AgentName,
		strconv.FormatFloat(rec.EstimatedHours, 'f', 1, 64),
		strconv.FormatFloat(rec.ActualHours, 'f', 1, 64),
		rec.Note,
		rec.RecordedAt.Format(time.RFC3339),
	}
}

func writeRecordsCSV(path string, header []string, writeRows func(*csv.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	return writeRows(w)
}
