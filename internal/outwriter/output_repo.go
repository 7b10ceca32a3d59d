package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRepositoryReport outputs one repository report, dispatching based on
// the output format configured.
func PrintRepositoryReport(rep schema.RepositoryReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rep)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeAssessmentCSVRows(csvWriter, rep.Assessments)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRepositoryTable(rep, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeRepositoryTable generates and writes the human-readable table.
func writeRepositoryTable(rep schema.RepositoryReport, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	if rep.NoAgentsFound {
		_, err := fmt.Fprintf(writer, "Repository %s: no agents found\n", rep.Repository)
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Agent", "Status", "Complexity", "Effort", "Priority", "Recommend"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	ranked := rankedAssessments(rep.Assessments)

	var data [][]string
	for i, a := range ranked {
		row := []string{
			strconv.Itoa(i + 1),
			TruncateName(a.AgentName, nameWidth),
			contract.StatusLabel(a.Classification.Status, cfg.UseColors),
			string(a.Complexity),
			fmtHours(a.Effort.TotalHours),
			contract.PriorityLabel(a.Priority.Tier, cfg.UseColors),
			string(a.Candidacy.Recommendation),
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Repository: %s (%s)\n",
		rep.Repository, contract.StatusLabel(rep.Dormancy.Status, cfg.UseColors)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Scrapers: %d total, %d functional, %d failed (%.1f%% success)\n",
		rep.TotalScrapers, rep.Functional, rep.Failed, rep.SuccessRate*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Repair effort: %.1f hours (%d blocked), recovery %s\n",
		rep.TotalRepairHours, rep.BlockedScrapers, rep.RecoveryEstimate); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Health: %s. %s\n",
		contract.HealthLabel(rep.OverallHealth, cfg.UseColors), rep.RecommendedApproach); err != nil {
		return err
	}
	for _, issue := range rep.BlockingIssues {
		if _, err := fmt.Fprintf(writer, "  - %s\n", issue); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Store backend: %s\n",
		duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// rankedAssessments orders assessments by descending priority score, with
// the agent name as a stable tie-break.
func rankedAssessments(assessments []schema.ScraperAssessment) []schema.ScraperAssessment {
	ranked := make([]schema.ScraperAssessment, len(assessments))
	copy(ranked, assessments)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Priority.Score != ranked[j].Priority.Score {
			return ranked[i].Priority.Score > ranked[j].Priority.Score
		}
		return ranked[i].AgentName < ranked[j].AgentName
	})
	return ranked
}

// writeAssessmentCSVRows writes assessments in CSV format, one row per scraper.
func writeAssessmentCSVRows(w *csv.Writer, assessments []schema.ScraperAssessment) error {
	header := []string{
		"rank",
		"repository",
		"agent",
		"agency",
		"status",
		"confidence",
		"item_count",
		"duration_seconds",
		"complexity",
		"line_count",
		"effort_hours",
		"effort_tier",
		"priority_score",
		"priority_tier",
		"recommendation",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, a := range rankedAssessments(assessments) {
		rec := []string{
			strconv.Itoa(i + 1),
			a.Repository,
			a.AgentName,
			a.AgencyName,
			string(a.Classification.Status),
			string(a.Classification.Confidence),
			strconv.Itoa(a.ItemCount),
			fmt.Sprintf("%.1f", a.DurationSeconds),
			string(a.Complexity),
			strconv.Itoa(a.LineCount),
			fmtHours(a.Effort.TotalHours),
			string(a.Effort.Tier),
			fmt.Sprintf("%.1f", a.Priority.Score),
			string(a.Priority.Tier),
			string(a.Candidacy.Recommendation),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
