package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/civicscan/fleetdoctor/core/report"
	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintEcosystemReport outputs the fleet-wide report, dispatching based on
// the output format configured.
func PrintEcosystemReport(eco schema.EcosystemReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, eco)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeEcosystemCSVRows(csvWriter, eco)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEcosystemTable(eco, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeEcosystemTable writes the per-repository table followed by the
// rendered fleet summary.
func writeEcosystemTable(eco schema.EcosystemReport, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Repository", "Scrapers", "Functional", "Failed", "Hours", "Health"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, rep := range eco.Repositories {
		row := []string{
			rep.Repository,
			strconv.Itoa(rep.TotalScrapers),
			strconv.Itoa(rep.Functional),
			strconv.Itoa(rep.Failed),
			fmt.Sprintf("%.1f", rep.TotalRepairHours),
			contract.HealthLabel(rep.OverallHealth, cfg.UseColors),
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := io.WriteString(writer, report.RenderSummary(eco)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Store backend: %s\n",
		duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeEcosystemCSVRows writes one CSV row per repository.
func writeEcosystemCSVRows(w *csv.Writer, eco schema.EcosystemReport) error {
	header := []string{
		"repository",
		"dormancy",
		"scrapers",
		"functional",
		"failed",
		"success_rate",
		"repair_hours",
		"blocked",
		"conversion_candidates",
		"health",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rep := range eco.Repositories {
		rec := []string{
			rep.Repository,
			string(rep.Dormancy.Status),
			strconv.Itoa(rep.TotalScrapers),
			strconv.Itoa(rep.Functional),
			strconv.Itoa(rep.Failed),
			fmt.Sprintf("%.3f", rep.SuccessRate),
			fmt.Sprintf("%.1f", rep.TotalRepairHours),
			strconv.Itoa(rep.BlockedScrapers),
			strconv.Itoa(rep.ConversionCandidates),
			string(rep.OverallHealth),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
