package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
)

// PrintClassification outputs one standalone run classification.
func PrintClassification(cls schema.Classification, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, cls)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeClassificationText(cls, cfg, w)
	}, "Wrote classification")
}

func writeClassificationText(cls schema.Classification, cfg *contract.Config, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Status: %s (confidence: %s)\n",
		contract.StatusLabel(cls.Status, cfg.UseColors), cls.Confidence); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Frequency: %s\n", cls.Frequency); err != nil {
		return err
	}
	if len(cls.Evidence) == 0 {
		_, err := fmt.Fprintln(writer, "Evidence: none")
		return err
	}
	if _, err := fmt.Fprintln(writer, "Evidence:"); err != nil {
		return err
	}
	for _, ev := range cls.Evidence {
		if _, err := fmt.Fprintf(writer, "  - %s\n", ev); err != nil {
			return err
		}
	}
	return nil
}

// PrintQuota outputs the metadata provider's API quota.
func PrintQuota(quota schema.QuotaInfo, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, quota)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "API quota: %d/%d remaining\n", quota.Remaining, quota.Limit); err != nil {
			return err
		}
		if !quota.ResetTime.IsZero() {
			if _, err := fmt.Fprintf(w, "Resets: %s (in %s)\n",
				quota.ResetTime.Format(time.RFC1123),
				time.Until(quota.ResetTime).Round(time.Second)); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote quota")
}

// PrintAccuracy outputs estimate-accuracy statistics.
func PrintAccuracy(stats schema.AccuracyStats, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, stats)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if stats.Outcomes == 0 {
			_, err := fmt.Fprintln(w, "No repair outcomes recorded yet.")
			return err
		}
		if _, err := fmt.Fprintf(w, "Repair outcomes: %d\n", stats.Outcomes); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Mean absolute percentage error: %.1f%%\n",
			stats.MeanAbsolutePercentageError); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Overestimates: %d, underestimates: %d\n",
			stats.Overestimates, stats.Underestimates)
		return err
	}, "Wrote accuracy")
}
