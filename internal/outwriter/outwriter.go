// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/civicscan/fleetdoctor/internal/contract"
)

// LogAnalysisHeader prints a concise, 2-line header for each analysis phase.
func LogAnalysisHeader(cfg *contract.Config, target string) {
	if target == "" || target == "." {
		target = "current"
	}

	// Line 1: The analysis target and provider
	// Line 2: The execution parameters
	if cfg.UseEmojis {
		fmt.Printf("🩺 Target: %s (provider: %s)\n", target, cfg.Provider)
		fmt.Printf("⚙️  Workers: %d, sandbox timeout: %s\n", cfg.Workers, cfg.SandboxTimeout)
		return
	}
	fmt.Printf("Target: %s (provider: %s)\n", target, cfg.Provider)
	fmt.Printf("Workers: %d, sandbox timeout: %s\n", cfg.Workers, cfg.SandboxTimeout)
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// fmtHours renders estimated hours, with a fixed marker for blocked
// estimates where no numeric value exists.
func fmtHours(hours *float64) string {
	if hours == nil {
		return "blocked"
	}
	return fmt.Sprintf("%.1f", *hours)
}
