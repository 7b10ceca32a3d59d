// Package sandbox runs scrapers in isolated working directories.
package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
)

// maxLogBytes bounds the captured log text. When a run is noisier than
// this, the head is dropped since the decisive errors sit at the end.
const maxLogBytes = 64 * 1024

// LocalSandbox executes scrapers on the host with os/exec, one clone per
// working directory.
type LocalSandbox struct {
	cfg *contract.Config
}

var _ contract.Sandbox = &LocalSandbox{} // Compile-time check

// NewLocalSandbox creates a sandbox using cfg.RunCommand.
func NewLocalSandbox(cfg *contract.Config) *LocalSandbox {
	return &LocalSandbox{cfg: cfg}
}

// Setup implements the Sandbox interface by cloning the locator into a
// fresh temporary directory. The locator may be a remote URL or a local
// path; git handles both.
func (s *LocalSandbox) Setup(ctx context.Context, cloneLocator string) (string, error) {
	workDir, err := os.MkdirTemp("", "fleetdoctor-*")
	if err != nil {
		return "", fmt.Errorf("cannot create sandbox directory: %w", err)
	}
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", cloneLocator, workDir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		os.RemoveAll(workDir)
		return "", fmt.Errorf("git clone of %q failed: %s", cloneLocator, strings.TrimSpace(string(out)))
	}
	return workDir, nil
}

// Execute implements the Sandbox interface. A run that exceeds the timeout
// comes back as a result with a nonzero exit code and a timeout line in the
// log, never as an error.
func (s *LocalSandbox) Execute(ctx context.Context, workDir, agentName string, timeout time.Duration) (schema.ExecutionResult, error) {
	outFile := filepath.Join(workDir, agentName+"_items.json")
	argv := strings.Fields(strings.NewReplacer(
		"{agent}", agentName,
		"{out}", outFile,
	).Replace(s.cfg.RunCommand))
	if len(argv) == 0 {
		return schema.ExecutionResult{}, errors.New("run command is empty. Set run-command in the config file")
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = workDir

	start := time.Now()
	out, runErr := cmd.CombinedOutput()

	result := schema.ExecutionResult{
		DurationSeconds: time.Since(start).Seconds(),
		LogText:         boundLog(string(out)),
	}
	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		result.ExitCode = -1
		if result.LogText != "" && !strings.HasSuffix(result.LogText, "\n") {
			result.LogText += "\n"
		}
		result.LogText += fmt.Sprintf("process timed out after %v and was killed", timeout)
	case runErr == nil:
		result.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return schema.ExecutionResult{}, fmt.Errorf("cannot run %q: %w", argv[0], runErr)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	result.Items = readItems(outFile)
	result.ItemCount = len(result.Items)
	return result, nil
}

// Teardown implements the Sandbox interface.
func (s *LocalSandbox) Teardown(workDir string) error {
	if workDir == "" {
		return nil
	}
	return os.RemoveAll(workDir)
}

// readItems parses the scraper's output file into the optional item
// records. A missing or malformed file simply yields no items.
func readItems(outFile string) []map[string]any {
	data, err := os.ReadFile(outFile)
	if err != nil {
		return nil
	}
	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

// boundLog keeps the tail of the log within maxLogBytes.
func boundLog(text string) string {
	if len(text) <= maxLogBytes {
		return text
	}
	return text[len(text)-maxLogBytes:]
}
