package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/civicscan/fleetdoctor/core"
	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// classifyCmd classifies one captured run without touching any provider or
// sandbox. Useful for piping CI logs straight into the rule engine.
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single captured scraper run.",
	Long: `Classify one already-captured scraper run from its log and exit code.

No repository access or sandbox run happens; the classifier only sees the
evidence you pass in.

Examples:
  # Classify a CI log from a file
  fleetdoctor classify --log-file run.log --exit-code 1

  # Pipe a log through stdin
  cat run.log | fleetdoctor classify --log-file - --exit-code 1 --duration-seconds 12.5

  # JSON output for scripting
  fleetdoctor classify --log-file run.log --exit-code 1 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		logText, err := readLogText(viper.GetString("log-file"))
		if err != nil {
			return err
		}
		res := schema.ExecutionResult{
			ExitCode:        viper.GetInt("exit-code"),
			ItemCount:       viper.GetInt("item-count"),
			LogText:         logText,
			DurationSeconds: viper.GetFloat64("duration-seconds"),
		}
		if err := core.ExecuteClassifyRun(cfg, res); err != nil {
			contract.LogFatal("Cannot classify run", err)
		}
		return nil
	},
}

// readLogText loads the run log from a file or stdin.
func readLogText(path string) (string, error) {
	switch path {
	case "":
		return "", fmt.Errorf("classify requires --log-file (use '-' for stdin)")
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("cannot read log from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("cannot read log file: %w", err)
		}
		return string(data), nil
	}
}
