package cmd

import (
	"github.com/civicscan/fleetdoctor/core"
	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/internal/iostore"
	"github.com/spf13/cobra"
)

// accuracyCmd reports how well past effort estimates matched reality.
var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Show how accurate past effort estimates were.",
	Long: `Compare recorded repair outcomes against their original estimates.

Reports the mean absolute percentage error across all recorded outcomes plus
the over/under split, so the effort table can be recalibrated over time.

Examples:
  fleetdoctor accuracy --store-backend sqlite
  fleetdoctor accuracy --store-backend sqlite --output json`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAccuracy(cfg, iostore.Manager); err != nil {
			contract.LogFatal("Cannot compute estimate accuracy", err)
		}
	},
}
