package cmd

import (
	"fmt"
	"time"

	"github.com/civicscan/fleetdoctor/core"
	"github.com/civicscan/fleetdoctor/internal/iostore"
	"github.com/civicscan/fleetdoctor/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// recordCmd stores an actual repair outcome against its estimate.
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record how long a repair actually took.",
	Long: `Record the actual hours a scraper repair took, next to its estimate.

Recorded outcomes feed the 'accuracy' command, which reports how far the
effort estimates drift from reality.

Examples:
  fleetdoctor record --store-backend sqlite \
    --repository city-scrapers-chi --agent chi_library \
    --estimated-hours 4 --actual-hours 6.5 --note "selector rewrite"`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		rec := schema.RepairOutcomeRecord{
			Repository:     viper.GetString("repository"),
			AgentName:      viper.GetString("agent"),
			EstimatedHours: viper.GetFloat64("estimated-hours"),
			ActualHours:    viper.GetFloat64("actual-hours"),
			Note:           viper.GetString("note"),
			RecordedAt:     time.Now(),
		}
		if rec.Repository == "" || rec.AgentName == "" {
			return fmt.Errorf("record requires --repository and --agent")
		}
		if rec.ActualHours <= 0 {
			return fmt.Errorf("record requires a positive --actual-hours")
		}
		if err := core.ExecuteRecordOutcome(iostore.Manager, rec); err != nil {
			return err
		}
		fmt.Printf("Recorded %s/%s: estimated %.1fh, actual %.1fh\n",
			rec.Repository, rec.AgentName, rec.EstimatedHours, rec.ActualHours)
		return nil
	},
}
