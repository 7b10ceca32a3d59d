package cmd

import (
	"github.com/civicscan/fleetdoctor/core"
	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/internal/iostore"
	"github.com/spf13/cobra"
)

// fleetCmd performs fleet-wide analysis across every repository.
var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Diagnose every repository the provider knows about.",
	Long: `Analyze every repository in the fleet and aggregate the results.

Produces per-repository health summaries plus ecosystem-wide totals: how many
scrapers are functional, where the repair hours are concentrated, and which
repositories should be triaged first.

Examples:
  # Scan all local clones
  fleetdoctor fleet --root-path ~/clones

  # Scan the GitHub org with more workers
  fleetdoctor fleet --provider github --github-org civicscan --workers 8

  # Persist the run for later accuracy tracking
  fleetdoctor fleet --store-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFleetAnalysis(rootCtx, cfg, metaProvider, sbx, iostore.Manager); err != nil {
			contract.LogFatal("Cannot run fleet analysis", err)
		}
	},
}
