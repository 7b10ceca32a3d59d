package cmd

import (
	"github.com/civicscan/fleetdoctor/core"
	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/internal/iostore"
	"github.com/spf13/cobra"
)

// repoCmd performs single-repository fleet-health analysis.
var repoCmd = &cobra.Command{
	Use:   "repo <name>",
	Short: "Diagnose every scraper in one repository.",
	Long: `Run every scraper in one repository inside a sandbox and rank the results.

Each scraper is executed once, its outcome is classified, and the broken ones
get a repair-effort estimate, a priority score, and a migration recommendation.

Examples:
  # Diagnose a locally checked-out repository
  fleetdoctor repo city-scrapers-chi --root-path ~/clones

  # Same analysis against the GitHub org, persisting results
  fleetdoctor repo city-scrapers-chi --provider github --github-org civicscan --store-backend sqlite

  # Export findings to CSV for tracking
  fleetdoctor repo city-scrapers-chi --output csv --output-file chi.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteRepoAnalysis(rootCtx, cfg, metaProvider, sbx, iostore.Manager, args[0]); err != nil {
			contract.LogFatal("Cannot run repository analysis", err)
		}
	},
}
