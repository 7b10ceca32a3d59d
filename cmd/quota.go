package cmd

import (
	"github.com/civicscan/fleetdoctor/core"
	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/spf13/cobra"
)

// quotaCmd reports the metadata provider's remaining API quota.
var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the metadata provider's remaining API quota.",
	Long: `Check how much API quota the configured metadata provider has left.

Run this before a large fleet scan to avoid hitting rate limits mid-run.
The local provider has no quota; this is for the github provider.

Examples:
  fleetdoctor quota --provider github --github-org civicscan`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteQuota(rootCtx, cfg, metaProvider); err != nil {
			contract.LogFatal("Cannot check quota", err)
		}
	},
}
