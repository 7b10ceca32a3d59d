// Package cmd defines the command-line interface for fleetdoctor.
package cmd

import (
	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(repoCmd)
	rootCmd.AddCommand(fleetCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(quotaCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(accuracyCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("root-path", ".", "Root directory holding the scraper repository clones")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("provider", "local", "Metadata provider: local or github")
	rootCmd.PersistentFlags().String("github-org", "", "GitHub organization holding the scraper repositories")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub API token (prefer the FLEETDOCTOR_GITHUB_TOKEN env var)")
	rootCmd.PersistentFlags().String("agent-glob", contract.DefaultAgentGlob, "Glob matching scraper files within a repository")
	rootCmd.PersistentFlags().String("run-command", contract.DefaultRunCommand, "Command template for one scraper run ({agent} and {out} are substituted)")
	rootCmd.PersistentFlags().String("timeout", "", "Sandbox timeout per scraper run (e.g. '2 minutes')")
	rootCmd.PersistentFlags().Int("staleness-days", 0, "Days without fresh data before a clean run counts as stale")
	rootCmd.PersistentFlags().Int("dormancy-days", 0, "Days without repository activity before it counts as dormant")
	rootCmd.PersistentFlags().String("watchlist", "", "Comma-separated list of high-contract-risk agency names")
	rootCmd.PersistentFlags().String("prior-implementations", "", "Comma-separated list of agents that already have a browser-automation port")
	rootCmd.PersistentFlags().String("store-backend", string(schema.NoneBackend), "Assessment store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of classifyCmd to Viper
	classifyCmd.Flags().String("log-file", "", "Path to the captured run log ('-' reads stdin)")
	classifyCmd.Flags().Int("exit-code", 0, "Exit code of the captured run")
	classifyCmd.Flags().Int("item-count", 0, "Number of items the run produced")
	classifyCmd.Flags().Float64("duration-seconds", 0, "Wall-clock runtime of the captured run")
	if err := viper.BindPFlags(classifyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding classify flags", err)
	}

	// Bind all flags of recordCmd to Viper
	recordCmd.Flags().String("repository", "", "Repository the repaired scraper lives in")
	recordCmd.Flags().String("agent", "", "Name of the repaired scraper")
	recordCmd.Flags().Float64("estimated-hours", 0, "Estimated repair hours from the assessment")
	recordCmd.Flags().Float64("actual-hours", 0, "Actual hours the repair took")
	recordCmd.Flags().String("note", "", "Optional free-form note about the repair")
	if err := viper.BindPFlags(recordCmd.Flags()); err != nil {
		contract.LogFatal("Error binding record flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
