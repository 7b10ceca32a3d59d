package cmd

import (
	"fmt"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/internal/iostore"
	"github.com/civicscan/fleetdoctor/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.StoreBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.StoreBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateStoreConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")

	// Initialize the store with the loaded config
	if err := iostore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	var backend schema.StoreBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.StoreBackend(backendStr)
	}

	if err := contract.ValidateStoreConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = iostore.GetDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on assessment store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by analysis commands. This avoids provider and
// sandbox construction for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the historical assessment store",
	Long: `Manage the assessment store that records every analysis run.

When enabled, fleetdoctor tracks each run, storing:
- Run metadata (timestamp, configuration, agent counts)
- Per-scraper assessments (status, complexity, effort, priority)
- Recorded repair outcomes for estimate-accuracy tracking

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection info
  migrate - Apply schema migrations
  export  - Export data to Parquet or CSV for analytics

Examples:
  # Check store status
  fleetdoctor store status --store-backend sqlite

  # Export history for a BI tool
  fleetdoctor store export --store-backend sqlite --output parquet --output-file fleet`,
}

// storeStatusCmd shows assessment store statistics.
var storeStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show assessment store statistics",
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store := iostore.Manager.GetAssessmentStore()
		if store == nil {
			fmt.Println("Store backend: none (persistence disabled)")
			return nil
		}
		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("cannot read store status: %w", err)
		}
		iostore.PrintStoreStatus(status)
		return nil
	},
}

// storeMigrateCmd applies schema migrations to the assessment store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply assessment store schema migrations",
	Long: `Apply schema migrations to the assessment store database.

Runs embedded migrations against the configured backend. By default the
database is migrated to the latest version; pass --target-version to pin a
specific version or 0 to roll everything back.`,
	Args:    cobra.NoArgs,
	PreRunE: storeMigrateSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		target := viper.GetInt("target-version")
		return iostore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, target)
	},
}

// storeExportCmd exports stored assessments for analytics.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export assessment history to Parquet or CSV",
	Long: `Export the stored assessment and repair-outcome history.

Writes one file per table using the configured output file as the base path.
Parquet output is suitable for Spark, Pandas, and DuckDB; CSV for everything
else.`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return iostore.ExecuteAssessmentExport(cfg.OutputFile, cfg.Output)
	},
}
