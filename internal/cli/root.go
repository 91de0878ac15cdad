// Package cli provides the command-line interface for crmcore.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/crmcore/internal/engine"
	"github.com/user/crmcore/internal/registry"
	"github.com/user/crmcore/internal/storage"
)

// Global flags
var (
	dbPath     string
	tenantID   string
	jsonOutput bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crmcore",
	Short: "A tenant-scoped CRM data layer for an edge SQL engine",
	Long: `crmcore stores CRM records (companies, people, opportunities, tasks,
notes) in an embedded SQL engine that only knows primitive column
types, emulating the rich types and per-tenant isolation of the engine
it replaced.

Every command is scoped to one tenant (--tenant or $CRMCORE_TENANT) and
can never see another tenant's rows.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (default: $CRMCORE_DB or ./crmcore.db)")
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant", "", "Tenant to operate as (default: $CRMCORE_TENANT)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug output")
}

// newLogger builds the process logger; --verbose flips it to debug.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// resolveDBPath returns the database path from the flag, environment,
// or the working-directory default.
func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("CRMCORE_DB"); env != "" {
		return env
	}
	return "crmcore.db"
}

// resolveTenant returns the tenant id from the flag or environment.
func resolveTenant() (string, error) {
	if tenantID != "" {
		return tenantID, nil
	}
	if env := os.Getenv("CRMCORE_TENANT"); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("no tenant specified (use --tenant or $CRMCORE_TENANT)")
}

// openEngine opens the adapter and builds an engine over the default
// registry. The caller must Close the returned adapter.
func openEngine() (*storage.Adapter, *engine.Engine, error) {
	logger := newLogger()
	adapter, err := storage.Open(resolveDBPath(), storage.Options{}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return adapter, engine.New(adapter, registry.Default(), logger), nil
}
