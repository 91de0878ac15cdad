package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/crmcore/internal/registry"
	"github.com/user/crmcore/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the entity tables",
	Long: `Create the fixed entity tables and their indexes in the database
file. Safe to run repeatedly; existing tables are left alone.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	adapter, err := storage.Open(resolveDBPath(), storage.Options{}, newLogger())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer adapter.Close()

	if err := adapter.Bootstrap(cmd.Context(), registry.Default()); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	fmt.Printf("Initialized %s\n", resolveDBPath())
	return nil
}
