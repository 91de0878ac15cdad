package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/scope"
)

var getCmd = &cobra.Command{
	Use:   "get <entity> <id>",
	Short: "Show a single record",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	tenant, err := resolveTenant()
	if err != nil {
		return err
	}
	sc, err := scope.New(tenant)
	if err != nil {
		return err
	}

	adapter, eng, err := openEngine()
	if err != nil {
		return err
	}
	defer adapter.Close()

	row, err := eng.FindByID(cmd.Context(), sc, args[0], args[1])
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Error: %s %q not found\n", args[0], args[1])
			os.Exit(1)
		}
		return fmt.Errorf("failed to get %s: %w", args[0], err)
	}
	return printRow(row)
}
