package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/crmcore/internal/scope"
)

var setCmd = &cobra.Command{
	Use:   "set <entity> <id> <field=value ...>",
	Short: "Update fields on a record",
	Long: `Update entity-specific fields on a live record. System fields
(id, tenant, timestamps) cannot be set.

Examples:
  crmcore set task 7f3a… status=DONE
  crmcore set company 19bc… employees=250 'tags=["customer"]'`,
	Args: cobra.MinimumNArgs(3),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	tenant, err := resolveTenant()
	if err != nil {
		return err
	}
	sc, err := scope.New(tenant)
	if err != nil {
		return err
	}
	fields, err := parseFieldArgs(args[2:])
	if err != nil {
		return err
	}

	adapter, eng, err := openEngine()
	if err != nil {
		return err
	}
	defer adapter.Close()

	row, _, err := eng.UpdateOne(cmd.Context(), sc, args[0], args[1], fields)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", args[0], err)
	}
	return printRow(row)
}
