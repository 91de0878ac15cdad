package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/crmcore/internal/scope"
)

var createCmd = &cobra.Command{
	Use:   "create <entity> [field=value ...]",
	Short: "Create a record",
	Long: `Create a record of the given entity with the supplied fields.

Values parse as JSON where possible, so numbers, booleans, arrays and
objects work; anything else is stored as text.

Examples:
  crmcore create company name=Acme domain_name=acme.com
  crmcore create company name=Acme 'address={"city":"Paris"}' 'tags=["hot"]'
  crmcore create task title="Call back" status=TODO due_at=2026-09-01T09:00:00Z`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	tenant, err := resolveTenant()
	if err != nil {
		return err
	}
	sc, err := scope.New(tenant)
	if err != nil {
		return err
	}
	fields, err := parseFieldArgs(args[1:])
	if err != nil {
		return err
	}

	adapter, eng, err := openEngine()
	if err != nil {
		return err
	}
	defer adapter.Close()

	row, _, err := eng.CreateOne(cmd.Context(), sc, args[0], fields)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", args[0], err)
	}
	return printRow(row)
}
