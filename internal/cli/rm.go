package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/crmcore/internal/scope"
)

var rmHard bool

var rmCmd = &cobra.Command{
	Use:   "rm <entity> <id>",
	Short: "Delete a record",
	Long: `Soft-delete a record. The row stays in storage, excluded from reads
unless --deleted is used; deleting it again is a no-op.

With --hard the row is physically removed and cannot be recovered.`,
	Args: cobra.ExactArgs(2),
	RunE: runRm,
}

func init() {
	rmCmd.Flags().BoolVar(&rmHard, "hard", false, "Physically remove the row")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
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

	if rmHard {
		removed, _, err := eng.HardDeleteOne(cmd.Context(), sc, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", args[0], err)
		}
		if removed {
			fmt.Printf("Removed %s %s\n", args[0], args[1])
		} else {
			fmt.Printf("No %s %s to remove\n", args[0], args[1])
		}
		return nil
	}

	changed, _, err := eng.SoftDeleteOne(cmd.Context(), sc, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", args[0], err)
	}
	if changed {
		fmt.Printf("Deleted %s %s\n", args[0], args[1])
	} else {
		fmt.Printf("%s %s was already deleted\n", args[0], args[1])
	}
	return nil
}
