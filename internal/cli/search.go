package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/crmcore/internal/scope"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Keyword search across all entities",
	Long: `Search every entity's searchable fields for a term,
case-insensitively, and print the merged results.

Examples:
  crmcore search acme
  crmcore search "o'brien" --limit 5 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum total results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	results, err := eng.Search(cmd.Context(), sc, args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		out := make([]map[string]any, len(results))
		for i, r := range results {
			out[i] = map[string]any{
				"entity": r.Entity,
				"id":     r.ID,
				"label":  r.Label,
				"score":  r.Score,
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for _, r := range results {
		fmt.Printf("%-12s %s  %s\n", r.Entity, r.ID, r.Label)
	}
	if len(results) == 0 {
		fmt.Println("No results")
	}
	return nil
}
