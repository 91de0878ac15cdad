package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/crmcore/internal/engine"
	"github.com/user/crmcore/internal/model"
	"github.com/user/crmcore/internal/scope"
)

var (
	listLimit   int
	listAfter   string
	listOrder   string
	listDesc    bool
	listDeleted bool
)

var listCmd = &cobra.Command{
	Use:   "list <entity>",
	Short: "List records of an entity",
	Long: `List records of an entity, newest first by default.

Examples:
  crmcore list company
  crmcore list task --order due_at --limit 10
  crmcore list person --deleted --json
  crmcore list task --after <cursor>   # resume a previous page`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Page size")
	listCmd.Flags().StringVar(&listAfter, "after", "", "Resume after this cursor")
	listCmd.Flags().StringVar(&listOrder, "order", "created_at", "Field to order by")
	listCmd.Flags().BoolVar(&listDesc, "desc", true, "Order descending")
	listCmd.Flags().BoolVar(&listDeleted, "deleted", false, "Include soft-deleted records")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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

	dir := model.Asc
	if listDesc {
		dir = model.Desc
	}
	q := engine.Query{
		Order: []model.OrderBy{{Field: listOrder, Direction: dir}},
		Page:  model.Page{First: listLimit, After: listAfter},
	}

	var conn *model.Connection
	if listDeleted {
		conn, err = eng.FindManyIncludingDeleted(cmd.Context(), sc, args[0], q)
	} else {
		conn, err = eng.FindMany(cmd.Context(), sc, args[0], q)
	}
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", args[0], err)
	}

	if err := printRows(conn.Rows()); err != nil {
		return err
	}
	if !jsonOutput && conn.PageInfo.HasNextPage {
		fmt.Printf("more: --after %s\n", conn.PageInfo.EndCursor)
	}
	return nil
}
