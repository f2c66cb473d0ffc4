package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-gamestate/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <frames.db> <query>",
	Short: "Run a read-only SQL query against a frames database",
	Long: `Run an arbitrary SQL query against a frames database and print results as a table.

Schema:
  frames(id, round_num, tick, round_start_tick, seconds, team, side, player,
    x, y, z, area_name, is_alive, inventory)

inventory is a JSON array of {"weapon_name", "weapon_class"} objects; side is 'T' or 'CT'.
Example: SELECT round_num, COUNT(DISTINCT player) FROM frames WHERE area_name = 'BombsiteB' GROUP BY 1`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args[1:], " ")
	db, err := storage.OpenReadOnly(args[0])
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
