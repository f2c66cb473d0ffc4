package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-gamestate/internal/report"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <frames>",
	Short: "Summarize rows, rounds, teams and sides in a frames file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		report.PrintSummary(os.Stdout, args[0], tbl.Summary())
		return nil
	},
}
