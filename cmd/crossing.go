package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-gamestate/internal/report"
)

var crossingFlags queryFlags

var crossingCmd = &cobra.Command{
	Use:   "crossing <frames>",
	Short: "Show the first chokepoint frame per player and round",
	Args:  cobra.ExactArgs(1),
	RunE:  runCrossing,
}

func init() {
	crossingFlags.register(crossingCmd, "T")
}

func runCrossing(cmd *cobra.Command, args []string) error {
	team, side, _, err := crossingFlags.resolve()
	if err != nil {
		return err
	}
	tbl, err := loadTable(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	rows, err := tbl.RegionCrossing(team, side)
	if noData(err) {
		fmt.Fprintf(os.Stdout, "no data: %s on %s never entered %s\n", team, side, tbl.Region().Name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("region crossing: %w", err)
	}
	report.PrintCrossing(os.Stdout, team, side, rows, roundsPlayed(tbl, team, side))
	return nil
}
