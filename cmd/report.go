package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-gamestate/internal/gamestate"
	"github.com/pable/go-cs-gamestate/internal/model"
	"github.com/pable/go-cs-gamestate/internal/report"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report <frames>",
	Short: "Answer all three questions with the configured defaults",
	Long: `Print the table summary, then:
  1. whether the configured team used the chokepoint on T,
  2. how long it took them to reach the target place with two rifles/SMGs on T,
  3. where they held inside the target place on CT (heatmap PNG).`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "heatmap.png", "output PNG path for the heatmap")
}

func runReport(cmd *cobra.Command, args []string) error {
	tbl, err := loadTable(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	team, place := cfg.Team, cfg.TargetPlace
	report.PrintSummary(os.Stdout, args[0], tbl.Summary())

	fmt.Fprintf(os.Stdout, "\n== Chokepoint (%s) ==\n", tbl.Region().Name)
	rows, err := tbl.RegionCrossing(team, model.SideT)
	switch {
	case noData(err):
		fmt.Fprintf(os.Stdout, "no data: %s on T never entered %s\n", team, tbl.Region().Name)
	case err != nil:
		return fmt.Errorf("region crossing: %w", err)
	default:
		report.PrintCrossing(os.Stdout, team, model.SideT, rows, roundsPlayed(tbl, team, model.SideT))
	}

	fmt.Fprintf(os.Stdout, "\n== Entry into %s ==\n", place)
	res, err := timeToEntry(tbl, team, model.SideT, gamestate.Place(place), 0)
	if err != nil {
		return err
	}
	report.PrintEntry(os.Stdout, team, model.SideT, res)

	fmt.Fprintf(os.Stdout, "\n== %s positions on CT ==\n", place)
	return renderHeatmap(tbl, team, model.SideCT, gamestate.Place(place), reportOut, false)
}
