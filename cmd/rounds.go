package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cs-gamestate/internal/report"
)

var (
	roundsFlags        queryFlags
	roundsMinArmed     int
	roundsTargetRegion bool
)

// roundsCmd is the per-round drill-down behind the entry mean.
var roundsCmd = &cobra.Command{
	Use:   "rounds <frames>",
	Short: "Per-round entry timings for one team and side",
	Args:  cobra.ExactArgs(1),
	RunE:  runRounds,
}

func init() {
	roundsFlags.register(roundsCmd, "T")
	roundsCmd.Flags().IntVar(&roundsMinArmed, "min-armed", 0, "armed players required (default from config)")
	roundsCmd.Flags().BoolVar(&roundsTargetRegion, "target-region", false, "use the chokepoint polygon as target instead of --place")
}

func runRounds(cmd *cobra.Command, args []string) error {
	team, side, place, err := roundsFlags.resolve()
	if err != nil {
		return err
	}
	tbl, err := loadTable(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	res, err := timeToEntry(tbl, team, side, targetArea(tbl, place, roundsTargetRegion), roundsMinArmed)
	if err != nil {
		return err
	}
	report.PrintEntryRounds(os.Stdout, res)
	return nil
}
