package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-gamestate/internal/gamestate"
	"github.com/pable/go-cs-gamestate/internal/model"
	"github.com/pable/go-cs-gamestate/internal/report"
)

var (
	entryFlags        queryFlags
	entryMinArmed     int
	entryTargetRegion bool
)

var entryCmd = &cobra.Command{
	Use:   "entry <frames>",
	Short: "Mean time for an armed group to reach a place",
	Long: `Compute, per round, when the number of distinct players carrying a rifle or
SMG inside the target first reaches --min-armed, and print the mean over the
rounds where that happened.`,
	Args: cobra.ExactArgs(1),
	RunE: runEntry,
}

func init() {
	entryFlags.register(entryCmd, "T")
	entryCmd.Flags().IntVar(&entryMinArmed, "min-armed", 0, "armed players required (default from config)")
	entryCmd.Flags().BoolVar(&entryTargetRegion, "target-region", false, "use the chokepoint polygon as target instead of --place")
}

func runEntry(cmd *cobra.Command, args []string) error {
	team, side, place, err := entryFlags.resolve()
	if err != nil {
		return err
	}
	tbl, err := loadTable(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	res, err := timeToEntry(tbl, team, side, targetArea(tbl, place, entryTargetRegion), entryMinArmed)
	if err != nil {
		return err
	}
	report.PrintEntry(os.Stdout, team, side, res)
	return nil
}

// timeToEntry runs the entry query, treating "no qualifying rounds" as a
// printable result. A zero minArmed takes the configured threshold.
func timeToEntry(tbl *gamestate.Table, team string, side model.Side, target gamestate.Area, minArmed int) (gamestate.EntryResult, error) {
	if minArmed == 0 {
		minArmed = cfg.MinArmed
	}
	res, err := tbl.TimeToEntry(team, side, target, minArmed)
	if noData(err) {
		log.Info().Str("team", team).Str("target", target.Name()).Msg("no round reached the threshold")
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("time to entry: %w", err)
	}
	return res, nil
}
