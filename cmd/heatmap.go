package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/pable/go-cs-gamestate/internal/gamestate"
	"github.com/pable/go-cs-gamestate/internal/heatmap"
	"github.com/pable/go-cs-gamestate/internal/model"
	"github.com/pable/go-cs-gamestate/internal/report"
)

var (
	heatmapFlags        queryFlags
	heatmapOut          string
	heatmapIncludeDead  bool
	heatmapTargetRegion bool
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap <frames>",
	Short: "Render a KDE heatmap of positions inside a place",
	Args:  cobra.ExactArgs(1),
	RunE:  runHeatmap,
}

func init() {
	heatmapFlags.register(heatmapCmd, "CT")
	heatmapCmd.Flags().StringVarP(&heatmapOut, "out", "o", "heatmap.png", "output PNG path")
	heatmapCmd.Flags().BoolVar(&heatmapIncludeDead, "include-dead", false, "also plot frames of dead players")
	heatmapCmd.Flags().BoolVar(&heatmapTargetRegion, "target-region", false, "use the chokepoint polygon instead of --place")
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	team, side, place, err := heatmapFlags.resolve()
	if err != nil {
		return err
	}
	tbl, err := loadTable(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return renderHeatmap(tbl, team, side, targetArea(tbl, place, heatmapTargetRegion), heatmapOut, heatmapIncludeDead)
}

// renderHeatmap collects positions and writes the plot to out.
func renderHeatmap(tbl *gamestate.Table, team string, side model.Side, target gamestate.Area, out string, includeDead bool) error {
	var opts []gamestate.DensityOption
	if !includeDead {
		opts = append(opts, gamestate.AliveOnly())
	}
	points, err := tbl.Density(team, side, target, opts...)
	if noData(err) {
		fmt.Fprintf(os.Stdout, "no data: no %s positions for %s on %s\n", target.Name(), team, side)
		return nil
	}
	if err != nil {
		return fmt.Errorf("density: %w", err)
	}

	log.Info().Int("points", len(points)).Str("out", out).Msg("rendering heatmap")
	d, err := heatmap.Save(out, points, heatmap.Options{
		Title:  cfg.Heatmap.Title,
		Width:  vg.Length(cfg.Heatmap.Width) * vg.Inch,
		Height: vg.Length(cfg.Heatmap.Height) * vg.Inch,
		Grid:   cfg.Heatmap.Grid,
	})
	if errors.Is(err, heatmap.ErrNotEnoughPoints) {
		fmt.Fprintf(os.Stdout, "no data: %d positions are too few to estimate a density\n", len(points))
		return nil
	}
	if err != nil {
		return fmt.Errorf("heatmap: %w", err)
	}
	report.PrintDensity(os.Stdout, team, side, target.Name(), out, d)
	return nil
}
