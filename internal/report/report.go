package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-cs-gamestate/internal/gamestate"
	"github.com/pable/go-cs-gamestate/internal/heatmap"
	"github.com/pable/go-cs-gamestate/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintSummary prints row counts per team and side.
func PrintSummary(w io.Writer, source string, s gamestate.Summary) {
	fmt.Fprintf(w, "\nSource: %s  |  Rows: %s  |  Rounds: %d  |  In chokepoint: %s\n\n",
		source, humanize.Comma(int64(s.Rows)), s.Rounds, humanize.Comma(int64(s.InsideRegion)))

	table := newTable(w)
	table.Header("TEAM", "SIDE", "ROWS", "PLAYERS", "ROUNDS")
	for _, g := range s.Groups {
		table.Append(
			g.Team,
			g.Side.String(),
			humanize.Comma(int64(g.Rows)),
			strconv.Itoa(g.Players),
			strconv.Itoa(g.Rounds),
		)
	}
	table.Render()
}

// PrintCrossing prints the first chokepoint row per player and round, followed
// by a one-line verdict on how often the team used the chokepoint.
func PrintCrossing(w io.Writer, team string, side model.Side, rows []gamestate.Row, roundsPlayed int) {
	table := newTable(w)
	table.Header("ROUND", "TICK", "TIME", "PLAYER", "X", "Y", "Z", "WEAPON")
	rounds := make(map[int]struct{})
	for _, r := range rows {
		rounds[r.Round] = struct{}{}
		table.Append(
			strconv.Itoa(r.Round),
			strconv.Itoa(r.Tick),
			fmt.Sprintf("%.1fs", r.Elapsed),
			r.Player,
			fmt.Sprintf("%.0f", r.Position.X),
			fmt.Sprintf("%.0f", r.Position.Y),
			fmt.Sprintf("%.0f", r.Position.Z),
			r.WeaponClass.String(),
		)
	}
	table.Render()
	fmt.Fprintf(w, "\n%s on %s entered the chokepoint in %d of %d rounds (%d player-rounds).\n",
		team, side, len(rounds), roundsPlayed, len(rows))
}

// PrintEntry prints the mean entry time and the rounds that produced it.
func PrintEntry(w io.Writer, team string, side model.Side, res gamestate.EntryResult) {
	if res.OK() {
		fmt.Fprintf(w, "\n%s on %s reaches %s with at least %d rifles/SMGs after %.2fs on average (%d rounds, %d excluded).\n\n",
			team, side, res.Area, res.Threshold, res.Mean, len(res.Rounds), len(res.Excluded))
	} else {
		fmt.Fprintf(w, "\n%s on %s never reached %s with %d rifles/SMGs.\n\n", team, side, res.Area, res.Threshold)
	}
	PrintEntryRounds(w, res)
}

// PrintEntryRounds prints one row per round: the entry time, or "-" for
// rounds excluded from the mean.
func PrintEntryRounds(w io.Writer, res gamestate.EntryResult) {
	type line struct {
		round int
		cells []any
	}
	var lines []line
	for _, e := range res.Rounds {
		lines = append(lines, line{e.Round, []any{
			strconv.Itoa(e.Round), strconv.Itoa(e.Tick), fmt.Sprintf("%.2fs", e.Elapsed),
			fmtDelta(e.Elapsed, res.Mean), strings.Join(e.Players, ", "),
		}})
	}
	for _, rn := range res.Excluded {
		lines = append(lines, line{rn, []any{strconv.Itoa(rn), "-", "-", "-", "(not reached)"}})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].round < lines[j].round })

	table := newTable(w)
	table.Header("ROUND", "TICK", "ENTRY", "VS_MEAN", "PLAYERS")
	for _, l := range lines {
		table.Append(l.cells...)
	}
	table.Render()
}

// PrintDensity prints where the density estimate peaks and how it was computed.
func PrintDensity(w io.Writer, team string, side model.Side, area, out string, d *heatmap.Density) {
	peak, _ := d.Peak()
	fmt.Fprintf(w, "\n%s on %s in %s: %s positions, bandwidth %.0f×%.0f units, densest around (%.0f, %.0f).\n",
		team, side, area, humanize.Comma(int64(d.N)), d.BandwidthX, d.BandwidthY, peak.X, peak.Y)
	fmt.Fprintf(w, "Heatmap written to %s\n", out)
}

func fmtDelta(v, mean float64) string {
	if math.IsNaN(mean) {
		return "-"
	}
	return fmt.Sprintf("%+.2fs", v-mean)
}
