package report

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pable/go-cs-gamestate/internal/gamestate"
	"github.com/pable/go-cs-gamestate/internal/model"
)

func TestPrintEntryOrdersRounds(t *testing.T) {
	res := gamestate.EntryResult{
		Area:      "BombsiteB",
		Threshold: 2,
		Rounds: []gamestate.RoundEntry{
			{Round: 3, Tick: 640, Elapsed: 10, Players: []string{"a", "b"}},
			{Round: 7, Tick: 900, Elapsed: 20, Players: []string{"c", "a"}},
		},
		Excluded: []int{5},
		Mean:     15,
	}
	var buf bytes.Buffer
	PrintEntry(&buf, "Team2", model.SideT, res)
	out := buf.String()

	assert.Contains(t, out, "after 15.00s on average (2 rounds, 1 excluded)")
	assert.Contains(t, out, "-5.00s")
	assert.Contains(t, out, "(not reached)")
	i3 := bytes.Index(buf.Bytes(), []byte("a, b"))
	i5 := bytes.Index(buf.Bytes(), []byte("(not reached)"))
	i7 := bytes.Index(buf.Bytes(), []byte("c, a"))
	assert.True(t, i3 < i5 && i5 < i7, "rounds in ascending order")
}

func TestPrintEntryNoData(t *testing.T) {
	var buf bytes.Buffer
	PrintEntry(&buf, "Team2", model.SideT, gamestate.EntryResult{Area: "BombsiteB", Threshold: 2, Mean: math.NaN()})
	assert.Contains(t, buf.String(), "never reached BombsiteB")
}

func TestPrintCrossingVerdict(t *testing.T) {
	rows := []gamestate.Row{
		{Record: model.Record{Round: 16, Tick: 100, Player: "a"}},
		{Record: model.Record{Round: 16, Tick: 120, Player: "b"}},
	}
	var buf bytes.Buffer
	PrintCrossing(&buf, "Team2", model.SideT, rows, 15)
	assert.Contains(t, buf.String(), "Team2 on T entered the chokepoint in 1 of 15 rounds (2 player-rounds)")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, "frames.csv", gamestate.Summary{
		Rows: 12345, Rounds: 30, InsideRegion: 12,
		Groups: []gamestate.GroupCount{{Team: "Team1", Side: model.SideCT, Rows: 12345, Players: 5, Rounds: 15}},
	})
	assert.Contains(t, buf.String(), "Rows: 12,345")
	assert.Contains(t, buf.String(), "Team1")
}
