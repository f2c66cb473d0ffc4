package source

import (
	"context"
	"fmt"
	"strconv"

	demoinfocs "github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs"
	common "github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs/common"
	"github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs/events"

	"github.com/pable/go-cs-gamestate/internal/model"
)

// DefaultSampleEvery is the demo sampling interval: four frames per second
// on a 64-tick server.
const DefaultSampleEvery = 16

// Demo samples player frames directly from a CS2 demo.
//
// Frames are taken every SampleEvery ticks while a round is live, from the
// end of freeze time to the round end. Warmup is skipped. Each record's
// RoundStartTick is the freeze-time end tick.
//
// Teams are named by clan tag when the demo carries one. Otherwise a player
// keeps the label of the side they were first seen on: "Team1" for CT and
// "Team2" for T, so labels survive the half-time side switch.
type Demo struct {
	Path        string
	SampleEvery int
}

func (s *Demo) String() string { return s.Path }

// Load parses the whole demo.
func (s *Demo) Load(ctx context.Context) ([]model.Record, error) {
	f, err := openFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open demo: %w", err)
	}
	defer f.Close()

	every := s.SampleEvery
	if every <= 0 {
		every = DefaultSampleEvery
	}

	p := demoinfocs.NewParser(f)
	defer p.Close()

	var (
		out           []model.Record
		roundNumber   int
		freezeEndTick int
		live          bool
		lastSample    = -1
		labels        = make(map[uint64]string)
	)

	// RoundStart: bump round counter; frames wait for freeze time to end.
	p.RegisterEventHandler(func(e events.RoundStart) {
		if p.GameState().IsWarmupPeriod() {
			return
		}
		roundNumber++
		live = false
	})

	p.RegisterEventHandler(func(e events.RoundFreezetimeEnd) {
		if roundNumber == 0 || p.GameState().IsWarmupPeriod() {
			return
		}
		freezeEndTick = p.GameState().IngameTick()
		lastSample = -1
		live = true
	})

	p.RegisterEventHandler(func(e events.RoundEnd) {
		live = false
	})

	teamName := func(pl *common.Player) string {
		var ts *common.TeamState
		switch pl.Team {
		case common.TeamTerrorists:
			ts = p.GameState().TeamTerrorists()
		case common.TeamCounterTerrorists:
			ts = p.GameState().TeamCounterTerrorists()
		}
		if ts != nil && ts.ClanName() != "" {
			return ts.ClanName()
		}
		if name, ok := labels[pl.SteamID64]; ok {
			return name
		}
		name := "Team2"
		if pl.Team == common.TeamCounterTerrorists {
			name = "Team1"
		}
		labels[pl.SteamID64] = name
		return name
	}

	for frames := 0; ; frames++ {
		if frames%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		more, err := p.ParseNextFrame()
		if err != nil {
			return nil, fmt.Errorf("parse demo: %w", err)
		}
		if !more {
			break
		}
		if !live {
			continue
		}
		tick := p.GameState().IngameTick()
		if lastSample >= 0 && tick-lastSample < every {
			continue
		}
		lastSample = tick

		for _, pl := range p.GameState().Participants().Playing() {
			if pl == nil || pl.SteamID64 == 0 {
				continue
			}
			side := sideFromCommon(pl.Team)
			if side == model.SideUnknown {
				continue
			}
			out = append(out, model.Record{
				Round:          roundNumber,
				Team:           teamName(pl),
				Side:           side,
				Tick:           tick,
				Player:         playerID(pl),
				Position:       pl.Position(),
				Area:           pl.LastPlaceName(),
				Alive:          pl.IsAlive(),
				Inventory:      inventoryOf(pl),
				RoundStartTick: freezeEndTick,
				HasRoundStart:  true,
			})
		}
	}
	return out, nil
}

func playerID(pl *common.Player) string {
	if pl.Name != "" {
		return pl.Name
	}
	return strconv.FormatUint(pl.SteamID64, 10)
}

func sideFromCommon(t common.Team) model.Side {
	switch t {
	case common.TeamTerrorists:
		return model.SideT
	case common.TeamCounterTerrorists:
		return model.SideCT
	default:
		return model.SideUnknown
	}
}

func inventoryOf(pl *common.Player) []model.Item {
	var items []model.Item
	for _, w := range pl.Weapons() {
		if w == nil {
			continue
		}
		items = append(items, model.Item{Name: w.Type.String(), Class: classLabel(w.Type.Class())})
	}
	return items
}

// classLabel returns the awpy label for an equipment class.
func classLabel(c common.EquipmentClass) string {
	switch c {
	case common.EqClassRifle:
		return "Rifle"
	case common.EqClassSMG:
		return "SMG"
	case common.EqClassHeavy:
		return "Heavy"
	case common.EqClassPistols:
		return "Pistols"
	case common.EqClassGrenade:
		return "Grenade"
	default:
		return "Equipment"
	}
}
