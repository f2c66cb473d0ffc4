package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-gamestate/internal/gamestate"
	"github.com/pable/go-cs-gamestate/internal/model"
	"github.com/pable/go-cs-gamestate/internal/source"
)

// queryFlags are shared by the query commands.
type queryFlags struct {
	team  string
	side  string
	place string
}

func (q *queryFlags) register(cmd *cobra.Command, defaultSide string) {
	cmd.Flags().StringVar(&q.team, "team", "", "team name (default from config)")
	cmd.Flags().StringVar(&q.side, "side", defaultSide, "side: T or CT")
	cmd.Flags().StringVar(&q.place, "place", "", "target place name, e.g. BombsiteB (default from config)")
}

// resolve fills empty flags from the configuration.
func (q *queryFlags) resolve() (team string, side model.Side, place string, err error) {
	team = q.team
	if team == "" {
		team = cfg.Team
	}
	side = model.ParseSide(q.side)
	if side == model.SideUnknown {
		return "", 0, "", fmt.Errorf("invalid side %q (want T or CT)", q.side)
	}
	place = q.place
	if place == "" {
		place = cfg.TargetPlace
	}
	return team, side, place, nil
}

// loadTable opens the frames file and builds the preprocessed table.
func loadTable(ctx context.Context, path string) (*gamestate.Table, error) {
	region, err := cfg.Chokepoint.Region()
	if err != nil {
		return nil, fmt.Errorf("chokepoint: %w", err)
	}
	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, err
	}
	src, err := source.Open(path, cfg.SourceOptions())
	if err != nil {
		return nil, &gamestate.LoadError{Source: path, Err: err}
	}

	log.Info().Str("source", path).Msg("loading frames")
	tbl, err := gamestate.New(ctx, src, region,
		gamestate.WithTickRate(cfg.TickRate),
		gamestate.WithClassifier(classifier),
		gamestate.WithLogger(log.Logger),
	)
	if err != nil {
		return nil, err
	}
	log.Info().Int("rows", tbl.Len()).Int("rounds", len(tbl.Rounds())).Msg("frames loaded")
	return tbl, nil
}

// roundsPlayed counts the rounds in which team appears on side.
func roundsPlayed(tbl *gamestate.Table, team string, side model.Side) int {
	for _, g := range tbl.Summary().Groups {
		if g.Team == team && g.Side == side {
			return g.Rounds
		}
	}
	return 0
}

// targetArea picks the entry/density target: the chokepoint polygon when
// useRegion is set, else the named place.
func targetArea(tbl *gamestate.Table, place string, useRegion bool) gamestate.Area {
	if useRegion {
		return tbl.Chokepoint()
	}
	return gamestate.Place(place)
}

// noData reports whether err only means the query matched nothing.
func noData(err error) bool {
	return errors.Is(err, gamestate.ErrNoQualifyingData)
}
