package gamestate

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-cs-gamestate/internal/geometry"
	"github.com/pable/go-cs-gamestate/internal/model"
)

// DefaultMinArmed is the default number of armed players for TimeToEntry.
const DefaultMinArmed = 2

// Area selects rows by position.
type Area interface {
	Contains(Row) bool
	Name() string
}

type chokepointArea struct{ name string }

func (a chokepointArea) Contains(r Row) bool { return r.InsideRegion }
func (a chokepointArea) Name() string        { return a.name }

// Chokepoint selects rows inside the table's configured region, using the
// flag computed at load time.
func (t *Table) Chokepoint() Area {
	return chokepointArea{name: t.region.Name}
}

type placeArea string

func (a placeArea) Contains(r Row) bool { return strings.EqualFold(r.Area, string(a)) }
func (a placeArea) Name() string        { return string(a) }

// Place selects rows whose source place name equals name, ignoring case.
func Place(name string) Area {
	return placeArea(name)
}

type regionArea struct{ region geometry.Region }

func (a regionArea) Contains(r Row) bool { return a.region.Contains(r.Position) }
func (a regionArea) Name() string        { return a.region.Name }

// Within selects rows inside an arbitrary region.
func Within(region geometry.Region) Area {
	return regionArea{region: region}
}

// RegionCrossing returns the rows of team on side inside the chokepoint region,
// keeping one row per (player, round): the one with the earliest tick, ties
// broken by load order. Rows are ordered by round, tick, then player.
// When nothing matches it returns an empty slice and ErrNoQualifyingData.
func (t *Table) RegionCrossing(team string, side model.Side) ([]Row, error) {
	rows := t.filter(team, side, func(r Row) bool { return r.InsideRegion })
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		if a.Tick != b.Tick {
			return a.Tick < b.Tick
		}
		if a.Player != b.Player {
			return a.Player < b.Player
		}
		return a.Seq < b.Seq
	})

	seen := make(map[model.PlayerRound]struct{}, len(rows))
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		k := model.PlayerRound{Player: r.Player, Round: r.Round}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return out, ErrNoQualifyingData
	}
	return out, nil
}

// RoundEntry is the moment enough armed players had entered the target in one round.
type RoundEntry struct {
	Round   int
	Tick    int
	Elapsed float64  // seconds since round start
	Players []string // players in order of entry, up to the threshold
}

// EntryResult is the outcome of TimeToEntry.
type EntryResult struct {
	Area      string
	Threshold int

	// Rounds that reached the threshold, ascending.
	Rounds []RoundEntry

	// Excluded lists rounds the team played on the side without reaching
	// the threshold. They do not contribute to Mean.
	Excluded []int

	// Mean of Rounds[i].Elapsed; NaN when no round qualified.
	Mean float64
}

// OK reports whether at least one round reached the threshold.
func (r EntryResult) OK() bool { return len(r.Rounds) > 0 }

// TimeToEntry measures, for each round, how long it took until minArmed
// distinct players of team on side holding a rifle or SMG were inside target,
// and returns the mean over rounds that got there. Entries are walked in tick
// order, ties broken by load order; the elapsed time of the row that brings
// the count to minArmed is the round's entry time.
//
// When no round qualifies the result has a NaN mean and the error is
// ErrNoQualifyingData.
func (t *Table) TimeToEntry(team string, side model.Side, target Area, minArmed int) (EntryResult, error) {
	res := EntryResult{Threshold: minArmed, Mean: math.NaN()}
	if target != nil {
		res.Area = target.Name()
	}
	if minArmed < 1 {
		return res, ErrInvalidThreshold
	}

	played := make(map[int]struct{})
	byRound := make(map[int][]Row)
	for _, r := range t.filter(team, side, nil) {
		played[r.Round] = struct{}{}
		if !r.HasRifleOrSMG || target == nil || !target.Contains(r) {
			continue
		}
		byRound[r.Round] = append(byRound[r.Round], r)
	}

	for _, rn := range sortedKeys(played) {
		rows := byRound[rn]
		byTick(rows)

		entered := make(map[string]struct{}, minArmed)
		var order []string
		reached := false
		for _, r := range rows {
			if _, ok := entered[r.Player]; ok {
				continue
			}
			entered[r.Player] = struct{}{}
			order = append(order, r.Player)
			if len(order) == minArmed {
				res.Rounds = append(res.Rounds, RoundEntry{
					Round: rn, Tick: r.Tick, Elapsed: r.Elapsed, Players: order,
				})
				reached = true
				break
			}
		}
		if !reached {
			res.Excluded = append(res.Excluded, rn)
		}
	}

	if len(res.Rounds) == 0 {
		return res, ErrNoQualifyingData
	}
	elapsed := make([]float64, len(res.Rounds))
	for i, e := range res.Rounds {
		elapsed[i] = e.Elapsed
	}
	res.Mean = stat.Mean(elapsed, nil)
	return res, nil
}

// DensityOption narrows Density.
type DensityOption func(*densityConfig)

type densityConfig struct {
	aliveOnly bool
}

// AliveOnly drops rows of dead players.
func AliveOnly() DensityOption {
	return func(c *densityConfig) { c.aliveOnly = true }
}

// Density returns the map-plane positions of team on side inside target, in
// load order. When nothing matches it returns an empty slice and
// ErrNoQualifyingData.
func (t *Table) Density(team string, side model.Side, target Area, opts ...DensityOption) ([]model.Point, error) {
	var cfg densityConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	out := []model.Point{}
	if target == nil {
		return out, ErrNoQualifyingData
	}
	for _, r := range t.filter(team, side, target.Contains) {
		if cfg.aliveOnly && !r.Alive {
			continue
		}
		out = append(out, r.XY())
	}
	if len(out) == 0 {
		return out, ErrNoQualifyingData
	}
	return out, nil
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
