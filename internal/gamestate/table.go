// Package gamestate holds a match's per-tick player frames in memory and
// answers positional questions about them: whether a team moves through a
// chokepoint, how long it takes an armed group to reach a bombsite, and where
// defenders stand once they are there.
//
// A Table is loaded and preprocessed once by New and is read-only afterwards,
// so it is safe for concurrent readers. Every query returns freshly allocated
// results.
package gamestate

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/rs/zerolog"

	"github.com/pable/go-cs-gamestate/internal/geometry"
	"github.com/pable/go-cs-gamestate/internal/model"
	"github.com/pable/go-cs-gamestate/internal/weapon"
)

// DefaultTickRate is the CS2 server tick rate used to turn ticks into seconds.
const DefaultTickRate = 64.0

// Source supplies the raw records of one match.
type Source interface {
	Load(ctx context.Context) ([]model.Record, error)
}

// Records is an in-memory Source.
type Records []model.Record

// Load returns a copy of the records.
func (r Records) Load(ctx context.Context) ([]model.Record, error) {
	return slices.Clone(r), ctx.Err()
}

// Row is a record plus the fields derived from it at load time.
type Row struct {
	model.Record

	// Seq is the record's position in the source, used to break tick ties.
	Seq int

	InsideRegion  bool
	WeaponClass   weapon.Class
	HasRifleOrSMG bool

	// Elapsed is the number of seconds since the start of the row's round.
	Elapsed float64
}

func (r Row) clone() Row {
	r.Inventory = slices.Clone(r.Inventory)
	return r
}

// Table is the preprocessed, immutable record set of one match.
type Table struct {
	rows       []Row
	region     geometry.Region
	tickRate   float64
	classifier *weapon.Classifier
	log        zerolog.Logger
}

// Option configures New.
type Option func(*Table)

// WithTickRate sets the ticks-per-second used for elapsed times. Values
// that are not positive are ignored.
func WithTickRate(rate float64) Option {
	return func(t *Table) {
		if rate > 0 {
			t.tickRate = rate
		}
	}
}

// WithClassifier replaces the default weapon classifier.
func WithClassifier(c *weapon.Classifier) Option {
	return func(t *Table) {
		if c != nil {
			t.classifier = c
		}
	}
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Table) { t.log = l }
}

// New validates region, loads every record from src and preprocesses them.
// Region problems yield an error matching ErrInvalidRegion, source problems
// a *LoadError. No table is returned on failure.
func New(ctx context.Context, src Source, region geometry.Region, opts ...Option) (*Table, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}
	t := &Table{
		region:     region,
		tickRate:   DefaultTickRate,
		classifier: weapon.NewClassifier(nil),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if src == nil {
		return nil, &LoadError{Err: fmt.Errorf("nil source")}
	}
	records, err := src.Load(ctx)
	if err != nil {
		return nil, &LoadError{Source: sourceName(src), Err: err}
	}
	t.preprocess(records)

	t.log.Debug().
		Int("rows", len(t.rows)).
		Str("region", region.Name).
		Float64("tick_rate", t.tickRate).
		Msg("game state loaded")
	return t, nil
}

func sourceName(src Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}

func (t *Table) preprocess(records []model.Record) {
	roundStart := make(map[int]int)
	for _, rec := range records {
		if start, ok := roundStart[rec.Round]; !ok || rec.Tick < start {
			roundStart[rec.Round] = rec.Tick
		}
	}

	t.rows = make([]Row, len(records))
	inside := 0
	for i, rec := range records {
		row := Row{Record: rec, Seq: i}
		row.Inventory = slices.Clone(rec.Inventory)
		row.InsideRegion = t.region.Contains(rec.Position)
		row.WeaponClass, row.HasRifleOrSMG = t.classifier.Inventory(rec.Inventory)
		switch {
		case rec.HasClock:
			row.Elapsed = rec.Clock
		case rec.HasRoundStart:
			row.Elapsed = float64(rec.Tick-rec.RoundStartTick) / t.tickRate
		default:
			row.Elapsed = float64(rec.Tick-roundStart[rec.Round]) / t.tickRate
		}
		if row.InsideRegion {
			inside++
		}
		t.rows[i] = row
	}
	t.log.Debug().Int("inside_region", inside).Int("rounds", len(roundStart)).Msg("preprocessed rows")
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Region returns the region the InsideRegion flag was computed against.
func (t *Table) Region() geometry.Region { return t.region }

// TickRate returns the ticks-per-second used for elapsed times.
func (t *Table) TickRate() float64 { return t.tickRate }

// Rows returns a copy of every row in load order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.clone()
	}
	return out
}

// Rounds returns the distinct round numbers in ascending order.
func (t *Table) Rounds() []int {
	seen := make(map[int]struct{})
	for _, r := range t.rows {
		seen[r.Round] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for rn := range seen {
		out = append(out, rn)
	}
	sort.Ints(out)
	return out
}

// Teams returns the distinct team names in ascending order.
func (t *Table) Teams() []string {
	seen := make(map[string]struct{})
	for _, r := range t.rows {
		seen[r.Team] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GroupCount counts rows and players for one team on one side.
type GroupCount struct {
	Team    string
	Side    model.Side
	Rows    int
	Players int
	Rounds  int
}

// Summary describes the table contents.
type Summary struct {
	Rows         int
	Rounds       int
	InsideRegion int
	Groups       []GroupCount
}

// Summary counts rows per team and side.
func (t *Table) Summary() Summary {
	type key struct {
		team string
		side model.Side
	}
	type acc struct {
		rows    int
		players map[string]struct{}
		rounds  map[int]struct{}
	}
	groups := make(map[key]*acc)
	s := Summary{Rows: len(t.rows), Rounds: len(t.Rounds())}
	for _, r := range t.rows {
		if r.InsideRegion {
			s.InsideRegion++
		}
		k := key{r.Team, r.Side}
		a, ok := groups[k]
		if !ok {
			a = &acc{players: make(map[string]struct{}), rounds: make(map[int]struct{})}
			groups[k] = a
		}
		a.rows++
		a.players[r.Player] = struct{}{}
		a.rounds[r.Round] = struct{}{}
	}
	for k, a := range groups {
		s.Groups = append(s.Groups, GroupCount{
			Team: k.team, Side: k.side, Rows: a.rows, Players: len(a.players), Rounds: len(a.rounds),
		})
	}
	sort.Slice(s.Groups, func(i, j int) bool {
		if s.Groups[i].Team != s.Groups[j].Team {
			return s.Groups[i].Team < s.Groups[j].Team
		}
		return s.Groups[i].Side < s.Groups[j].Side
	})
	return s
}

// filter returns copies of the rows of team on side that satisfy keep.
func (t *Table) filter(team string, side model.Side, keep func(Row) bool) []Row {
	var out []Row
	for _, r := range t.rows {
		if r.Team != team || r.Side != side {
			continue
		}
		if keep != nil && !keep(r) {
			continue
		}
		out = append(out, r.clone())
	}
	return out
}

// byTick orders rows by tick, then load order.
func byTick(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Tick != rows[j].Tick {
			return rows[i].Tick < rows[j].Tick
		}
		return rows[i].Seq < rows[j].Seq
	})
}
