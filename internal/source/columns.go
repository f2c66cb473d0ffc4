package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/tidwall/gjson"

	"github.com/pable/go-cs-gamestate/internal/model"
)

// Columns maps record fields to source column names (or gjson paths for
// JSON-lines sources). Empty fields take the awpy name from DefaultColumns;
// set an optional field to Skip to leave it unread.
type Columns struct {
	Round    string `yaml:"round"`
	Team     string `yaml:"team"`
	Side     string `yaml:"side"`
	Tick     string `yaml:"tick"`
	X        string `yaml:"x"`
	Y        string `yaml:"y"`
	Z        string `yaml:"z"`
	Player   string `yaml:"player"`

	// Optional.
	Inventory      string `yaml:"inventory"`
	Area           string `yaml:"area"`
	Alive          string `yaml:"alive"`
	Clock          string `yaml:"clock"`
	RoundStartTick string `yaml:"round_start_tick"`
}

// Skip disables an optional column.
const Skip = "-"

// DefaultColumns matches awpy game-state frame exports.
func DefaultColumns() Columns {
	return Columns{
		Round:          "round_num",
		Team:           "team",
		Side:           "side",
		Tick:           "tick",
		X:              "x",
		Y:              "y",
		Z:              "z",
		Player:         "player",
		Inventory:      "inventory",
		Area:           "area_name",
		Alive:          "is_alive",
		Clock:          "seconds",
		RoundStartTick: "round_start_tick",
	}
}

// withDefaults fills empty columns from DefaultColumns and clears skipped
// optional ones.
func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&c.Round, d.Round)
	fill(&c.Team, d.Team)
	fill(&c.Side, d.Side)
	fill(&c.Tick, d.Tick)
	fill(&c.X, d.X)
	fill(&c.Y, d.Y)
	fill(&c.Z, d.Z)
	fill(&c.Player, d.Player)

	for _, opt := range []struct {
		dst *string
		def string
	}{
		{&c.Inventory, d.Inventory},
		{&c.Area, d.Area},
		{&c.Alive, d.Alive},
		{&c.Clock, d.Clock},
		{&c.RoundStartTick, d.RoundStartTick},
	} {
		fill(opt.dst, opt.def)
		if *opt.dst == Skip {
			*opt.dst = ""
		}
	}
	return c
}

func (c Columns) required() []string {
	return []string{c.Round, c.Team, c.Side, c.Tick, c.X, c.Y, c.Z, c.Player}
}

// cellFunc looks up a column in the current row.
type cellFunc func(col string) (string, bool)

// decodeRecord builds a record from one row. line is used in error messages.
func (c Columns) decodeRecord(line int, cell cellFunc) (model.Record, error) {
	var rec model.Record
	var err error

	get := func(col string) (string, error) {
		v, ok := cell(col)
		if !ok {
			return "", fmt.Errorf("row %d: missing column %q", line, col)
		}
		return strings.TrimSpace(v), nil
	}
	getInt := func(col string) (int, error) {
		s, err := get(col)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			// Some exports write integral columns as floats ("12.0").
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil || f != float64(int(f)) {
				return 0, fmt.Errorf("row %d: column %q: %q is not an integer", line, col, s)
			}
			n = int(f)
		}
		return n, nil
	}
	getFloat := func(col string) (float64, error) {
		s, err := get(col)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("row %d: column %q: %q is not a number", line, col, s)
		}
		return f, nil
	}

	if rec.Round, err = getInt(c.Round); err != nil {
		return rec, err
	}
	if rec.Tick, err = getInt(c.Tick); err != nil {
		return rec, err
	}
	if rec.Team, err = get(c.Team); err != nil {
		return rec, err
	}
	if rec.Player, err = get(c.Player); err != nil {
		return rec, err
	}
	side, err := get(c.Side)
	if err != nil {
		return rec, err
	}
	if rec.Side = model.ParseSide(side); rec.Side == model.SideUnknown {
		return rec, fmt.Errorf("row %d: column %q: unknown side %q", line, c.Side, side)
	}
	var pos r3.Vector
	if pos.X, err = getFloat(c.X); err != nil {
		return rec, err
	}
	if pos.Y, err = getFloat(c.Y); err != nil {
		return rec, err
	}
	if pos.Z, err = getFloat(c.Z); err != nil {
		return rec, err
	}
	rec.Position = pos

	// Optional columns: absent or empty cells keep the zero value, except
	// Alive which defaults to true.
	present := func(col string) (string, bool) {
		if col == "" {
			return "", false
		}
		v, ok := cell(col)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	rec.Alive = true
	if v, ok := present(c.Alive); ok {
		b, err := parseBool(v)
		if err != nil {
			return rec, fmt.Errorf("row %d: column %q: %w", line, c.Alive, err)
		}
		rec.Alive = b
	}
	if v, ok := present(c.Area); ok {
		rec.Area = v
	}
	if v, ok := present(c.Inventory); ok {
		rec.Inventory = ParseInventory(v)
	}
	if _, ok := present(c.Clock); ok {
		if rec.Clock, err = getFloat(c.Clock); err != nil {
			return rec, err
		}
		rec.HasClock = true
	}
	if _, ok := present(c.RoundStartTick); ok {
		if rec.RoundStartTick, err = getInt(c.RoundStartTick); err != nil {
			return rec, err
		}
		rec.HasRoundStart = true
	}
	return rec, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "t", "true", "yes", "y":
		return true, nil
	case "0", "f", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}

// ParseInventory decodes an inventory cell. A JSON array may hold item names
// or objects with "weapon_name" and "weapon_class" keys (awpy's layout);
// anything else is read as a "|"-separated list of names.
func ParseInventory(cell string) []model.Item {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "null" || cell == "[]" {
		return nil
	}
	if strings.HasPrefix(cell, "[") && gjson.Valid(cell) {
		return inventoryFromJSON(gjson.Parse(cell))
	}
	var items []model.Item
	for _, name := range strings.Split(cell, "|") {
		if name = strings.TrimSpace(name); name != "" {
			items = append(items, model.Item{Name: name})
		}
	}
	return items
}

func inventoryFromJSON(arr gjson.Result) []model.Item {
	var items []model.Item
	arr.ForEach(func(_, v gjson.Result) bool {
		switch {
		case v.IsObject():
			name := v.Get("weapon_name").String()
			if name == "" {
				name = v.Get("name").String()
			}
			items = append(items, model.Item{Name: name, Class: v.Get("weapon_class").String()})
		case v.Type == gjson.String:
			items = append(items, model.Item{Name: v.String()})
		}
		return true
	})
	return items
}
